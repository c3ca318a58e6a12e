// Package highlight computes the one-hop neighbourhood of a hovered node in
// the filtered graph.
package highlight

import (
	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Set is an immutable highlight result.
type Set struct {
	Hovered string
	Nodes   map[string]struct{}
	Links   map[graph.LinkKey]struct{}
}

// HasNode reports whether id is highlighted.
func (s Set) HasNode(id string) bool {
	_, ok := s.Nodes[id]
	return ok
}

// HasLink reports whether the link identified by k is highlighted.
func (s Set) HasLink(k graph.LinkKey) bool {
	_, ok := s.Links[k]
	return ok
}

// Active reports whether anything is hovered.
func (s Set) Active() bool {
	return s.Hovered != ""
}

// Engine holds the current highlight set.
type Engine struct {
	current Set
}

// Hover replaces the current set with the neighbourhood of id in f. An empty
// id, or one that is not visible in f, clears the set.
func (e *Engine) Hover(f *graph.Filtered, id string) Set {
	if id == "" || !f.Has(id) {
		e.current = Set{}
		return e.current
	}

	next := Set{
		Hovered: id,
		Nodes:   map[string]struct{}{id: {}},
		Links:   make(map[graph.LinkKey]struct{}),
	}
	for _, l := range f.Links {
		src, dst := graph.RefID(l.Source), graph.RefID(l.Target)
		switch id {
		case src:
			next.Nodes[dst] = struct{}{}
		case dst:
			next.Nodes[src] = struct{}{}
		default:
			continue
		}
		next.Links[l.Key()] = struct{}{}
	}
	e.current = next
	return next
}

// Clear empties the current set.
func (e *Engine) Clear() {
	e.current = Set{}
}

// Current returns the current set.
func (e *Engine) Current() Set {
	return e.current
}
