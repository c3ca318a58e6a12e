// Package visibility tracks which tool nodes are disclosed and derives the
// filtered graph from the disclosure set.
package visibility

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// ErrNotExpandable is returned when toggling a node that has no tools below it
// by construction (a level-3 node).
var ErrNotExpandable = errors.New("node is not expandable")

// State is the disclosure set over a dataset. A State is never mutated in
// place: every operation installs a freshly built set, so a map obtained
// from an earlier call stays unchanged.
type State struct {
	ds  *graph.Dataset
	set map[string]struct{}
}

// New returns an empty disclosure state.
func New(ds *graph.Dataset) *State {
	return &State{ds: ds, set: map[string]struct{}{}}
}

// Toggle flips the disclosure of every tool below id. Domains flip their own
// tools, branches the tools of their domains, and the central node every tool.
func (s *State) Toggle(id string) error {
	n, ok := s.ds.Node(id)
	if !ok {
		return fmt.Errorf("toggle %q: %w", id, graph.ErrUnknownNode)
	}
	if n.Level > 2 {
		return fmt.Errorf("toggle %q: %w", id, ErrNotExpandable)
	}

	next := s.copySet()
	for _, tool := range s.ds.DescendantTools(id) {
		if _, ok := next[tool]; ok {
			delete(next, tool)
		} else {
			next[tool] = struct{}{}
		}
	}
	s.set = next
	return nil
}

// Expand returns a state with every tool disclosed when all is set, otherwise
// with each id toggled in order. The first failing toggle is returned.
func Expand(ds *graph.Dataset, all bool, ids ...string) (*State, error) {
	s := New(ds)
	if all {
		s.ShowAll()
		return s, nil
	}
	for _, id := range ids {
		if err := s.Toggle(id); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ShowAll discloses every tool in the dataset.
func (s *State) ShowAll() {
	next := make(map[string]struct{})
	for _, id := range s.ds.Tools() {
		next[id] = struct{}{}
	}
	s.set = next
}

// Reset hides every tool.
func (s *State) Reset() {
	s.set = map[string]struct{}{}
}

// Has reports whether tool id is disclosed.
func (s *State) Has(id string) bool {
	_, ok := s.set[id]
	return ok
}

// Len returns the number of disclosed tools.
func (s *State) Len() int {
	return len(s.set)
}

// Disclosed returns the disclosed tool ids, sorted.
func (s *State) Disclosed() []string {
	out := make([]string, 0, len(s.set))
	for id := range s.set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Filtered rebuilds the filtered graph for the current set.
func (s *State) Filtered() *graph.Filtered {
	return s.ds.Filter(s.set)
}

func (s *State) copySet() map[string]struct{} {
	next := make(map[string]struct{}, len(s.set))
	for id := range s.set {
		next[id] = struct{}{}
	}
	return next
}
