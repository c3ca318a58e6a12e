package graph

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidDataset wraps every dataset validation failure.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrUnknownNode is returned for ids that are not part of the dataset.
	ErrUnknownNode = errors.New("unknown node")
)

// Document is the serialized form of a dataset.
type Document struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Dataset is the immutable skills graph. It owns its nodes and edges and
// keeps an adjacency index for the parent relation.
type Dataset struct {
	nodes    []*Node
	edges    []Edge
	byID     map[string]*Node
	parent   map[string]string   // child id -> parent id, hierarchical edges only
	children map[string][]string // parent id -> child ids in edge order
	central  *Node
	problems []error
}

type options struct {
	lenient bool
}

// Option configures NewDataset.
type Option func(*options)

// Lenient keeps dangling references and hierarchy mismatches as recorded
// problems instead of failing construction. Duplicate ids and a missing or
// repeated central node are always fatal.
func Lenient() Option {
	return func(o *options) { o.lenient = true }
}

// NewDataset validates and indexes a dataset.
func NewDataset(nodes []Node, edges []Edge, opts ...Option) (*Dataset, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	d := &Dataset{
		byID:     make(map[string]*Node, len(nodes)),
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node %d has an empty id", ErrInvalidDataset, i)
		}
		if _, dup := d.byID[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidDataset, n.ID)
		}
		if n.Category == CategoryCentral {
			if d.central != nil {
				return nil, fmt.Errorf("%w: more than one central node (%q, %q)", ErrInvalidDataset, d.central.ID, n.ID)
			}
			if n.Level != 0 {
				return nil, fmt.Errorf("%w: central node %q must have level 0, got %d", ErrInvalidDataset, n.ID, n.Level)
			}
		}
		if n.Details != nil {
			details := *n.Details
			n.Details = &details
		}
		node := &n
		d.nodes = append(d.nodes, node)
		d.byID[n.ID] = node
		if n.Category == CategoryCentral {
			d.central = node
		}
	}
	if d.central == nil {
		return nil, fmt.Errorf("%w: no central node", ErrInvalidDataset)
	}

	d.edges = append(d.edges, edges...)
	d.problems = d.index()

	if len(d.problems) > 0 && !o.lenient {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, errors.Join(d.problems...))
	}
	return d, nil
}

// index builds the parent relation and returns every consistency problem.
func (d *Dataset) index() []error {
	var problems []error

	for _, n := range d.nodes {
		if !n.Category.Valid() {
			problems = append(problems, fmt.Errorf("node %q: unknown category %q", n.ID, n.Category))
		} else if n.Category.Level() != n.Level {
			problems = append(problems, fmt.Errorf("node %q: category %s requires level %d, got %d", n.ID, n.Category, n.Category.Level(), n.Level))
		}
		if n.Weight <= 0 {
			problems = append(problems, fmt.Errorf("node %q: weight must be positive", n.ID))
		}
		if det := n.Details; det != nil {
			if det.Proficiency < 0 || det.Proficiency > 100 {
				problems = append(problems, fmt.Errorf("node %q: proficiency %d outside 0..100", n.ID, det.Proficiency))
			}
			if det.Years < 0 {
				problems = append(problems, fmt.Errorf("node %q: negative years of experience", n.ID))
			}
		}
	}

	for i, e := range d.edges {
		if !e.Category.Valid() {
			problems = append(problems, fmt.Errorf("edge %d (%s -> %s): unknown category %q", i, e.Source, e.Target, e.Category))
			continue
		}
		src, okS := d.byID[e.Source]
		dst, okT := d.byID[e.Target]
		if !okS || !okT {
			problems = append(problems, fmt.Errorf("edge %d (%s -> %s): %w", i, e.Source, e.Target, ErrUnknownNode))
			continue
		}
		if !e.Category.Hierarchical() {
			continue
		}
		if dst.Level != src.Level+1 {
			problems = append(problems, fmt.Errorf("edge %d (%s -> %s): target level %d is not source level %d + 1", i, e.Source, e.Target, dst.Level, src.Level))
			continue
		}
		if prev, ok := d.parent[e.Target]; ok {
			problems = append(problems, fmt.Errorf("node %q: more than one parent (%q, %q)", e.Target, prev, e.Source))
			continue
		}
		d.parent[e.Target] = e.Source
		d.children[e.Source] = append(d.children[e.Source], e.Target)
	}

	for _, n := range d.nodes {
		if n.Category == CategoryCentral {
			continue
		}
		if _, ok := d.parent[n.ID]; !ok {
			problems = append(problems, fmt.Errorf("node %q: no parent edge", n.ID))
		}
	}
	return problems
}

// Problems returns the consistency problems tolerated by a Lenient dataset.
func (d *Dataset) Problems() []error {
	return d.problems
}

// Nodes returns the dataset nodes in declaration order.
func (d *Dataset) Nodes() []*Node {
	return d.nodes
}

// Edges returns a copy of the dataset edges in declaration order.
func (d *Dataset) Edges() []Edge {
	out := make([]Edge, len(d.edges))
	copy(out, d.edges)
	return out
}

// Node looks up a node by id.
func (d *Dataset) Node(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Central returns the single level-0 node.
func (d *Dataset) Central() *Node {
	return d.central
}

// Parent returns the parent id defined by the hierarchical edge targeting id.
func (d *Dataset) Parent(id string) (string, bool) {
	p, ok := d.parent[id]
	return p, ok
}

// Children returns the direct hierarchical children of id.
func (d *Dataset) Children(id string) []string {
	return d.children[id]
}

// Tools returns the ids of every level-3 node in declaration order.
func (d *Dataset) Tools() []string {
	var ids []string
	for _, n := range d.nodes {
		if n.Level == 3 {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// DescendantTools returns the level-3 nodes reachable from id through
// hierarchical edges, sorted by id. Cross edges are never followed.
func (d *Dataset) DescendantTools(id string) []string {
	seen := make(map[string]struct{})
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, child := range d.children[cur] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			n := d.byID[child]
			if n.Level == 3 {
				out = append(out, child)
				continue
			}
			walk(child)
		}
	}
	walk(id)
	sort.Strings(out)
	return out
}

// Neighbors returns the ids sharing any edge with id across the full dataset.
func (d *Dataset) Neighbors(id string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range d.edges {
		var other string
		switch id {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}
		if _, ok := d.byID[other]; !ok {
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out
}

// Document returns the serializable form of the dataset.
func (d *Dataset) Document() Document {
	doc := Document{Edges: d.Edges()}
	for _, n := range d.nodes {
		doc.Nodes = append(doc.Nodes, *n)
	}
	return doc
}
