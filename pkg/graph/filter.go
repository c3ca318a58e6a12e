package graph

// Ref is an edge endpoint. Endpoints start out as raw ids and may be
// rewritten in place to resolved records (*Body) by the simulation.
type Ref interface {
	RefID() string
}

// ID is an unresolved endpoint.
type ID string

// RefID implements Ref.
func (id ID) RefID() string {
	return string(id)
}

// RefID extracts the node id from either endpoint representation.
// A nil endpoint resolves to "".
func RefID(r Ref) string {
	if r == nil {
		return ""
	}
	return r.RefID()
}

// LinkKey identifies a link independently of how its endpoints are stored.
type LinkKey struct {
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Category EdgeCategory `json:"category"`
}

// Link is a runtime edge of a Filtered graph.
type Link struct {
	Source   Ref
	Target   Ref
	Category EdgeCategory
	Weight   float64
}

// SourceID returns the id of the source endpoint.
func (l *Link) SourceID() string { return RefID(l.Source) }

// TargetID returns the id of the target endpoint.
func (l *Link) TargetID() string { return RefID(l.Target) }

// Key returns the link identity.
func (l *Link) Key() LinkKey {
	return LinkKey{Source: l.SourceID(), Target: l.TargetID(), Category: l.Category}
}

// Filtered is the subset of the dataset eligible for rendering.
type Filtered struct {
	Nodes []*Node `json:"nodes"`
	Links []*Link `json:"-"`
}

// Has reports whether id is a visible node.
func (f *Filtered) Has(id string) bool {
	if f == nil {
		return false
	}
	for _, n := range f.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// IDs returns the visible node ids in dataset order.
func (f *Filtered) IDs() []string {
	ids := make([]string, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// Keys returns the visible link keys in dataset order.
func (f *Filtered) Keys() []LinkKey {
	keys := make([]LinkKey, 0, len(f.Links))
	for _, l := range f.Links {
		keys = append(keys, l.Key())
	}
	return keys
}

// Edges returns the visible links in serialized form.
func (f *Filtered) Edges() []Edge {
	out := make([]Edge, 0, len(f.Links))
	for _, l := range f.Links {
		out = append(out, Edge{Source: l.SourceID(), Target: l.TargetID(), Category: l.Category, Weight: l.Weight})
	}
	return out
}

// Filter derives the Filtered graph for a disclosure set: every node with
// level <= 2 plus the disclosed tools, and every edge whose endpoints are both
// visible. The result is rebuilt from scratch on every call.
func (d *Dataset) Filter(disclosed map[string]struct{}) *Filtered {
	f := &Filtered{}
	visible := make(map[string]struct{}, len(d.nodes))
	for _, n := range d.nodes {
		if n.Level <= 2 {
			visible[n.ID] = struct{}{}
			f.Nodes = append(f.Nodes, n)
			continue
		}
		if _, ok := disclosed[n.ID]; ok {
			visible[n.ID] = struct{}{}
			f.Nodes = append(f.Nodes, n)
		}
	}

	for _, e := range d.edges {
		_, okS := visible[e.Source]
		_, okT := visible[e.Target]
		if !okS || !okT {
			continue
		}
		f.Links = append(f.Links, &Link{
			Source:   ID(e.Source),
			Target:   ID(e.Target),
			Category: e.Category,
			Weight:   e.Weight,
		})
	}
	return f
}
