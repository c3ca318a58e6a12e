package graph

// Owner identifies the subsystem allowed to write a body's position.
type Owner int

const (
	OwnerSimulation Owner = iota
	OwnerLayout
	OwnerRotation
	OwnerDrag
)

func (o Owner) String() string {
	switch o {
	case OwnerSimulation:
		return "simulation"
	case OwnerLayout:
		return "layout"
	case OwnerRotation:
		return "rotation"
	case OwnerDrag:
		return "drag"
	}
	return "unknown"
}

// Body is the mutable record of a node: position, velocity, pin and owner.
type Body struct {
	Node   *Node
	Pos    Vec
	Vel    Vec
	Pin    *Vec
	Placed bool // false until something assigns a position

	owner Owner
}

// RefID implements Ref.
func (b *Body) RefID() string {
	return b.Node.ID
}

// Owner returns the current position writer.
func (b *Body) Owner() Owner {
	return b.owner
}

// Radius returns the rendered radius of the body.
func (b *Body) Radius() float64 {
	return Radius(b.Node.Weight)
}

// Arena holds one Body per dataset node, indexed by id. All position writes
// go through Place so that a body has exactly one writer at a time.
type Arena struct {
	bodies map[string]*Body
	order  []string
}

// NewArena creates unplaced bodies for every node of ds, all owned by the
// simulation.
func NewArena(ds *Dataset) *Arena {
	a := &Arena{bodies: make(map[string]*Body, len(ds.Nodes()))}
	for _, n := range ds.Nodes() {
		a.bodies[n.ID] = &Body{Node: n}
		a.order = append(a.order, n.ID)
	}
	return a
}

// Body returns the body of id.
func (a *Arena) Body(id string) (*Body, bool) {
	b, ok := a.bodies[id]
	return b, ok
}

// Bodies returns the bodies for ids, skipping unknown ids.
func (a *Arena) Bodies(ids []string) []*Body {
	out := make([]*Body, 0, len(ids))
	for _, id := range ids {
		if b, ok := a.bodies[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// All returns every body in dataset order.
func (a *Arena) All() []*Body {
	return a.Bodies(a.order)
}

// Claim hands position writes for ids to owner.
func (a *Arena) Claim(owner Owner, ids ...string) {
	for _, id := range ids {
		if b, ok := a.bodies[id]; ok {
			b.owner = owner
		}
	}
}

// Release hands position writes for ids back to the simulation.
func (a *Arena) Release(ids ...string) {
	a.Claim(OwnerSimulation, ids...)
}

// Place writes a position if writer currently owns the body. It reports
// whether the write happened.
func (a *Arena) Place(writer Owner, id string, p Vec) bool {
	b, ok := a.bodies[id]
	if !ok || b.owner != writer {
		return false
	}
	b.Pos = p
	b.Placed = true
	return true
}

// Position returns the current position of id.
func (a *Arena) Position(id string) (Vec, bool) {
	b, ok := a.bodies[id]
	if !ok || !b.Placed {
		return Vec{}, false
	}
	return b.Pos, true
}

// Pin fixes id at p.
func (a *Arena) Pin(id string, p Vec) {
	if b, ok := a.bodies[id]; ok {
		pin := p
		b.Pin = &pin
	}
}

// Unpin releases the pins of ids.
func (a *Arena) Unpin(ids ...string) {
	for _, id := range ids {
		if b, ok := a.bodies[id]; ok {
			b.Pin = nil
		}
	}
}
