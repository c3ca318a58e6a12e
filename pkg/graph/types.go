package graph

import (
	"math"
)

// Category represents the nesting depth of a node in the skills taxonomy.
type Category string

const (
	CategoryCentral Category = "central"
	CategoryBranch  Category = "branch"
	CategoryDomain  Category = "domain"
	CategoryTool    Category = "tool"
)

// Level returns the nesting level a node of this category must have.
func (c Category) Level() int {
	switch c {
	case CategoryCentral:
		return 0
	case CategoryBranch:
		return 1
	case CategoryDomain:
		return 2
	case CategoryTool:
		return 3
	}
	return -1
}

// Valid reports whether c is one of the known node categories.
func (c Category) Valid() bool {
	return c.Level() >= 0
}

// EdgeCategory represents the semantic relationship between two nodes.
type EdgeCategory string

const (
	EdgePrimary EdgeCategory = "primary" // Central -> Branch
	EdgeBranch  EdgeCategory = "branch"  // Branch -> Domain
	EdgeTool    EdgeCategory = "tool"    // Domain -> Tool
	EdgeCross   EdgeCategory = "cross"   // Unrelated nodes, layout-inert
)

// Valid reports whether e is one of the known edge categories.
func (e EdgeCategory) Valid() bool {
	switch e {
	case EdgePrimary, EdgeBranch, EdgeTool, EdgeCross:
		return true
	}
	return false
}

// Hierarchical reports whether edges of this category define the parent relation.
func (e EdgeCategory) Hierarchical() bool {
	return e == EdgePrimary || e == EdgeBranch || e == EdgeTool
}

// Node is an immutable vertex of the skills dataset.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"` // may contain '\n' for multi-line labels
	Category Category `json:"category" yaml:"category"`
	Level    int      `json:"level" yaml:"level"`
	Weight   float64  `json:"val" yaml:"val"`
	Color    string   `json:"color" yaml:"color"`
	Details  *Details `json:"details,omitempty" yaml:"details,omitempty"`
}

// Details is optional descriptive metadata, usually carried by tools.
type Details struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Proficiency int    `json:"proficiency,omitempty" yaml:"proficiency,omitempty"` // 0-100
	Years       int    `json:"years,omitempty" yaml:"years,omitempty"`
}

// RefID implements Ref.
func (n *Node) RefID() string {
	return n.ID
}

// Edge is an immutable dataset edge between two node ids.
type Edge struct {
	Source   string       `json:"source" yaml:"source"`
	Target   string       `json:"target" yaml:"target"`
	Category EdgeCategory `json:"category" yaml:"category"`
	Weight   float64      `json:"value" yaml:"value"`
}

// Key returns the representation-independent identity of the edge.
func (e Edge) Key() LinkKey {
	return LinkKey{Source: e.Source, Target: e.Target, Category: e.Category}
}

// Vec is a 2D position or displacement.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Polar returns the point at radius r and angle theta around v.
func (v Vec) Polar(r, theta float64) Vec {
	return Vec{X: v.X + r*math.Cos(theta), Y: v.Y + r*math.Sin(theta)}
}

// Rotate returns v rotated by theta radians around c.
func (v Vec) Rotate(c Vec, theta float64) Vec {
	cos, sin := math.Cos(theta), math.Sin(theta)
	dx, dy := v.X-c.X, v.Y-c.Y
	return Vec{X: c.X + dx*cos - dy*sin, Y: c.Y + dx*sin + dy*cos}
}

// NodeRelSize scales sqrt(weight^1.1) into a rendered radius.
const NodeRelSize = 3.0

// Radius returns the rendered radius of a node with the given weight.
func Radius(weight float64) float64 {
	if weight <= 0 {
		weight = 1
	}
	return math.Sqrt(math.Pow(weight, 1.1)) * NodeRelSize
}
