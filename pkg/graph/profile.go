package graph

// NodeProfile is the per-category behaviour of a node.
type NodeProfile struct {
	Charge         float64 // many-body strength, negative repels
	RadialStrength float64
	RadialRadius   float64
	BoldLabel      bool
}

// EdgeProfile is the per-category behaviour of an edge.
type EdgeProfile struct {
	Distance       float64
	Strength       float64
	Dashed         bool
	Color          string
	Alpha          float64
	HighlightColor string
	HighlightAlpha float64
}

// NodeProfiles holds one entry per node category.
var NodeProfiles = map[Category]NodeProfile{
	CategoryCentral: {Charge: -2000, RadialStrength: 1, RadialRadius: 0, BoldLabel: true},
	CategoryBranch:  {Charge: -1000, RadialStrength: 0.9, RadialRadius: 200, BoldLabel: true},
	CategoryDomain:  {Charge: -500, RadialStrength: 0.7, RadialRadius: 350},
	CategoryTool:    {Charge: -300, RadialStrength: 0.5, RadialRadius: 500},
}

// EdgeProfiles holds one entry per edge category.
var EdgeProfiles = map[EdgeCategory]EdgeProfile{
	EdgePrimary: {Distance: 200, Strength: 0.8, Color: "#ffffff", Alpha: 0.2, HighlightColor: "#ffffff", HighlightAlpha: 0.6},
	EdgeBranch:  {Distance: 150, Strength: 0.6, Color: "#2ecc71", Alpha: 0.15, HighlightColor: "#2ecc71", HighlightAlpha: 0.6},
	EdgeTool:    {Distance: 100, Strength: 0.4, Color: "#9b59b6", Alpha: 0.15, HighlightColor: "#9b59b6", HighlightAlpha: 0.6},
	EdgeCross:   {Distance: 300, Strength: 0.1, Dashed: true, Color: "#f1c40f", Alpha: 0.1, HighlightColor: "#f1c40f", HighlightAlpha: 0.3},
}

// Fallbacks for categories missing from the tables.
var (
	defaultNodeProfile = NodeProfile{Charge: -400, RadialStrength: 0.6, RadialRadius: 300}
	defaultEdgeProfile = EdgeProfile{Distance: 150, Strength: 0.3, Color: "#ffffff", Alpha: 0.2, HighlightColor: "#ffffff", HighlightAlpha: 0.6}
)

// Force constants shared by every category.
const (
	ChargeDistanceMax = 1000.0
	CenterStrength    = 0.3
)

// ProfileOf returns the profile of a node category.
func ProfileOf(c Category) NodeProfile {
	if p, ok := NodeProfiles[c]; ok {
		return p
	}
	return defaultNodeProfile
}

// EdgeProfileOf returns the profile of an edge category.
func EdgeProfileOf(c EdgeCategory) EdgeProfile {
	if p, ok := EdgeProfiles[c]; ok {
		return p
	}
	return defaultEdgeProfile
}
