package physics

import "github.com/san-kum/bezspring/internal/bezier"

// Kind tells fixed curve endpoints from spring-driven control points.
type Kind uint8

const (
	Fixed Kind = iota
	Dynamic
)

func (k Kind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ControlPoint is one of the four points defining the curve. Vel and Target
// are only meaningful for Dynamic points and stay zero on Fixed ones.
type ControlPoint struct {
	Kind   Kind
	Pos    bezier.Point
	Vel    bezier.Point
	Target bezier.Point
}

func NewFixed(pos bezier.Point) ControlPoint {
	return ControlPoint{Kind: Fixed, Pos: pos}
}

// NewDynamic returns a point at rest on its own target.
func NewDynamic(pos bezier.Point) ControlPoint {
	return ControlPoint{Kind: Dynamic, Pos: pos, Target: pos}
}

// KineticEnergy is ½|v|² for a unit mass.
func (p ControlPoint) KineticEnergy() float64 {
	return 0.5 * p.Vel.Dot(p.Vel)
}

// Displacement is the distance between the point and its target.
func (p ControlPoint) Displacement() float64 {
	if p.Kind != Dynamic {
		return 0
	}
	return p.Pos.Dist(p.Target)
}
