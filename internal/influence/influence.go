// Package influence maps the pointer position to spring targets for the two
// dynamic control points.
//
// The left point follows the pointer while it is in the left half of the
// viewport and the right point while it is in the right half. The influence
// value is a triangular falloff that peaks at the matching edge and is zero
// from the center onward. Only its sign gates retargeting; the magnitude is
// left for renderers to visualize.
package influence

import (
	"math"

	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/physics"
)

// Default target positions as fractions of the viewport.
const (
	LeftFraction  = 0.3
	RightFraction = 0.7
)

// Pointer is the last known pointer state.
type Pointer struct {
	Pos    bezier.Point
	Active bool
}

// Compute returns the influence of a pointer at x on the left and right
// dynamic points. width must be positive.
func Compute(x, width, scale float64) (left, right float64) {
	nx := x / width
	left = math.Max(0, 1-2*nx) * scale
	right = math.Max(0, 2*nx-1) * scale
	return left, right
}

// Assign retargets left and right from an active pointer and returns the
// influences it computed. A point whose influence is positive gets the
// pointer position as its target; the other keeps its previous target.
// Inactive pointers change nothing.
func Assign(ptr Pointer, width, scale float64, left, right *physics.ControlPoint) (float64, float64) {
	if !ptr.Active {
		return 0, 0
	}
	il, ir := Compute(ptr.Pos.X, width, scale)
	if il > 0 {
		left.Target = ptr.Pos
	}
	if ir > 0 {
		right.Target = ptr.Pos
	}
	return il, ir
}

// DefaultTargets returns the rest targets for a width×height viewport.
func DefaultTargets(width, height float64) (left, right bezier.Point) {
	left = bezier.Pt(width*LeftFraction, height*LeftFraction)
	right = bezier.Pt(width*RightFraction, height*RightFraction)
	return left, right
}

// Reset puts both targets back on their defaults.
func Reset(width, height float64, left, right *physics.ControlPoint) {
	left.Target, right.Target = DefaultTargets(width, height)
}
