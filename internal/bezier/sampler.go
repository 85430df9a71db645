package bezier

import "iter"

// DefaultSteps is the number of polyline segments used to draw the curve.
const DefaultSteps = 100

// DefaultTangentParams are the parameters at which tangents are shown.
var DefaultTangentParams = []float64{0, 0.2, 0.4, 0.6, 0.8, 1}

// Tangent is a point on the curve together with the unit direction of the
// curve at that point.
type Tangent struct {
	T   float64
	Pos Point
	Dir Point
}

// Sample returns the curve as steps+1 points at t = i/steps, i = 0..steps.
// The sequence is lazy and can be ranged over any number of times; each
// pass evaluates the curve again. steps < 1 is treated as 1.
func Sample(p0, p1, p2, p3 Point, steps int) iter.Seq[Point] {
	if steps < 1 {
		steps = 1
	}
	return func(yield func(Point) bool) {
		for i := 0; i <= steps; i++ {
			// i/steps keeps the last parameter at exactly 1
			t := float64(i) / float64(steps)
			if !yield(Evaluate(t, p0, p1, p2, p3)) {
				return
			}
		}
	}
}

// Tangents evaluates position and unit tangent at each t in ts. Parameters
// where the derivative vanishes have no direction and are skipped.
func Tangents(p0, p1, p2, p3 Point, ts []float64) iter.Seq[Tangent] {
	return func(yield func(Tangent) bool) {
		for _, t := range ts {
			dir, ok := Derivative(t, p0, p1, p2, p3).Normalized()
			if !ok {
				continue
			}
			tg := Tangent{T: t, Pos: Evaluate(t, p0, p1, p2, p3), Dir: dir}
			if !yield(tg) {
				return
			}
		}
	}
}
