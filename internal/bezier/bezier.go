package bezier

// Evaluate returns the point of the cubic curve p0..p3 at parameter t using
// the Bernstein basis (1-t)³, 3(1-t)²t, 3(1-t)t², t³.
func Evaluate(t float64, p0, p1, p2, p3 Point) Point {
	// the basis weights do not sum to exactly 1 in floating point
	if p0 == p1 && p1 == p2 && p2 == p3 {
		return p0
	}

	u := 1 - t
	u2 := u * u
	u3 := u2 * u
	t2 := t * t
	t3 := t2 * t

	b1 := 3 * u2 * t
	b2 := 3 * u * t2

	return Point{
		X: u3*p0.X + b1*p1.X + b2*p2.X + t3*p3.X,
		Y: u3*p0.Y + b1*p1.Y + b2*p2.Y + t3*p3.Y,
	}
}

// Derivative returns the first derivative of the curve at t:
//
//	3(1-t)²(p1-p0) + 6(1-t)t(p2-p1) + 3t²(p3-p2)
//
// The result is the zero vector for degenerate input, so callers must check
// its length before normalizing.
func Derivative(t float64, p0, p1, p2, p3 Point) Point {
	u := 1 - t
	a := 3 * u * u
	b := 6 * u * t
	c := 3 * t * t

	return Point{
		X: a*(p1.X-p0.X) + b*(p2.X-p1.X) + c*(p3.X-p2.X),
		Y: a*(p1.Y-p0.Y) + b*(p2.Y-p1.Y) + c*(p3.Y-p2.Y),
	}
}
