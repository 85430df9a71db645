// Package bezier evaluates cubic Bézier curves and samples them for drawing.
//
// The package is a leaf: it holds no state and every function is safe to
// call from multiple goroutines.
//
//   - [Evaluate]: curve position at parameter t
//   - [Derivative]: first derivative (tangent vector) at t
//   - [Sample]: lazy polyline approximation over t ∈ [0, 1]
//   - [Tangents]: unit tangents at an explicit set of parameters
//
// # Example
//
//	for p := range bezier.Sample(p0, p1, p2, p3, bezier.DefaultSteps) {
//		canvas.LineTo(p.X, p.Y)
//	}
//
// Outside [0, 1] the functions extrapolate; that is not an error.
package bezier
