// Package physics moves the dynamic control points of the curve.
//
// A dynamic [ControlPoint] is pulled toward its target by a [Spring]:
//
//	a = -k*(pos - target) - damping*vel
//	vel += a
//	pos += vel
//
// and then kept inside [Bounds], bouncing off the margin with half its
// speed. This is a stylized oscillator, not a mass-spring model: damping
// acts on velocity directly and the step is defined per frame.
//
// Three [Integrator]s decide how many steps a frame takes:
//
//   - [Tick]: one step per frame (motion speed follows the refresh rate)
//   - [FixedStep]: one step per elapsed reference tick
//   - [Harmonic]: closed-form damped spring over the real frame time
//
// Fixed points are never moved by any of them.
package physics
