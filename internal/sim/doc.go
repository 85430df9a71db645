// Package sim runs the per-frame cycle of the spring-driven curve.
//
// A [Loop] owns the four control points, the pointer state and the
// live parameters. Each call to [Loop.Tick]:
//
//  1. retargets the dynamic points from the pointer (package influence)
//  2. advances them with the configured integrator (package physics)
//  3. samples the curve and its tangents (package bezier)
//  4. passes the resulting [Frame] to metrics and observers
//
// Scheduling is up to the caller: a terminal program ticks on a timer, a
// window loop ticks once per redraw, and scenarios tick with synthetic
// timestamps. The loop is Idle until its first tick and Running after.
package sim
