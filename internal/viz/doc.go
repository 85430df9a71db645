// Package viz renders the simulation in a terminal.
//
// [Canvas] rasterizes scenes onto braille dots, two by four per cell, and
// [Model] is a Bubble Tea program that drives a loop from terminal mouse
// events.
//
// # Key Bindings
//
//	t      - toggle tangents
//	c      - toggle control lines
//	p      - toggle control points
//	tab    - select the next parameter
//	up/k   - increase the selected parameter by 5%
//	down/j - decrease the selected parameter by 5%
//	r      - reset points and parameters
//	space  - pause/resume
//	T      - cycle panel themes
//	q      - quit
//
// The pointer leaves the curve when the mouse moves off the canvas or the
// terminal loses focus.
package viz
