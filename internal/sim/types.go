package sim

import (
	"slices"

	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/influence"
	"github.com/san-kum/bezspring/internal/physics"
)

// Control point indices in the curve layout.
const (
	P0 = iota
	P1
	P2
	P3
)

// Phase is the loop lifecycle state.
type Phase uint8

const (
	Idle Phase = iota
	Running
)

func (p Phase) String() string {
	if p == Running {
		return "running"
	}
	return "idle"
}

// Params are the live-adjustable simulation parameters.
type Params struct {
	SpringConstant float64 `json:"spring_constant"`
	Damping        float64 `json:"damping"`
	MouseInfluence float64 `json:"mouse_influence"`
}

func DefaultParams() Params {
	return Params{
		SpringConstant: physics.DefaultSpringConstant,
		Damping:        physics.DefaultDamping,
		MouseInfluence: physics.DefaultMouseInfluence,
	}
}

// Display holds the renderer toggles carried on every frame.
type Display struct {
	Tangents      bool
	ControlLines  bool
	ControlPoints bool
	TangentLength float64
}

func DefaultDisplay() Display {
	return Display{
		Tangents:      true,
		ControlLines:  true,
		ControlPoints: true,
		TangentLength: 108,
	}
}

// Frame is everything a renderer needs to draw one tick. The loop reuses
// the Curve and Tangents buffers, so a Frame is only valid until the next
// tick; use Clone to keep one.
type Frame struct {
	Index     int
	Timestamp float64
	Delta     float64
	FPS       float64

	Width, Height float64

	Points   [4]physics.ControlPoint
	Curve    []bezier.Point
	Tangents []bezier.Tangent

	Pointer influence.Pointer
	// Influence holds the unscaled left/right influence of an active pointer.
	Influence [2]float64
	Contacts  int

	Params  Params
	Display Display
}

func (f *Frame) Clone() *Frame {
	c := *f
	c.Curve = slices.Clone(f.Curve)
	c.Tangents = slices.Clone(f.Tangents)
	return &c
}

// Positions returns the four control point positions in curve order.
func (f *Frame) Positions() (p0, p1, p2, p3 bezier.Point) {
	return f.Points[P0].Pos, f.Points[P1].Pos, f.Points[P2].Pos, f.Points[P3].Pos
}

// Renderer draws frames. It must not keep the frame past the call.
type Renderer interface {
	Render(f *Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f *Frame)

func (fn RendererFunc) Render(f *Frame) { fn(f) }

type Observer interface {
	OnFrame(f *Frame)
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

