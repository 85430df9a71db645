// Package scene turns a simulation frame into an ordered list of shapes in
// world coordinates. Renderers only rasterize shapes; colors, sizes and the
// drawing order live here.
package scene

import (
	"fmt"

	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/sim"
)

// Sizes in world units.
const (
	CurveWidth    = 3.0
	GlowBlur      = 15.0
	GuideWidth    = 1.0
	GuideDash     = 5.0
	TangentWidth  = 2.0
	TangentDot    = 4.0
	ArrowSize     = 8.0
	FixedRadius   = 7.0
	DynamicRadius = 8.0
	OutlineWidth  = 2.0
	LabelOffset   = 20.0
	LabelSize     = 16.0
	HaloRadius    = 15.0
	PointerRadius = 8.0
)

var (
	ColorFixed   = MustHex("#f72585")
	ColorP1      = MustHex("#4cc9f0")
	ColorP2      = MustHex("#7209b7")
	ColorTangent = MustHex("#4361ee")
	ColorCurve   = ColorP1
	ColorWhite   = MustHex("#ffffff")
	ColorGuide   = ColorWhite.WithAlpha(0.3)
	ColorPointer = ColorWhite.WithAlpha(0.5)

	BackgroundTop    = MustHex("#0f1525")
	BackgroundBottom = MustHex("#0a0e18")
)

type Color struct {
	R, G, B uint8
	A       float64
}

// Hex parses #rrggbb into an opaque color.
func Hex(s string) (Color, error) {
	var c Color
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	c.A = 1
	return c, nil
}

func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Hex formats the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Shape is one of Line, Polyline, Circle, Triangle or Label.
type Shape interface {
	shape()
}

type Line struct {
	From, To bezier.Point
	Color    Color
	Width    float64
	// Dash is the dash and gap length; zero draws a solid line.
	Dash float64
}

type Polyline struct {
	Points []bezier.Point
	Color  Color
	Width  float64
	// Glow is the blur radius of a halo drawn under the line.
	Glow float64
}

type Circle struct {
	Center      bezier.Point
	Radius      float64
	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

type Triangle struct {
	A, B, C bezier.Point
	Fill    Color
}

// Label is text centered on Pos.
type Label struct {
	Pos   bezier.Point
	Text  string
	Color Color
	Size  float64
}

func (Line) shape()     {}
func (Polyline) shape() {}
func (Circle) shape()   {}
func (Triangle) shape() {}
func (Label) shape()    {}

// Scene is a frame ready to draw, back to front.
type Scene struct {
	Width, Height float64
	Top, Bottom   Color
	Shapes        []Shape
}

// Build lays out a frame: control lines, curve, tangents, control points,
// then the pointer influence. Hidden layers are left out.
func Build(f *sim.Frame) *Scene {
	s := &Scene{Width: f.Width, Height: f.Height, Top: BackgroundTop, Bottom: BackgroundBottom}
	p := [4]bezier.Point{}
	p[0], p[1], p[2], p[3] = f.Positions()

	if f.Display.ControlLines {
		s.add(
			Line{From: p[0], To: p[1], Color: ColorGuide, Width: GuideWidth, Dash: GuideDash},
			Line{From: p[2], To: p[3], Color: ColorGuide, Width: GuideWidth, Dash: GuideDash},
		)
	}

	if len(f.Curve) > 1 {
		s.add(Polyline{Points: f.Curve, Color: ColorCurve, Width: CurveWidth, Glow: GlowBlur})
	}

	if f.Display.Tangents {
		for _, t := range f.Tangents {
			s.addTangent(t, f.Display.TangentLength)
		}
	}

	if f.Display.ControlPoints {
		for i, pt := range p {
			fill, r := pointStyle(i)
			s.add(
				Circle{Center: pt, Radius: r, Fill: fill, Stroke: ColorWhite, StrokeWidth: OutlineWidth},
				Label{Pos: pt.Sub(bezier.Pt(0, LabelOffset)), Text: fmt.Sprintf("P%d", i), Color: ColorWhite, Size: LabelSize},
			)
		}
	}

	if f.Pointer.Active {
		if in := f.Influence[0]; in > 0 {
			s.add(Circle{Center: f.Points[sim.P1].Target, Radius: HaloRadius, Fill: ColorP1.WithAlpha(0.3 * in)})
		}
		if in := f.Influence[1]; in > 0 {
			s.add(Circle{Center: f.Points[sim.P2].Target, Radius: HaloRadius, Fill: ColorP2.WithAlpha(0.3 * in)})
		}
		s.add(Circle{Center: f.Pointer.Pos, Radius: PointerRadius, Fill: ColorPointer, Stroke: ColorWhite, StrokeWidth: OutlineWidth})
	}
	return s
}

func pointStyle(i int) (Color, float64) {
	switch i {
	case sim.P1:
		return ColorP1, DynamicRadius
	case sim.P2:
		return ColorP2, DynamicRadius
	default:
		return ColorFixed, FixedRadius
	}
}

func (s *Scene) add(shapes ...Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

func (s *Scene) addTangent(t bezier.Tangent, length float64) {
	tip := t.Pos.Add(t.Dir.Mul(length))
	back := tip.Sub(t.Dir.Mul(ArrowSize))
	wing := t.Dir.Perp().Mul(ArrowSize / 2)
	s.add(
		Line{From: t.Pos, To: tip, Color: ColorTangent, Width: TangentWidth},
		Circle{Center: t.Pos, Radius: TangentDot, Fill: ColorTangent},
		Triangle{A: tip, B: back.Add(wing), C: back.Sub(wing), Fill: ColorTangent},
	)
}

// Count returns how many shapes of type T the scene holds.
func Count[T Shape](s *Scene) int {
	n := 0
	for _, sh := range s.Shapes {
		if _, ok := sh.(T); ok {
			n++
		}
	}
	return n
}

// Dashes splits l into its visible segments, dash on and dash off, starting
// at From. A solid line is returned as one segment.
func (l Line) Dashes() [][2]bezier.Point {
	length := l.From.Dist(l.To)
	if l.Dash <= 0 || length <= l.Dash {
		return [][2]bezier.Point{{l.From, l.To}}
	}
	dir := l.To.Sub(l.From).Mul(1 / length)
	segs := make([][2]bezier.Point, 0, int(length/(2*l.Dash))+1)
	for at := 0.0; at < length; at += 2 * l.Dash {
		end := min(at+l.Dash, length)
		segs = append(segs, [2]bezier.Point{l.From.Add(dir.Mul(at)), l.From.Add(dir.Mul(end))})
	}
	return segs
}
