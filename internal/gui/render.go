package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/scene"
)

const (
	circleSegments = 36
	glowLayers     = 4
)

func toRL(c scene.Color) rl.Color {
	a := math.Round(math.Min(math.Max(c.A, 0), 1) * 255)
	return rl.NewColor(c.R, c.G, c.B, uint8(a))
}

func vec(p bezier.Point) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

// DrawScene draws s at one pixel per world unit. It must be called between
// BeginDrawing and EndDrawing.
func DrawScene(s *scene.Scene) {
	rl.DrawRectangleGradientV(0, 0, int32(s.Width), int32(s.Height), toRL(s.Top), toRL(s.Bottom))

	for _, sh := range s.Shapes {
		switch sh := sh.(type) {
		case scene.Line:
			col := toRL(sh.Color)
			for _, seg := range sh.Dashes() {
				rl.DrawLineEx(vec(seg[0]), vec(seg[1]), float32(sh.Width), col)
			}
		case scene.Polyline:
			drawPolyline(sh)
		case scene.Circle:
			drawCircle(sh)
		case scene.Triangle:
			col := toRL(sh.Fill)
			// raylib only fills counter-clockwise triangles
			rl.DrawTriangle(vec(sh.A), vec(sh.B), vec(sh.C), col)
			rl.DrawTriangle(vec(sh.A), vec(sh.C), vec(sh.B), col)
		case scene.Label:
			size := int32(sh.Size)
			w := rl.MeasureText(sh.Text, size)
			rl.DrawText(sh.Text, int32(sh.Pos.X)-w/2, int32(sh.Pos.Y)-size/2, size, toRL(sh.Color))
		}
	}
}

func drawPolyline(p scene.Polyline) {
	if p.Glow > 0 {
		for i := glowLayers; i > 0; i-- {
			width := float32(p.Width + p.Glow*float64(i)/glowLayers)
			col := toRL(p.Color.WithAlpha(0.08))
			for j := 1; j < len(p.Points); j++ {
				rl.DrawLineEx(vec(p.Points[j-1]), vec(p.Points[j]), width, col)
			}
		}
	}
	col := toRL(p.Color)
	for j := 1; j < len(p.Points); j++ {
		rl.DrawLineEx(vec(p.Points[j-1]), vec(p.Points[j]), float32(p.Width), col)
	}
}

func drawCircle(c scene.Circle) {
	center := vec(c.Center)
	if c.Fill.A > 0 {
		rl.DrawCircleV(center, float32(c.Radius), toRL(c.Fill))
	}
	if c.StrokeWidth > 0 {
		half := float32(c.StrokeWidth / 2)
		r := float32(c.Radius)
		rl.DrawRing(center, r-half, r+half, 0, 360, circleSegments, toRL(c.Stroke))
	}
}
