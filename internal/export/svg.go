// Package export writes frames and recorded runs as standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/scene"
	"github.com/san-kum/bezspring/internal/sim"
)

func header(sb *strings.Builder, s *scene.Scene) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<defs>
<linearGradient id="bg" x1="0" y1="0" x2="0" y2="1">
<stop offset="0" stop-color="%s"/>
<stop offset="1" stop-color="%s"/>
</linearGradient>
<filter id="glow" x="-20%%" y="-20%%" width="140%%" height="140%%">
<feGaussianBlur stdDeviation="%s"/>
</filter>
</defs>
<rect width="100%%" height="100%%" fill="url(#bg)"/>
`, s.Width, s.Height, s.Width, s.Height, s.Top.Hex(), s.Bottom.Hex(), num(scene.GlowBlur/2))
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func paint(attr string, c scene.Color) string {
	if c.A >= 1 {
		return fmt.Sprintf(`%s="%s"`, attr, c.Hex())
	}
	return fmt.Sprintf(`%s="%s" %s-opacity="%s"`, attr, c.Hex(), attr, num(c.A))
}

func points(ps []bezier.Point) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// SceneToSVG draws every shape of s in order.
func SceneToSVG(s *scene.Scene) string {
	var sb strings.Builder
	header(&sb, s)

	for _, sh := range s.Shapes {
		switch sh := sh.(type) {
		case scene.Line:
			fmt.Fprintf(&sb, `<line x1="%s" y1="%s" x2="%s" y2="%s" %s stroke-width="%s"`,
				num(sh.From.X), num(sh.From.Y), num(sh.To.X), num(sh.To.Y), paint("stroke", sh.Color), num(sh.Width))
			if sh.Dash > 0 {
				fmt.Fprintf(&sb, ` stroke-dasharray="%s %s"`, num(sh.Dash), num(sh.Dash))
			}
			sb.WriteString("/>\n")
		case scene.Polyline:
			attrs := fmt.Sprintf(`fill="none" %s stroke-width="%s" stroke-linejoin="round" stroke-linecap="round"`,
				paint("stroke", sh.Color), num(sh.Width))
			if sh.Glow > 0 {
				fmt.Fprintf(&sb, "<polyline points=\"%s\" %s filter=\"url(#glow)\"/>\n", points(sh.Points), attrs)
			}
			fmt.Fprintf(&sb, "<polyline points=\"%s\" %s/>\n", points(sh.Points), attrs)
		case scene.Circle:
			fmt.Fprintf(&sb, `<circle cx="%s" cy="%s" r="%s" %s`,
				num(sh.Center.X), num(sh.Center.Y), num(sh.Radius), paint("fill", sh.Fill))
			if sh.StrokeWidth > 0 {
				fmt.Fprintf(&sb, ` %s stroke-width="%s"`, paint("stroke", sh.Stroke), num(sh.StrokeWidth))
			}
			sb.WriteString("/>\n")
		case scene.Triangle:
			fmt.Fprintf(&sb, "<polygon points=\"%s\" %s/>\n",
				points([]bezier.Point{sh.A, sh.B, sh.C}), paint("fill", sh.Fill))
		case scene.Label:
			fmt.Fprintf(&sb, `<text x="%s" y="%s" %s font-family="sans-serif" font-size="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
				num(sh.Pos.X), num(sh.Pos.Y), paint("fill", sh.Color), num(sh.Size), escape(sh.Text))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// FrameToSVG renders one frame the way the live views draw it.
func FrameToSVG(f *sim.Frame) string {
	return SceneToSVG(scene.Build(f))
}

// TrajectoryToSVG overlays the paths the dynamic control points took over
// a run on top of the last frame.
func TrajectoryToSVG(frames []*sim.Frame) string {
	if len(frames) == 0 {
		return ""
	}
	last := frames[len(frames)-1]
	s := scene.Build(last)

	trails := [2][]bezier.Point{}
	for _, f := range frames {
		trails[0] = append(trails[0], f.Points[sim.P1].Pos)
		trails[1] = append(trails[1], f.Points[sim.P2].Pos)
	}
	colors := [2]scene.Color{scene.ColorP1, scene.ColorP2}

	var overlay []scene.Shape
	for i, trail := range trails {
		if len(trail) > 1 {
			overlay = append(overlay, scene.Polyline{Points: trail, Color: colors[i].WithAlpha(0.5), Width: 1})
		}
	}
	s.Shapes = append(overlay, s.Shapes...)
	return SceneToSVG(s)
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
