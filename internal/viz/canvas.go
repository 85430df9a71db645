package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/scene"
	"github.com/san-kum/bezspring/internal/sim"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// minAlpha is the faintest fill still drawn; braille has no blending.
const minAlpha = 0.05

// Canvas is a braille dot grid of Width x Height cells, i.e. Width*2 by
// Height*4 dots. Each cell remembers the color of the last dot or text
// written to it.
type Canvas struct {
	Width, Height int

	cells [][]rune
	ink   [][]string
	text  [][]bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.cells = make([][]rune, h)
	c.ink = make([][]string, h)
	c.text = make([][]bool, h)
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
		c.ink[i] = make([]string, w)
		c.text[i] = make([]bool, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBlank
			c.ink[i][j] = ""
			c.text[i][j] = false
		}
	}
}

// Set turns on the dot at (x, y). Dots outside the canvas or under text are
// ignored.
func (c *Canvas) Set(x, y int, col scene.Color) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.Width || cy >= c.Height || c.text[cy][cx] {
		return
	}
	c.cells[cy][cx] |= dotBits[y%4][x%2]
	c.ink[cy][cx] = col.Hex()
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	cell := c.cells[y/4][x/2]
	return !c.text[y/4][x/2] && cell&dotBits[y%4][x%2] != 0
}

// DrawLine draws a Bresenham line. With dash > 0 it alternates dash dots on
// and dash dots off.
func (c *Canvas) DrawLine(x0, y0, x1, y1, dash int, col scene.Color) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for n := 0; ; n++ {
		if dash <= 0 || (n/dash)%2 == 0 {
			c.Set(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle sets every dot within r of the center.
func (c *Canvas) FillCircle(cx, cy, r int, col scene.Color) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Set(cx+x, cy+y, col)
			}
		}
	}
}

// StrokeCircle draws the outline of a circle.
func (c *Canvas) StrokeCircle(cx, cy, r int, col scene.Color) {
	if r <= 0 {
		c.Set(cx, cy, col)
		return
	}
	steps := max(8, int(2*math.Pi*float64(r)))
	px, py := cx+r, cy
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Round(float64(r)*math.Cos(a)))
		y := cy + int(math.Round(float64(r)*math.Sin(a)))
		c.DrawLine(px, py, x, y, 0, col)
		px, py = x, y
	}
}

// Text writes s into the cells starting at (col, row), replacing any dots.
func (c *Canvas) Text(col, row int, s string, color scene.Color) {
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range []rune(s) {
		x := col + i
		if x < 0 || x >= c.Width {
			continue
		}
		c.cells[row][x] = r
		c.ink[row][x] = color.Hex()
		c.text[row][x] = true
	}
}

// String returns the canvas without colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render returns the canvas with each run of same-colored cells styled by
// lipgloss.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.cells {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.ink[i][j] == c.ink[i][start] {
				continue
			}
			run := string(row[start:j])
			if ink := c.ink[i][start]; ink != "" {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(ink)).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// projection maps world coordinates onto dots.
type projection struct {
	sx, sy float64
}

func (p projection) point(pt bezier.Point) (int, int) {
	return int(math.Floor(pt.X * p.sx)), int(math.Floor(pt.Y * p.sy))
}

func (p projection) length(l float64) int {
	return int(math.Round(l * (p.sx + p.sy) / 2))
}

// DrawScene clears the canvas and rasterizes s, stretched to fill it.
func (c *Canvas) DrawScene(s *scene.Scene) {
	c.Clear()
	if s.Width <= 0 || s.Height <= 0 {
		return
	}
	w, h := c.Dots()
	proj := projection{sx: float64(w) / s.Width, sy: float64(h) / s.Height}

	for _, sh := range s.Shapes {
		switch sh := sh.(type) {
		case scene.Line:
			x0, y0 := proj.point(sh.From)
			x1, y1 := proj.point(sh.To)
			dash := 0
			if sh.Dash > 0 {
				dash = max(1, proj.length(sh.Dash))
			}
			c.DrawLine(x0, y0, x1, y1, dash, sh.Color)
		case scene.Polyline:
			for i := 1; i < len(sh.Points); i++ {
				x0, y0 := proj.point(sh.Points[i-1])
				x1, y1 := proj.point(sh.Points[i])
				c.DrawLine(x0, y0, x1, y1, 0, sh.Color)
			}
		case scene.Circle:
			x, y := proj.point(sh.Center)
			r := proj.length(sh.Radius)
			switch {
			case sh.Fill.A >= 1:
				c.FillCircle(x, y, r, sh.Fill)
			case sh.Fill.A >= minAlpha:
				c.StrokeCircle(x, y, r, sh.Fill)
			case sh.StrokeWidth > 0:
				c.StrokeCircle(x, y, r, sh.Stroke)
			}
		case scene.Triangle:
			c.drawTriangle(proj, sh)
		case scene.Label:
			x, y := proj.point(sh.Pos)
			n := len([]rune(sh.Text))
			c.Text(x/2-n/2, y/4, sh.Text, sh.Color)
		}
	}
}

// DrawFrame draws the scene of f. As a sim.RendererFunc it lets the loop
// draw every frame it ticks.
func (c *Canvas) DrawFrame(f *sim.Frame) {
	c.DrawScene(scene.Build(f))
}

func (c *Canvas) drawTriangle(proj projection, t scene.Triangle) {
	ax, ay := proj.point(t.A)
	bx, by := proj.point(t.B)
	cx, cy := proj.point(t.C)
	c.DrawLine(ax, ay, bx, by, 0, t.Fill)
	c.DrawLine(bx, by, cx, cy, 0, t.Fill)
	c.DrawLine(cx, cy, ax, ay, 0, t.Fill)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
