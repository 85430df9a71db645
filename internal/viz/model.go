package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/npillmayer/schuko/tracing"
	"github.com/san-kum/bezspring/internal/physics"
	"github.com/san-kum/bezspring/internal/sim"
)

func tracer() tracing.Trace {
	return tracing.Select("bezspring.viz")
}

const (
	headerHeight    = 1
	historyCapacity = 300
	adjustUp        = 1.05
	adjustDown      = 0.95
)

type TickMsg time.Time

// Model is a Bubble Tea model driving a sim.Loop. The canvas fills the
// terminal left of the side panel; one braille dot covers cellScale world
// units, so resizing the terminal resizes the simulated viewport.
type Model struct {
	loop      *sim.Loop
	canvas    *Canvas
	cellScale float64
	interval  time.Duration

	theme Theme
	st    styles

	running  bool
	selected int
	initial  sim.Params
	display  sim.Display
	frame    *sim.Frame
	clock    float64
	last     time.Time
	energy   []float64
}

// NewModel sizes the canvas to the loop's current viewport.
func NewModel(loop *sim.Loop, cellScale float64, fps int) Model {
	if cellScale <= 0 {
		cellScale = 1
	}
	if fps <= 0 {
		fps = 60
	}
	w, h := loop.Viewport()
	cols := max(1, int(math.Ceil(w/(2*cellScale))))
	rows := max(1, int(math.Ceil(h/(4*cellScale))))

	m := Model{
		loop:      loop,
		canvas:    NewCanvas(cols, rows),
		cellScale: cellScale,
		interval:  time.Second / time.Duration(fps),
		theme:     ThemeNight,
		st:        newStyles(ThemeNight),
		running:   true,
		initial:   loop.Params(),
		display:   loop.Display(),
		energy:    make([]float64, 0, historyCapacity),
	}
	loop.SetRenderer(sim.RendererFunc(m.canvas.DrawFrame))
	return m
}

// WithTheme returns m with the side panel colored by the named theme.
func (m Model) WithTheme(name string) (Model, error) {
	t, ok := GetTheme(name)
	if !ok {
		return m, fmt.Errorf("unknown theme %q (have %s)", name, strings.Join(ThemeNames(), ", "))
	}
	m.theme = t
	m.st = newStyles(t)
	return m, nil
}

// Options returns the program options the model needs: alternate screen,
// all mouse motion and focus reporting.
func Options() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus()}
}

func (m Model) Loop() *sim.Loop   { return m.loop }
func (m Model) Canvas() *Canvas   { return m.canvas }
func (m Model) Running() bool     { return m.running }
func (m Model) Frame() *sim.Frame { return m.frame }
func (m Model) Theme() Theme      { return m.theme }

// Selected returns the name of the parameter adjusted by up and down.
func (m Model) Selected() string { return sim.ParamNames()[m.selected] }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.pointer(msg.X, msg.Y)
	case tea.BlurMsg:
		m.loop.PointerLeave()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.loop.ToggleTangents()
		case "c":
			m.loop.ToggleControlLines()
		case "p":
			m.loop.ToggleControlPoints()
		case "tab":
			m.selected = (m.selected + 1) % len(sim.ParamNames())
		case "up", "k":
			m.adjust(adjustUp)
		case "down", "j":
			m.adjust(adjustDown)
		case "T":
			m.theme = NextTheme(m.theme)
			m.st = newStyles(m.theme)
		}
	case TickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

// step advances the loop by the wall time since the previous tick; the loop
// draws the new frame onto the canvas. Paused time is skipped.
func (m *Model) step(now time.Time) {
	if m.running {
		if !m.last.IsZero() {
			m.clock += float64(now.Sub(m.last)) / float64(time.Millisecond)
		}
		m.frame = m.loop.Tick(m.clock)
		m.energy = append(m.energy, kineticEnergy(m.frame))
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}
	m.last = now
	if !m.running && m.frame != nil {
		// a resize while paused leaves a blank canvas
		m.canvas.DrawFrame(m.frame)
	}
}

func (m *Model) resize(termW, termH int) {
	cols := max(1, termW-panelWidth-2)
	rows := max(1, termH-headerHeight)
	m.canvas = NewCanvas(cols, rows)
	m.loop.SetRenderer(sim.RendererFunc(m.canvas.DrawFrame))
	w := float64(cols*2) * m.cellScale
	h := float64(rows*4) * m.cellScale
	m.loop.Resize(w, h)
	tracer().Debugf("terminal %dx%d, canvas %dx%d cells", termW, termH, cols, rows)
}

// pointer maps a terminal cell to world coordinates at the center of the
// cell. Cells outside the canvas count as leaving it.
func (m *Model) pointer(col, row int) {
	row -= headerHeight
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		if m.loop.Pointer().Active {
			m.loop.PointerLeave()
		}
		return
	}
	w, h := m.loop.Viewport()
	x := (float64(col) + 0.5) / float64(m.canvas.Width) * w
	y := (float64(row) + 0.5) / float64(m.canvas.Height) * h
	m.loop.PointerMove(x, y)
}

func (m *Model) adjust(factor float64) {
	name := m.Selected()
	value := m.loop.GetParams()[name] * factor
	if err := m.loop.SetParam(name, value); err != nil {
		tracer().Errorf("adjust %s: %v", name, err)
	}
}

func (m *Model) reset() {
	m.loop.SetParams(m.initial)
	m.loop.SetDisplay(m.display)
	m.loop.Reset()
	m.energy = m.energy[:0]
	m.frame = nil
	m.canvas.Clear()
}

func kineticEnergy(f *sim.Frame) float64 {
	e := 0.0
	for _, p := range f.Points {
		if p.Kind == physics.Dynamic {
			e += p.KineticEnergy()
		}
	}
	return e
}

func (m Model) View() string {
	status := m.st.status.Render("RUNNING")
	if !m.running {
		status = m.st.paused.Render("PAUSED")
	}
	header := m.st.header.Render("BEZSPRING") + "  " + status

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), m.st.panel.Render(m.panel()))
	return header + "\n" + body
}

func (m Model) panel() string {
	var s strings.Builder
	w, h := m.loop.Viewport()

	fps, index := 0.0, 0
	if m.frame != nil {
		fps, index = m.frame.FPS, m.frame.Index
	}
	s.WriteString(m.st.rowf("FPS", "%.0f", fps))
	s.WriteString(m.st.rowf("Frame", "%d", index))
	s.WriteString(m.st.rowf("Viewport", "%.0fx%.0f", w, h))
	s.WriteString(m.st.row("Integrator", m.loop.Integrator().Name()))

	ptr := m.loop.Pointer()
	if ptr.Active {
		s.WriteString(m.st.rowf("Pointer", "%.0f,%.0f", ptr.Pos.X, ptr.Pos.Y))
	} else {
		s.WriteString(m.st.row("Pointer", "off canvas"))
	}

	s.WriteString("\n" + m.st.header.Render("PARAMETERS") + "\n")
	params := m.loop.GetParams()
	initial := map[string]float64{
		sim.ParamSpringConstant: m.initial.SpringConstant,
		sim.ParamDamping:        m.initial.Damping,
		sim.ParamMouseInfluence: m.initial.MouseInfluence,
	}
	for i, name := range sim.ParamNames() {
		line := fmt.Sprintf("%-15s %s %.3f", name, paramBar(params[name], initial[name], 6), params[name])
		if i == m.selected {
			s.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString(m.st.value.Render("  "+line) + "\n")
		}
	}

	d := m.loop.Display()
	s.WriteString("\n" + m.st.header.Render("DISPLAY") + "\n")
	s.WriteString(m.st.row("Tangents", onOff(d.Tangents)))
	s.WriteString(m.st.row("Lines", onOff(d.ControlLines)))
	s.WriteString(m.st.row("Points", onOff(d.ControlPoints)))

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(panelWidth-10), asciigraph.Caption("kinetic energy"))
		s.WriteString("\n" + m.st.graph.Render(chart) + "\n")
	}

	s.WriteString(m.st.help.Render("\nt/c/p toggles  tab/↑↓ tune\nr reset  space pause  T theme  q quit"))
	return s.String()
}
