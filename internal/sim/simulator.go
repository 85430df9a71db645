package sim

import (
	"fmt"
	"math"
	"slices"

	"github.com/npillmayer/schuko/tracing"
	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/influence"
	"github.com/san-kum/bezspring/internal/physics"
)

func tracer() tracing.Trace {
	return tracing.Select("bezspring.sim")
}

// Fixed endpoint positions as fractions of the viewport.
const (
	startFractionX = 0.1
	endFractionX   = 0.9
	endFractionY   = 0.5
)

// NoMargin as Options.Margin lets dynamic points reach the viewport edges.
const NoMargin = -1.0

// Options configure a new Loop. Every zero field except Width and Height
// falls back to its default: a zero Params or Display is DefaultParams or
// DefaultDisplay, and a zero Margin is physics.DefaultMargin. Renderer is
// optional.
type Options struct {
	Width, Height float64
	Margin        float64
	Params        Params
	Integrator    physics.Integrator
	Steps         int
	TangentParams []float64
	Display       Display
	Renderer      Renderer
}

func DefaultOptions(width, height float64) Options {
	return Options{
		Width:         width,
		Height:        height,
		Margin:        physics.DefaultMargin,
		Params:        DefaultParams(),
		Integrator:    physics.NewTick(),
		Steps:         bezier.DefaultSteps,
		TangentParams: bezier.DefaultTangentParams,
		Display:       DefaultDisplay(),
	}
}

// Loop owns the whole simulation state: control points, pointer, parameters
// and display toggles. It is driven by calling Tick once per frame and is
// not safe for concurrent use; pointer and parameter setters are plain
// field writes picked up by the next Tick.
type Loop struct {
	phase Phase

	width, height float64
	margin        float64

	params  Params
	pointer influence.Pointer
	points  [4]physics.ControlPoint
	integ   physics.Integrator

	steps         int
	tangentParams []float64
	display       Display

	lastTime   float64
	frameIndex int
	fps        fpsCounter

	frame     Frame
	dynamic   []*physics.ControlPoint
	metrics   []Metric
	observers []Observer
	renderer  Renderer
}

// New creates an idle loop with the control points laid out for the given
// viewport. The viewport must have positive dimensions.
func New(opts Options) *Loop {
	switch {
	case opts.Margin == 0:
		opts.Margin = physics.DefaultMargin
	case opts.Margin < 0:
		opts.Margin = 0
	}
	if opts.Params == (Params{}) {
		opts.Params = DefaultParams()
	}
	if opts.Display == (Display{}) {
		opts.Display = DefaultDisplay()
	}
	if opts.Integrator == nil {
		opts.Integrator = physics.NewTick()
	}
	if opts.Steps <= 0 {
		opts.Steps = bezier.DefaultSteps
	}
	if opts.TangentParams == nil {
		opts.TangentParams = bezier.DefaultTangentParams
	}

	l := &Loop{
		margin:        opts.Margin,
		params:        opts.Params,
		integ:         opts.Integrator,
		steps:         opts.Steps,
		tangentParams: slices.Clone(opts.TangentParams),
		display:       opts.Display,
		renderer:      opts.Renderer,
		metrics:       make([]Metric, 0),
		observers:     make([]Observer, 0),
	}
	l.points[P0].Kind = physics.Fixed
	l.points[P1].Kind = physics.Dynamic
	l.points[P2].Kind = physics.Dynamic
	l.points[P3].Kind = physics.Fixed
	l.dynamic = []*physics.ControlPoint{&l.points[P1], &l.points[P2]}

	l.frame.Curve = make([]bezier.Point, 0, opts.Steps+1)
	l.frame.Tangents = make([]bezier.Tangent, 0, len(opts.TangentParams))

	l.Resize(opts.Width, opts.Height)
	return l
}

func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// SetRenderer replaces the renderer called at the end of every Tick. nil
// disables rendering.
func (l *Loop) SetRenderer(r Renderer) { l.renderer = r }

// Resize lays the curve out for a new viewport: the endpoints move to 10%
// and 90% of the width at half height, and the dynamic points jump onto
// their default targets. Velocities are kept.
func (l *Loop) Resize(width, height float64) {
	l.width, l.height = width, height

	l.points[P0].Pos = bezier.Pt(width*startFractionX, height*endFractionY)
	l.points[P3].Pos = bezier.Pt(width*endFractionX, height*endFractionY)

	left, right := influence.DefaultTargets(width, height)
	l.points[P1].Pos, l.points[P1].Target = left, left
	l.points[P2].Pos, l.points[P2].Target = right, right

	tracer().Infof("viewport resized to %.0fx%.0f", width, height)
}

// Reset puts the loop back into its idle state with all points at rest.
func (l *Loop) Reset() {
	l.phase = Idle
	l.frameIndex = 0
	l.lastTime = 0
	l.fps = fpsCounter{}
	l.pointer = influence.Pointer{}
	l.points[P1].Vel = bezier.Point{}
	l.points[P2].Vel = bezier.Point{}
	if r, ok := l.integ.(physics.Resetter); ok {
		r.Reset()
	}
	l.Resize(l.width, l.height)
	for _, m := range l.metrics {
		m.Reset()
	}
}

// PointerMove records the pointer position over the surface.
func (l *Loop) PointerMove(x, y float64) {
	l.pointer = influence.Pointer{Pos: bezier.Pt(x, y), Active: true}
}

// PointerLeave marks the pointer as gone and sends both dynamic points
// back toward their default targets.
func (l *Loop) PointerLeave() {
	l.pointer.Active = false
	influence.Reset(l.width, l.height, &l.points[P1], &l.points[P2])
}

// Tick runs one frame at timestamp ms: retarget from the pointer, step the
// springs, sample the curve, then hand the frame to metrics, observers and
// finally the renderer. The returned frame is reused by the next Tick.
func (l *Loop) Tick(timestamp float64) *Frame {
	delta := 0.0
	if l.phase == Idle {
		l.phase = Running
		tracer().Debugf("loop running from t=%.1fms", timestamp)
	} else {
		delta = timestamp - l.lastTime
	}
	l.lastTime = timestamp
	l.fps.observe(timestamp)

	left, right := &l.points[P1], &l.points[P2]
	influence.Assign(l.pointer, l.width, l.params.MouseInfluence, left, right)

	spring := physics.Spring{K: l.params.SpringConstant, Damping: l.params.Damping}
	contacts := l.integ.Advance(l.dynamic, spring, l.Bounds(), delta)

	f := &l.frame
	f.Index = l.frameIndex
	f.Timestamp = timestamp
	f.Delta = delta
	f.FPS = l.fps.value
	f.Width, f.Height = l.width, l.height
	f.Points = l.points
	f.Pointer = l.pointer
	f.Influence = [2]float64{}
	if l.pointer.Active {
		f.Influence[0], f.Influence[1] = influence.Compute(l.pointer.Pos.X, l.width, 1)
	}
	f.Contacts = contacts
	f.Params = l.params
	f.Display = l.display

	p0, p1, p2, p3 := f.Positions()
	f.Curve = slices.AppendSeq(f.Curve[:0], bezier.Sample(p0, p1, p2, p3, l.steps))
	f.Tangents = slices.AppendSeq(f.Tangents[:0], bezier.Tangents(p0, p1, p2, p3, l.tangentParams))

	for _, m := range l.metrics {
		m.Observe(f)
	}
	for _, o := range l.observers {
		o.OnFrame(f)
	}
	if l.renderer != nil {
		l.renderer.Render(f)
	}

	l.frameIndex++
	return f
}

// Bounds returns the area dynamic points are kept in.
func (l *Loop) Bounds() physics.Bounds {
	return physics.Bounds{Width: l.width, Height: l.height, Margin: l.margin}
}

func (l *Loop) Phase() Phase                       { return l.phase }
func (l *Loop) Viewport() (float64, float64)       { return l.width, l.height }
func (l *Loop) Points() [4]physics.ControlPoint    { return l.points }
func (l *Loop) Pointer() influence.Pointer         { return l.pointer }
func (l *Loop) Integrator() physics.Integrator     { return l.integ }
func (l *Loop) SetIntegrator(i physics.Integrator) { l.integ = i }

func (l *Loop) Params() Params              { return l.params }
func (l *Loop) SetParams(p Params)          { l.params = p }
func (l *Loop) SpringConstant() float64     { return l.params.SpringConstant }
func (l *Loop) Damping() float64            { return l.params.Damping }
func (l *Loop) MouseInfluence() float64     { return l.params.MouseInfluence }
func (l *Loop) SetSpringConstant(k float64) { l.params.SpringConstant = k }
func (l *Loop) SetDamping(d float64)        { l.params.Damping = d }
func (l *Loop) SetMouseInfluence(s float64) { l.params.MouseInfluence = s }

func (l *Loop) Display() Display     { return l.display }
func (l *Loop) SetDisplay(d Display) { l.display = d }
func (l *Loop) ToggleTangents()      { l.display.Tangents = !l.display.Tangents }
func (l *Loop) ToggleControlLines()  { l.display.ControlLines = !l.display.ControlLines }
func (l *Loop) ToggleControlPoints() { l.display.ControlPoints = !l.display.ControlPoints }

// Parameter names understood by GetParams and SetParam.
const (
	ParamSpringConstant = "spring_constant"
	ParamDamping        = "damping"
	ParamMouseInfluence = "mouse_influence"
)

func ParamNames() []string {
	return []string{ParamSpringConstant, ParamDamping, ParamMouseInfluence}
}

func (l *Loop) GetParams() map[string]float64 {
	return map[string]float64{
		ParamSpringConstant: l.params.SpringConstant,
		ParamDamping:        l.params.Damping,
		ParamMouseInfluence: l.params.MouseInfluence,
	}
}

// SetParam sets a parameter by name. Values are not range checked.
func (l *Loop) SetParam(name string, value float64) error {
	switch name {
	case ParamSpringConstant:
		l.SetSpringConstant(value)
	case ParamDamping:
		l.SetDamping(value)
	case ParamMouseInfluence:
		l.SetMouseInfluence(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}

// MetricValues returns the current value of every registered metric.
func (l *Loop) MetricValues() map[string]float64 {
	values := make(map[string]float64, len(l.metrics))
	for _, m := range l.metrics {
		values[m.Name()] = m.Value()
	}
	return values
}

// fpsCounter reports frames per second, refreshed once every second of
// timestamps.
type fpsCounter struct {
	started    bool
	lastUpdate float64
	frames     int
	value      float64
}

func (c *fpsCounter) observe(ts float64) {
	if !c.started {
		c.started = true
		c.lastUpdate = ts
		return
	}
	c.frames++
	if elapsed := ts - c.lastUpdate; elapsed >= 1000 {
		c.value = math.Round(float64(c.frames) * 1000 / elapsed)
		c.frames = 0
		c.lastUpdate = ts
	}
}
