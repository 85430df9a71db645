package sim

import (
	"errors"
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/physics"
)

func newTestLoop() *Loop {
	return New(DefaultOptions(800, 400))
}

func TestLayout(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	pts := l.Points()

	want := [4]bezier.Point{
		bezier.Pt(80, 200), bezier.Pt(240, 120), bezier.Pt(560, 280), bezier.Pt(720, 200),
	}
	for i, p := range pts {
		if p.Pos != want[i] {
			t.Errorf("P%d = %v, want %v", i, p.Pos, want[i])
		}
	}
	if pts[P0].Kind != physics.Fixed || pts[P3].Kind != physics.Fixed {
		t.Error("endpoints must be fixed")
	}
	if pts[P1].Kind != physics.Dynamic || pts[P2].Kind != physics.Dynamic {
		t.Error("inner points must be dynamic")
	}
}

func TestTickAtRestHasNoDrift(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	f := l.Tick(0)

	if f.Points[P1].Pos != bezier.Pt(240, 120) || f.Points[P2].Pos != bezier.Pt(560, 280) {
		t.Errorf("points moved at equilibrium: %v %v", f.Points[P1].Pos, f.Points[P2].Pos)
	}
	if len(f.Curve) != bezier.DefaultSteps+1 {
		t.Errorf("expected %d curve points, got %d", bezier.DefaultSteps+1, len(f.Curve))
	}
	if f.Curve[0] != bezier.Pt(80, 200) || f.Curve[len(f.Curve)-1] != bezier.Pt(720, 200) {
		t.Error("curve does not start and end on the fixed points")
	}
	if len(f.Tangents) != len(bezier.DefaultTangentParams) {
		t.Errorf("expected %d tangents, got %d", len(bezier.DefaultTangentParams), len(f.Tangents))
	}
}

func TestTickFollowsPointer(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	l.PointerMove(100, 60)

	var f *Frame
	for i := 0; i < 300; i++ {
		f = l.Tick(float64(i) * 16)
	}

	p1 := f.Points[P1]
	if p1.Target != bezier.Pt(100, 60) {
		t.Errorf("P1 target = %v, want (100,60)", p1.Target)
	}
	if p1.Pos.Dist(p1.Target) > 1e-3 {
		t.Errorf("P1 did not settle on the pointer: %v", p1.Pos)
	}
	if f.Points[P2].Target != bezier.Pt(560, 280) {
		t.Errorf("P2 target changed: %v", f.Points[P2].Target)
	}
	if f.Influence[0] <= 0 || f.Influence[1] != 0 {
		t.Errorf("unexpected influence %v", f.Influence)
	}
}

func TestPointerLeaveResetsTargets(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	l.PointerMove(0, 0)
	l.Tick(0)
	l.PointerMove(790, 390)
	l.Tick(16)

	l.PointerLeave()
	pts := l.Points()
	if pts[P1].Target != bezier.Pt(240, 120) || pts[P2].Target != bezier.Pt(560, 280) {
		t.Errorf("targets not reset: %v %v", pts[P1].Target, pts[P2].Target)
	}
	if l.Pointer().Active {
		t.Error("pointer still active")
	}
}

func TestFixedPointsNeverMove(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	l.SetDamping(-0.5) // unstable on purpose
	l.PointerMove(5, 5)
	for i := 0; i < 200; i++ {
		f := l.Tick(float64(i) * 16)
		if f.Points[P0].Pos != bezier.Pt(80, 200) || f.Points[P3].Pos != bezier.Pt(720, 200) {
			t.Fatalf("fixed point moved at frame %d", i)
		}
		if !f.Points[P0].Vel.IsZero() || !f.Points[P3].Vel.IsZero() {
			t.Fatalf("fixed point gained velocity at frame %d", i)
		}
	}
}

func TestDynamicPointsStayInBounds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	l.SetSpringConstant(0.9)
	l.SetDamping(0)
	l.PointerMove(2, 398)

	for i := 0; i < 500; i++ {
		f := l.Tick(float64(i) * 16)
		for _, idx := range []int{P1, P2} {
			p := f.Points[idx].Pos
			if p.X < 30 || p.X > 770 || p.Y < 30 || p.Y > 370 {
				t.Fatalf("P%d escaped bounds at frame %d: %v", idx, i, p)
			}
		}
	}
}

func TestResize(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	l.PointerMove(100, 100)
	for i := 0; i < 10; i++ {
		l.Tick(float64(i) * 16)
	}

	l.Resize(1000, 500)
	pts := l.Points()
	if pts[P0].Pos != bezier.Pt(100, 250) || pts[P3].Pos != bezier.Pt(900, 250) {
		t.Errorf("endpoints not relaid: %v %v", pts[P0].Pos, pts[P3].Pos)
	}
	if pts[P1].Pos != bezier.Pt(300, 150) || pts[P1].Target != bezier.Pt(300, 150) {
		t.Errorf("P1 not reset: %+v", pts[P1])
	}
	if pts[P2].Pos != bezier.Pt(700, 350) || pts[P2].Target != bezier.Pt(700, 350) {
		t.Errorf("P2 not reset: %+v", pts[P2])
	}
	if w, h := l.Viewport(); w != 1000 || h != 500 {
		t.Errorf("viewport = %vx%v", w, h)
	}
}

func TestParamsTakeEffectNextTick(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	a := newTestLoop()
	b := newTestLoop()
	a.PointerMove(100, 60)
	b.PointerMove(100, 60)

	a.SetSpringConstant(0.3)
	fa := a.Tick(0)
	fb := b.Tick(0)

	if fa.Points[P1].Pos == fb.Points[P1].Pos {
		t.Error("changed spring constant had no effect on the next tick")
	}
	if fa.Params.SpringConstant != 0.3 {
		t.Errorf("frame params = %+v", fa.Params)
	}
}

func TestSetParam(t *testing.T) {
	l := newTestLoop()

	for name, v := range map[string]float64{
		ParamSpringConstant: 0.25,
		ParamDamping:        0.5,
		ParamMouseInfluence: 2,
	} {
		if err := l.SetParam(name, v); err != nil {
			t.Fatalf("SetParam(%s): %v", name, err)
		}
		if got := l.GetParams()[name]; got != v {
			t.Errorf("%s = %v, want %v", name, got, v)
		}
	}

	if err := l.SetParam("mass", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestFPSCounter(t *testing.T) {
	var c fpsCounter
	for i := 0; i <= 60; i++ {
		c.observe(float64(i) * 1000 / 60)
	}
	if c.value != 60 {
		t.Errorf("expected 60 fps, got %v", c.value)
	}
}

func TestFrameClone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	l.PointerMove(50, 50)
	kept := l.Tick(0).Clone()
	first := kept.Curve[50]

	l.Tick(16)
	if kept.Curve[50] != first {
		t.Error("cloned frame shares the curve buffer")
	}
}

type countingMetric struct {
	frames int
}

func (c *countingMetric) Name() string     { return "count" }
func (c *countingMetric) Observe(_ *Frame) { c.frames++ }
func (c *countingMetric) Value() float64   { return float64(c.frames) }
func (c *countingMetric) Reset()           { c.frames = 0 }

func TestMetricsAndReset(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := newTestLoop()
	m := &countingMetric{}
	l.AddMetric(m)

	for i := 0; i < 10; i++ {
		l.Tick(float64(i))
	}
	if got := l.MetricValues()["count"]; got != 10 {
		t.Errorf("expected 10 observations, got %v", got)
	}

	l.Reset()
	if l.Phase() != Idle {
		t.Error("reset loop should be idle")
	}
	if m.frames != 0 {
		t.Error("metric not reset")
	}
}

func TestZeroOptionsUseDefaults(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	l := New(Options{Width: 800, Height: 400})
	if l.Params() != DefaultParams() {
		t.Errorf("params = %+v, want defaults", l.Params())
	}
	if l.Display() != DefaultDisplay() {
		t.Errorf("display = %+v, want defaults", l.Display())
	}
	if l.Bounds().Margin != physics.DefaultMargin {
		t.Errorf("margin = %v, want %v", l.Bounds().Margin, physics.DefaultMargin)
	}

	l.PointerMove(0, 200)
	f := l.Tick(0)
	if f.Points[P1].Target != bezier.Pt(0, 200) {
		t.Errorf("P1 target = %v, want pointer at full influence", f.Points[P1].Target)
	}

	if m := New(Options{Width: 800, Height: 400, Margin: NoMargin}).Bounds().Margin; m != 0 {
		t.Errorf("NoMargin gave margin %v", m)
	}
}

type orderObserver struct{ calls *[]string }

func (o orderObserver) OnFrame(_ *Frame) { *o.calls = append(*o.calls, "observer") }

func TestRendererRunsAfterObservers(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	var calls []string
	var rendered int
	opts := DefaultOptions(800, 400)
	opts.Renderer = RendererFunc(func(f *Frame) {
		calls = append(calls, "renderer")
		rendered = f.Index
	})
	l := New(opts)
	l.AddObserver(orderObserver{calls: &calls})

	l.Tick(0)
	l.Tick(16)
	want := []string{"observer", "renderer", "observer", "renderer"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if rendered != 1 {
		t.Errorf("renderer saw frame %d, want 1", rendered)
	}

	l.SetRenderer(nil)
	l.Tick(32)
	if len(calls) != 5 || calls[4] != "observer" {
		t.Errorf("renderer still called after removal: %v", calls)
	}
}

func TestResetDropsPendingTime(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	fs := physics.NewFixedStep(60)
	opts := DefaultOptions(800, 400)
	opts.Integrator = fs
	l := New(opts)

	l.Tick(0)
	l.Tick(10)
	if fs.Pending() != 10 {
		t.Fatalf("pending = %v, want 10", fs.Pending())
	}

	l.Reset()
	if fs.Pending() != 0 {
		t.Errorf("pending after reset = %v, want 0", fs.Pending())
	}
}
