package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/stretchr/testify/assert"
)

var viewport = Bounds{Width: 800, Height: 400, Margin: DefaultMargin}

func defaultSpring() Spring {
	return Spring{K: DefaultSpringConstant, Damping: DefaultDamping}
}

func TestStepAtRestHasNoDrift(t *testing.T) {
	s := defaultSpring()
	p1 := NewDynamic(bezier.Pt(240, 120))
	p2 := NewDynamic(bezier.Pt(560, 280))

	for i := 0; i < 100; i++ {
		s.Step(&p1, viewport)
		s.Step(&p2, viewport)
	}

	if p1.Pos != p1.Target || p2.Pos != p2.Target {
		t.Errorf("points drifted from equilibrium: p1=%v p2=%v", p1.Pos, p2.Pos)
	}
	if !p1.Vel.IsZero() || !p2.Vel.IsZero() {
		t.Errorf("velocity appeared at rest: %v %v", p1.Vel, p2.Vel)
	}
}

func TestStepSingleUpdate(t *testing.T) {
	s := Spring{K: 0.1, Damping: 0.5}
	p := ControlPoint{
		Kind:   Dynamic,
		Pos:    bezier.Pt(100, 100),
		Vel:    bezier.Pt(2, -4),
		Target: bezier.Pt(200, 50),
	}

	s.Step(&p, viewport)

	// a = -0.1*(100-200) - 0.5*2 = 9, v = 11, x = 111
	// a = -0.1*(100-50) - 0.5*(-4) = -3, v = -7, y = 93
	assert.InDelta(t, 11.0, p.Vel.X, 1e-12)
	assert.InDelta(t, -7.0, p.Vel.Y, 1e-12)
	assert.InDelta(t, 111.0, p.Pos.X, 1e-12)
	assert.InDelta(t, 93.0, p.Pos.Y, 1e-12)
}

func TestStepIgnoresFixedPoints(t *testing.T) {
	s := defaultSpring()
	p := NewFixed(bezier.Pt(-10, 9999))
	before := p

	if c := s.Step(&p, viewport); c != 0 {
		t.Errorf("fixed point reported contact %v", c)
	}
	if p != before {
		t.Errorf("fixed point mutated: %+v", p)
	}
}

func TestStepConvergesToTarget(t *testing.T) {
	s := defaultSpring()
	p := NewDynamic(bezier.Pt(240, 120))
	p.Target = bezier.Pt(400, 200)

	for i := 0; i < 2000; i++ {
		s.Step(&p, viewport)
	}

	assert.InDelta(t, 400.0, p.Pos.X, 1e-6)
	assert.InDelta(t, 200.0, p.Pos.Y, 1e-6)
}

func TestStepZeroSpringDrifts(t *testing.T) {
	s := Spring{K: 0, Damping: 0}
	p := NewDynamic(bezier.Pt(100, 100))
	p.Target = bezier.Pt(700, 300)
	p.Vel = bezier.Pt(1, 0)

	for i := 0; i < 10; i++ {
		s.Step(&p, viewport)
	}

	assert.InDelta(t, 110.0, p.Pos.X, 1e-12)
	assert.InDelta(t, 1.0, p.Vel.X, 1e-12)
}

func TestBoundaryContainment(t *testing.T) {
	tests := []struct {
		name    string
		pos     bezier.Point
		vel     bezier.Point
		contact Contact
		wantPos bezier.Point
	}{
		{"left", bezier.Pt(5, 200), bezier.Pt(-4, 0), ContactLeft, bezier.Pt(30, 200)},
		{"right", bezier.Pt(795, 200), bezier.Pt(4, 0), ContactRight, bezier.Pt(770, 200)},
		{"top", bezier.Pt(400, 2), bezier.Pt(0, -6), ContactTop, bezier.Pt(400, 30)},
		{"bottom", bezier.Pt(400, 399), bezier.Pt(0, 6), ContactBottom, bezier.Pt(400, 370)},
		{"corner", bezier.Pt(-50, 500), bezier.Pt(-2, 3), ContactLeft | ContactBottom, bezier.Pt(30, 370)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Spring{K: 0, Damping: 0}
			p := ControlPoint{Kind: Dynamic, Pos: tt.pos, Vel: tt.vel, Target: tt.pos}

			c := s.Step(&p, viewport)

			if c != tt.contact {
				t.Errorf("contact = %b, want %b", c, tt.contact)
			}
			if p.Pos != tt.wantPos {
				t.Errorf("pos = %v, want %v", p.Pos, tt.wantPos)
			}
			if tt.contact&(ContactLeft|ContactRight) != 0 {
				assert.InDelta(t, tt.vel.X*BounceFactor, p.Vel.X, 1e-12)
				if math.Signbit(p.Vel.X) == math.Signbit(tt.vel.X) {
					t.Error("x velocity sign not flipped")
				}
			}
			if tt.contact&(ContactTop|ContactBottom) != 0 {
				assert.InDelta(t, tt.vel.Y*BounceFactor, p.Vel.Y, 1e-12)
				if math.Signbit(p.Vel.Y) == math.Signbit(tt.vel.Y) {
					t.Error("y velocity sign not flipped")
				}
			}
		})
	}
}

func TestStepScaledUnitFactorMatchesStep(t *testing.T) {
	s := Spring{K: 0.3, Damping: 0.2}
	a := ControlPoint{Kind: Dynamic, Pos: bezier.Pt(100, 300), Vel: bezier.Pt(3, -1), Target: bezier.Pt(500, 100)}
	b := a

	for i := 0; i < 50; i++ {
		s.Step(&a, viewport)
		s.StepScaled(&b, viewport, 1)
	}
	if a != b {
		t.Errorf("StepScaled(1) diverged from Step: %+v vs %+v", a, b)
	}
}

func TestStepScaledHalvesUpdates(t *testing.T) {
	tests := []struct {
		name             string
		spring           Spring
		pos, vel         bezier.Point
		target           bezier.Point
		wantPos, wantVel bezier.Point
	}{
		{
			name:    "spring from rest",
			spring:  Spring{K: 0.5},
			pos:     bezier.Pt(100, 200),
			target:  bezier.Pt(300, 200),
			wantPos: bezier.Pt(125, 200),
			wantVel: bezier.Pt(50, 0),
		},
		{
			name:    "damping at target",
			spring:  Spring{K: 0.1, Damping: 0.5},
			pos:     bezier.Pt(400, 200),
			vel:     bezier.Pt(4, -2),
			target:  bezier.Pt(400, 200),
			wantPos: bezier.Pt(401.5, 199.25),
			wantVel: bezier.Pt(3, -1.5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ControlPoint{Kind: Dynamic, Pos: tt.pos, Vel: tt.vel, Target: tt.target}
			c := tt.spring.StepScaled(&p, viewport, 0.5)
			assert.Equal(t, Contact(0), c)
			assert.Equal(t, tt.wantVel, p.Vel)
			assert.Equal(t, tt.wantPos, p.Pos)
		})
	}
}

func TestContactCount(t *testing.T) {
	assert.Equal(t, 0, Contact(0).Count())
	assert.Equal(t, 2, (ContactLeft | ContactTop).Count())
}

func TestTickIntegratorIgnoresElapsed(t *testing.T) {
	s := defaultSpring()
	a := NewDynamic(bezier.Pt(240, 120))
	a.Target = bezier.Pt(600, 300)
	b := a

	NewTick().Advance([]*ControlPoint{&a}, s, viewport, 16)
	NewTick().Advance([]*ControlPoint{&b}, s, viewport, 1000)

	if a != b {
		t.Errorf("tick integrator depends on elapsed time: %+v vs %+v", a, b)
	}
}

func TestFixedStepAccumulates(t *testing.T) {
	s := defaultSpring()
	integ := NewFixedStep(100) // 10ms per step

	ref := NewDynamic(bezier.Pt(240, 120))
	ref.Target = bezier.Pt(600, 300)
	p := ref

	pts := []*ControlPoint{&p}
	integ.Advance(pts, s, viewport, 25)
	assert.InDelta(t, 5.0, integ.Pending(), 1e-9)

	integ.Advance(pts, s, viewport, 5)
	assert.InDelta(t, 0.0, integ.Pending(), 1e-9)

	for i := 0; i < 3; i++ {
		s.Step(&ref, viewport)
	}
	if p != ref {
		t.Errorf("expected three ticks worth of motion: %+v vs %+v", p, ref)
	}
}

func TestFixedStepReset(t *testing.T) {
	integ := NewFixedStep(100)
	p := NewDynamic(bezier.Pt(240, 120))
	integ.Advance([]*ControlPoint{&p}, defaultSpring(), viewport, 7)
	assert.InDelta(t, 7.0, integ.Pending(), 1e-9)

	var r Resetter = integ
	r.Reset()
	assert.Equal(t, 0.0, integ.Pending())
}

func TestFixedStepCapsCatchUp(t *testing.T) {
	s := defaultSpring()
	integ := NewFixedStep(100)

	ref := NewDynamic(bezier.Pt(240, 120))
	ref.Target = bezier.Pt(600, 300)
	p := ref

	integ.Advance([]*ControlPoint{&p}, s, viewport, 10_005)
	assert.InDelta(t, 5.0, integ.Pending(), 1e-6)

	for i := 0; i < maxCatchUp; i++ {
		s.Step(&ref, viewport)
	}
	if p != ref {
		t.Errorf("expected %d steps after a stall", maxCatchUp)
	}
}

func TestHarmonicConverges(t *testing.T) {
	s := defaultSpring()
	integ := NewHarmonic(DefaultReferenceFPS)

	p := NewDynamic(bezier.Pt(240, 120))
	p.Target = bezier.Pt(500, 250)

	for i := 0; i < 600; i++ {
		integ.Advance([]*ControlPoint{&p}, s, viewport, 1000.0/60)
	}

	assert.InDelta(t, 500.0, p.Pos.X, 1e-3)
	assert.InDelta(t, 250.0, p.Pos.Y, 1e-3)
}

func TestHarmonicFrameRateIndependent(t *testing.T) {
	s := Spring{K: 0.05, Damping: 0.3}

	run := func(fps float64) ControlPoint {
		integ := NewHarmonic(DefaultReferenceFPS)
		p := NewDynamic(bezier.Pt(240, 120))
		p.Target = bezier.Pt(500, 250)
		frames := int(fps) // one second
		for i := 0; i < frames; i++ {
			integ.Advance([]*ControlPoint{&p}, s, viewport, 1000/fps)
		}
		return p
	}

	at30 := run(30)
	at120 := run(120)
	assert.InDelta(t, at30.Pos.X, at120.Pos.X, 1e-6)
	assert.InDelta(t, at30.Pos.Y, at120.Pos.Y, 1e-6)
}

func TestHarmonicFallsBackForSlackSpring(t *testing.T) {
	s := Spring{K: 0, Damping: 0}
	a := NewDynamic(bezier.Pt(100, 100))
	a.Vel = bezier.Pt(2, 0)
	b := a

	NewHarmonic(60).Advance([]*ControlPoint{&a}, s, viewport, 16)
	s.Step(&b, viewport)

	if a != b {
		t.Errorf("harmonic with k=0 should step like tick: %+v vs %+v", a, b)
	}
}

func TestNewIntegrator(t *testing.T) {
	for _, name := range IntegratorNames() {
		integ, err := NewIntegrator(name, 0)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if integ.Name() != name {
			t.Errorf("expected %s, got %s", name, integ.Name())
		}
	}

	if _, err := NewIntegrator("verlet", 60); !errors.Is(err, ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}
