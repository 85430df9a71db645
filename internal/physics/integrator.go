package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	IntegratorTick     = "tick"
	IntegratorFixed    = "fixed"
	IntegratorHarmonic = "harmonic"

	DefaultReferenceFPS = 60.0

	// maxCatchUp bounds the steps a fixed integrator takes in one frame.
	maxCatchUp = 8
)

var ErrUnknownIntegrator = errors.New("physics: unknown integrator")

// Integrator advances the dynamic points by one frame. elapsedMs is the
// time since the previous frame and returns the number of wall contacts.
type Integrator interface {
	Name() string
	Advance(points []*ControlPoint, s Spring, b Bounds, elapsedMs float64) int
}

// Resetter is implemented by integrators that carry state between frames.
type Resetter interface {
	Reset()
}

// IntegratorNames lists the names accepted by NewIntegrator.
func IntegratorNames() []string {
	return []string{IntegratorTick, IntegratorFixed, IntegratorHarmonic}
}

// NewIntegrator returns the integrator registered under name. refFPS is the
// frame rate the spring constants are tuned for.
func NewIntegrator(name string, refFPS float64) (Integrator, error) {
	if refFPS <= 0 {
		refFPS = DefaultReferenceFPS
	}
	switch name {
	case IntegratorTick, "":
		return NewTick(), nil
	case IntegratorFixed:
		return NewFixedStep(refFPS), nil
	case IntegratorHarmonic:
		return NewHarmonic(refFPS), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
}

// Tick takes exactly one spring step per frame regardless of elapsed time,
// so motion speed follows the display refresh rate.
type Tick struct{}

func NewTick() *Tick {
	return &Tick{}
}

func (t *Tick) Name() string { return IntegratorTick }

func (t *Tick) Advance(points []*ControlPoint, s Spring, b Bounds, _ float64) int {
	contacts := 0
	for _, p := range points {
		contacts += s.Step(p, b).Count()
	}
	return contacts
}

// FixedStep accumulates elapsed time and takes one spring step per
// reference tick that has passed.
type FixedStep struct {
	stepMs float64
	acc    float64
}

func NewFixedStep(refFPS float64) *FixedStep {
	return &FixedStep{stepMs: 1000 / refFPS}
}

func (f *FixedStep) Name() string { return IntegratorFixed }

func (f *FixedStep) Advance(points []*ControlPoint, s Spring, b Bounds, elapsedMs float64) int {
	if elapsedMs > 0 {
		f.acc += elapsedMs
	}

	n := int(f.acc / f.stepMs)
	if n > maxCatchUp {
		// drop the backlog after a stall instead of fast-forwarding
		n = maxCatchUp
		f.acc = math.Mod(f.acc, f.stepMs)
	} else {
		f.acc -= float64(n) * f.stepMs
	}

	contacts := 0
	for i := 0; i < n; i++ {
		for _, p := range points {
			contacts += s.Step(p, b).Count()
		}
	}
	return contacts
}

// Pending returns the accumulated time not yet consumed by a step.
func (f *FixedStep) Pending() float64 {
	return f.acc
}

// Reset drops the accumulated time.
func (f *FixedStep) Reset() {
	f.acc = 0
}

// Harmonic integrates the spring in closed form over the real frame time.
// The per-tick constants map to an angular frequency of sqrt(k)*refFPS and a
// damping ratio of damping/(2*sqrt(k)). Velocity on the point stays in
// per-tick units.
type Harmonic struct {
	refFPS float64
}

func NewHarmonic(refFPS float64) *Harmonic {
	return &Harmonic{refFPS: refFPS}
}

func (h *Harmonic) Name() string { return IntegratorHarmonic }

func (h *Harmonic) Advance(points []*ControlPoint, s Spring, b Bounds, elapsedMs float64) int {
	// the closed form has no notion of a slack or anti-damped spring
	if s.K <= 0 || s.Damping < 0 {
		return NewTick().Advance(points, s, b, elapsedMs)
	}
	if elapsedMs <= 0 {
		return 0
	}

	sqrtK := math.Sqrt(s.K)
	spring := harmonica.NewSpring(elapsedMs/1000, sqrtK*h.refFPS, s.Damping/(2*sqrtK))

	contacts := 0
	for _, p := range points {
		if p.Kind != Dynamic {
			continue
		}
		var vx, vy float64
		p.Pos.X, vx = spring.Update(p.Pos.X, p.Vel.X*h.refFPS, p.Target.X)
		p.Pos.Y, vy = spring.Update(p.Pos.Y, p.Vel.Y*h.refFPS, p.Target.Y)
		p.Vel.X = vx / h.refFPS
		p.Vel.Y = vy / h.refFPS
		contacts += b.Contain(p).Count()
	}
	return contacts
}
