package physics

import "math/bits"

const (
	DefaultSpringConstant = 0.1
	DefaultDamping        = 0.92
	DefaultMouseInfluence = 1.0
	DefaultMargin         = 30.0

	// BounceFactor scales the velocity component of a clamped axis.
	BounceFactor = -0.5
)

// Contact records which walls a point hit during a step.
type Contact uint8

const (
	ContactLeft Contact = 1 << iota
	ContactRight
	ContactTop
	ContactBottom
)

// Count returns the number of walls hit.
func (c Contact) Count() int {
	return bits.OnesCount8(uint8(c))
}

// Bounds is the area dynamic points are kept in: [Margin, Width-Margin] by
// [Margin, Height-Margin].
type Bounds struct {
	Width, Height float64
	Margin        float64
}

// Contain clamps p into the bounds. Each clamped axis has its velocity
// reversed and halved.
func (b Bounds) Contain(p *ControlPoint) Contact {
	var c Contact
	if p.Pos.X < b.Margin {
		p.Pos.X = b.Margin
		p.Vel.X *= BounceFactor
		c |= ContactLeft
	}
	if p.Pos.X > b.Width-b.Margin {
		p.Pos.X = b.Width - b.Margin
		p.Vel.X *= BounceFactor
		c |= ContactRight
	}
	if p.Pos.Y < b.Margin {
		p.Pos.Y = b.Margin
		p.Vel.Y *= BounceFactor
		c |= ContactTop
	}
	if p.Pos.Y > b.Height-b.Margin {
		p.Pos.Y = b.Height - b.Margin
		p.Vel.Y *= BounceFactor
		c |= ContactBottom
	}
	return c
}

// Spring is the stylized damped spring pulling a dynamic point toward its
// target. Damping multiplies velocity directly; there is no mass.
type Spring struct {
	K       float64
	Damping float64
}

// Step advances p by one tick with semi-implicit Euler and then applies the
// bounds. Fixed points are left untouched.
func (s Spring) Step(p *ControlPoint, b Bounds) Contact {
	return s.StepScaled(p, b, 1)
}

// StepScaled is Step with the velocity and position updates scaled by
// factor. A factor of 1 is exactly Step.
func (s Spring) StepScaled(p *ControlPoint, b Bounds, factor float64) Contact {
	if p.Kind != Dynamic {
		return 0
	}

	ax := -s.K*(p.Pos.X-p.Target.X) - s.Damping*p.Vel.X
	ay := -s.K*(p.Pos.Y-p.Target.Y) - s.Damping*p.Vel.Y

	p.Vel.X += ax * factor
	p.Vel.Y += ay * factor

	p.Pos.X += p.Vel.X * factor
	p.Pos.Y += p.Vel.Y * factor

	return b.Contain(p)
}
