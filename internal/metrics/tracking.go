package metrics

import "github.com/san-kum/bezspring/internal/sim"

// TrackingError is the mean distance between the dynamic points and their
// targets.
type TrackingError struct {
	name    string
	sum     float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{name: "tracking_error"}
}

func (t *TrackingError) Name() string { return t.name }

func (t *TrackingError) Observe(f *sim.Frame) {
	t.sum += (f.Points[sim.P1].Displacement() + f.Points[sim.P2].Displacement()) / 2
	t.samples++
}

func (t *TrackingError) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.sum / float64(t.samples)
}

func (t *TrackingError) Reset() {
	t.sum = 0
	t.samples = 0
}

// Bounces counts wall contacts of the dynamic points.
type Bounces struct {
	name  string
	count int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(f *sim.Frame) {
	b.count += f.Contacts
}

func (b *Bounces) Value() float64 {
	return float64(b.count)
}

func (b *Bounces) Reset() {
	b.count = 0
}

// Default returns a fresh set of every metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewTrackingError(),
		NewBounces(),
		NewSettle(SettleThreshold),
	}
}
