package metrics

import (
	"github.com/san-kum/bezspring/internal/physics"
	"github.com/san-kum/bezspring/internal/sim"
)

// SettleThreshold is the kinetic energy below which the curve counts as at
// rest.
const SettleThreshold = 1e-3

// KineticEnergy is the mean, over observed frames, of the summed kinetic
// energy of the dynamic points.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(f *sim.Frame) {
	k.total += frameEnergy(f)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// Settle reports the index of the first frame after which the curve stayed
// at rest, or -1 if the last observed frame was still moving.
type Settle struct {
	name      string
	threshold float64
	since     int
}

func NewSettle(threshold float64) *Settle {
	return &Settle{name: "settle_frame", threshold: threshold, since: -1}
}

func (s *Settle) Name() string { return s.name }

func (s *Settle) Observe(f *sim.Frame) {
	if frameEnergy(f) >= s.threshold {
		s.since = -1
		return
	}
	if s.since < 0 {
		s.since = f.Index
	}
}

func (s *Settle) Value() float64 {
	return float64(s.since)
}

func (s *Settle) Reset() {
	s.since = -1
}

func frameEnergy(f *sim.Frame) float64 {
	e := 0.0
	for _, p := range f.Points {
		if p.Kind == physics.Dynamic {
			e += p.KineticEnergy()
		}
	}
	return e
}
