package storage

import (
	"fmt"
	"slices"
	"time"

	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/influence"
	"github.com/san-kum/bezspring/internal/physics"
	"github.com/san-kum/bezspring/internal/sim"
)

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	FPS        int                `json:"fps"`
	Integrator string             `json:"integrator"`
	Params     sim.Params         `json:"params"`
	Frames     int                `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

// FrameRecord is the persisted part of a frame: everything needed to redraw
// it, minus the sampled curve which is recomputed on load.
type FrameRecord struct {
	Index     int
	Timestamp float64
	Points    [4]bezier.Point
	Vel       [2]bezier.Point
	Target    [2]bezier.Point
	Pointer   bezier.Point
	Active    bool
}

// Columns names the values of FrameRecord.Values, in order.
var Columns = []string{
	"index", "timestamp",
	"p0x", "p0y", "p1x", "p1y", "p2x", "p2y", "p3x", "p3y",
	"v1x", "v1y", "v2x", "v2y",
	"t1x", "t1y", "t2x", "t2y",
	"px", "py", "active",
}

func NewFrameRecord(f *sim.Frame) FrameRecord {
	r := FrameRecord{
		Index:     f.Index,
		Timestamp: f.Timestamp,
		Pointer:   f.Pointer.Pos,
		Active:    f.Pointer.Active,
	}
	for i, p := range f.Points {
		r.Points[i] = p.Pos
	}
	for i, idx := range []int{sim.P1, sim.P2} {
		r.Vel[i] = f.Points[idx].Vel
		r.Target[i] = f.Points[idx].Target
	}
	return r
}

func (r FrameRecord) Values() []float64 {
	active := 0.0
	if r.Active {
		active = 1
	}
	return []float64{
		float64(r.Index), r.Timestamp,
		r.Points[0].X, r.Points[0].Y, r.Points[1].X, r.Points[1].Y,
		r.Points[2].X, r.Points[2].Y, r.Points[3].X, r.Points[3].Y,
		r.Vel[0].X, r.Vel[0].Y, r.Vel[1].X, r.Vel[1].Y,
		r.Target[0].X, r.Target[0].Y, r.Target[1].X, r.Target[1].Y,
		r.Pointer.X, r.Pointer.Y, active,
	}
}

// RecordFromValues is the inverse of Values.
func RecordFromValues(v []float64) (FrameRecord, error) {
	if len(v) != len(Columns) {
		return FrameRecord{}, fmt.Errorf("frame record needs %d values, got %d", len(Columns), len(v))
	}
	pt := func(i int) bezier.Point { return bezier.Pt(v[i], v[i+1]) }
	return FrameRecord{
		Index:     int(v[0]),
		Timestamp: v[1],
		Points:    [4]bezier.Point{pt(2), pt(4), pt(6), pt(8)},
		Vel:       [2]bezier.Point{pt(10), pt(12)},
		Target:    [2]bezier.Point{pt(14), pt(16)},
		Pointer:   pt(18),
		Active:    v[20] != 0,
	}, nil
}

// Frame rebuilds a drawable frame from the record, resampling the curve
// with the default sampling.
func (r FrameRecord) Frame(meta *RunMetadata) *sim.Frame {
	f := &sim.Frame{
		Index:     r.Index,
		Timestamp: r.Timestamp,
		Width:     meta.Width,
		Height:    meta.Height,
		Pointer:   influence.Pointer{Pos: r.Pointer, Active: r.Active},
		Params:    meta.Params,
		Display:   sim.DefaultDisplay(),
	}
	f.Points[sim.P0] = physics.NewFixed(r.Points[0])
	f.Points[sim.P3] = physics.NewFixed(r.Points[3])
	for i, idx := range []int{sim.P1, sim.P2} {
		p := physics.NewDynamic(r.Points[idx])
		p.Vel = r.Vel[i]
		p.Target = r.Target[i]
		f.Points[idx] = p
	}
	if r.Active {
		f.Influence[0], f.Influence[1] = influence.Compute(r.Pointer.X, meta.Width, 1)
	}

	p0, p1, p2, p3 := f.Positions()
	f.Curve = slices.Collect(bezier.Sample(p0, p1, p2, p3, bezier.DefaultSteps))
	f.Tangents = slices.Collect(bezier.Tangents(p0, p1, p2, p3, bezier.DefaultTangentParams))
	return f
}

// Recorder is a sim.Observer that keeps a FrameRecord per frame.
type Recorder struct {
	records []FrameRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnFrame(f *sim.Frame) {
	r.records = append(r.records, NewFrameRecord(f))
}

func (r *Recorder) Records() []FrameRecord { return r.records }

func (r *Recorder) Reset() { r.records = r.records[:0] }
