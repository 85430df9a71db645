package scenario

import (
	"context"
	"maps"
	"sort"

	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/sim"
)

// Result summarizes a scenario run.
type Result struct {
	Name    string
	Frames  int
	Metrics map[string]float64
	Last    *sim.Frame
}

type glide struct {
	from, to bezier.Point
	step     int
	duration int
}

func (g *glide) next() bezier.Point {
	g.step++
	return g.from.Add(g.to.Sub(g.from).Mul(float64(g.step) / float64(g.duration)))
}

func (g *glide) done() bool { return g.step >= g.duration }

// Run drives loop through the scenario with timestamps frame*1000/fps.
// Observers are called after every tick. Cancelling ctx stops the run before
// the next tick and returns the partial result with the context error.
func Run(ctx context.Context, sc *Scenario, loop *sim.Loop, observers ...sim.Observer) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	for _, name := range sortedKeys(sc.Params) {
		if err := loop.SetParam(name, sc.Params[name]); err != nil {
			return nil, err
		}
	}

	events := make([]indexedEvent, len(sc.Events))
	for i, ev := range sc.Events {
		events[i] = indexedEvent{index: i, Event: ev}
	}
	sort.SliceStable(events, func(a, b int) bool { return events[a].Frame < events[b].Frame })

	tracer().Infof("running scenario %q: %d frames, %d events", sc.Name, sc.Frames, len(events))

	res := &Result{Name: sc.Name}
	var active *glide
	next := 0

	for frame := 0; frame < sc.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			res.Metrics = loop.MetricValues()
			return res, err
		}

		for next < len(events) && events[next].Frame == frame {
			ev := events[next]
			next++
			tracer().Debugf("frame %d: %s event", frame, ev.Type)
			g, err := apply(loop, ev.Event)
			if err != nil {
				return res, &EventError{Index: ev.index, Frame: frame, Wrapped: err}
			}
			if g != nil {
				active = g
			} else if ev.Type == EventPointer || ev.Type == EventLeave {
				active = nil
			}
		}

		if active != nil {
			p := active.next()
			loop.PointerMove(p.X, p.Y)
			if active.done() {
				active = nil
			}
		}

		f := loop.Tick(sc.Timestamp(frame))
		for _, o := range observers {
			o.OnFrame(f)
		}
		res.Frames++
		res.Last = f
	}

	if res.Last != nil {
		res.Last = res.Last.Clone()
	}
	res.Metrics = loop.MetricValues()
	return res, nil
}

type indexedEvent struct {
	index int
	Event
}

func apply(loop *sim.Loop, ev Event) (*glide, error) {
	switch ev.Type {
	case EventPointer:
		loop.PointerMove(ev.X, ev.Y)
	case EventGlide:
		return &glide{from: loop.Pointer().Pos, to: bezier.Pt(ev.X, ev.Y), duration: ev.Duration}, nil
	case EventLeave:
		loop.PointerLeave()
	case EventResize:
		loop.Resize(ev.Width, ev.Height)
	case EventParams:
		for _, name := range sortedKeys(ev.Params) {
			if err := loop.SetParam(name, ev.Params[name]); err != nil {
				return nil, err
			}
		}
	case EventToggle:
		switch ev.Toggle {
		case ToggleTangents:
			loop.ToggleTangents()
		case ToggleControlLines:
			loop.ToggleControlLines()
		case ToggleControlPoints:
			loop.ToggleControlPoints()
		}
	}
	return nil, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range maps.Keys(m) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
