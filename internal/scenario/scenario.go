// Package scenario scripts pointer input against a simulation loop so runs
// can be replayed headless, recorded and compared.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"github.com/npillmayer/schuko/tracing"
	"github.com/san-kum/bezspring/internal/config"
	"github.com/san-kum/bezspring/internal/sim"
	"gopkg.in/yaml.v3"
)

func tracer() tracing.Trace {
	return tracing.Select("bezspring.scenario")
}

// Event kinds.
const (
	EventPointer = "pointer"
	EventGlide   = "glide"
	EventLeave   = "leave"
	EventResize  = "resize"
	EventParams  = "params"
	EventToggle  = "toggle"
)

// Toggle targets for EventToggle.
const (
	ToggleTangents      = "tangents"
	ToggleControlLines  = "control_lines"
	ToggleControlPoints = "control_points"
)

type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Width       float64            `yaml:"width,omitempty"`
	Height      float64            `yaml:"height,omitempty"`
	FPS         int                `yaml:"fps"`
	Frames      int                `yaml:"frames"`
	Preset      string             `yaml:"preset,omitempty"`
	Params      map[string]float64 `yaml:"params,omitempty"`
	Events      []Event            `yaml:"events,omitempty"`
}

// Event is applied right before the tick of its frame.
type Event struct {
	Frame int    `yaml:"frame"`
	Type  string `yaml:"type"`

	X float64 `yaml:"x,omitempty"`
	Y float64 `yaml:"y,omitempty"`
	// Duration is the glide length in frames.
	Duration int `yaml:"duration,omitempty"`

	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	Params map[string]float64 `yaml:"params,omitempty"`
	Toggle string             `yaml:"toggle,omitempty"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &sc, nil
}

func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scenario) fps() int {
	if s.FPS <= 0 {
		return config.DefaultFrameRate
	}
	return s.FPS
}

// Timestamp is the synthetic timestamp in milliseconds of the given frame.
func (s *Scenario) Timestamp(frame int) float64 {
	return float64(frame) * 1000 / float64(s.fps())
}

// Validate checks the frame count and every event.
func (s *Scenario) Validate() error {
	if s.Frames <= 0 {
		return ErrEmptyScenario
	}
	for i, ev := range s.Events {
		if err := ev.validate(s.Frames); err != nil {
			return &EventError{Index: i, Frame: ev.Frame, Wrapped: err}
		}
	}
	return nil
}

func (e Event) validate(frames int) error {
	if e.Frame < 0 || e.Frame >= frames {
		return fmt.Errorf("%w: frame outside [0,%d)", ErrInvalidEvent, frames)
	}
	switch e.Type {
	case EventPointer, EventLeave:
	case EventGlide:
		if e.Duration < 1 {
			return fmt.Errorf("%w: glide needs a duration of at least one frame", ErrInvalidEvent)
		}
	case EventResize:
		if e.Width <= 0 || e.Height <= 0 {
			return fmt.Errorf("%w: resize to %gx%g", ErrInvalidEvent, e.Width, e.Height)
		}
	case EventParams:
		if len(e.Params) == 0 {
			return fmt.Errorf("%w: params event without params", ErrInvalidEvent)
		}
	case EventToggle:
		switch e.Toggle {
		case ToggleTangents, ToggleControlLines, ToggleControlPoints:
		default:
			return fmt.Errorf("%w: unknown toggle %q", ErrInvalidEvent, e.Toggle)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	return nil
}

// Config returns a copy of base with the scenario viewport, frame rate and
// preset applied.
func (s *Scenario) Config(base *config.Config) (*config.Config, error) {
	cfg := base.Clone()
	if s.Width > 0 {
		cfg.Viewport.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Viewport.Height = s.Height
	}
	cfg.FrameRate = s.fps()
	if s.Preset != "" {
		if err := cfg.ApplyPresetByName(s.Preset); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// NewLoop builds the loop a scenario should run against.
func (s *Scenario) NewLoop(base *config.Config) (*sim.Loop, error) {
	cfg, err := s.Config(base)
	if err != nil {
		return nil, err
	}
	return cfg.NewLoop()
}

var builtins = map[string]func() *Scenario{
	"sweep":  Sweep,
	"settle": Settle,
}

// Sweep moves the pointer from the left edge to the right edge along the
// middle of an 800x400 viewport, then leaves.
func Sweep() *Scenario {
	return &Scenario{
		Name:        "sweep",
		Description: "pointer sweeps left to right and leaves",
		Width:       config.DefaultWidth,
		Height:      config.DefaultHeight,
		FPS:         config.DefaultFrameRate,
		Frames:      240,
		Events: []Event{
			{Frame: 0, Type: EventPointer, X: 0, Y: 200},
			{Frame: 1, Type: EventGlide, X: 800, Y: 200, Duration: 120},
			{Frame: 150, Type: EventLeave},
		},
	}
}

// Settle runs with no input at all.
func Settle() *Scenario {
	return &Scenario{
		Name:        "settle",
		Description: "no input, the curve stays at rest",
		Width:       config.DefaultWidth,
		Height:      config.DefaultHeight,
		FPS:         config.DefaultFrameRate,
		Frames:      120,
	}
}

func Builtin(name string) (*Scenario, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownScenario, name, BuiltinNames())
	}
	return fn(), nil
}

func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve loads a scenario by builtin name or from a YAML file.
func Resolve(nameOrPath string) (*Scenario, error) {
	if _, ok := builtins[nameOrPath]; ok {
		return Builtin(nameOrPath)
	}
	if _, err := os.Stat(nameOrPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, nameOrPath)
	}
	return Load(nameOrPath)
}
