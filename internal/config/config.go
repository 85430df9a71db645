package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/npillmayer/schuko/tracing"
	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/physics"
	"github.com/san-kum/bezspring/internal/sim"
	"gopkg.in/yaml.v3"
)

func tracer() tracing.Trace {
	return tracing.Select("bezspring.config")
}

const (
	DefaultWidth         = 800.0
	DefaultHeight        = 400.0
	DefaultFrameRate     = 60
	DefaultTangentLength = 108.0
	DefaultCellScale     = 5.0
	DefaultStoreBackend  = "file"
	DefaultStoreDir      = ".bezspring"
)

type Config struct {
	Viewport  ViewportConfig `yaml:"viewport"`
	Physics   PhysicsConfig  `yaml:"physics"`
	Sampling  SamplingConfig `yaml:"sampling"`
	Display   DisplayConfig  `yaml:"display"`
	FrameRate int            `yaml:"frame_rate"`
	// CellScale is the number of world units per braille dot in the
	// terminal view.
	CellScale float64     `yaml:"cell_scale"`
	Store     StoreConfig `yaml:"store"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PhysicsConfig struct {
	SpringConstant float64 `yaml:"spring_constant"`
	Damping        float64 `yaml:"damping"`
	MouseInfluence float64 `yaml:"mouse_influence"`
	Margin         float64 `yaml:"margin"`
	Integrator     string  `yaml:"integrator"`
	ReferenceFPS   float64 `yaml:"reference_fps"`
}

type SamplingConfig struct {
	Steps         int       `yaml:"steps"`
	TangentParams []float64 `yaml:"tangent_params"`
}

type DisplayConfig struct {
	ShowTangents      bool    `yaml:"show_tangents"`
	ShowControlLines  bool    `yaml:"show_control_lines"`
	ShowControlPoints bool    `yaml:"show_control_points"`
	TangentLength     float64 `yaml:"tangent_length"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Physics: PhysicsConfig{
			SpringConstant: physics.DefaultSpringConstant,
			Damping:        physics.DefaultDamping,
			MouseInfluence: physics.DefaultMouseInfluence,
			Margin:         physics.DefaultMargin,
			Integrator:     physics.IntegratorTick,
			ReferenceFPS:   physics.DefaultReferenceFPS,
		},
		Sampling: SamplingConfig{
			Steps:         bezier.DefaultSteps,
			TangentParams: slices.Clone(bezier.DefaultTangentParams),
		},
		Display: DisplayConfig{
			ShowTangents:      true,
			ShowControlLines:  true,
			ShowControlPoints: true,
			TangentLength:     DefaultTangentLength,
		},
		FrameRate: DefaultFrameRate,
		CellScale: DefaultCellScale,
		Store:     StoreConfig{Backend: DefaultStoreBackend, Dir: DefaultStoreDir},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	tracer().Debugf("loaded config from %s", path)
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Sampling.TangentParams = slices.Clone(c.Sampling.TangentParams)
	return &cp
}

// Validate checks the preconditions the simulation core relies on. Physics
// parameters are deliberately not range checked.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidViewport, c.Viewport.Width, c.Viewport.Height)
	}
	if c.Sampling.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidSampling, c.Sampling.Steps)
	}
	for _, t := range c.Sampling.TangentParams {
		if t < 0 || t > 1 {
			return fmt.Errorf("%w: tangent parameter %g outside [0,1]", ErrInvalidSampling, t)
		}
	}
	if !slices.Contains(physics.IntegratorNames(), c.Physics.Integrator) {
		return fmt.Errorf("%w: %q", physics.ErrUnknownIntegrator, c.Physics.Integrator)
	}
	return nil
}

func (c *Config) Params() sim.Params {
	return sim.Params{
		SpringConstant: c.Physics.SpringConstant,
		Damping:        c.Physics.Damping,
		MouseInfluence: c.Physics.MouseInfluence,
	}
}

func (c *Config) DisplayOptions() sim.Display {
	return sim.Display{
		Tangents:      c.Display.ShowTangents,
		ControlLines:  c.Display.ShowControlLines,
		ControlPoints: c.Display.ShowControlPoints,
		TangentLength: c.Display.TangentLength,
	}
}

// LoopOptions validates the config and turns it into options for sim.New.
func (c *Config) LoopOptions() (sim.Options, error) {
	if err := c.Validate(); err != nil {
		return sim.Options{}, err
	}
	integ, err := physics.NewIntegrator(c.Physics.Integrator, c.Physics.ReferenceFPS)
	if err != nil {
		return sim.Options{}, err
	}
	margin := c.Physics.Margin
	if margin == 0 {
		margin = sim.NoMargin
	}
	return sim.Options{
		Width:         c.Viewport.Width,
		Height:        c.Viewport.Height,
		Margin:        margin,
		Params:        c.Params(),
		Integrator:    integ,
		Steps:         c.Sampling.Steps,
		TangentParams: slices.Clone(c.Sampling.TangentParams),
		Display:       c.DisplayOptions(),
	}, nil
}

// NewLoop builds a simulation loop from the config. All-zero physics or
// display sections are kept as written rather than defaulted.
func (c *Config) NewLoop() (*sim.Loop, error) {
	opts, err := c.LoopOptions()
	if err != nil {
		return nil, err
	}
	loop := sim.New(opts)
	loop.SetParams(opts.Params)
	loop.SetDisplay(opts.Display)
	return loop, nil
}
