package config

import (
	"fmt"
	"sort"
)

// Presets are named physics tunings applied on top of DefaultConfig.
var Presets = map[string]PhysicsConfig{
	"default": {SpringConstant: 0.1, Damping: 0.92, MouseInfluence: 1.0},
	"jelly":   {SpringConstant: 0.02, Damping: 0.08, MouseInfluence: 1.0},
	"stiff":   {SpringConstant: 0.5, Damping: 0.7, MouseInfluence: 1.0},
	"floaty":  {SpringConstant: 0.01, Damping: 0.15, MouseInfluence: 0.5, Integrator: "harmonic"},
	"bouncy":  {SpringConstant: 0.3, Damping: 0.05, MouseInfluence: 2.0},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.ApplyPreset(p)
	return cfg
}

// ApplyPreset copies the tuning of p into c. Empty integrator names keep
// the current integrator.
func (c *Config) ApplyPreset(p PhysicsConfig) {
	c.Physics.SpringConstant = p.SpringConstant
	c.Physics.Damping = p.Damping
	c.Physics.MouseInfluence = p.MouseInfluence
	if p.Integrator != "" {
		c.Physics.Integrator = p.Integrator
	}
}

// ApplyPresetByName is ApplyPreset for a preset from Presets.
func (c *Config) ApplyPresetByName(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	c.ApplyPreset(p)
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
