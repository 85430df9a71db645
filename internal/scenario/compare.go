package scenario

import (
	"context"
	"sync"

	"github.com/san-kum/bezspring/internal/config"
	"github.com/san-kum/bezspring/internal/metrics"
	"github.com/san-kum/bezspring/internal/sim"
)

// Variant is one configuration taking part in a comparison.
type Variant struct {
	Name   string
	Config *config.Config
}

// PresetVariants returns one variant per named preset, each a copy of base
// with the preset applied. base is not modified.
func PresetVariants(base *config.Config, names ...string) ([]Variant, error) {
	variants := make([]Variant, 0, len(names))
	for _, name := range names {
		cfg := base.Clone()
		if err := cfg.ApplyPresetByName(name); err != nil {
			return nil, err
		}
		variants = append(variants, Variant{Name: name, Config: cfg})
	}
	return variants, nil
}

// Ensemble runs the same scenario against several configurations in
// parallel, each on its own loop with the default metrics attached.
type Ensemble struct {
	scenario *Scenario
	variants []Variant
}

func NewEnsemble(sc *Scenario, variants []Variant) *Ensemble {
	return &Ensemble{scenario: sc, variants: variants}
}

// Run returns one result per variant in variant order. The first error
// encountered, in variant order, is returned.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.variants))
	errs := make([]error, len(e.variants))

	var wg sync.WaitGroup
	for i, v := range e.variants {
		wg.Add(1)
		go func(idx int, v Variant) {
			defer wg.Done()

			loop, err := e.scenario.NewLoop(v.Config)
			if err != nil {
				errs[idx] = err
				return
			}
			for _, m := range metrics.Default() {
				loop.AddMetric(m)
			}

			res, err := Run(ctx, e.scenario, loop)
			if res != nil {
				res.Name = v.Name
			}
			results[idx], errs[idx] = res, err
		}(i, v)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// RunWith is a convenience for a single variant with extra observers, used
// for recording.
func RunWith(ctx context.Context, sc *Scenario, cfg *config.Config, observers ...sim.Observer) (*Result, error) {
	loop, err := sc.NewLoop(cfg)
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Default() {
		loop.AddMetric(m)
	}
	return Run(ctx, sc, loop, observers...)
}
