package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/fieldsim/internal/collision"
	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/engine"
	"github.com/san-kum/fieldsim/internal/metrics"
)

// DefaultPreset is the preset used when only a variant is named.
const DefaultPreset = "classic"

type Registry struct {
	detectors map[string]func(cellSize float64) collision.Detector
	metrics   map[string]func() engine.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		detectors: make(map[string]func(float64) collision.Detector),
		metrics:   make(map[string]func() engine.Metric),
	}

	r.detectors["brute"] = func(float64) collision.Detector { return collision.NewBruteForce() }
	r.detectors["grid"] = func(cellSize float64) collision.Detector {
		g := collision.NewGrid()
		g.CellSize = cellSize
		return g
	}

	r.metrics["kinetic_energy"] = func() engine.Metric { return metrics.NewKineticEnergy() }
	r.metrics["momentum"] = func() engine.Metric { return metrics.NewMomentum() }
	r.metrics["collision_rate"] = func() engine.Metric { return metrics.NewCollisionRate() }
	r.metrics["mean_speed"] = func() engine.Metric { return metrics.NewMeanSpeed() }
	r.metrics["speed_spread"] = func() engine.Metric { return metrics.NewSpeedSpread() }

	return r
}

// GetVariant returns the named preset of a variant. An empty preset
// selects DefaultPreset.
func (r *Registry) GetVariant(variant, preset string) (*config.Config, error) {
	if preset == "" {
		preset = DefaultPreset
	}
	cfg := config.GetPreset(variant, preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s/%s", variant, preset)
	}
	return cfg, nil
}

func (r *Registry) GetDetector(name string, cellSize float64) (collision.Detector, error) {
	fn, ok := r.detectors[name]
	if !ok {
		return nil, fmt.Errorf("unknown detector: %s", name)
	}
	return fn(cellSize), nil
}

func (r *Registry) ListVariants() []string {
	return config.ListVariants()
}

func (r *Registry) ListDetectors() []string {
	names := make([]string, 0, len(r.detectors))
	for name := range r.detectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh instances of every registered metric,
// ordered by name.
func (r *Registry) DefaultMetrics() []engine.Metric {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]engine.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name]())
	}
	return out
}
