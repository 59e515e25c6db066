package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/engine"
	"github.com/san-kum/fieldsim/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run of a scenario. Zero values keep the preset's
// settings.
type ScenarioStep struct {
	Variant  string       `yaml:"variant"`
	Preset   string       `yaml:"preset"`
	Duration float64      `yaml:"duration"`
	Dt       float64      `yaml:"dt"`
	Seed     int64        `yaml:"seed"`
	Events   []FieldEvent `yaml:"events"`
}

// FieldEvent changes field strengths once the clock reaches At. A nil
// strength is left as it is.
type FieldEvent struct {
	At       float64  `yaml:"at"`
	Electric *float64 `yaml:"electric"`
	Magnetic *float64 `yaml:"magnetic"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

func (s ScenarioStep) config(registry *experiment.Registry) (*config.Config, error) {
	cfg, err := registry.GetVariant(s.Variant, s.Preset)
	if err != nil {
		return nil, err
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return cfg, nil
}

// eventQueue hands out events in time order.
type eventQueue struct {
	events []FieldEvent
	next   int
}

func newEventQueue(events []FieldEvent) *eventQueue {
	sorted := append([]FieldEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &eventQueue{events: sorted}
}

// apply fires every pending event due at time t.
func (q *eventQueue) apply(eng *engine.Engine, t float64) int {
	fired := 0
	for q.next < len(q.events) && q.events[q.next].At <= t {
		ev := q.events[q.next]
		f := eng.Fields()
		if ev.Electric != nil {
			f.Electric = *ev.Electric
		}
		if ev.Magnetic != nil {
			f.Magnetic = *ev.Magnetic
		}
		eng.SetFieldParameters(f.Electric, f.Magnetic)
		q.next++
		fired++
	}
	return fired
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger engine.Logger) ([]*experiment.Result, error) {
	if logger == nil {
		logger = engine.NopLogger()
	}
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Infof("running step %d/%d: %s/%s", i+1, len(scenario.Steps), step.Variant, step.Preset)

		cfg, err := step.config(registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, experiment.WithRegistry(registry), experiment.WithLogger(logger))
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		queue := newEventQueue(step.Events)
		queue.apply(exp.Engine(), 0)
		result, err := exp.RunWithCallback(ctx, func(s engine.Snapshot) bool {
			if n := queue.apply(exp.Engine(), s.Time); n > 0 {
				logger.Debugf("t=%.2f: %d field event(s), now %+v", s.Time, n, exp.Engine().Fields())
			}
			return true
		})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, result)
	}

	return results, nil
}

// Sweepable field parameters.
const (
	ParamElectric = "electric"
	ParamMagnetic = "magnetic"
)

// ParameterSweep runs one preset across a range of field strengths
type ParameterSweep struct {
	Variant  string
	Preset   string
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Duration float64
	Seed     int64
}

// SweepResult holds the outcome for one parameter value
type SweepResult struct {
	ParamValue    float64
	Score         int
	Collisions    int
	MeanKinetic   float64
	CollisionRate float64
}

// Values returns the swept parameter values, Min and Max included.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger engine.Logger) ([]SweepResult, error) {
	if sweep.Param != ParamElectric && sweep.Param != ParamMagnetic {
		return nil, fmt.Errorf("cannot sweep %q: want %s or %s", sweep.Param, ParamElectric, ParamMagnetic)
	}
	if logger == nil {
		logger = engine.NopLogger()
	}

	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		cfg, err := registry.GetVariant(sweep.Variant, sweep.Preset)
		if err != nil {
			return nil, err
		}
		if sweep.Duration > 0 {
			cfg.Duration = sweep.Duration
		}
		if sweep.Seed != 0 {
			cfg.Seed = sweep.Seed
		}
		if sweep.Param == ParamElectric {
			cfg.Fields.Electric = v
		} else {
			cfg.Fields.Magnetic = v
		}

		exp := experiment.New(cfg, experiment.WithRegistry(registry), experiment.WithLogger(logger))
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue:    v,
			Score:         result.Score,
			Collisions:    result.Final.CollisionCount,
			MeanKinetic:   result.Metrics["kinetic_energy"],
			CollisionRate: result.Metrics["collision_rate"],
		})

		logger.Infof("sweep %d/%d: %s=%.4f", i+1, len(values), sweep.Param, v)
	}

	return results, nil
}
