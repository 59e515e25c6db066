// Package optim searches field settings for the best run.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/experiment"
)

// Objective scores a finished run; higher is better.
type Objective func(*experiment.Result) float64

func ByScore(r *experiment.Result) float64 { return float64(r.Score) }

func ByMetric(name string) Objective {
	return func(r *experiment.Result) float64 { return r.Metrics[name] }
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination of parameter values and returns the one
// with the highest objective. Ties keep the first combination found.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(-1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val := objective(result)
		if val > *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// FieldBuilder returns an experiment builder that applies "electric" and
// "magnetic" parameters to a copy of base.
func FieldBuilder(base *config.Config, opts ...experiment.Option) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			switch name {
			case "electric":
				cfg.Fields.Electric = v
			case "magnetic":
				cfg.Fields.Magnetic = v
			case "friction":
				cfg.Fields.Friction = v
			default:
				return nil, fmt.Errorf("unknown field parameter: %s", name)
			}
		}
		exp := experiment.New(cfg, opts...)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
