package experiment

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fieldsim/internal/config"
)

// Ensemble runs one configuration under consecutive seeds, one engine per
// goroutine.
type Ensemble struct {
	base      *config.Config
	numRuns   int
	seedStart int64
	limit     int
	opts      []Option
}

func NewEnsemble(base *config.Config, numRuns int, seedStart int64, opts ...Option) *Ensemble {
	return &Ensemble{
		base:      base,
		numRuns:   numRuns,
		seedStart: seedStart,
		limit:     runtime.GOMAXPROCS(0),
		opts:      opts,
	}
}

// SetLimit bounds the number of concurrent runs.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

type Summary struct {
	Results        []*Result
	MeanScore      float64
	StdScore       float64
	MeanCollisions float64
	StdCollisions  float64
}

func (e *Ensemble) Run(ctx context.Context) (*Summary, error) {
	if e.numRuns < 0 {
		return nil, fmt.Errorf("number of runs must be non-negative, got %d", e.numRuns)
	}
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.base.Clone()
			cfg.Seed = e.seedStart + int64(i)

			x := New(cfg, e.opts...)
			if err := x.Setup(); err != nil {
				return err
			}
			res, err := x.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(results), nil
}

func summarize(results []*Result) *Summary {
	scores := make([]float64, len(results))
	collisions := make([]float64, len(results))
	for i, r := range results {
		scores[i] = float64(r.Score)
		collisions[i] = float64(r.Final.CollisionCount)
	}

	s := &Summary{Results: results}
	if len(results) == 0 {
		return s
	}
	s.MeanScore, s.StdScore = stat.PopMeanStdDev(scores, nil)
	s.MeanCollisions, s.StdCollisions = stat.PopMeanStdDev(collisions, nil)
	return s
}
