package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/engine"
	"github.com/san-kum/fieldsim/internal/metrics"
	"github.com/san-kum/fieldsim/internal/scoring"
)

// Result is the outcome of one run.
type Result struct {
	Seed       int64
	Final      engine.Snapshot
	Times      []float64
	Collisions []float64
	Energy     []float64
	Metrics    map[string]float64
	Score      int
	Outcome    scoring.Outcome
	StepsTaken int
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   engine.Logger
	engine   *engine.Engine
	score    scoring.Func
}

type Option func(*Experiment)

func WithRegistry(r *Registry) Option   { return func(x *Experiment) { x.registry = r } }
func WithLogger(l engine.Logger) Option { return func(x *Experiment) { x.logger = l } }
func WithScoring(f scoring.Func) Option { return func(x *Experiment) { x.score = f } }

func New(cfg *config.Config, opts ...Option) *Experiment {
	x := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   engine.NopLogger(),
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.score == nil {
		x.score = cfg.Scoring.Knowledge().Func()
	}
	return x
}

// Setup builds the engine and loads the initial particles.
func (x *Experiment) Setup() error {
	if err := x.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	det, err := x.registry.GetDetector(x.cfg.Engine.Detector, x.cfg.Engine.CellSize)
	if err != nil {
		return err
	}
	fields, err := x.cfg.FieldParameters()
	if err != nil {
		return err
	}

	eng := engine.New(
		engine.WithDetector(det),
		engine.WithTrailCapacity(x.cfg.Engine.TrailCapacity),
		engine.WithMaxSpeed(x.cfg.Engine.MaxSpeed),
		engine.WithLogger(x.logger),
	)
	for _, m := range x.registry.DefaultMetrics() {
		eng.AddMetric(m)
	}
	if _, err := eng.Reset(x.cfg.Factory(), fields, x.cfg.Arena); err != nil {
		return err
	}
	x.engine = eng
	return nil
}

// Engine returns the underlying engine for adding observers.
func (x *Experiment) Engine() *engine.Engine {
	return x.engine
}

func (x *Experiment) Config() *config.Config {
	return x.cfg
}

// Run ticks the engine until the configured duration has elapsed.
func (x *Experiment) Run(ctx context.Context) (*Result, error) {
	return x.RunWithCallback(ctx, nil)
}

// RunWithCallback is Run with a hook after every tick. The run ends early
// when callback returns false.
func (x *Experiment) RunWithCallback(ctx context.Context, callback func(engine.Snapshot) bool) (*Result, error) {
	if x.engine == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	steps := x.cfg.Steps()
	result := &Result{
		Seed:       x.cfg.Seed,
		Times:      make([]float64, 0, steps),
		Collisions: make([]float64, 0, steps),
		Energy:     make([]float64, 0, steps),
	}

	x.engine.Start()
	defer x.engine.Stop()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			x.finish(result, x.engine.Snapshot())
			return result, ctx.Err()
		default:
		}

		snap, err := x.engine.Tick(x.cfg.Dt)
		if err != nil {
			if errors.Is(err, engine.ErrStopped) {
				break
			}
			return nil, fmt.Errorf("tick %d: %w", i, err)
		}
		result.StepsTaken++
		result.Times = append(result.Times, snap.Time)
		result.Collisions = append(result.Collisions, float64(snap.CollisionCount))
		result.Energy = append(result.Energy, metrics.TotalKineticEnergy(snap))

		if callback != nil && !callback(snap) {
			break
		}
	}

	x.finish(result, x.engine.Snapshot())
	x.logger.Infof("run finished: %d steps, %d collisions, score %d",
		result.StepsTaken, result.Final.CollisionCount, result.Score)
	return result, nil
}

func (x *Experiment) finish(r *Result, final engine.Snapshot) {
	r.Final = final
	r.Metrics = x.engine.Metrics()
	r.Score = x.score(final)
	r.Outcome, _ = scoring.Complete(final, x.cfg.Scoring.Gate(), x.score)
}
