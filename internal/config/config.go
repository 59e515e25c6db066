package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/fieldsim/internal/arena"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/particle"
	"github.com/san-kum/fieldsim/internal/scoring"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt            = 1.0
	DefaultDuration      = 600.0
	DefaultTrailCapacity = 20
	DefaultDetector      = "brute"

	// MaxSteps bounds duration/dt for a single run.
	MaxSteps = 1_000_000
)

type Config struct {
	Variant   string           `yaml:"variant"`
	Dt        float64          `yaml:"dt"`
	Duration  float64          `yaml:"duration"`
	Seed      int64            `yaml:"seed"`
	Engine    EngineConfig     `yaml:"engine"`
	Arena     arena.Arena      `yaml:"arena"`
	Fields    field.Parameters `yaml:"fields"`
	Slope     *field.Slope     `yaml:"slope,omitempty"`
	Particles particle.Layout  `yaml:"particles"`
	Scoring   ScoringConfig    `yaml:"scoring"`
}

type EngineConfig struct {
	Detector      string  `yaml:"detector"`
	CellSize      float64 `yaml:"cell_size"`
	TrailCapacity int     `yaml:"trail_capacity"`
	MaxSpeed      float64 `yaml:"max_speed"`
}

type ScoringConfig struct {
	PerCollision float64 `yaml:"per_collision"`
	PerTime      float64 `yaml:"per_time"`
	MinElapsed   float64 `yaml:"min_elapsed"`
}

func (s ScoringConfig) Knowledge() scoring.Knowledge {
	return scoring.Knowledge{PerCollision: s.PerCollision, PerTime: s.PerTime}
}

func (s ScoringConfig) Gate() scoring.Gate {
	return scoring.Gate{MinElapsed: s.MinElapsed}
}

func DefaultConfig() *Config {
	return &Config{
		Variant:  "particle",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Engine: EngineConfig{
			Detector:      DefaultDetector,
			TrailCapacity: DefaultTrailCapacity,
		},
		Arena:     arena.Default(),
		Particles: particle.ClassicLayout(),
		Scoring: ScoringConfig{
			PerCollision: scoring.DefaultPerCollision,
			PerTime:      scoring.DefaultPerTime,
			MinElapsed:   scoring.DefaultMinElapsed,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run settings. Particle and arena validity is
// enforced again by the engine on reset.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		errs = append(errs, fmt.Errorf("dt must be positive and finite, got %f", c.Dt))
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		errs = append(errs, fmt.Errorf("duration must be positive and finite, got %f", c.Duration))
	}
	if n := c.Duration / c.Dt; n > MaxSteps {
		errs = append(errs, fmt.Errorf("duration %f at dt %f needs %.0f steps, limit is %d", c.Duration, c.Dt, n, MaxSteps))
	}
	if c.Engine.TrailCapacity < 0 {
		errs = append(errs, fmt.Errorf("trail capacity must be non-negative, got %d", c.Engine.TrailCapacity))
	}
	if c.Engine.MaxSpeed < 0 {
		errs = append(errs, fmt.Errorf("max speed must be non-negative, got %f", c.Engine.MaxSpeed))
	}
	if err := c.Arena.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Particles.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Slope != nil {
		if err := c.Slope.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FieldParameters returns the fields for the run. A slope, when set, adds
// its along-incline gravity to the configured gravity.
func (c *Config) FieldParameters() (field.Parameters, error) {
	f := c.Fields
	if c.Slope != nil {
		g, err := c.Slope.Gravity()
		if err != nil {
			return field.Parameters{}, err
		}
		f.Gravity = r2.Add(f.Gravity, g)
	}
	return f, nil
}

// Factory returns the seeded particle factory described by the config.
func (c *Config) Factory() particle.Factory {
	return particle.NewFactory(c.Particles, c.Arena.Width, c.Arena.Height, c.Seed)
}

// Steps is the number of ticks needed to cover Duration, clamped to
// [0, MaxSteps].
func (c *Config) Steps() int {
	n := c.Duration/c.Dt + 0.5
	switch {
	case !(n >= 1):
		return 0
	case n > MaxSteps:
		return MaxSteps
	}
	return int(n)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Particles.Groups = append([]particle.Group(nil), c.Particles.Groups...)
	if c.Slope != nil {
		s := *c.Slope
		out.Slope = &s
	}
	return &out
}
