package config

import (
	"sort"

	"github.com/san-kum/fieldsim/internal/arena"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/particle"
	"github.com/san-kum/fieldsim/internal/scoring"
	"gonum.org/v1/gonum/spatial/r2"
)

var defaultScoring = ScoringConfig{
	PerCollision: scoring.DefaultPerCollision,
	PerTime:      scoring.DefaultPerTime,
	MinElapsed:   scoring.DefaultMinElapsed,
}

var defaultEngine = EngineConfig{Detector: DefaultDetector, TrailCapacity: DefaultTrailCapacity}

var Presets = map[string]map[string]*Config{
	"particle": {
		"classic": {
			Variant: "particle", Dt: 1, Duration: 600, Engine: defaultEngine,
			Arena: arena.Default(), Particles: particle.ClassicLayout(), Scoring: defaultScoring,
		},
		"crowded": {
			Variant: "particle", Dt: 1, Duration: 600, Seed: 1,
			Engine: EngineConfig{Detector: "grid", TrailCapacity: 10},
			Arena:  arena.Default(), Scoring: defaultScoring,
			Particles: particle.Layout{
				Placement: particle.PlacementRandom, Velocity: particle.VelocityUniform, Speed: 3,
				Groups: []particle.Group{
					{Kind: particle.Light, Count: 40},
					{Kind: particle.Heavy, Count: 20},
					{Kind: particle.Neutral, Count: 10},
					{Kind: particle.Massless, Count: 5},
				},
			},
		},
		"drift": {
			Variant: "particle", Dt: 1, Duration: 600, Seed: 3, Engine: defaultEngine,
			Arena: arena.Default(), Scoring: defaultScoring,
			Particles: particle.Layout{
				Placement: particle.PlacementRandom, Velocity: particle.VelocityPerlin, Speed: 2,
				Groups: []particle.Group{
					{Kind: particle.Light, Count: 12},
					{Kind: particle.Heavy, Count: 6},
				},
			},
		},
	},
	"magnetic": {
		"classic": {
			Variant: "magnetic", Dt: 1, Duration: 600, Engine: defaultEngine,
			Arena: arena.Default(), Fields: field.Parameters{Magnetic: 5},
			Particles: particle.ClassicLayout(), Scoring: defaultScoring,
		},
		"cyclotron": {
			Variant: "magnetic", Dt: 0.5, Duration: 400, Seed: 2,
			Engine: EngineConfig{Detector: DefaultDetector, TrailCapacity: 60},
			Arena:  arena.Default(), Fields: field.Parameters{Magnetic: 10},
			Particles: particle.Layout{
				Placement: particle.PlacementRandom, Velocity: particle.VelocityUniform, Speed: 2,
				Groups: []particle.Group{{Kind: particle.Light, Count: 6}},
			},
			Scoring: defaultScoring,
		},
		"crossed": {
			Variant: "magnetic", Dt: 1, Duration: 600, Engine: defaultEngine,
			Arena: arena.Default(), Fields: field.Parameters{Electric: 4, Magnetic: 8},
			Particles: particle.ClassicLayout(), Scoring: defaultScoring,
		},
	},
	"incline": {
		"classic": {
			Variant: "incline", Dt: 1, Duration: 300, Engine: defaultEngine,
			Arena: arena.Arena{Width: arena.DefaultWidth, Height: arena.DefaultHeight, Damping: 0.5},
			Slope: &field.Slope{Angle: 30, Surface: field.SurfaceSmooth, Roughness: 20},
			Particles: particle.Layout{
				Placement: particle.PlacementClassic, Velocity: particle.VelocityUniform, Speed: 0,
				Groups: []particle.Group{{Kind: particle.Neutral, Count: 1}},
			},
			Scoring: defaultScoring,
		},
		"steep": {
			Variant: "incline", Dt: 1, Duration: 300, Engine: defaultEngine,
			Arena: arena.Arena{Width: arena.DefaultWidth, Height: arena.DefaultHeight, Damping: 0.5},
			Slope: &field.Slope{Angle: 60, Surface: field.SurfaceVeryRough, Roughness: 80},
			Particles: particle.Layout{
				Placement: particle.PlacementClassic, Velocity: particle.VelocityUniform, Speed: 0,
				Groups: []particle.Group{{Kind: particle.Neutral, Count: 1}},
			},
			Scoring: defaultScoring,
		},
		"rolling": {
			Variant: "incline", Dt: 1, Duration: 300, Engine: defaultEngine,
			Arena:  arena.Arena{Width: arena.DefaultWidth, Height: arena.DefaultHeight, Damping: 0.5},
			Fields: field.Parameters{Gravity: r2.Vec{Y: 0.05}, Friction: 0.01},
			Slope:  &field.Slope{Angle: 20, Surface: field.SurfaceRough, Roughness: 50},
			Particles: particle.Layout{
				Placement: particle.PlacementRandom, Velocity: particle.VelocityUniform, Speed: 1,
				Groups: []particle.Group{
					{Kind: particle.Neutral, Count: 4},
					{Kind: particle.Heavy, Count: 4},
				},
			},
			Scoring: defaultScoring,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(variant, preset string) *Config {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	cfg, ok := variantPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(variant string) []string {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListVariants() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
