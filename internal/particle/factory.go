package particle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"
)

// Factory produces the initial particle list of a run. Seeded factories
// rebuild their random source on every call so repeated resets agree.
type Factory func() ([]Particle, error)

type Placement string

const (
	// PlacementClassic lays each kind out in a fixed row.
	PlacementClassic Placement = "classic"
	PlacementRandom  Placement = "random"
)

type VelocityPolicy string

const (
	VelocityUniform VelocityPolicy = "uniform"
	VelocityPerlin  VelocityPolicy = "perlin"
)

const (
	DefaultSpeed           = 2.0
	maxPlacementAttempts   = 64
	perlinAlpha            = 2.0
	perlinBeta             = 2.0
	perlinOctaves          = 3
	perlinSpatialFrequency = 1.0 / 120.0
)

type Group struct {
	Kind  Kind `yaml:"kind"`
	Count int  `yaml:"count"`
}

type Layout struct {
	Placement Placement      `yaml:"placement"`
	Velocity  VelocityPolicy `yaml:"velocity"`
	Speed     float64        `yaml:"speed"`
	Groups    []Group        `yaml:"groups"`
}

// ClassicLayout is the default lab mix: three
// electrons, three protons, one neutron and one photon.
func ClassicLayout() Layout {
	return Layout{
		Placement: PlacementClassic,
		Velocity:  VelocityUniform,
		Speed:     DefaultSpeed,
		Groups: []Group{
			{Kind: Light, Count: 3},
			{Kind: Heavy, Count: 3},
			{Kind: Neutral, Count: 1},
			{Kind: Massless, Count: 1},
		},
	}
}

func (l Layout) Validate() error {
	switch l.Placement {
	case PlacementClassic, PlacementRandom:
	default:
		return fmt.Errorf("unknown placement: %s", l.Placement)
	}
	switch l.Velocity {
	case VelocityUniform, VelocityPerlin:
	default:
		return fmt.Errorf("unknown velocity policy: %s", l.Velocity)
	}
	if l.Speed < 0 {
		return fmt.Errorf("speed must be non-negative, got %f", l.Speed)
	}
	for _, g := range l.Groups {
		if !g.Kind.Valid() {
			return fmt.Errorf("unknown particle kind: %s", g.Kind)
		}
		if g.Count < 0 {
			return fmt.Errorf("group %s: count must be non-negative, got %d", g.Kind, g.Count)
		}
	}
	return nil
}

func (l Layout) Total() int {
	n := 0
	for _, g := range l.Groups {
		n += g.Count
	}
	return n
}

// NewFactory returns a seeded factory placing the layout inside a
// width x height arena.
func NewFactory(l Layout, width, height float64, seed int64) Factory {
	return func() ([]Particle, error) {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		g := &generator{
			layout: l,
			width:  width,
			height: height,
			rng:    rand.New(rand.NewSource(seed)),
			noise:  perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
		}
		return g.generate(), nil
	}
}

// Fixed wraps a literal particle list. Every call returns a fresh copy.
func Fixed(ps ...Particle) Factory {
	return func() ([]Particle, error) {
		out := make([]Particle, len(ps))
		copy(out, ps)
		return out, nil
	}
}

type generator struct {
	layout        Layout
	width, height float64
	rng           *rand.Rand
	noise         *perlin.Perlin
	placed        []Particle
}

func (g *generator) generate() []Particle {
	g.placed = make([]Particle, 0, g.layout.Total())
	for _, grp := range g.layout.Groups {
		for i := 0; i < grp.Count; i++ {
			id := fmt.Sprintf("%s-%d", grp.Kind, i)
			r := grp.Kind.Defaults().Radius
			pos := g.position(grp.Kind, i, r)
			g.placed = append(g.placed, New(id, grp.Kind, pos, g.velocity(pos)))
		}
	}
	return g.placed
}

func (g *generator) position(k Kind, i int, radius float64) r2.Vec {
	if g.layout.Placement == PlacementClassic {
		return g.clamp(classicPosition(k, i), radius)
	}
	var pos r2.Vec
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		pos = r2.Vec{
			X: radius + g.rng.Float64()*math.Max(0, g.width-2*radius),
			Y: radius + g.rng.Float64()*math.Max(0, g.height-2*radius),
		}
		if !g.overlaps(pos, radius) {
			break
		}
	}
	return pos
}

func classicPosition(k Kind, i int) r2.Vec {
	fi := float64(i)
	switch k {
	case Light:
		return r2.Vec{X: 100 + fi*50, Y: 150 + fi*30}
	case Heavy:
		return r2.Vec{X: 300 + fi*50, Y: 150 + fi*30}
	case Neutral:
		return r2.Vec{X: 250 + fi*50, Y: 200}
	default:
		return r2.Vec{X: 400 + fi*50, Y: 100}
	}
}

func (g *generator) clamp(p r2.Vec, radius float64) r2.Vec {
	p.X = math.Max(radius, math.Min(g.width-radius, p.X))
	p.Y = math.Max(radius, math.Min(g.height-radius, p.Y))
	return p
}

func (g *generator) overlaps(pos r2.Vec, radius float64) bool {
	for _, q := range g.placed {
		if r2.Norm(r2.Sub(pos, q.Pos)) < radius+q.Radius {
			return true
		}
	}
	return false
}

func (g *generator) velocity(pos r2.Vec) r2.Vec {
	speed := g.layout.Speed
	if g.layout.Velocity == VelocityPerlin {
		n := g.noise.Noise2D(pos.X*perlinSpatialFrequency, pos.Y*perlinSpatialFrequency)
		angle := n * 2 * math.Pi
		return r2.Scale(speed, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)})
	}
	return r2.Vec{
		X: (g.rng.Float64() - 0.5) * 2 * speed,
		Y: (g.rng.Float64() - 0.5) * 2 * speed,
	}
}
