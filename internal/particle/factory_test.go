package particle

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestClassicLayout_SourcePositions(t *testing.T) {
	ps, err := NewFactory(ClassicLayout(), 580, 320, 7)()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if len(ps) != 8 {
		t.Fatalf("expected 8 particles, got %d", len(ps))
	}
	if ps[1].Pos.X != 150 || ps[1].Pos.Y != 180 {
		t.Errorf("second electron at %v, want (150,180)", ps[1].Pos)
	}
	if ps[7].Kind != Massless || ps[7].Pos.X != 400 || ps[7].Pos.Y != 100 {
		t.Errorf("photon = %+v", ps[7])
	}
	for _, p := range ps {
		if math.Abs(p.Vel.X) > DefaultSpeed || math.Abs(p.Vel.Y) > DefaultSpeed {
			t.Errorf("%s velocity %v exceeds speed %v", p.ID, p.Vel, DefaultSpeed)
		}
	}
}

func TestFactory_Idempotent(t *testing.T) {
	layouts := map[string]Layout{
		"classic": ClassicLayout(),
		"random": {
			Placement: PlacementRandom, Velocity: VelocityUniform, Speed: 3,
			Groups: []Group{{Kind: Light, Count: 10}, {Kind: Heavy, Count: 4}},
		},
		"perlin": {
			Placement: PlacementRandom, Velocity: VelocityPerlin, Speed: 1.5,
			Groups: []Group{{Kind: Neutral, Count: 6}},
		},
	}

	for name, l := range layouts {
		t.Run(name, func(t *testing.T) {
			f := NewFactory(l, 400, 300, 99)
			a, err := f()
			if err != nil {
				t.Fatalf("first call: %v", err)
			}
			b, err := f()
			if err != nil {
				t.Fatalf("second call: %v", err)
			}
			if !reflect.DeepEqual(a, b) {
				t.Error("same seed produced different particle lists")
			}
		})
	}
}

func TestRandomLayout_InsideArena(t *testing.T) {
	l := Layout{
		Placement: PlacementRandom, Velocity: VelocityUniform, Speed: 2,
		Groups: []Group{{Kind: Light, Count: 20}, {Kind: Heavy, Count: 20}},
	}
	ps, err := NewFactory(l, 200, 100, 3)()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	for _, p := range ps {
		if p.Pos.X < p.Radius || p.Pos.X > 200-p.Radius || p.Pos.Y < p.Radius || p.Pos.Y > 100-p.Radius {
			t.Errorf("%s placed outside arena at %v", p.ID, p.Pos)
		}
	}
}

func TestPerlinVelocity_Magnitude(t *testing.T) {
	l := Layout{
		Placement: PlacementRandom, Velocity: VelocityPerlin, Speed: 2.5,
		Groups: []Group{{Kind: Light, Count: 8}},
	}
	ps, err := NewFactory(l, 400, 300, 11)()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	for _, p := range ps {
		if math.Abs(p.Speed()-2.5) > 1e-9 {
			t.Errorf("%s speed = %f, want 2.5", p.ID, p.Speed())
		}
	}
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
	}{
		{"bad placement", Layout{Placement: "spiral", Velocity: VelocityUniform}},
		{"bad velocity", Layout{Placement: PlacementRandom, Velocity: "swirl"}},
		{"negative speed", Layout{Placement: PlacementRandom, Velocity: VelocityUniform, Speed: -1}},
		{"bad kind", Layout{Placement: PlacementRandom, Velocity: VelocityUniform, Groups: []Group{{Kind: "quark", Count: 1}}}},
		{"negative count", Layout{Placement: PlacementRandom, Velocity: VelocityUniform, Groups: []Group{{Kind: Light, Count: -1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFactory(tt.layout, 100, 100, 1)(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFixed_ReturnsCopies(t *testing.T) {
	f := Fixed(New("a", Light, r2Vec(1, 1), r2Vec(0, 0)))
	a, _ := f()
	a[0].Pos.X = 50
	b, _ := f()
	if b[0].Pos.X != 1 {
		t.Error("Fixed factory leaked a mutation between calls")
	}
}

func r2Vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }
