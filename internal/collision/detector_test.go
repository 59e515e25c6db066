package collision

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

func disc(id string, x, y, r float64) particle.Particle {
	p := particle.New(id, particle.Light, r2.Vec{X: x, Y: y}, r2.Vec{})
	p.Radius = r
	return p
}

func TestDetectors(t *testing.T) {
	tests := []struct {
		name string
		ps   []particle.Particle
		want []Pair
	}{
		{"empty", nil, nil},
		{"single", []particle.Particle{disc("a", 0, 0, 5)}, nil},
		{"overlap", []particle.Particle{disc("a", 10, 10, 5), disc("b", 17, 10, 5)}, []Pair{{0, 1}}},
		{"touching is not a collision", []particle.Particle{disc("a", 10, 10, 5), disc("b", 20, 10, 5)}, nil},
		{"unequal radii", []particle.Particle{disc("a", 10, 10, 2), disc("b", 20, 10, 9)}, []Pair{{0, 1}}},
		{
			"chain",
			[]particle.Particle{disc("a", 10, 10, 5), disc("b", 18, 10, 5), disc("c", 26, 10, 5), disc("d", 100, 100, 5)},
			[]Pair{{0, 1}, {1, 2}},
		},
		{"coincident", []particle.Particle{disc("a", 50, 50, 3), disc("b", 50, 50, 3)}, []Pair{{0, 1}}},
	}

	detectors := map[string]Detector{"brute": NewBruteForce(), "grid": NewGrid()}
	for dname, d := range detectors {
		for _, tt := range tests {
			t.Run(dname+"/"+tt.name, func(t *testing.T) {
				got := d.Detect(tt.ps)
				if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestGridMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	grid := NewGrid()

	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(60)
		ps := make([]particle.Particle, n)
		for i := range ps {
			ps[i] = disc("p", rng.Float64()*200, rng.Float64()*120, 1+rng.Float64()*8)
		}

		want := BruteForce{}.Detect(ps)
		got := grid.Detect(ps)
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("trial %d: grid differs from brute force (-brute +grid):\n%s", trial, diff)
		}
	}
}

func TestDetect_PairInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	ps := make([]particle.Particle, 40)
	for i := range ps {
		ps[i] = disc("p", rng.Float64()*80, rng.Float64()*80, 4)
	}

	seen := make(map[Pair]bool)
	for _, p := range NewGrid().Detect(ps) {
		if p.I >= p.J {
			t.Errorf("pair %v is not ordered or is a self pair", p)
		}
		if seen[p] {
			t.Errorf("duplicate pair %v", p)
		}
		seen[p] = true
	}
}
