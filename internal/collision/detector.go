package collision

import (
	"math"
	"sort"

	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

// Pair holds store indices of two overlapping particles, I < J.
type Pair struct {
	I, J int
}

// Detector finds every pair whose centre distance is strictly below the
// sum of the radii. Results are sorted by (I, J).
type Detector interface {
	Detect(ps []particle.Particle) []Pair
}

func overlapping(a, b *particle.Particle) bool {
	rr := a.Radius + b.Radius
	return r2.Norm2(r2.Sub(b.Pos, a.Pos)) < rr*rr
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(x, y int) bool {
		if pairs[x].I != pairs[y].I {
			return pairs[x].I < pairs[y].I
		}
		return pairs[x].J < pairs[y].J
	})
}

// BruteForce checks all n(n-1)/2 pairs.
type BruteForce struct{}

func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

func (BruteForce) Detect(ps []particle.Particle) []Pair {
	var pairs []Pair
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if overlapping(&ps[i], &ps[j]) {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		}
	}
	return pairs
}

type cell struct{ x, y int }

// Grid bins particles into square cells no smaller than the largest
// diameter, so any overlapping pair sits in the same or adjacent cells.
type Grid struct {
	// CellSize overrides the automatic size when it is large enough.
	CellSize float64
	bins     map[cell][]int
}

func NewGrid() *Grid {
	return &Grid{bins: make(map[cell][]int)}
}

func (g *Grid) cellSize(ps []particle.Particle) float64 {
	maxR := 0.0
	for i := range ps {
		maxR = math.Max(maxR, ps[i].Radius)
	}
	return math.Max(g.CellSize, 2*maxR)
}

func (g *Grid) Detect(ps []particle.Particle) []Pair {
	size := g.cellSize(ps)
	if size <= 0 || len(ps) < 2 {
		return BruteForce{}.Detect(ps)
	}
	if g.bins == nil {
		g.bins = make(map[cell][]int)
	}
	for k := range g.bins {
		delete(g.bins, k)
	}

	keys := make([]cell, len(ps))
	for i := range ps {
		c := cell{x: int(math.Floor(ps[i].Pos.X / size)), y: int(math.Floor(ps[i].Pos.Y / size))}
		keys[i] = c
		g.bins[c] = append(g.bins[c], i)
	}

	var pairs []Pair
	for i := range ps {
		c := keys[i]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range g.bins[cell{x: c.x + dx, y: c.y + dy}] {
					if j > i && overlapping(&ps[i], &ps[j]) {
						pairs = append(pairs, Pair{I: i, J: j})
					}
				}
			}
		}
	}
	sortPairs(pairs)
	return pairs
}
