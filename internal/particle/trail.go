package particle

import "gonum.org/v1/gonum/spatial/r2"

// Trail is a fixed capacity FIFO of past positions. It is observational
// only and never read by the physics stages.
type Trail struct {
	points []r2.Vec
	start  int
	size   int
}

func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{points: make([]r2.Vec, capacity)}
}

// Push appends p, discarding the oldest point once full.
func (t *Trail) Push(p r2.Vec) {
	n := len(t.points)
	if n == 0 {
		return
	}
	if t.size < n {
		t.points[(t.start+t.size)%n] = p
		t.size++
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % n
}

func (t *Trail) Len() int { return t.size }
func (t *Trail) Cap() int { return len(t.points) }

// Points returns a copy, oldest first.
func (t *Trail) Points() []r2.Vec {
	out := make([]r2.Vec, t.size)
	for i := 0; i < t.size; i++ {
		out[i] = t.points[(t.start+i)%len(t.points)]
	}
	return out
}

func (t *Trail) Clear() {
	t.start, t.size = 0, 0
}
