package collision

import (
	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

// FallbackNormal is used when two centres coincide exactly.
var FallbackNormal = r2.Vec{X: 1, Y: 0}

// Contact describes one resolved collision.
type Contact struct {
	Normal     r2.Vec
	Overlap    float64
	Degenerate bool
}

type Resolver interface {
	// Resolve updates both particles and reports whether velocities were
	// exchanged. Callers count the contact either way.
	Resolve(a, b *particle.Particle) (Contact, bool)
}

// Elastic performs a 1D elastic collision along the line of centres and
// leaves tangential velocity alone. Massless particles pass through.
type Elastic struct{}

func NewElastic() *Elastic {
	return &Elastic{}
}

func (Elastic) Resolve(a, b *particle.Particle) (Contact, bool) {
	if !a.Massive() || !b.Massive() {
		return Contact{}, false
	}

	d := r2.Sub(b.Pos, a.Pos)
	dist := r2.Norm(d)
	c := Contact{Normal: FallbackNormal}
	if dist > 0 {
		c.Normal = r2.Scale(1/dist, d)
	} else {
		c.Degenerate = true
	}
	n := c.Normal

	v1n := r2.Dot(a.Vel, n)
	v2n := r2.Dot(b.Vel, n)
	u1, u2 := normalVelocities(a.Mass, b.Mass, v1n, v2n)
	a.Vel = r2.Add(a.Vel, r2.Scale(u1-v1n, n))
	b.Vel = r2.Add(b.Vel, r2.Scale(u2-v2n, n))

	c.Overlap = a.Radius + b.Radius - dist
	if c.Overlap > 0 {
		half := r2.Scale(c.Overlap/2, n)
		a.Pos = r2.Sub(a.Pos, half)
		b.Pos = r2.Add(b.Pos, half)
	}
	return c, true
}

func normalVelocities(m1, m2, v1, v2 float64) (float64, float64) {
	if m1 == m2 {
		return v2, v1
	}
	m := m1 + m2
	return ((m1-m2)*v1 + 2*m2*v2) / m, ((m2-m1)*v2 + 2*m1*v1) / m
}
