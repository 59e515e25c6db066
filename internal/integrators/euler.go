package integrators

import (
	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances positions by one fixed step. Velocities have already
// received the field impulse for this step.
type Integrator interface {
	Step(p *particle.Particle, dt float64)
}

// SemiImplicitEuler moves each particle with its updated velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (SemiImplicitEuler) Step(p *particle.Particle, dt float64) {
	p.Pos = r2.Add(p.Pos, r2.Scale(dt, p.Vel))
}
