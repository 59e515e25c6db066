package particle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type Particle struct {
	ID     string
	Pos    r2.Vec
	Vel    r2.Vec
	Mass   float64
	Charge float64
	Radius float64
	Kind   Kind
	Trail  *Trail
}

// New builds a particle with the defaults of its kind. The trail is
// attached by the engine on reset.
func New(id string, kind Kind, pos, vel r2.Vec) Particle {
	d := kind.Defaults()
	return Particle{
		ID:     id,
		Pos:    pos,
		Vel:    vel,
		Mass:   d.Mass,
		Charge: d.Charge,
		Radius: d.Radius,
		Kind:   kind,
	}
}

func (p *Particle) Momentum() r2.Vec {
	return r2.Scale(p.Mass, p.Vel)
}

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * r2.Norm2(p.Vel)
}

func (p *Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}

func (p *Particle) Charged() bool { return p.Charge != 0 }
func (p *Particle) Massive() bool { return p.Mass > 0 }

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (p *Particle) PosFinite() bool { return finite(p.Pos) }
func (p *Particle) VelFinite() bool { return finite(p.Vel) }
