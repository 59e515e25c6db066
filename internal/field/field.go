// Package field maps a particle and the global field parameters to the
// acceleration it experiences.
//
// The electric field points along +x. The magnetic field is perpendicular
// to the plane, so its contribution rotates the velocity:
//
//	dvx =  k_b * B * vy * q
//	dvy = -k_b * B * vx * q
//
// Both scales are small so slider values in [-10, 10] give visually
// reasonable accelerations. Neutral particles feel neither field.
package field

import (
	"math"

	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	ElectricScale = 0.01
	MagneticScale = 0.01
)

type Parameters struct {
	Electric float64 `yaml:"electric"`
	Magnetic float64 `yaml:"magnetic"`
	// Gravity is a uniform acceleration on massive particles.
	Gravity r2.Vec `yaml:"gravity"`
	// Friction is the fraction of velocity a massive particle loses per
	// unit time.
	Friction float64 `yaml:"friction"`
}

// Off reports whether no field acts on any particle.
func (f Parameters) Off() bool {
	return f.Electric == 0 && f.Magnetic == 0 && f.Gravity == (r2.Vec{}) && f.Friction == 0
}

// Acceleration returns the field contribution for p without touching it.
func Acceleration(p particle.Particle, f Parameters) r2.Vec {
	var a r2.Vec
	if p.Charged() {
		a = r2.Add(electric(p.Charge, f), magnetic(p.Charge, p.Vel, f))
	}
	if p.Massive() {
		a = r2.Add(a, f.Gravity)
	}
	return a
}

func electric(q float64, f Parameters) r2.Vec {
	return r2.Vec{X: q * f.Electric * ElectricScale}
}

// magnetic is perpendicular to vel.
func magnetic(q float64, vel r2.Vec, f Parameters) r2.Vec {
	k := MagneticScale * f.Magnetic * q
	return r2.Vec{X: k * vel.Y, Y: -k * vel.X}
}

// Model applies field effects to a particle's velocity for one step.
type Model interface {
	Apply(p *particle.Particle, f Parameters, dt float64)
}

// Lorentz is the default model: the electric impulse is applied first and
// the magnetic term then acts on the updated velocity. Gravity and friction
// follow for massive particles.
type Lorentz struct{}

func NewLorentz() *Lorentz {
	return &Lorentz{}
}

func (Lorentz) Apply(p *particle.Particle, f Parameters, dt float64) {
	if p.Charged() {
		p.Vel = r2.Add(p.Vel, r2.Scale(dt, electric(p.Charge, f)))
		p.Vel = r2.Add(p.Vel, r2.Scale(dt, magnetic(p.Charge, p.Vel, f)))
	}
	if p.Massive() {
		p.Vel = r2.Add(p.Vel, r2.Scale(dt, f.Gravity))
	}
	if f.Friction > 0 && p.Massive() {
		p.Vel = r2.Scale(math.Max(0, 1-f.Friction*dt), p.Vel)
	}
}
