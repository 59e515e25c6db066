package metrics

import (
	"github.com/san-kum/fieldsim/internal/engine"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// KineticEnergy is the mean total kinetic energy over all observed ticks.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s engine.Snapshot) {
	k.total += TotalKineticEnergy(s)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// TotalKineticEnergy sums 1/2 m |v|^2 over the snapshot's particles.
func TotalKineticEnergy(s engine.Snapshot) float64 {
	es := make([]float64, len(s.Particles))
	for i, p := range s.Particles {
		es[i] = p.KineticEnergy()
	}
	return floats.Sum(es)
}

// TotalMomentum sums m*v over the snapshot's particles.
func TotalMomentum(s engine.Snapshot) r2.Vec {
	var p r2.Vec
	for _, v := range s.Particles {
		p = r2.Add(p, r2.Scale(v.Mass, r2.Vec{X: v.VX, Y: v.VY}))
	}
	return p
}

// Momentum reports the magnitude of the total momentum at the last tick.
type Momentum struct {
	name string
	last r2.Vec
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(s engine.Snapshot) {
	m.last = TotalMomentum(s)
}

func (m *Momentum) Value() float64 { return r2.Norm(m.last) }

func (m *Momentum) Reset() { m.last = r2.Vec{} }
