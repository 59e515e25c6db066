package engine

import (
	"github.com/san-kum/fieldsim/internal/arena"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

// ParticleView is a read-only copy of one particle.
type ParticleView struct {
	ID     string
	X, Y   float64
	VX, VY float64
	Kind   particle.Kind
	Mass   float64
	Charge float64
	Radius float64
	Trail  []r2.Vec
}

func (v ParticleView) Speed() float64 {
	return r2.Norm(r2.Vec{X: v.VX, Y: v.VY})
}

func (v ParticleView) KineticEnergy() float64 {
	return 0.5 * v.Mass * (v.VX*v.VX + v.VY*v.VY)
}

// Snapshot is the state exposed to callers after a tick. It shares no
// memory with the engine.
type Snapshot struct {
	Time           float64
	Tick           int
	CollisionCount int
	// TickCollisions counts pairs resolved during the last tick.
	TickCollisions int
	// Repairs counts numeric drift corrections since the last reset.
	Repairs   int
	Running   bool
	Fields    field.Parameters
	Arena     arena.Arena
	Particles []ParticleView
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s Snapshot)
}

// Logger is injectable so the core stays free of output decisions.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NopLogger discards everything.
func NopLogger() Logger { return nopLogger{} }
