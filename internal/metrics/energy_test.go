package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/fieldsim/internal/engine"
)

func snap(ps ...engine.ParticleView) engine.Snapshot {
	return engine.Snapshot{Particles: ps}
}

func pv(mass, vx, vy float64) engine.ParticleView {
	return engine.ParticleView{Mass: mass, VX: vx, VY: vy}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(snap(pv(2, 3, 4), pv(1, 1, 0)))
	m.Observe(snap(pv(2, 0, 0), pv(1, 0, 0)))

	// (25 + 0.5) / 2
	if got := m.Value(); math.Abs(got-12.75) > 1e-12 {
		t.Errorf("expected mean energy 12.75, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestMasslessCarriesNoEnergy(t *testing.T) {
	if e := TotalKineticEnergy(snap(pv(0, 10, 10))); e != 0 {
		t.Errorf("expected zero energy for massless particle, got %f", e)
	}
}

func TestMomentum(t *testing.T) {
	m := NewMomentum()
	m.Observe(snap(pv(1, 2, 0), pv(1, -2, 0)))
	if m.Value() != 0 {
		t.Errorf("expected opposing momenta to cancel, got %f", m.Value())
	}

	m.Observe(snap(pv(1, 3, 0), pv(3, 0, 0), pv(0, 100, 0)))
	if m.Value() != 3 {
		t.Errorf("expected |p| = 3, got %f", m.Value())
	}
}

func TestCollisionRate(t *testing.T) {
	m := NewCollisionRate()
	if m.Value() != 0 {
		t.Error("expected zero rate before any tick")
	}

	m.Observe(engine.Snapshot{Time: 10, CollisionCount: 4})
	m.Observe(engine.Snapshot{Time: 20, CollisionCount: 6})
	if m.Value() != 0.3 {
		t.Errorf("expected rate 0.3, got %f", m.Value())
	}
}

func TestSpeedMetrics(t *testing.T) {
	tests := []struct {
		name       string
		snap       engine.Snapshot
		wantMean   float64
		wantSpread float64
	}{
		{"empty", snap(), 0, 0},
		{"single", snap(pv(1, 3, 4)), 5, 0},
		{"uniform", snap(pv(1, 1, 0), pv(1, 0, -1)), 1, 0},
		{"spread", snap(pv(1, 1, 0), pv(1, 3, 0)), 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, spread := NewMeanSpeed(), NewSpeedSpread()
			mean.Observe(tt.snap)
			spread.Observe(tt.snap)

			if math.Abs(mean.Value()-tt.wantMean) > 1e-12 {
				t.Errorf("mean speed = %f, want %f", mean.Value(), tt.wantMean)
			}
			if math.Abs(spread.Value()-tt.wantSpread) > 1e-12 {
				t.Errorf("speed spread = %f, want %f", spread.Value(), tt.wantSpread)
			}
		})
	}
}

func TestStandardNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Standard() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
