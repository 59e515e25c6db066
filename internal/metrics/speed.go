package metrics

import (
	"github.com/san-kum/fieldsim/internal/engine"
	"gonum.org/v1/gonum/stat"
)

func speeds(s engine.Snapshot) []float64 {
	out := make([]float64, len(s.Particles))
	for i, p := range s.Particles {
		out[i] = p.Speed()
	}
	return out
}

// MeanSpeed averages the per-tick mean particle speed.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(s engine.Snapshot) {
	if len(s.Particles) == 0 {
		return
	}
	m.sum += stat.Mean(speeds(s), nil)
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// SpeedSpread averages the per-tick population standard deviation of
// particle speeds. A well mixed gas has a large spread; a field that
// drives every charge the same way narrows it.
type SpeedSpread struct {
	name    string
	sum     float64
	samples int
}

func NewSpeedSpread() *SpeedSpread {
	return &SpeedSpread{name: "speed_spread"}
}

func (s *SpeedSpread) Name() string { return s.name }

func (s *SpeedSpread) Observe(snap engine.Snapshot) {
	if len(snap.Particles) == 0 {
		return
	}
	_, std := stat.PopMeanStdDev(speeds(snap), nil)
	s.sum += std
	s.samples++
}

func (s *SpeedSpread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *SpeedSpread) Reset() {
	s.sum = 0
	s.samples = 0
}

// Standard returns the metric set recorded by experiments.
func Standard() []engine.Metric {
	return []engine.Metric{
		NewKineticEnergy(),
		NewMomentum(),
		NewCollisionRate(),
		NewMeanSpeed(),
		NewSpeedSpread(),
	}
}
