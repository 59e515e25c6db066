// Package scoring turns engine snapshots into game scores. The engine
// knows nothing about scores; callers inject one of these functions.
package scoring

import (
	"math"

	"github.com/san-kum/fieldsim/internal/engine"
)

const (
	DefaultPerCollision = 2.0
	DefaultPerTime      = 0.05
	DefaultMinElapsed   = 50.0
)

// Func scores a snapshot.
type Func func(engine.Snapshot) int

// Knowledge rewards collisions and time spent observing the system.
type Knowledge struct {
	PerCollision float64 `yaml:"per_collision"`
	PerTime      float64 `yaml:"per_time"`
}

func DefaultKnowledge() Knowledge {
	return Knowledge{PerCollision: DefaultPerCollision, PerTime: DefaultPerTime}
}

func (k Knowledge) Score(s engine.Snapshot) int {
	return int(math.Floor(k.PerCollision*float64(s.CollisionCount) + k.PerTime*s.Time))
}

func (k Knowledge) Func() Func { return k.Score }

// Gate decides when a run may be completed.
type Gate struct {
	MinElapsed float64 `yaml:"min_elapsed"`
}

func DefaultGate() Gate { return Gate{MinElapsed: DefaultMinElapsed} }

func (g Gate) Open(s engine.Snapshot) bool {
	return s.Time >= g.MinElapsed
}

// Outcome is the summary handed to whoever awards the score.
type Outcome struct {
	Score      int
	Collisions int
	Elapsed    float64
	Completed  bool
}

// Complete scores s if the gate is open. ok is false when the run is too
// young to complete.
func Complete(s engine.Snapshot, g Gate, f Func) (Outcome, bool) {
	if !g.Open(s) {
		return Outcome{Collisions: s.CollisionCount, Elapsed: s.Time}, false
	}
	return Outcome{
		Score:      f(s),
		Collisions: s.CollisionCount,
		Elapsed:    s.Time,
		Completed:  true,
	}, true
}
