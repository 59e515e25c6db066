package metrics

import "github.com/san-kum/fieldsim/internal/engine"

// CollisionRate is the number of resolved collisions per unit of
// simulated time.
type CollisionRate struct {
	name       string
	collisions int
	elapsed    float64
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string {
	return c.name
}

func (c *CollisionRate) Observe(s engine.Snapshot) {
	c.collisions = s.CollisionCount
	c.elapsed = s.Time
}

func (c *CollisionRate) Value() float64 {
	if c.elapsed == 0 {
		return 0
	}
	return float64(c.collisions) / c.elapsed
}

func (c *CollisionRate) Reset() {
	c.collisions = 0
	c.elapsed = 0
}
