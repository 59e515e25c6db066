package engine

// Clock is the two-state simulation clock. Start and Stop only gate
// future ticks; they never tick themselves.
type Clock struct {
	elapsed float64
	ticks   int
	running bool
}

func (c *Clock) Start()        { c.running = true }
func (c *Clock) Stop()         { c.running = false }
func (c *Clock) Running() bool { return c.running }

func (c *Clock) Advance(dt float64) {
	c.elapsed += dt
	c.ticks++
}

func (c *Clock) Elapsed() float64 { return c.elapsed }
func (c *Clock) Ticks() int       { return c.ticks }

// Reset zeroes the clock and leaves it stopped.
func (c *Clock) Reset() {
	*c = Clock{}
}
