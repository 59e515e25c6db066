package arena

import (
	"fmt"
	"math"

	"github.com/san-kum/fieldsim/internal/particle"
)

// Arena is the rectangular region [0, Width] x [0, Height]. Damping is the
// fraction of the normal velocity kept after a wall bounce.
type Arena struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Damping float64 `yaml:"damping"`
}

const (
	DefaultWidth   = 580
	DefaultHeight  = 320
	DefaultDamping = 0.8
)

func Default() Arena {
	return Arena{Width: DefaultWidth, Height: DefaultHeight, Damping: DefaultDamping}
}

func (a Arena) Validate() error {
	if !(a.Width > 0) || math.IsInf(a.Width, 0) {
		return fmt.Errorf("width must be positive, got %f", a.Width)
	}
	if !(a.Height > 0) || math.IsInf(a.Height, 0) {
		return fmt.Errorf("height must be positive, got %f", a.Height)
	}
	if !(a.Damping > 0 && a.Damping <= 1) {
		return fmt.Errorf("damping must be in (0, 1], got %f", a.Damping)
	}
	return nil
}

// Fits reports whether a particle of radius r fits inside the arena at all.
func (a Arena) Fits(r float64) bool {
	return 2*r <= a.Width && 2*r <= a.Height
}

// Contains reports whether p lies within [radius, dim - radius] on both axes.
func (a Arena) Contains(p *particle.Particle) bool {
	r := p.Radius
	return p.Pos.X >= r && p.Pos.X <= a.Width-r && p.Pos.Y >= r && p.Pos.Y <= a.Height-r
}

// Reflect clamps p to the arena and reverses, with damping, each velocity
// component whose axis was crossed. It reports whether a wall was hit.
func (a Arena) Reflect(p *particle.Particle) bool {
	hitX := reflectAxis(&p.Pos.X, &p.Vel.X, p.Radius, a.Width, a.Damping)
	hitY := reflectAxis(&p.Pos.Y, &p.Vel.Y, p.Radius, a.Height, a.Damping)
	return hitX || hitY
}

func reflectAxis(pos, vel *float64, r, dim, damping float64) bool {
	lo, hi := r, dim-r
	switch {
	case *pos < lo:
		*pos = lo
	case *pos > hi:
		*pos = hi
	default:
		return false
	}
	*vel = -*vel * damping
	return true
}

// Contain clamps the position only. Used after collision separation, which
// may push a particle past a wall it already bounced off this tick.
func (a Arena) Contain(p *particle.Particle) {
	p.Pos.X = math.Max(p.Radius, math.Min(a.Width-p.Radius, p.Pos.X))
	p.Pos.Y = math.Max(p.Radius, math.Min(a.Height-p.Radius, p.Pos.Y))
}
