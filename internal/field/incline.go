package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	StandardGravity = 9.81
	// GravityScale maps m/s^2 onto arena units per tick^2.
	GravityScale = 0.01
)

type Surface string

const (
	SurfaceSmooth    Surface = "smooth"
	SurfaceRough     Surface = "rough"
	SurfaceVeryRough Surface = "very_rough"
)

var surfaceFriction = map[Surface]float64{
	SurfaceSmooth:    0.1,
	SurfaceRough:     0.3,
	SurfaceVeryRough: 0.6,
}

// Coefficient returns the base friction coefficient of the surface.
func (s Surface) Coefficient() (float64, error) {
	mu, ok := surfaceFriction[s]
	if !ok {
		return 0, fmt.Errorf("unknown surface: %s", s)
	}
	return mu, nil
}

// Slope describes the motion lab's inclined plane. Roughness is a
// percentage applied to the surface coefficient.
type Slope struct {
	Angle     float64 `yaml:"angle"`
	Surface   Surface `yaml:"surface"`
	Roughness float64 `yaml:"roughness"`
}

func DefaultSlope() Slope {
	return Slope{Angle: 30, Surface: SurfaceSmooth, Roughness: 20}
}

func (s Slope) Validate() error {
	if s.Angle < 0 || s.Angle > 90 {
		return fmt.Errorf("incline angle must be in [0, 90], got %f", s.Angle)
	}
	if s.Roughness < 0 || s.Roughness > 100 {
		return fmt.Errorf("roughness must be in [0, 100], got %f", s.Roughness)
	}
	_, err := s.Surface.Coefficient()
	return err
}

// Mu is the effective kinetic friction coefficient.
func (s Slope) Mu() (float64, error) {
	c, err := s.Surface.Coefficient()
	if err != nil {
		return 0, err
	}
	return c * s.Roughness / 100, nil
}

// Gravity is the along-slope acceleration in arena units.
func (s Slope) Gravity() (r2.Vec, error) {
	if err := s.Validate(); err != nil {
		return r2.Vec{}, err
	}
	mu, _ := s.Mu()
	return Incline(s.Angle, mu, StandardGravity*GravityScale), nil
}

// Incline converts an incline angle (degrees) and kinetic friction
// coefficient into along-slope acceleration:
// a = g*sin(theta) - mu*g*cos(theta), floored at zero since a block
// at rest does not slide uphill. The slope runs along +x.
func Incline(angleDeg, mu, g float64) r2.Vec {
	th := angleDeg * math.Pi / 180
	a := g*math.Sin(th) - mu*g*math.Cos(th)
	return r2.Vec{X: math.Max(0, a)}
}
