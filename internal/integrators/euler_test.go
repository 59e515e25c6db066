package integrators

import (
	"testing"

	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSemiImplicitEuler_Step(t *testing.T) {
	tests := []struct {
		name string
		pos  r2.Vec
		vel  r2.Vec
		dt   float64
		want r2.Vec
	}{
		{"unit step", r2.Vec{X: 10, Y: 150}, r2.Vec{X: -3}, 1, r2.Vec{X: 7, Y: 150}},
		{"half step", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 4, Y: -2}, 0.5, r2.Vec{X: 2, Y: -1}},
		{"at rest", r2.Vec{X: 5, Y: 5}, r2.Vec{}, 1, r2.Vec{X: 5, Y: 5}},
	}

	integ := NewSemiImplicitEuler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := particle.New("p", particle.Light, tt.pos, tt.vel)
			integ.Step(&p, tt.dt)
			if p.Pos != tt.want {
				t.Errorf("position = %v, want %v", p.Pos, tt.want)
			}
			if p.Vel != tt.vel {
				t.Errorf("velocity changed to %v", p.Vel)
			}
		})
	}
}
