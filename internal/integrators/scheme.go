package integrators

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Scheme turns a body's freshly summed acceleration into new velocity and
// position.
type Scheme interface {
	Name() string
	Integrate(k *dynamo.Kinematics, dt float64)
}

// Euler is the ephemeris viewer's update: the acceleration enters the
// position with a single factor of dt,
//
//	p += v·dt + a·dt
//	v += a·dt
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Integrate(k *dynamo.Kinematics, dt float64) {
	k.Position = r3.Add(k.Position, r3.Add(r3.Scale(dt, k.Velocity), r3.Scale(dt, k.Acceleration)))
	k.Velocity = r3.Add(k.Velocity, r3.Scale(dt, k.Acceleration))
}

// Taylor keeps the second-order position term,
//
//	p += v·dt + ½·a·dt²
//	v += a·dt
type Taylor struct{}

func NewTaylor() *Taylor {
	return &Taylor{}
}

func (t *Taylor) Name() string { return "taylor" }

func (t *Taylor) Integrate(k *dynamo.Kinematics, dt float64) {
	halfDt2 := 0.5 * dt * dt
	k.Position = r3.Add(k.Position, r3.Add(r3.Scale(dt, k.Velocity), r3.Scale(halfDt2, k.Acceleration)))
	k.Velocity = r3.Add(k.Velocity, r3.Scale(dt, k.Acceleration))
}
