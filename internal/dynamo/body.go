package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a massive point particle.
//
// The kinematic state has no setters; it changes only through [Body.Advance],
// which steppers call once per step.
type Body struct {
	name string
	mass float64
	gm   float64

	position     r3.Vec
	velocity     r3.Vec
	acceleration r3.Vec
}

// Kinematics is the mutable state a stepper works on during Advance. It is
// a copy; changes land on the body only when Advance returns.
type Kinematics struct {
	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec
}

// NewBody creates a body with gravitational parameter mass×G and zero
// acceleration. Zero mass is accepted.
func NewBody(name string, mass float64, position, velocity r3.Vec) *Body {
	return NewBodyWithG(name, mass, G, position, velocity)
}

// NewBodyWithG is NewBody with an explicit gravitational constant.
func NewBodyWithG(name string, mass, g float64, position, velocity r3.Vec) *Body {
	return &Body{
		name:     name,
		mass:     mass,
		gm:       mass * g,
		position: position,
		velocity: velocity,
	}
}

func (b *Body) Name() string  { return b.name }
func (b *Body) Mass() float64 { return b.mass }

// GravitationalParameter returns mass×G.
func (b *Body) GravitationalParameter() float64 { return b.gm }

func (b *Body) Position() r3.Vec     { return b.position }
func (b *Body) Velocity() r3.Vec     { return b.velocity }
func (b *Body) Acceleration() r3.Vec { return b.acceleration }

// Momentum returns mass×velocity.
func (b *Body) Momentum() r3.Vec { return r3.Scale(b.mass, b.velocity) }

// IsFinite reports whether no kinematic component is NaN or Inf.
func (b *Body) IsFinite() bool {
	return Finite(b.position) && Finite(b.velocity) && Finite(b.acceleration)
}

// Advance hands the body's kinematic state to fn and stores what fn leaves
// in it. It is the only way to change a body after construction and is
// reserved for steppers: everything else treats bodies as read-only and
// builds a new System to get a different state.
func (b *Body) Advance(fn func(k *Kinematics)) {
	k := Kinematics{
		Position:     b.position,
		Velocity:     b.velocity,
		Acceleration: b.acceleration,
	}
	fn(&k)
	b.position = k.Position
	b.velocity = k.Velocity
	b.acceleration = k.Acceleration
}

// Clone returns an independent copy.
func (b *Body) Clone() *Body {
	c := *b
	return &c
}

// Finite reports whether no component of v is NaN or Inf.
func Finite(v r3.Vec) bool {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
