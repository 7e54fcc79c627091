package dynamo

import "gonum.org/v1/gonum/spatial/r3"

// System is the ordered set of bodies advanced together. A body's index
// identifies it as "self" in pairwise loops, and the count never changes.
type System struct {
	bodies []*Body
}

// NewSystem returns a system over bodies in the given order.
func NewSystem(bodies ...*Body) (*System, error) {
	if len(bodies) == 0 {
		return nil, ErrEmptySystem
	}
	s := &System{bodies: make([]*Body, len(bodies))}
	copy(s.bodies, bodies)
	return s, nil
}

func (s *System) Len() int { return len(s.bodies) }

// Body returns the i-th body.
func (s *System) Body(i int) *Body { return s.bodies[i] }

// Bodies returns the bodies in order. The slice is shared; callers must not
// reorder it.
func (s *System) Bodies() []*Body { return s.bodies }

// Positions returns a snapshot of every body's position.
func (s *System) Positions() []r3.Vec {
	out := make([]r3.Vec, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.position
	}
	return out
}

// Clone returns a deep copy, used for resets and snapshots.
func (s *System) Clone() *System {
	c := &System{bodies: make([]*Body, len(s.bodies))}
	for i, b := range s.bodies {
		c.bodies[i] = b.Clone()
	}
	return c
}

// Momentum returns the total linear momentum.
func (s *System) Momentum() r3.Vec {
	var p r3.Vec
	for _, b := range s.bodies {
		p = r3.Add(p, b.Momentum())
	}
	return p
}

// TotalMass returns the sum of all masses.
func (s *System) TotalMass() float64 {
	m := 0.0
	for _, b := range s.bodies {
		m += b.mass
	}
	return m
}

// CenterOfMass returns the mass-weighted mean position. A massless system
// reports the origin.
func (s *System) CenterOfMass() r3.Vec {
	m := s.TotalMass()
	if m == 0 {
		return r3.Vec{}
	}
	var c r3.Vec
	for _, b := range s.bodies {
		c = r3.Add(c, r3.Scale(b.mass, b.position))
	}
	return r3.Scale(1/m, c)
}

// KineticEnergy returns Σ ½mv².
func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for _, b := range s.bodies {
		ke += 0.5 * b.mass * r3.Norm2(b.velocity)
	}
	return ke
}

// PotentialEnergy returns -Σ G·mᵢ·mⱼ/rᵢⱼ over unordered pairs, using each
// body's own gravitational parameter so a custom G stays consistent.
func (s *System) PotentialEnergy() float64 {
	pe := 0.0
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			r := r3.Norm(r3.Sub(s.bodies[j].position, s.bodies[i].position))
			pe -= s.bodies[i].gm * s.bodies[j].mass / r
		}
	}
	return pe
}

// Energy returns kinetic plus potential energy.
func (s *System) Energy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

// Validate returns a *BodyError wrapping ErrNonFinite for the first body
// holding NaN or Inf.
func (s *System) Validate() error {
	for i, b := range s.bodies {
		if !b.IsFinite() {
			return &BodyError{Index: i, Name: b.name, Wrapped: ErrNonFinite}
		}
	}
	return nil
}
