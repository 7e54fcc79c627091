package sim

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
)

// Session owns a system and the stepper advancing it, counting steps and
// simulated seconds. Live views drive a session one frame at a time.
type Session struct {
	initial *dynamo.System
	sys     *dynamo.System
	stepper *integrators.Stepper
	step    int
	t       float64
	// validate checks every body after each step
	validate bool
}

// NewSession takes ownership of sys and remembers a copy for Reset.
func NewSession(sys *dynamo.System, stepper *integrators.Stepper) *Session {
	return &Session{
		initial:  sys.Clone(),
		sys:      sys,
		stepper:  stepper,
		validate: true,
	}
}

func (s *Session) System() *dynamo.System { return s.sys }
func (s *Session) Steps() int             { return s.step }
func (s *Session) Time() float64          { return s.t }
func (s *Session) Dt() float64            { return s.stepper.Dt() }

// Advance runs n steps and stops at the first failure, returned as a
// *dynamo.SimulationError carrying the failing step. A stepper error
// leaves the step uncounted. A step that leaves a body non-finite is
// counted, since the state has moved, and fails validation.
func (s *Session) Advance(n int) error {
	for i := 0; i < n; i++ {
		if err := s.stepper.Step(s.sys); err != nil {
			return &dynamo.SimulationError{Step: s.step, Time: s.t, Wrapped: err}
		}
		s.step++
		s.t += s.stepper.Dt()

		if s.validate {
			if err := s.sys.Validate(); err != nil {
				return &dynamo.SimulationError{Step: s.step - 1, Time: s.t, Wrapped: err}
			}
		}
	}
	return nil
}

// SetValidation turns the per-step state check on or off. It is on for a
// new session.
func (s *Session) SetValidation(on bool) { s.validate = on }

func (s *Session) Frame() Frame {
	return FrameOf(s.sys, s.step, s.t)
}

// Reset restores the initial bodies and zeroes the clock.
func (s *Session) Reset() {
	s.sys = s.initial.Clone()
	s.step = 0
	s.t = 0
}
