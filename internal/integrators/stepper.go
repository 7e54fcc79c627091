package integrators

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// DefaultDt is one hundredth of a day, in seconds.
const DefaultDt = dynamo.SecondsPerDay * 0.01

// Ordering selects how force summation and integration interleave.
type Ordering int

const (
	// Sequential finishes body i (force sum and integration) before body
	// i+1, so later bodies see positions already advanced this step.
	Sequential Ordering = iota

	// TwoPhase sums every acceleration from the pre-step positions, then
	// integrates every body.
	TwoPhase
)

func (o Ordering) String() string {
	switch o {
	case Sequential:
		return "sequential"
	case TwoPhase:
		return "two-phase"
	default:
		return "unknown"
	}
}

type Config struct {
	Dt       float64
	Law      physics.ForceLaw
	Scheme   Scheme
	Ordering Ordering
	// Guard makes Step fail with dynamo.ErrNonFinite instead of
	// integrating a non-finite acceleration.
	Guard bool
}

func DefaultConfig() Config {
	return Config{
		Dt:       DefaultDt,
		Law:      physics.NewNewtonian(),
		Scheme:   NewEuler(),
		Ordering: Sequential,
	}
}

// Stepper advances a whole system by one fixed time increment per call.
type Stepper struct {
	dt       float64
	law      physics.ForceLaw
	scheme   Scheme
	ordering Ordering
	guard    bool
	acc      []r3.Vec
}

// New returns a stepper for cfg. Nil law or scheme fall back to the
// defaults. A zero dt is kept: stepping then only recomputes accelerations.
func New(cfg Config) *Stepper {
	def := DefaultConfig()
	if cfg.Law == nil {
		cfg.Law = def.Law
	}
	if cfg.Scheme == nil {
		cfg.Scheme = def.Scheme
	}
	return &Stepper{
		dt:       cfg.Dt,
		law:      cfg.Law,
		scheme:   cfg.Scheme,
		ordering: cfg.Ordering,
		guard:    cfg.Guard,
	}
}

func (s *Stepper) Dt() float64           { return s.dt }
func (s *Stepper) Law() physics.ForceLaw { return s.law }
func (s *Stepper) Scheme() Scheme        { return s.scheme }
func (s *Stepper) Ordering() Ordering    { return s.ordering }
func (s *Stepper) Guarded() bool         { return s.guard }

// Step advances every body of sys by dt. Accelerations are rebuilt from
// zero. Unguarded, Step never fails; non-finite values propagate into the
// state. Guarded, it returns a *dynamo.BodyError wrapping
// dynamo.ErrNonFinite before integrating the offending body.
func (s *Stepper) Step(sys *dynamo.System) error {
	if s.ordering == TwoPhase {
		return s.stepTwoPhase(sys)
	}
	return s.stepSequential(sys)
}

func (s *Stepper) stepSequential(sys *dynamo.System) error {
	for i, b := range sys.Bodies() {
		acc := physics.Acceleration(s.law, sys, i)
		if err := s.check(i, b, acc); err != nil {
			return err
		}
		s.apply(b, acc)
	}
	return nil
}

func (s *Stepper) stepTwoPhase(sys *dynamo.System) error {
	n := sys.Len()
	if len(s.acc) != n {
		s.acc = make([]r3.Vec, n)
	}

	for i, b := range sys.Bodies() {
		s.acc[i] = physics.Acceleration(s.law, sys, i)
		if err := s.check(i, b, s.acc[i]); err != nil {
			return err
		}
	}

	for i, b := range sys.Bodies() {
		s.apply(b, s.acc[i])
	}
	return nil
}

func (s *Stepper) check(i int, b *dynamo.Body, acc r3.Vec) error {
	if s.guard && !dynamo.Finite(acc) {
		return &dynamo.BodyError{Index: i, Name: b.Name(), Wrapped: dynamo.ErrNonFinite}
	}
	return nil
}

func (s *Stepper) apply(b *dynamo.Body, acc r3.Vec) {
	b.Advance(func(k *dynamo.Kinematics) {
		k.Acceleration = acc
		s.scheme.Integrate(k, s.dt)
	})
}
