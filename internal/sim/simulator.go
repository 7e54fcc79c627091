package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
)

type Simulator struct {
	stepper   *integrators.Stepper
	metrics   []Metric
	observers []Observer
	log       zerolog.Logger
}

func New(stepper *integrators.Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       zerolog.Nop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// WithLogger sets the logger used for run lifecycle events.
func (s *Simulator) WithLogger(l zerolog.Logger) *Simulator {
	s.log = l
	return s
}

func (s *Simulator) Stepper() *integrators.Stepper { return s.stepper }

// Run advances a copy of sys for cfg.Duration and returns the sampled
// trajectory. sys itself is not modified. Cancellation is checked between
// steps and returns the partial result with the context's error.
func (s *Simulator) Run(ctx context.Context, sys *dynamo.System, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / s.stepper.Dt())
	sampleEvery := cfg.SampleEvery
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	session := NewSession(sys.Clone(), s.stepper)
	session.SetValidation(cfg.ValidateState)
	x := session.System()

	result := &Result{
		Names:     make([]string, x.Len()),
		Times:     make([]float64, 0, steps/sampleEvery+2),
		Positions: make([][]r3.Vec, 0, steps/sampleEvery+2),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}
	for i, b := range x.Bodies() {
		result.Names[i] = b.Name()
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(x, 0)
	}

	initialEnergy := x.Energy()
	initialMomentum := x.Momentum()
	momentumScale := 0.0
	for _, b := range x.Bodies() {
		momentumScale += r3.Norm(b.Momentum())
	}

	result.Times = append(result.Times, 0)
	result.Positions = append(result.Positions, x.Positions())

	s.log.Debug().
		Int("bodies", x.Len()).
		Int("steps", steps).
		Float64("dt", s.stepper.Dt()).
		Str("law", s.stepper.Law().Name()).
		Str("ordering", s.stepper.Ordering().String()).
		Msg("run started")

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.log.Warn().Int("step", i).Msg("run canceled")
			return result, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		if err := session.Advance(1); err != nil {
			result.StepsTaken = session.Steps()
			result.Errors = append(result.Errors, err)
			s.log.Warn().Err(err).Msg("step failed")
			break
		}
		result.StepsTaken++
		x = session.System()
		t := session.Time()

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		if len(s.observers) > 0 {
			frame := session.Frame()
			for _, obs := range s.observers {
				obs.OnFrame(frame)
			}
		}

		if (i+1)%sampleEvery == 0 || i == steps-1 {
			result.Times = append(result.Times, t)
			result.Positions = append(result.Positions, x.Positions())
		}
	}

	// drifts are only meaningful between two finite states
	if x.Validate() == nil {
		if initialEnergy != 0 && !math.IsInf(initialEnergy, 0) {
			result.EnergyDrift = math.Abs(x.Energy()-initialEnergy) / math.Abs(initialEnergy)
		}
		if momentumScale != 0 {
			result.MomentumDrift = r3.Norm(r3.Sub(x.Momentum(), initialMomentum)) / momentumScale
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug().
		Int("steps_taken", result.StepsTaken).
		Int("errors", len(result.Errors)).
		Msg("run finished")

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.stepper.Dt() <= 0 {
		return fmt.Errorf("dt must be positive for a timed run, got %f", s.stepper.Dt())
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
