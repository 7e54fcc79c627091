package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

// BoundRadiusFactor sizes the escape sphere of the default bound metric
// relative to the widest initial body distance from the center of mass.
const BoundRadiusFactor = 10.0

// Experiment is one system file turned into a runnable simulation.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	system    *dynamo.System
	simulator *sim.Simulator
	log       zerolog.Logger
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		log:      zerolog.Nop(),
	}
}

func (e *Experiment) WithLogger(l zerolog.Logger) *Experiment {
	e.log = l
	return e
}

// Setup builds the system and stepper and attaches metrics. With no
// metrics given it attaches DefaultMetrics.
func (e *Experiment) Setup(ms ...sim.Metric) error {
	sys, err := e.cfg.BuildSystem()
	if err != nil {
		return fmt.Errorf("build system: %w", err)
	}
	stepper, err := e.registry.Stepper(e.cfg.Stepper)
	if err != nil {
		return err
	}

	if len(ms) == 0 {
		ms = DefaultMetrics(sys)
	}

	e.system = sys
	e.simulator = sim.New(stepper).WithLogger(e.log)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return e.simulator.Run(ctx, e.system, e.simConfig())
}

// Job packages the experiment for a sim.Ensemble.
func (e *Experiment) Job(label string) (sim.Job, error) {
	if e.simulator == nil {
		return sim.Job{}, fmt.Errorf("experiment not setup")
	}
	return sim.Job{
		Label:     label,
		Simulator: e.simulator,
		System:    e.system,
		Config:    e.simConfig(),
	}, nil
}

func (e *Experiment) simConfig() sim.Config {
	return sim.Config{
		Duration:      e.cfg.Duration(),
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) System() *dynamo.System       { return e.system }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }

// DefaultMetrics tracks mean energy, energy and momentum drift, how many
// samples keep every body bound, and the orbit of the second body around
// the first.
func DefaultMetrics(sys *dynamo.System) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewBound(BoundRadiusFactor * extent(sys)),
	}
	if sys.Len() >= 2 {
		ms = append(ms, metrics.NewRadiusDrift(1, 0))
	}
	return ms
}

func extent(sys *dynamo.System) float64 {
	com := sys.CenterOfMass()
	widest := 0.0
	for _, p := range sys.Positions() {
		if d := r3.Norm(r3.Sub(p, com)); d > widest {
			widest = d
		}
	}
	return widest
}
