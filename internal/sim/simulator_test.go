package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/sim"
)

func circularSystem() *dynamo.System {
	const sunMass = 1.989e30
	v := math.Sqrt(dynamo.G * sunMass / dynamo.AU)
	sys, err := dynamo.NewSystem(
		dynamo.NewBody("Sun", sunMass, r3.Vec{}, r3.Vec{}),
		dynamo.NewBody("Earth", 1, r3.Vec{X: dynamo.AU}, r3.Vec{Y: v}),
	)
	Expect(err).NotTo(HaveOccurred())
	return sys
}

func coincidentSystem() *dynamo.System {
	sys, err := dynamo.NewSystem(
		dynamo.NewBody("a", 1e20, r3.Vec{X: 1}, r3.Vec{}),
		dynamo.NewBody("b", 1e20, r3.Vec{X: 1}, r3.Vec{}),
	)
	Expect(err).NotTo(HaveOccurred())
	return sys
}

type frameRecorder struct {
	frames []sim.Frame
}

func (r *frameRecorder) OnFrame(f sim.Frame) { r.frames = append(r.frames, f) }

type countingMetric struct {
	calls int
}

func (m *countingMetric) Name() string                    { return "count" }
func (m *countingMetric) Observe(*dynamo.System, float64) { m.calls++ }
func (m *countingMetric) Value() float64                  { return float64(m.calls) }
func (m *countingMetric) Reset()                          { m.calls = 0 }

var _ = Describe("Simulator", func() {
	var (
		stepper *integrators.Stepper
		cfg     sim.Config
	)

	BeforeEach(func() {
		stepper = integrators.New(integrators.DefaultConfig())
		cfg = sim.Config{
			Duration:      10 * integrators.DefaultDt,
			SampleEvery:   1,
			ValidateState: true,
		}
	})

	It("samples every step including the initial state", func() {
		result, err := sim.New(stepper).Run(context.Background(), circularSystem(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(10))
		Expect(result.Times).To(HaveLen(11))
		Expect(result.Positions).To(HaveLen(11))
		Expect(result.Names).To(Equal([]string{"Sun", "Earth"}))
		Expect(result.Times[10]).To(BeNumerically("~", 10*integrators.DefaultDt, 1e-6))
	})

	It("always keeps the last step when thinning samples", func() {
		cfg.SampleEvery = 3
		result, err := sim.New(stepper).Run(context.Background(), circularSystem(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Times).To(HaveLen(5))
		Expect(result.Times[4]).To(BeNumerically("~", 10*integrators.DefaultDt, 1e-6))
	})

	It("leaves the caller's system untouched", func() {
		sys := circularSystem()
		before := sys.Positions()
		_, err := sim.New(stepper).Run(context.Background(), sys, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(sys.Positions()).To(Equal(before))
	})

	It("feeds one frame per step to every observer", func() {
		rec := &frameRecorder{}
		s := sim.New(stepper)
		s.AddObserver(rec)
		_, err := s.Run(context.Background(), circularSystem(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.frames).To(HaveLen(10))

		last := rec.frames[9]
		Expect(last.Step).To(Equal(10))
		Expect(last.Markers).To(HaveLen(2))
		Expect(last.Markers[0].Name).To(Equal("Sun"))
		Expect(last.Markers[1].Name).To(Equal("Earth"))
	})

	It("observes metrics at start and after every step", func() {
		m := &countingMetric{}
		s := sim.New(stepper)
		s.AddMetric(m)
		result, err := s.Run(context.Background(), circularSystem(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKeyWithValue("count", 11.0))
	})

	It("keeps energy drift small on a circular orbit", func() {
		cfg.Duration = 30 * dynamo.SecondsPerDay
		result, err := sim.New(stepper).Run(context.Background(), circularSystem(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.EnergyDrift).To(BeNumerically("<", 1e-2))
	})

	It("stops on canceled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := sim.New(stepper).Run(ctx, circularSystem(), cfg)
		Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
		Expect(result).NotTo(BeNil())
		Expect(result.StepsTaken).To(Equal(0))
	})

	It("rejects a non-positive duration", func() {
		cfg.Duration = 0
		_, err := sim.New(stepper).Run(context.Background(), circularSystem(), cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a zero dt", func() {
		zero := integrators.DefaultConfig()
		zero.Dt = 0
		_, err := sim.New(integrators.New(zero)).Run(context.Background(), circularSystem(), cfg)
		Expect(err).To(HaveOccurred())
	})

	Context("with coincident bodies", func() {
		It("records the first non-finite state and stops", func() {
			result, err := sim.New(stepper).Run(context.Background(), coincidentSystem(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(HaveLen(1))
			Expect(errors.Is(result.Errors[0], dynamo.ErrNonFinite)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(result.Errors[0], &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(0))
			Expect(result.StepsTaken).To(Equal(1))
		})

		It("never shows the non-finite state to metrics or observers", func() {
			m := &countingMetric{}
			rec := &frameRecorder{}
			s := sim.New(stepper)
			s.AddMetric(m)
			s.AddObserver(rec)

			result, err := s.Run(context.Background(), coincidentSystem(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("count", 1.0))
			Expect(rec.frames).To(BeEmpty())
			Expect(result.Positions).To(HaveLen(1))
			Expect(math.IsNaN(result.EnergyDrift)).To(BeFalse())
			Expect(math.IsNaN(result.MomentumDrift)).To(BeFalse())
		})

		It("steps through it when validation is off", func() {
			cfg.ValidateState = false
			result, err := sim.New(stepper).Run(context.Background(), coincidentSystem(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(BeEmpty())
			Expect(result.StepsTaken).To(Equal(10))
		})

		It("stops before any step when the stepper is guarded", func() {
			guarded := integrators.DefaultConfig()
			guarded.Guard = true
			result, err := sim.New(integrators.New(guarded)).Run(context.Background(), coincidentSystem(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(0))
			Expect(result.Errors).To(HaveLen(1))
			Expect(errors.Is(result.Errors[0], dynamo.ErrNonFinite)).To(BeTrue())
		})
	})
})
