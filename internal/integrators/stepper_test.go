package integrators

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

const (
	sunMass   = 1.989e30
	earthMass = 5.972e24
)

func mustSystem(bodies ...*dynamo.Body) *dynamo.System {
	sys, err := dynamo.NewSystem(bodies...)
	Expect(err).NotTo(HaveOccurred())
	return sys
}

func earthSun() *dynamo.System {
	return mustSystem(
		dynamo.NewBody("Sun", sunMass, r3.Vec{}, r3.Vec{}),
		dynamo.NewBody("Earth", earthMass, r3.Vec{X: dynamo.AU}, r3.Vec{Y: 29780}),
	)
}

func relativeMomentumDrift(sys *dynamo.System, p0 r3.Vec, scale float64) float64 {
	return r3.Norm(r3.Sub(sys.Momentum(), p0)) / scale
}

func momentumScale(sys *dynamo.System) float64 {
	s := 0.0
	for _, b := range sys.Bodies() {
		s += r3.Norm(b.Momentum())
	}
	return s
}

// orbitDrift steps a light satellite around a fixed-ish central mass for
// one revolution and returns the largest relative change of |r|.
func orbitDrift(dt float64) float64 {
	r := dynamo.AU
	v := math.Sqrt(dynamo.G * sunMass / r)
	sys := mustSystem(
		dynamo.NewBody("central", sunMass, r3.Vec{}, r3.Vec{}),
		dynamo.NewBody("satellite", 1e3, r3.Vec{X: r}, r3.Vec{Y: v}),
	)
	cfg := DefaultConfig()
	cfg.Dt = dt
	st := New(cfg)

	period := 2 * math.Pi * r / v
	steps := int(period / dt)
	maxDrift := 0.0
	for i := 0; i < steps; i++ {
		Expect(st.Step(sys)).To(Succeed())
		d := math.Abs(r3.Norm(sys.Body(1).Position())-r) / r
		maxDrift = math.Max(maxDrift, d)
	}
	return maxDrift
}

var _ = Describe("Stepper", func() {
	Describe("defaults", func() {
		It("steps one hundredth of a day with the newtonian law", func() {
			st := New(DefaultConfig())
			Expect(st.Dt()).To(Equal(864.0))
			Expect(st.Law().Name()).To(Equal("newtonian"))
			Expect(st.Scheme().Name()).To(Equal("euler"))
			Expect(st.Ordering()).To(Equal(Sequential))
			Expect(st.Guarded()).To(BeFalse())
		})

		It("fills a nil law and scheme", func() {
			st := New(Config{Dt: 1})
			Expect(st.Law()).NotTo(BeNil())
			Expect(st.Scheme()).NotTo(BeNil())
		})
	})

	Describe("self-exclusion", func() {
		It("moves a lone body in a straight line", func() {
			sys := mustSystem(dynamo.NewBody("lone", sunMass, r3.Vec{X: 1}, r3.Vec{Y: 2}))
			st := New(Config{Dt: 10})

			for i := 0; i < 100; i++ {
				Expect(st.Step(sys)).To(Succeed())
			}

			b := sys.Body(0)
			Expect(b.Acceleration()).To(Equal(r3.Vec{}))
			Expect(b.Position().X).To(Equal(1.0))
			Expect(b.Position().Y).To(BeNumerically("~", 2000, 1e-9))
		})
	})

	Describe("the Earth–Sun literal scenario", func() {
		It("pulls the first body toward the second", func() {
			sys := mustSystem(
				dynamo.NewBody("earth", earthMass, r3.Vec{}, r3.Vec{}),
				dynamo.NewBody("sun", sunMass, r3.Vec{X: 1.496e11}, r3.Vec{Y: 29780}),
			)
			st := New(DefaultConfig())
			Expect(st.Step(sys)).To(Succeed())

			acc := sys.Body(0).Acceleration()
			Expect(dynamo.Finite(acc)).To(BeTrue())
			Expect(acc.X).To(BeNumerically("~", 5.93e-3, 1e-5))
			Expect(acc.Y).To(BeZero())
			Expect(acc.Z).To(BeZero())

			// p += v·dt + a·dt with v = 0
			Expect(sys.Body(0).Position().X).To(BeNumerically("~", acc.X*864, 1e-12))
			Expect(sys.Body(1).Acceleration().X).To(BeNumerically("<", 0))
		})
	})

	Describe("zero time step", func() {
		for _, ordering := range []Ordering{Sequential, TwoPhase} {
			ordering := ordering
			It("leaves positions and velocities untouched with "+ordering.String(), func() {
				sys := earthSun()
				before := sys.Clone()
				st := New(Config{Dt: 0, Ordering: ordering})

				Expect(st.Step(sys)).To(Succeed())

				for i, b := range sys.Bodies() {
					Expect(b.Position()).To(Equal(before.Body(i).Position()))
					Expect(b.Velocity()).To(Equal(before.Body(i).Velocity()))
					Expect(r3.Norm(b.Acceleration())).To(BeNumerically(">", 0))
				}
			})
		}
	})

	Describe("mass scaling", func() {
		It("scales every other body's acceleration linearly", func() {
			build := func(m float64) *dynamo.System {
				return mustSystem(
					dynamo.NewBody("heavy", m, r3.Vec{}, r3.Vec{}),
					dynamo.NewBody("a", 1e20, r3.Vec{X: 1e11}, r3.Vec{}),
					dynamo.NewBody("b", 1e20, r3.Vec{Y: -2e11, Z: 3e10}, r3.Vec{}),
				)
			}
			base, doubled := build(sunMass), build(2*sunMass)
			st := New(Config{Dt: DefaultDt, Ordering: TwoPhase})
			Expect(st.Step(base)).To(Succeed())
			Expect(st.Step(doubled)).To(Succeed())

			for i := 1; i < 3; i++ {
				a1 := base.Body(i).Acceleration()
				a2 := doubled.Body(i).Acceleration()
				Expect(r3.Norm(a2) / r3.Norm(a1)).To(BeNumerically("~", 2, 1e-6))
				Expect(r3.Cos(a1, a2)).To(BeNumerically("~", 1, 1e-9))
			}
		})
	})

	Describe("momentum", func() {
		run := func(cfg Config, steps int) float64 {
			sys := earthSun()
			p0 := sys.Momentum()
			scale := momentumScale(sys)
			st := New(cfg)
			for i := 0; i < steps; i++ {
				Expect(st.Step(sys)).To(Succeed())
			}
			return relativeMomentumDrift(sys, p0, scale)
		}

		It("is conserved by the newtonian law with two-phase ordering", func() {
			drift := run(Config{Dt: DefaultDt, Ordering: TwoPhase}, 10000)
			Expect(drift).To(BeNumerically("<", 1e-9))
		})

		It("stays bounded with sequential ordering", func() {
			drift := run(Config{Dt: DefaultDt, Ordering: Sequential}, 10000)
			Expect(drift).To(BeNumerically("<", 1e-6))
		})

		It("is not conserved by the as-built law", func() {
			drift := run(Config{Dt: DefaultDt, Law: physics.NewAsBuilt()}, 10000)
			Expect(drift).To(BeNumerically(">", 0.1))
		})
	})

	Describe("circular orbit", func() {
		It("keeps the orbital radius over one revolution", func() {
			Expect(orbitDrift(60)).To(BeNumerically("<", 1e-3))
		})

		It("drifts less with a smaller step", func() {
			Expect(orbitDrift(60)).To(BeNumerically("<", orbitDrift(600)))
		})
	})

	Describe("ordering", func() {
		It("lets later bodies see earlier updates when sequential", func() {
			build := func() *dynamo.System {
				return mustSystem(
					dynamo.NewBody("a", sunMass, r3.Vec{}, r3.Vec{X: 1e4}),
					dynamo.NewBody("b", earthMass, r3.Vec{X: dynamo.AU}, r3.Vec{Y: 29780}),
					dynamo.NewBody("c", earthMass, r3.Vec{Y: -dynamo.AU}, r3.Vec{X: 29780}),
				)
			}
			seq, two := build(), build()
			Expect(New(Config{Dt: DefaultDt, Ordering: Sequential}).Step(seq)).To(Succeed())
			Expect(New(Config{Dt: DefaultDt, Ordering: TwoPhase}).Step(two)).To(Succeed())

			Expect(seq.Body(0).Acceleration()).To(Equal(two.Body(0).Acceleration()))
			Expect(seq.Body(1).Acceleration()).NotTo(Equal(two.Body(1).Acceleration()))
		})
	})

	Describe("coincident bodies", func() {
		coincident := func() *dynamo.System {
			p := r3.Vec{X: dynamo.AU}
			return mustSystem(
				dynamo.NewBody("a", sunMass, p, r3.Vec{}),
				dynamo.NewBody("b", sunMass, p, r3.Vec{}),
			)
		}

		It("propagates non-finite state when unguarded", func() {
			sys := coincident()
			Expect(New(DefaultConfig()).Step(sys)).To(Succeed())
			Expect(sys.Body(0).IsFinite()).To(BeFalse())
			Expect(sys.Validate()).To(MatchError(dynamo.ErrNonFinite))
		})

		It("reports ErrNonFinite when guarded", func() {
			sys := coincident()
			before := sys.Clone()
			st := New(Config{Dt: DefaultDt, Ordering: TwoPhase, Guard: true})

			err := st.Step(sys)
			Expect(err).To(MatchError(dynamo.ErrNonFinite))

			var be *dynamo.BodyError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.Index).To(Equal(0))
			Expect(sys.Body(0).Position()).To(Equal(before.Body(0).Position()))
		})
	})

	Describe("taylor scheme", func() {
		It("adds half of a·dt² to the position", func() {
			k := dynamo.Kinematics{Velocity: r3.Vec{X: 1}, Acceleration: r3.Vec{X: 2}}
			NewTaylor().Integrate(&k, 3)
			Expect(k.Position.X).To(BeNumerically("~", 3+0.5*2*9, 1e-12))
			Expect(k.Velocity.X).To(BeNumerically("~", 7, 1e-12))
		})

		It("matches the euler update when dt is two", func() {
			ke := dynamo.Kinematics{Velocity: r3.Vec{Y: 4}, Acceleration: r3.Vec{Y: 2}}
			kt := ke
			NewEuler().Integrate(&ke, 2)
			NewTaylor().Integrate(&kt, 2)
			Expect(ke.Position).To(Equal(kt.Position))
			Expect(ke.Velocity).To(Equal(kt.Velocity))
		})
	})
})
