package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// MomentumDrift reports the largest change of total momentum, relative to
// the sum of the bodies' initial momentum magnitudes.
type MomentumDrift struct {
	name     string
	initial  r3.Vec
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(sys *dynamo.System, t float64) {
	p := sys.Momentum()
	if !dynamo.Finite(p) {
		return
	}
	if m.samples == 0 {
		m.initial = p
		m.scale = 0
		for _, b := range sys.Bodies() {
			m.scale += r3.Norm(b.Momentum())
		}
	}
	m.samples++

	if m.scale != 0 {
		drift := r3.Norm(r3.Sub(p, m.initial)) / m.scale
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
