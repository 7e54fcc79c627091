package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Bound reports the fraction of observations in which every body stayed
// within radius of the system's center of mass. Ejected or blown-up bodies
// pull it below one.
type Bound struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBound(radius float64) *Bound {
	return &Bound{
		name:   "bound",
		radius: radius,
	}
}

func (s *Bound) Name() string {
	return s.name
}

func (s *Bound) Observe(sys *dynamo.System, t float64) {
	s.samples++
	com := sys.CenterOfMass()
	for _, b := range sys.Bodies() {
		d := r3.Norm(r3.Sub(b.Position(), com))
		// NaN fails the comparison, so count it explicitly
		if !(d <= s.radius) {
			s.violations++
			break
		}
	}
}

func (s *Bound) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Bound) Reset() {
	s.violations = 0
	s.samples = 0
}
