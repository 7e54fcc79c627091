package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// RadiusDrift tracks the distance between a body and the body it orbits.
// Value is the largest relative departure from the first distance seen;
// non-finite distances are skipped.
type RadiusDrift struct {
	name     string
	body     int
	center   int
	initial  float64
	maxDrift float64
	samples  int
}

func NewRadiusDrift(body, center int) *RadiusDrift {
	return &RadiusDrift{name: "radius_drift", body: body, center: center}
}

func (r *RadiusDrift) Name() string { return r.name }

func (r *RadiusDrift) Observe(sys *dynamo.System, t float64) {
	if r.body >= sys.Len() || r.center >= sys.Len() {
		return
	}
	d := r3.Norm(r3.Sub(sys.Body(r.body).Position(), sys.Body(r.center).Position()))
	if !finite(d) {
		return
	}
	if r.samples == 0 {
		r.initial = d
	}
	r.samples++

	if r.initial != 0 {
		r.maxDrift = math.Max(r.maxDrift, math.Abs(d-r.initial)/r.initial)
	}
}

func (r *RadiusDrift) Value() float64 { return r.maxDrift }

func (r *RadiusDrift) Reset() {
	r.initial = 0
	r.maxDrift = 0
	r.samples = 0
}
