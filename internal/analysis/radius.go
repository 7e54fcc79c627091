package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

type Radius struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	// Eccentricity is (max-min)/(max+min), exact for a Kepler ellipse
	// sampled at both apsides.
	Eccentricity float64
}

// Distances returns |body - center| for every sample.
func Distances(positions [][]r3.Vec, body, center int) []float64 {
	d := make([]float64, len(positions))
	for k, row := range positions {
		d[k] = r3.Norm(r3.Sub(row[body], row[center]))
	}
	return d
}

func RadiusStats(positions [][]r3.Vec, body, center int) (Radius, error) {
	if len(positions) == 0 {
		return Radius{}, ErrTooFewSamples
	}

	d := Distances(positions, body, center)
	var r Radius
	r.Mean, r.StdDev = stat.MeanStdDev(d, nil)
	if len(d) < 2 {
		r.StdDev = 0
	}
	r.Min = floats.Min(d)
	r.Max = floats.Max(d)
	if r.Max+r.Min > 0 {
		r.Eccentricity = (r.Max - r.Min) / (r.Max + r.Min)
	}
	return r, nil
}
