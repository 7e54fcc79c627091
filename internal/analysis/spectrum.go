package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

var ErrTooFewSamples = errors.New("analysis: not enough samples")

// PowerSpectrum returns the magnitude of the one-sided spectrum of data
// after removing its mean and applying a Hann window.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := stat.Mean(data, nil)
	buf := make([]complex128, n)
	for i, v := range data {
		w := 1.0
		if n > 1 {
			w = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
		buf[i] = complex((v-mean)*w, 0)
	}
	spectrum := fft.FFT(buf)

	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-constant
// component of data sampled every interval seconds.
func DominantPeriod(data []float64, interval float64) (float64, error) {
	if len(data) < 4 {
		return 0, ErrTooFewSamples
	}

	ps := PowerSpectrum(data)
	peak := 0
	for i := 1; i < len(ps); i++ {
		if peak == 0 || ps[i] > ps[peak] {
			peak = i
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: signal is constant")
	}

	return float64(len(data)) * interval / float64(peak), nil
}

// OrbitalPeriod estimates how long body takes to go around center. The
// signal is the body's x offset from the center, which swings once per
// revolution. The sample interval is taken from the first two times; a
// final sample off that grid, as a run's always-kept last step usually
// is, is left out.
func OrbitalPeriod(times []float64, positions [][]r3.Vec, body, center int) (float64, error) {
	if len(times) < 4 || len(positions) != len(times) {
		return 0, ErrTooFewSamples
	}

	interval := times[1] - times[0]
	if interval <= 0 {
		return 0, errors.New("analysis: sample times must increase")
	}

	n := len(times)
	if last := times[n-1] - times[n-2]; math.Abs(last-interval) > gridTolerance*interval {
		n--
	}
	if n < 4 {
		return 0, ErrTooFewSamples
	}

	xs := make([]float64, n)
	for k, row := range positions[:n] {
		xs[k] = row[body].X - row[center].X
	}
	return DominantPeriod(xs, interval)
}

// gridTolerance is the relative slack allowed between sample spacings.
const gridTolerance = 1e-6
