package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Marker is one body as a presentation layer sees it.
type Marker struct {
	Name     string
	Position r3.Vec
}

// Frame is what the core hands to a display after a step.
type Frame struct {
	Step    int
	Time    float64
	Markers []Marker
}

// Observer is a presentation collaborator fed one frame per step.
type Observer interface {
	OnFrame(f Frame)
}

type Metric interface {
	Name() string
	Observe(sys *dynamo.System, t float64)
	Value() float64
	Reset()
}

type Config struct {
	// Duration is the simulated span in seconds.
	Duration float64
	// SampleEvery records one trajectory sample per that many steps.
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Duration:      365 * dynamo.SecondsPerDay,
		SampleEvery:   10,
		ValidateState: true,
	}
}

type Result struct {
	Names []string
	// Times and Positions are aligned: Positions[k][i] is body i at Times[k].
	Times         []float64
	Positions     [][]r3.Vec
	Metrics       map[string]float64
	EnergyDrift   float64
	MomentumDrift float64
	StepsTaken    int
	Errors        []error
}

// FrameOf builds a frame from the current state of sys.
func FrameOf(sys *dynamo.System, step int, t float64) Frame {
	markers := make([]Marker, sys.Len())
	for i, b := range sys.Bodies() {
		markers[i] = Marker{Name: b.Name(), Position: b.Position()}
	}
	return Frame{Step: step, Time: t, Markers: markers}
}
