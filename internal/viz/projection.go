package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	minZoom = 1.0 / 64
	maxZoom = 64.0
)

// Projection maps the x-y plane onto a width x height surface whose
// shorter side spans SizeAU astronomical units, origin at the center.
// z is dropped.
type Projection struct {
	Width, Height float64
	SizeAU        float64
	Zoom          float64
}

func NewProjection(width, height int, sizeAU float64) Projection {
	return Projection{
		Width:  float64(width),
		Height: float64(height),
		SizeAU: sizeAU,
		Zoom:   1,
	}
}

func (p Projection) Offset() (float64, float64) {
	return p.Width * 0.5, p.Height * 0.5
}

// Scale is screen units per meter.
func (p Projection) Scale() float64 {
	size := math.Min(p.Width, p.Height)
	return size / p.SizeAU * 0.5 / dynamo.AU * p.Zoom
}

func (p Projection) Project(pos r3.Vec) (float64, float64) {
	ox, oy := p.Offset()
	s := p.Scale()
	return pos.X*s + ox, pos.Y*s + oy
}

func (p Projection) ZoomIn() Projection {
	p.Zoom = math.Min(maxZoom, p.Zoom*1.25)
	return p
}

func (p Projection) ZoomOut() Projection {
	p.Zoom = math.Max(minZoom, p.Zoom/1.25)
	return p
}
