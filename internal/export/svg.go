package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

// Trails collects body positions for drawing orbits. It can be filled from
// a stored trajectory or attached to a simulator as a sim.Observer.
type Trails struct {
	Names  []string
	Points [][]r3.Vec
	// Every keeps one observed frame in Every; zero or one keeps all.
	Every int
	seen  int
}

func NewTrails(every int) *Trails {
	return &Trails{Every: every}
}

// TrailsFromPositions converts sample-major positions into per-body trails.
func TrailsFromPositions(names []string, positions [][]r3.Vec) *Trails {
	t := &Trails{Names: names, Points: make([][]r3.Vec, len(names))}
	for _, row := range positions {
		for i := range names {
			t.Points[i] = append(t.Points[i], row[i])
		}
	}
	return t
}

func (t *Trails) OnFrame(f sim.Frame) {
	t.seen++
	if t.Every > 1 && (t.seen-1)%t.Every != 0 {
		return
	}
	if t.Names == nil {
		t.Names = make([]string, len(f.Markers))
		t.Points = make([][]r3.Vec, len(f.Markers))
		for i, mk := range f.Markers {
			t.Names[i] = mk.Name
		}
	}
	for i, mk := range f.Markers {
		t.Points[i] = append(t.Points[i], mk.Position)
	}
}

// Extent is the largest |x| or |y| over every point, in meters.
func (t *Trails) Extent() float64 {
	ext := 0.0
	for _, pts := range t.Points {
		for _, p := range pts {
			ext = math.Max(ext, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	return ext
}

// OrbitsSVG draws each trail as a polyline in the body's color with a dot
// at its last position. sizeAU <= 0 fits the view to the trails.
func OrbitsSVG(t *Trails, size int, sizeAU float64) string {
	if sizeAU <= 0 {
		// the projection spans sizeAU across half the image
		sizeAU = 2 * t.Extent() / dynamo.AU * 1.1
		if sizeAU == 0 {
			sizeAU = 1
		}
	}
	proj := viz.NewProjection(size, size, sizeAU)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, size, size, size, size))

	for i, name := range t.Names {
		pts := t.Points[i]
		if len(pts) == 0 {
			continue
		}
		style := viz.StyleFor(name)

		if len(pts) > 1 {
			coords := make([]string, len(pts))
			for k, p := range pts {
				x, y := proj.Project(p)
				coords[k] = fmt.Sprintf("%.1f,%.1f", x, y)
			}
			sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.6"/>
`, strings.Join(coords, " "), style.Hex()))
		}

		x, y := proj.Project(pts[len(pts)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.0f" fill="%s"><title>%s</title></circle>
`, x, y, style.Radius, style.Hex(), name))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
