package viz

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

var (
	Yellow  = color.RGBA{R: 255, G: 255, A: 255}
	Green   = color.RGBA{G: 255, A: 255}
	Red     = color.RGBA{R: 255, A: 255}
	Magenta = color.RGBA{R: 255, B: 255, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// BodyStyle is how a body is drawn. Radius is in screen pixels.
type BodyStyle struct {
	Color  color.RGBA
	Radius float64
}

// StyleFor picks a style by body name. Names are matched exactly.
func StyleFor(name string) BodyStyle {
	switch name {
	case "Sun":
		return BodyStyle{Color: Yellow, Radius: 8}
	case "Earth":
		return BodyStyle{Color: Green, Radius: 4}
	case "mercury":
		return BodyStyle{Color: Red, Radius: 2}
	case "venus":
		return BodyStyle{Color: Magenta, Radius: 3}
	case "mars":
		return BodyStyle{Color: Red, Radius: 4}
	default:
		return BodyStyle{Color: White, Radius: 5}
	}
}

func (s BodyStyle) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", s.Color.R, s.Color.G, s.Color.B)
}

func (s BodyStyle) Lipgloss() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.Hex()))
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusFailed = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))
)
