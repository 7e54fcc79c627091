package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the stats panel. Body colors never change with the theme.
type Theme struct {
	Name   string
	Border lipgloss.Color
	Header lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:   "night",
		Border: lipgloss.Color("240"),
		Header: lipgloss.Color("86"),
		Label:  lipgloss.Color("245"),
		Value:  lipgloss.Color("252"),
		Muted:  lipgloss.Color("240"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Border: lipgloss.Color("#005500"),
		Header: lipgloss.Color("#88ff88"),
		Label:  lipgloss.Color("#00cc00"),
		Value:  lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Border: lipgloss.Color("#888888"),
		Header: lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("#cccccc"),
		Value:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
	}
)

var Themes = []Theme{ThemeNight, ThemeRetroGreen, ThemeMinimal}

func (t Theme) panel() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Border).
		Padding(1, 2).
		Width(40)
}

func (t Theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1)
}

func (t Theme) label() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Label).Width(12)
}

func (t Theme) value() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Value)
}

func (t Theme) help() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1)
}
