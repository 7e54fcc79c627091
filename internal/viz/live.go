package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
)

type Options struct {
	Title         string
	StepsPerFrame int
	FPS           int
	SizeAU        float64
	TrailLength   int
}

func DefaultOptions() Options {
	return Options{
		Title:         "gravsim",
		StepsPerFrame: 10,
		FPS:           30,
		SizeAU:        10,
		TrailLength:   120,
	}
}

type TickMsg time.Time

// Model steps a session on every tick and draws its frames.
type Model struct {
	session   *sim.Session
	opts      Options
	proj      Projection
	canvas    *Canvas
	trails    [][]r3.Vec
	running   bool
	theme     int
	e0        float64
	driftHist []float64
	err       error
}

func NewModel(session *sim.Session, opts Options) Model {
	def := DefaultOptions()
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = def.StepsPerFrame
	}
	if opts.FPS <= 0 {
		opts.FPS = def.FPS
	}
	if opts.SizeAU <= 0 {
		opts.SizeAU = def.SizeAU
	}
	if opts.TrailLength <= 0 {
		opts.TrailLength = def.TrailLength
	}

	canvas := NewCanvas(width, height)
	return Model{
		session:   session,
		opts:      opts,
		proj:      NewProjection(canvas.DotWidth(), canvas.DotHeight(), opts.SizeAU),
		canvas:    canvas,
		trails:    make([][]r3.Vec, session.System().Len()),
		running:   true,
		e0:        session.System().Energy(),
		driftHist: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			m.proj = m.proj.ZoomIn()
		case "-", "_":
			m.proj = m.proj.ZoomOut()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.session.Advance(m.opts.StepsPerFrame); err != nil {
		m.err = err
		m.running = false
		return
	}

	for i, mk := range m.session.Frame().Markers {
		trail := append(m.trails[i], mk.Position)
		if len(trail) > m.opts.TrailLength {
			trail = trail[len(trail)-m.opts.TrailLength:]
		}
		m.trails[i] = trail
	}

	if m.e0 != 0 {
		drift := math.Abs(m.session.System().Energy()-m.e0) / math.Abs(m.e0)
		m.driftHist = append(m.driftHist, drift)
		if len(m.driftHist) > historyCapacity {
			m.driftHist = m.driftHist[len(m.driftHist)-historyCapacity:]
		}
	}
}

func (m *Model) reset() {
	m.session.Reset()
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
	m.driftHist = m.driftHist[:0]
	m.err = nil
	m.running = true
}

func (m Model) draw(frame sim.Frame) {
	m.canvas.Clear()
	for i, mk := range frame.Markers {
		tint := StyleFor(mk.Name).Hex()
		for _, p := range m.trails[i] {
			x, y := m.proj.Project(p)
			m.canvas.SetColor(int(x), int(y), tint)
		}
	}
	// bodies after trails so they sit on top
	for _, mk := range frame.Markers {
		style := StyleFor(mk.Name)
		x, y := m.proj.Project(mk.Position)
		m.canvas.Disc(int(x), int(y), int(style.Radius/4), style.Hex())
	}
}

func (m Model) View() string {
	frame := m.session.Frame()
	m.draw(frame)
	theme := Themes[m.theme]

	var s strings.Builder
	s.WriteString(theme.header().Render(strings.ToUpper(m.opts.Title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED") + "\n")
		s.WriteString(theme.value().Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.driftHist) > 1 {
		chart := asciigraph.Plot(m.driftHist, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("energy drift"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	label, value := theme.label(), theme.value()
	s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.2f d", frame.Time/dynamo.SecondsPerDay)) + "\n")
	s.WriteString(label.Render("Step") + value.Render(fmt.Sprintf("%d", frame.Step)) + "\n")
	s.WriteString(label.Render("Zoom") + value.Render(fmt.Sprintf("%.2fx", m.proj.Zoom)) + "\n\n")

	for _, mk := range frame.Markers {
		r := r3.Norm(mk.Position) / dynamo.AU
		name := StyleFor(mk.Name).Lipgloss().Width(12).Render(mk.Name)
		s.WriteString(name + value.Render(fmt.Sprintf("%7.3f AU", r)) + "\n")
	}

	s.WriteString(theme.help().Render("─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Zoom T:Theme"))

	canvasView := canvasStyle.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, theme.panel().Render(s.String()))
}

// Run opens the live view on the alternate screen and blocks until quit.
func Run(session *sim.Session, opts Options) error {
	_, err := tea.NewProgram(NewModel(session, opts), tea.WithAltScreen()).Run()
	return err
}
