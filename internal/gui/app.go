package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAlert   = rl.NewColor(255, 68, 68, 255)
)

type Options struct {
	Title         string
	Size          int
	SizeAU        float64
	FPS           int
	StepsPerFrame int
	TrailLength   int
}

func DefaultOptions() Options {
	return Options{
		Title:         "Gravity Simulation",
		Size:          1000,
		SizeAU:        10,
		FPS:           60,
		StepsPerFrame: 1,
		TrailLength:   400,
	}
}

// App is a square window showing the x-y plane of a session.
type App struct {
	session *sim.Session
	opts    Options
	proj    viz.Projection
	running bool
	trails  [][]rl.Vector2
	err     error
}

func NewApp(session *sim.Session, opts Options) *App {
	def := DefaultOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.SizeAU <= 0 {
		opts.SizeAU = def.SizeAU
	}
	if opts.FPS <= 0 {
		opts.FPS = def.FPS
	}
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = def.StepsPerFrame
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}

	return &App{
		session: session,
		opts:    opts,
		proj:    viz.NewProjection(opts.Size, opts.Size, opts.SizeAU),
		running: true,
		trails:  make([][]rl.Vector2, session.System().Len()),
	}
}

// initWindow opens the window and caps the frame rate, which also caps
// the step rate since one frame runs StepsPerFrame steps.
func initWindow(opts Options) {
	rl.InitWindow(int32(opts.Size), int32(opts.Size), opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(rl.KeyEscape)
}

// Run opens the window and blocks until escape or the close button. The
// returned error is the step failure that stopped the simulation, if any.
func Run(session *sim.Session, opts Options) error {
	app := NewApp(session, opts)
	initWindow(app.opts)
	defer rl.CloseWindow()
	app.RunLoop()
	return app.err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) && a.err == nil {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.session.Reset()
		a.clearTrails()
		a.err = nil
		a.running = true
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.proj = a.proj.ZoomIn()
		a.clearTrails()
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.proj = a.proj.ZoomOut()
		a.clearTrails()
	}

	if !a.running {
		return
	}
	if err := a.session.Advance(a.opts.StepsPerFrame); err != nil {
		a.err = err
		a.running = false
		return
	}

	for i, mk := range a.session.Frame().Markers {
		trail := append(a.trails[i], a.screen(mk.Position))
		if len(trail) > a.opts.TrailLength {
			trail = trail[len(trail)-a.opts.TrailLength:]
		}
		a.trails[i] = trail
	}
}

// trails are kept in screen space, so a zoom invalidates them
func (a *App) clearTrails() {
	for i := range a.trails {
		a.trails[i] = a.trails[i][:0]
	}
}

func (a *App) screen(p r3.Vec) rl.Vector2 {
	x, y := a.proj.Project(p)
	return rl.NewVector2(float32(x), float32(y))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	frame := a.session.Frame()
	for i, mk := range frame.Markers {
		c := color(viz.StyleFor(mk.Name))
		c.A = 90
		for _, p := range a.trails[i] {
			rl.DrawPixelV(p, c)
		}
	}
	for _, mk := range frame.Markers {
		style := viz.StyleFor(mk.Name)
		rl.DrawCircleV(a.screen(mk.Position), float32(style.Radius), color(style))
	}

	a.DrawHUD(frame)
	rl.EndDrawing()
}

func (a *App) DrawHUD(frame sim.Frame) {
	rl.DrawText(fmt.Sprintf("t = %.1f d  step %d", frame.Time/dynamo.SecondsPerDay, frame.Step), 10, 10, 20, ColText)
	rl.DrawText(fmt.Sprintf("zoom %.2fx  %d fps", a.proj.Zoom, rl.GetFPS()), 10, 34, 16, ColTextDim)

	switch {
	case a.err != nil:
		rl.DrawText(a.err.Error(), 10, int32(a.opts.Size)-30, 16, ColAlert)
	case !a.running:
		rl.DrawText("PAUSED", 10, int32(a.opts.Size)-30, 16, ColText)
	default:
		rl.DrawText("SPACE pause  R reset  +/- zoom  ESC quit", 10, int32(a.opts.Size)-30, 16, ColTextDim)
	}
}

func color(s viz.BodyStyle) rl.Color {
	return rl.NewColor(s.Color.R, s.Color.G, s.Color.B, s.Color.A)
}
