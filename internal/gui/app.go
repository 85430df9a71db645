// Package gui shows the simulation in a resizable raylib window.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/npillmayer/schuko/tracing"
	"github.com/san-kum/bezspring/internal/scene"
	"github.com/san-kum/bezspring/internal/sim"
)

func tracer() tracing.Trace {
	return tracing.Select("bezspring.gui")
}

var (
	ColText    = rl.NewColor(224, 240, 255, 255)
	ColTextDim = rl.NewColor(90, 106, 138, 255)
	ColSelect  = rl.NewColor(76, 201, 240, 255)
)

const (
	adjustUp   = 1.05
	adjustDown = 0.95
)

// App drives a loop from the window's mouse and keyboard and draws each
// frame. The window size is the simulated viewport.
type App struct {
	loop *sim.Loop

	running  bool
	quit     bool
	selected int
	initial  sim.Params
	display  sim.Display
	frame    *sim.Frame
	clock    float64
}

func NewApp(loop *sim.Loop) *App {
	return &App{loop: loop, running: true, initial: loop.Params(), display: loop.Display()}
}

func initWindow(width, height int32, fps int32) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, "bezspring")
	rl.SetTargetFPS(fps)
	rl.SetExitKey(0)
}

// Run opens a window sized to the loop's viewport and blocks until it is
// closed.
func Run(loop *sim.Loop, fps int) {
	w, h := loop.Viewport()
	initWindow(int32(w), int32(h), int32(fps))
	defer rl.CloseWindow()

	tracer().Infof("window opened at %.0fx%.0f", w, h)
	NewApp(loop).RunLoop()
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.loop.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}

	if rl.IsCursorOnScreen() && rl.IsWindowFocused() {
		pos := rl.GetMousePosition()
		a.loop.PointerMove(float64(pos.X), float64(pos.Y))
	} else if a.loop.Pointer().Active {
		a.loop.PointerLeave()
	}

	a.handleKeys()

	if a.running {
		a.clock += float64(rl.GetFrameTime()) * 1000
		a.frame = a.loop.Tick(a.clock)
	}
}

func (a *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.running = !a.running
	case rl.IsKeyPressed(rl.KeyR):
		a.loop.SetParams(a.initial)
		a.loop.SetDisplay(a.display)
		a.loop.Reset()
		a.frame = nil
	case rl.IsKeyPressed(rl.KeyT):
		a.loop.ToggleTangents()
	case rl.IsKeyPressed(rl.KeyC):
		a.loop.ToggleControlLines()
	case rl.IsKeyPressed(rl.KeyP):
		a.loop.ToggleControlPoints()
	case rl.IsKeyPressed(rl.KeyTab):
		a.selected = (a.selected + 1) % len(sim.ParamNames())
	case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK):
		a.adjust(adjustUp)
	case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ):
		a.adjust(adjustDown)
	}
}

func (a *App) adjust(factor float64) {
	name := sim.ParamNames()[a.selected]
	if err := a.loop.SetParam(name, a.loop.GetParams()[name]*factor); err != nil {
		tracer().Errorf("adjust %s: %v", name, err)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	if a.frame == nil {
		rl.ClearBackground(toRL(scene.BackgroundBottom))
		return
	}
	DrawScene(scene.Build(a.frame))
	a.DrawHUD()
}

func (a *App) DrawHUD() {
	status, col := "RUNNING", ColSelect
	if !a.running {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText("bezspring", 20, 16, 20, ColText)
	rl.DrawText(status, 140, 20, 14, col)
	rl.DrawText(fmt.Sprintf("%.0f FPS", a.frame.FPS), 20, 42, 14, ColTextDim)

	params := a.loop.GetParams()
	for i, name := range sim.ParamNames() {
		c := ColTextDim
		if i == a.selected {
			c = ColSelect
		}
		rl.DrawText(fmt.Sprintf("%s %.3f", name, params[name]), 20, int32(66+18*i), 14, c)
	}

	h := int32(rl.GetScreenHeight())
	rl.DrawText("[T] TANGENTS  [C] LINES  [P] POINTS  [TAB/UP/DOWN] TUNE  [R] RESET  [SPACE] PAUSE  [Q] QUIT",
		20, h-24, 12, ColTextDim)
}
