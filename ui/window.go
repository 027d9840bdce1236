package ui

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tideline/clock"
	"github.com/pthm-cable/tideline/game"
)

// VSyncScheduler paces the loop on raylib's frame timing: EndDrawing blocks
// until the next refresh, so Next only checks for shutdown.
type VSyncScheduler struct{}

// Next implements clock.Scheduler.
func (VSyncScheduler) Next(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rl.WindowShouldClose() {
		return clock.ErrStopped
	}
	return nil
}

// Window wires a Game to the raylib window: input, drawing and overlays.
type Window struct {
	game    *game.Game
	surface *WindowSurface
	poller  *PointerPoller
	hud     *HUD
	panel   *TuningPanel
	title   string
	showHUD bool

	width, height float32
}

// NewWindow creates the front end for g.
func NewWindow(g *game.Game, surface *WindowSurface, title string) *Window {
	w, h := surface.Size()
	win := &Window{
		game:    g,
		surface: surface,
		poller:  NewPointerPoller(g.Tracker()),
		hud:     NewHUD(),
		panel:   NewTuningPanel(g.Config()),
		title:   title,
		showHUD: true,
		width:   w,
		height:  h,
	}
	// Slider drags must not pull the swarm.
	win.poller.Blocked = func(pos rl.Vector2) bool {
		return win.panel.IsVisible() && win.panel.Contains(pos)
	}
	g.SetPointerSource(win.poller)
	return win
}

// Frame runs one graphical frame. It matches clock.FrameFunc.
func (w *Window) Frame(ctx context.Context, c *clock.Clock) error {
	w.handleInput()

	rl.BeginDrawing()
	defer rl.EndDrawing()

	if err := w.game.Frame(ctx, c); err != nil {
		return err
	}

	if w.showHUD {
		w.hud.Draw(HUDData{Title: w.title, Status: w.game.Status(), FPS: rl.GetFPS()})
		w.hud.DrawControls(int32(w.height))
	}
	w.panel.Draw(int32(w.width))
	return nil
}

// handleInput processes keyboard input.
func (w *Window) handleInput() {
	w.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		w.game.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		w.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		w.game.ToggleNoise()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		w.showHUD = !w.showHUD
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (w *Window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	width, height := w.surface.Size()
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.game.Resize(width, height)
}
