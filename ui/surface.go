package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tideline/config"
	"github.com/pthm-cable/tideline/renderer"
)

// WindowSurface draws onto the raylib window.
type WindowSurface struct{}

// OpenWindow creates the window. It fails with renderer.ErrSurfaceUnavailable
// when no drawing context could be created.
func OpenWindow(cfg *config.Config, width, height int32) (*WindowSurface, error) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint | rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, cfg.Screen.Title)
	if !rl.IsWindowReady() {
		return nil, renderer.ErrSurfaceUnavailable
	}
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	return &WindowSurface{}, nil
}

// Clear implements renderer.Surface.
func (s *WindowSurface) Clear(c color.RGBA) {
	rl.ClearBackground(c)
}

// DrawLine implements renderer.Surface.
func (s *WindowSurface) DrawLine(x0, y0, x1, y1 float32, c color.RGBA, width float32) {
	rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, width, c)
}

// Size returns the current window size.
func (s *WindowSurface) Size() (width, height float32) {
	return float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
}

// Close closes the window.
func (s *WindowSurface) Close() {
	rl.CloseWindow()
}
