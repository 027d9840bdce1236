package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tideline/game"
)

// HUDData holds the data needed to render the HUD.
type HUDData struct {
	Title  string
	Status game.Status
	FPS    int32
}

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), width: 260}
}

// Draw renders the HUD panel in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	st := data.Status
	x, y := r.Theme.Padding, r.Theme.Padding
	inner := x + r.Theme.Padding

	r.DrawPanel(x, y, h.width, 9*r.Theme.LineHeight+2*r.Theme.Padding)
	y += r.Theme.Padding

	y = r.DrawHeader(inner, y, data.Title)
	y = r.DrawLabelValue(inner, y, "tick", fmt.Sprintf("%d", st.Tick))
	y = r.DrawLabelValue(inner, y, "fps", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(inner, y, "flowing", fmt.Sprintf("%d", st.Counts.Flowing))
	y = r.DrawLabelValue(inner, y, "settled", fmt.Sprintf("%d", st.Counts.Settled))

	total := st.Counts.Flowing + st.Counts.Settled
	var share float32
	if total > 0 {
		share = float32(st.Counts.Settled) / float32(total)
	}
	y = r.DrawBar(inner, y, "on line", share, h.width-2*r.Theme.Padding)
	y = r.DrawLabelValue(inner, y, "input", fmt.Sprintf("%s / %s", st.DeviceClass, st.NoiseKind))

	if st.Paused {
		rl.DrawText("PAUSED", inner, y, r.Theme.FontSize, r.Theme.Alert)
	}
}

// DrawControls renders the key legend along the bottom edge.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("[Space] pause  [Tab] tuning  [N] noise  [H] hud  [F11] fullscreen",
		h.renderer.Theme.Padding, screenHeight-24, h.renderer.Theme.FontSize, h.renderer.Theme.LabelColor)
}
