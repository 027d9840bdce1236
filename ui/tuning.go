package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tideline/config"
)

// slider binds one float64 config field to a raygui slider.
type slider struct {
	label    string
	min, max float32
	format   string
	value    func(*config.Config) *float64
}

// TuningPanel edits live simulation parameters. Changes apply from the next tick.
type TuningPanel struct {
	renderer *Renderer
	cfg      *config.Config
	sliders  []slider
	width    int32
	visible  bool
	bounds   rl.Rectangle // last drawn area
}

// NewTuningPanel creates a hidden panel bound to cfg.
func NewTuningPanel(cfg *config.Config) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		cfg:      cfg,
		width:    300,
		sliders: []slider{
			{"noise scale", 0.0005, 0.01, "%.4f", func(c *config.Config) *float64 { return &c.Flow.NoiseScale }},
			{"time scale", 0, 0.01, "%.4f", func(c *config.Config) *float64 { return &c.Flow.TimeScale }},
			{"steer limit", 0.01, 0.5, "%.3f", func(c *config.Config) *float64 { return &c.Flow.SteerLimit }},
			{"buoyancy", 0, 0.05, "%.4f", func(c *config.Config) *float64 { return &c.Buoyancy.Accel }},
			{"drag radius", 50, 1000, "%.0f", func(c *config.Config) *float64 { return &c.Pointer.DragRadius }},
			{"hover radius", 20, 400, "%.0f", func(c *config.Config) *float64 { return &c.Pointer.HoverRadius }},
			{"erosion", 0, 0.1, "%.3f", func(c *config.Config) *float64 { return &c.Threshold.ErosionChance }},
			{"line height", 0.1, 0.9, "%.2f", func(c *config.Config) *float64 { return &c.Threshold.Ratio }},
		},
	}
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *TuningPanel) IsVisible() bool { return p.visible }

// Contains reports whether pos lies over the panel.
func (p *TuningPanel) Contains(pos rl.Vector2) bool {
	return rl.CheckCollisionPointRec(pos, p.bounds)
}

// Draw renders the panel against the right edge and applies slider edits.
func (p *TuningPanel) Draw(screenWidth int32) {
	if !p.visible {
		return
	}

	r := p.renderer
	lineHeight := int32(38)
	height := int32(len(p.sliders))*lineHeight + r.Theme.LineHeight + 3*r.Theme.Padding
	x := screenWidth - p.width - r.Theme.Padding
	y := r.Theme.Padding
	r.DrawPanel(x, y, p.width, height)
	p.bounds = rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(p.width), Height: float32(height)}

	inner := x + r.Theme.Padding
	y = r.DrawHeader(inner, y+r.Theme.Padding, "Tuning")

	sliderWidth := float32(p.width - 2*r.Theme.Padding - 70)
	for _, s := range p.sliders {
		field := s.value(p.cfg)

		rl.DrawText(s.label, inner, y, r.Theme.FontSize, r.Theme.LabelColor)
		bounds := rl.Rectangle{X: float32(inner), Y: float32(y + 16), Width: sliderWidth, Height: 14}
		next := gui.SliderBar(bounds, "", "", float32(*field), s.min, s.max)
		if next != float32(*field) {
			*field = float64(next)
		}
		rl.DrawText(fmt.Sprintf(s.format, *field), inner+int32(sliderWidth)+8, y+16, r.Theme.FontSize, r.Theme.ValueColor)
		y += lineHeight
	}
}
