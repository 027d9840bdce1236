package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tideline/input"
)

// maxTouches bounds the contacts read per frame.
const maxTouches = 10

// PointerPoller copies raylib mouse and touch state into a tracker.
type PointerPoller struct {
	tracker *input.Tracker
	touches []input.Point

	// Blocked reports positions where presses must not engage the swarm.
	Blocked func(pos rl.Vector2) bool
}

// NewPointerPoller creates a poller writing to tracker.
func NewPointerPoller(tracker *input.Tracker) *PointerPoller {
	return &PointerPoller{tracker: tracker, touches: make([]input.Point, 0, maxTouches)}
}

// Poll reads the current input state. It implements game.PointerSource.
func (p *PointerPoller) Poll() {
	pos := rl.GetMousePosition()
	if rl.IsCursorOnScreen() {
		p.tracker.Move(pos.X, pos.Y)
	}
	pressed := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	if pressed && p.Blocked != nil && p.Blocked(pos) {
		pressed = false
	}
	p.tracker.SetPressed(pressed)

	p.touches = p.touches[:0]
	n := int(rl.GetTouchPointCount())
	if n > maxTouches {
		n = maxTouches
	}
	for i := 0; i < n; i++ {
		pos := rl.GetTouchPosition(int32(i))
		p.touches = append(p.touches, input.Point{X: pos.X, Y: pos.Y})
	}
	p.tracker.SetTouches(p.touches)
}
