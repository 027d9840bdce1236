package input

import (
	"context"
	"math"
	"sync"
	"time"
)

// Autopilot feeds a synthetic gesture into a Tracker from its own goroutine:
// a figure-eight sweep over the lower half of the viewport that alternates
// between hovering and dragging.
type Autopilot struct {
	tracker  *Tracker
	interval time.Duration
	phaseLen int // steps per hover or drag phase

	mu            sync.Mutex
	width, height float32
}

// NewAutopilot creates an autopilot stepping once per interval.
func NewAutopilot(t *Tracker, width, height float32, interval time.Duration) *Autopilot {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Autopilot{
		tracker:  t,
		interval: interval,
		phaseLen: 180,
		width:    width,
		height:   height,
	}
}

// Resize updates the area the gesture sweeps.
func (a *Autopilot) Resize(width, height float32) {
	a.mu.Lock()
	a.width, a.height = width, height
	a.mu.Unlock()
}

// Run steps until ctx is cancelled, then lifts the pointer.
func (a *Autopilot) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			a.tracker.SetPressed(false)
			a.tracker.SetTouches(nil)
			return
		case <-ticker.C:
			a.Step(i)
		}
	}
}

// Step writes the gesture position for step i.
func (a *Autopilot) Step(i int) {
	a.mu.Lock()
	w, h := a.width, a.height
	a.mu.Unlock()

	phase := float64(i) * 0.02
	x := float32(0.5+0.35*math.Sin(phase)) * w
	y := float32(0.75+0.15*math.Sin(2*phase)) * h
	engaged := (i/a.phaseLen)%2 == 1

	if a.tracker.DeviceClass() == DeviceTouch {
		if engaged {
			a.tracker.SetTouches([]Point{{X: x, Y: y}})
		} else {
			a.tracker.SetTouches(nil)
		}
		return
	}
	a.tracker.Move(x, y)
	a.tracker.SetPressed(engaged)
}
