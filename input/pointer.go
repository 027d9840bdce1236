// Package input normalizes pointer and touch events into the single
// interaction point the simulation reads once per tick.
package input

import "sync"

// DeviceClass selects pointer interaction radii.
type DeviceClass uint8

const (
	DevicePointer DeviceClass = iota // mouse or trackpad, supports hover
	DeviceTouch                      // touch screen, no hover
)

// String returns the class name.
func (c DeviceClass) String() string {
	if c == DeviceTouch {
		return "touch"
	}
	return "pointer"
}

// ResolveDeviceClass maps the configured setting to a class.
// "auto" treats viewports narrower than breakpoint as touch devices.
func ResolveDeviceClass(setting string, width, breakpoint float64) DeviceClass {
	switch setting {
	case "pointer":
		return DevicePointer
	case "touch":
		return DeviceTouch
	}
	if width < breakpoint {
		return DeviceTouch
	}
	return DevicePointer
}

// Point is a raw device coordinate.
type Point struct {
	X, Y float32
}

// State is the normalized pointer for one tick.
type State struct {
	X, Y    float32
	Engaged bool // pressed or touching
}

// Tracker collects raw device events and hands out normalized snapshots.
// Writers may run on any goroutine; they never touch particle state.
type Tracker struct {
	mu       sync.Mutex
	class    DeviceClass
	sentinel float32

	mouse    Point
	pressed  bool
	touches  []Point
	detached bool
}

// NewTracker creates a tracker that reports (sentinel, sentinel) when there
// is nothing to report. The pointer starts parked at the sentinel.
func NewTracker(class DeviceClass, sentinel float32) *Tracker {
	return &Tracker{
		class:    class,
		sentinel: sentinel,
		mouse:    Point{X: sentinel, Y: sentinel},
		touches:  make([]Point, 0, 10),
	}
}

// SetDeviceClass switches the class, e.g. after a resize crosses the breakpoint.
func (t *Tracker) SetDeviceClass(c DeviceClass) {
	t.mu.Lock()
	t.class = c
	t.mu.Unlock()
}

// DeviceClass returns the current class.
func (t *Tracker) DeviceClass() DeviceClass {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.class
}

// Move records a pointer position.
func (t *Tracker) Move(x, y float32) {
	t.mu.Lock()
	if !t.detached {
		t.mouse = Point{X: x, Y: y}
	}
	t.mu.Unlock()
}

// SetPressed records the primary button state.
func (t *Tracker) SetPressed(pressed bool) {
	t.mu.Lock()
	if !t.detached {
		t.pressed = pressed
	}
	t.mu.Unlock()
}

// SetTouches replaces the active contact points. An empty slice means no fingers down.
func (t *Tracker) SetTouches(points []Point) {
	t.mu.Lock()
	if !t.detached {
		t.touches = append(t.touches[:0], points...)
	}
	t.mu.Unlock()
}

// Detach stops accepting events. Later snapshots report the sentinel.
func (t *Tracker) Detach() {
	t.mu.Lock()
	t.detached = true
	t.pressed = false
	t.touches = t.touches[:0]
	t.mu.Unlock()
}

// Snapshot returns the normalized state. Touch devices with no contacts report
// the sentinel rather than the last known position.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.detached {
		return State{X: t.sentinel, Y: t.sentinel}
	}
	if t.class == DeviceTouch {
		if len(t.touches) == 0 {
			return State{X: t.sentinel, Y: t.sentinel}
		}
		first := t.touches[0]
		return State{X: first.X, Y: first.Y, Engaged: true}
	}
	return State{X: t.mouse.X, Y: t.mouse.Y, Engaged: t.pressed}
}
