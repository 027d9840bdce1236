package systems

import (
	"math"

	"github.com/pthm-cable/tideline/config"
	"github.com/pthm-cable/tideline/input"
)

// ForceParams caches the force-field knobs as float32 for the hot loop.
// Rebuilt from config every tick so that live edits take effect immediately.
type ForceParams struct {
	NoiseScale float64
	TimeScale  float64
	AngleSpan  float32
	SteerLimit float32
	Buoyancy   float32

	TouchRadius float32
	DragRadius  float32
	HoverRadius float32
	MaxStrength float32
	AttractGain float32
	RepelGain   float32
	MinDistance float32
}

// ForceParamsFrom extracts force parameters from cfg.
func ForceParamsFrom(cfg *config.Config) ForceParams {
	return ForceParams{
		NoiseScale:  cfg.Flow.NoiseScale,
		TimeScale:   cfg.Flow.TimeScale,
		AngleSpan:   cfg.Derived.AngleSpan,
		SteerLimit:  float32(cfg.Flow.SteerLimit),
		Buoyancy:    float32(cfg.Buoyancy.Accel),
		TouchRadius: float32(cfg.Pointer.TouchRadius),
		DragRadius:  float32(cfg.Pointer.DragRadius),
		HoverRadius: float32(cfg.Pointer.HoverRadius),
		MaxStrength: float32(cfg.Pointer.MaxStrength),
		AttractGain: float32(cfg.Pointer.AttractGain),
		RepelGain:   float32(cfg.Pointer.RepelGain),
		MinDistance: float32(cfg.Pointer.MinDistance),
	}
}

// PointerRadius returns the interaction radius. Touch devices always use the
// touch radius; pointer devices shrink to the hover radius unless pressed.
func PointerRadius(class input.DeviceClass, engaged bool, p *ForceParams) float32 {
	if class == input.DeviceTouch {
		return p.TouchRadius
	}
	if !engaged {
		return p.HoverRadius
	}
	return p.DragRadius
}

// PointerForce returns the pointer contribution for a particle at (x, y).
// Strength falls off linearly from MaxStrength at the pointer to zero at radius.
// Engaged pointers attract, hovering pointers repel.
func PointerForce(x, y float32, ptr input.State, radius float32, p *ForceParams) (ax, ay float32, hit bool) {
	dx := x - ptr.X
	dy := y - ptr.Y
	distSq := dx*dx + dy*dy
	if distSq >= radius*radius {
		return 0, 0, false
	}

	d := float32(math.Sqrt(float64(distSq)))
	if d < p.MinDistance {
		d = p.MinDistance
	}
	strength := p.MaxStrength * (1 - d/radius)

	mag := strength * p.RepelGain
	if ptr.Engaged {
		mag = -strength * p.AttractGain
	}
	return dx / d * mag, dy / d * mag, true
}

// FlowSteer returns the seek-steering acceleration toward the flow direction
// sampled at (x, y) and frame time. The steer is clamped to SteerLimit.
func FlowSteer(x, y, vx, vy, maxSpeed float32, frame float64, field NoiseField, p *ForceParams) (ax, ay float32) {
	n := field.Sample(float64(x)*p.NoiseScale, float64(y)*p.NoiseScale, frame*p.TimeScale)
	angle := float64(float32(n) * p.AngleSpan)

	desiredX := float32(math.Cos(angle)) * maxSpeed
	desiredY := float32(math.Sin(angle)) * maxSpeed

	return LimitMagnitude(desiredX-vx, desiredY-vy, p.SteerLimit)
}

// BuoyancyForce returns the constant upward (negative y) acceleration.
func BuoyancyForce(p *ForceParams) float32 {
	return -p.Buoyancy
}

// LimitMagnitude scales (x, y) down to max if it is longer.
func LimitMagnitude(x, y, max float32) (float32, float32) {
	magSq := x*x + y*y
	if magSq <= max*max {
		return x, y
	}
	mag := float32(math.Sqrt(float64(magSq)))
	return x / mag * max, y / mag * max
}
