package components

// Position represents a particle's position in viewport units.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's velocity in units per tick.
type Velocity struct {
	X, Y float32
}

// Motion holds the acceleration accumulator and the speed cap.
// The accumulator is cleared at the end of every integration step.
type Motion struct {
	AX, AY   float32
	MaxSpeed float32
}
