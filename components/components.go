// Package components defines ECS components for the swarm.
package components

// Category tags a particle for render color only. It never changes after creation.
type Category uint8

const (
	CategoryPrimary Category = iota
	CategoryAccent
)

// String returns the category name.
func (c Category) String() string {
	if c == CategoryAccent {
		return "accent"
	}
	return "primary"
}

// Lifecycle is the particle state machine.
type Lifecycle uint8

const (
	Flowing Lifecycle = iota // integrating under the force field
	Settled                  // frozen on the threshold line
)

// String returns the lifecycle name.
func (l Lifecycle) String() string {
	if l == Settled {
		return "settled"
	}
	return "flowing"
}

// Particle holds the per-particle identity and lifecycle state.
type Particle struct {
	Category Category
	State    Lifecycle
	SettledX float32 // x frozen at the moment of settling; meaningless while Flowing
}

// IsSettled reports whether the particle is on the threshold line.
func (p *Particle) IsSettled() bool {
	return p.State == Settled
}
