// Package systems provides the swarm simulation: force fields, the particle
// population and its lifecycle, and the spatial index used for pointer queries.
package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tideline/components"
	"github.com/pthm-cable/tideline/config"
	"github.com/pthm-cable/tideline/input"
)

// TickEvents counts lifecycle events produced by one tick.
type TickEvents struct {
	Settled   int // Flowing -> Settled
	Eroded    int // Settled -> Flowing
	Respawned int // recycled at the bottom edge
	Touched   int // particles inside the pointer radius
}

// Add accumulates other into e.
func (e *TickEvents) Add(other TickEvents) {
	e.Settled += other.Settled
	e.Eroded += other.Eroded
	e.Respawned += other.Respawned
	e.Touched += other.Touched
}

// Counts is a census of the population.
type Counts struct {
	Flowing int
	Settled int
	Accent  int
}

// Swarm owns the particle population. It is the simulation context: created
// once at startup, advanced by Tick, and torn down with Close. It must only be
// used from the goroutine running the frame loop.
type Swarm struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	field NoiseField

	mapper *ecs.Map4[components.Position, components.Velocity, components.Motion, components.Particle]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Motion, components.Particle]
	posMap *ecs.Map1[components.Position]
	motMap *ecs.Map1[components.Motion]

	grid   *SpatialGrid
	nearby []ecs.Entity

	viewport  Viewport
	threshold float32
	class     input.DeviceClass
	count     int
	frame     int64
}

// ParticleCount returns the population size for a viewport width.
func ParticleCount(cfg *config.Config, width float32) int {
	if float64(width) < cfg.Swarm.NarrowBreakpoint {
		return cfg.Swarm.NarrowCount
	}
	return cfg.Swarm.WideCount
}

// NewSwarm allocates the population for the given surface size. The count is
// chosen from the width here and never changes afterwards.
func NewSwarm(cfg *config.Config, width, height float32, field NoiseField, rng *rand.Rand) *Swarm {
	world := ecs.NewWorld()
	vp := NewViewport(width, height)

	s := &Swarm{
		cfg:    cfg,
		world:  world,
		rng:    rng,
		field:  field,
		mapper: ecs.NewMap4[components.Position, components.Velocity, components.Motion, components.Particle](world),
		filter: ecs.NewFilter4[components.Position, components.Velocity, components.Motion, components.Particle](world),
		posMap: ecs.NewMap1[components.Position](world),
		motMap: ecs.NewMap1[components.Motion](world),
		grid:   NewSpatialGrid(vp, float32(cfg.Boundary.Margin), float32(cfg.Pointer.CellSize)),
	}
	s.applyViewport(vp)
	s.count = ParticleCount(cfg, vp.Width)
	s.spawnInitial()
	return s
}

// spawnInitial places every particle below the visible area with zero velocity.
func (s *Swarm) spawnInitial() {
	vp := s.viewport
	depth := float32(s.cfg.Swarm.SpawnDepth)

	for i := 0; i < s.count; i++ {
		cat := components.CategoryPrimary
		if s.rng.Float64() < s.cfg.Swarm.AccentRatio {
			cat = components.CategoryAccent
		}

		pos := components.Position{
			X: uniform(s.rng, 0, vp.Width),
			Y: uniform(s.rng, vp.Height, vp.Height*(1+depth)),
		}
		vel := components.Velocity{}
		mot := components.Motion{MaxSpeed: uniformRange(s.rng, s.cfg.Boundary.MaxSpeed)}
		pt := components.Particle{Category: cat, State: components.Flowing}

		s.mapper.NewEntity(&pos, &vel, &mot, &pt)
	}
}

// Resize adopts new surface dimensions. The threshold line and device class
// follow immediately; particles are neither moved nor dropped.
func (s *Swarm) Resize(width, height float32) {
	vp := NewViewport(width, height)
	if vp == s.viewport {
		return
	}
	s.applyViewport(vp)
	s.grid.Resize(vp, float32(s.cfg.Boundary.Margin))
}

func (s *Swarm) applyViewport(vp Viewport) {
	s.viewport = vp
	s.threshold = vp.ThresholdLine(float32(s.cfg.Threshold.Ratio))
	s.class = input.ResolveDeviceClass(s.cfg.Pointer.Device, float64(vp.Width), s.cfg.Swarm.NarrowBreakpoint)
}

// Tick advances the population by one frame using the pointer state sampled
// for this frame.
func (s *Swarm) Tick(ptr input.State) TickEvents {
	var ev TickEvents
	p := ForceParamsFrom(s.cfg)

	// Recomputed every tick so config edits and resizes apply without a restart.
	s.threshold = s.viewport.ThresholdLine(float32(s.cfg.Threshold.Ratio))

	ev.Touched = s.applyPointer(ptr, PointerRadius(s.class, ptr.Engaged, &p), &p)

	frame := float64(s.frame)
	margin := float32(s.cfg.Boundary.Margin)
	erosion := s.cfg.Threshold.ErosionChance
	buoyancy := BuoyancyForce(&p)

	query := s.filter.Query()
	for query.Next() {
		pos, vel, mot, pt := query.Get()

		if pt.State == components.Settled {
			if s.rng.Float64() < erosion {
				s.erode(pos, vel, mot, pt)
				ev.Eroded++
			}
			continue
		}

		prevY := pos.Y

		ax, ay := FlowSteer(pos.X, pos.Y, vel.X, vel.Y, mot.MaxSpeed, frame, s.field, &p)
		mot.AX += ax
		mot.AY += ay + buoyancy

		integrate(pos, vel, mot)

		if s.viewport.Outside(pos.X, pos.Y, margin) {
			s.respawn(pos, vel, mot)
			ev.Respawned++
			continue
		}

		// Only an upward crossing settles a particle.
		if prevY > s.threshold && pos.Y <= s.threshold {
			settle(pos, vel, pt, s.threshold)
			ev.Settled++
		}
	}

	s.frame++
	return ev
}

// applyPointer bins flowing particles and adds the pointer force to every
// particle inside radius. Returns the number of particles affected.
func (s *Swarm) applyPointer(ptr input.State, radius float32, p *ForceParams) int {
	s.grid.Clear()
	query := s.filter.Query()
	for query.Next() {
		pos, _, _, pt := query.Get()
		if pt.State == components.Flowing {
			s.grid.Insert(query.Entity(), pos.X, pos.Y)
		}
	}

	s.nearby = s.grid.QueryRadiusInto(s.nearby[:0], ptr.X, ptr.Y, radius, s.posMap)

	touched := 0
	for _, e := range s.nearby {
		pos := s.posMap.Get(e)
		ax, ay, hit := PointerForce(pos.X, pos.Y, ptr, radius, p)
		if !hit {
			continue
		}
		mot := s.motMap.Get(e)
		mot.AX += ax
		mot.AY += ay
		touched++
	}
	return touched
}

// integrate applies the accumulated acceleration, caps speed, moves, and
// clears the accumulator.
func integrate(pos *components.Position, vel *components.Velocity, mot *components.Motion) {
	vel.X += mot.AX
	vel.Y += mot.AY
	vel.X, vel.Y = LimitMagnitude(vel.X, vel.Y, mot.MaxSpeed)
	pos.X += vel.X
	pos.Y += vel.Y
	mot.AX, mot.AY = 0, 0
}

// respawn recycles a particle just below the bottom edge, shooting upward with
// a freshly rolled speed cap.
func (s *Swarm) respawn(pos *components.Position, vel *components.Velocity, mot *components.Motion) {
	b := &s.cfg.Boundary
	pos.X = uniform(s.rng, 0, s.viewport.Width)
	pos.Y = s.viewport.Height + float32(b.SpawnOffset)

	mot.MaxSpeed = uniformRange(s.rng, b.MaxSpeed)
	mot.AX, mot.AY = 0, 0

	vel.X, vel.Y = LimitMagnitude(uniformRange(s.rng, b.SpawnVX), uniformRange(s.rng, b.SpawnVY), mot.MaxSpeed)
}

// settle freezes a particle on the threshold line.
func settle(pos *components.Position, vel *components.Velocity, pt *components.Particle, threshold float32) {
	pt.State = components.Settled
	pt.SettledX = pos.X
	pos.Y = threshold
	vel.X, vel.Y = 0, 0
}

// erode releases a settled particle just below the line, drifting downward.
func (s *Swarm) erode(pos *components.Position, vel *components.Velocity, mot *components.Motion, pt *components.Particle) {
	th := &s.cfg.Threshold
	pt.State = components.Flowing
	pos.Y = s.threshold + uniformRange(s.rng, th.ErosionOffset)
	mot.AX, mot.AY = 0, 0
	vel.X, vel.Y = LimitMagnitude(uniformRange(s.rng, th.ErosionVX), uniformRange(s.rng, th.ErosionVY), mot.MaxSpeed)
}

// ForEach calls fn for every particle in iteration order. fn may mutate the
// components but must not add or remove entities.
func (s *Swarm) ForEach(fn func(e ecs.Entity, pos *components.Position, vel *components.Velocity, mot *components.Motion, pt *components.Particle)) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, mot, pt := query.Get()
		fn(query.Entity(), pos, vel, mot, pt)
	}
}

// Counts returns the current census.
func (s *Swarm) Counts() Counts {
	var c Counts
	query := s.filter.Query()
	for query.Next() {
		_, _, _, pt := query.Get()
		if pt.State == components.Settled {
			c.Settled++
		} else {
			c.Flowing++
		}
		if pt.Category == components.CategoryAccent {
			c.Accent++
		}
	}
	return c
}

// Speeds appends the speed of every flowing particle to dst.
func (s *Swarm) Speeds(dst []float64) []float64 {
	query := s.filter.Query()
	for query.Next() {
		_, vel, _, pt := query.Get()
		if pt.State == components.Flowing {
			dst = append(dst, math.Hypot(float64(vel.X), float64(vel.Y)))
		}
	}
	return dst
}

// Close removes every particle. The swarm must not be used afterwards.
func (s *Swarm) Close() {
	entities := make([]ecs.Entity, 0, s.count)
	query := s.filter.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	for _, e := range entities {
		s.mapper.Remove(e)
	}
	s.count = 0
}

// SetNoiseField swaps the flow field backend.
func (s *Swarm) SetNoiseField(f NoiseField) { s.field = f }

// Len returns the fixed population size.
func (s *Swarm) Len() int { return s.count }

// Frame returns the number of completed ticks.
func (s *Swarm) Frame() int64 { return s.frame }

// Threshold returns the current threshold line.
func (s *Swarm) Threshold() float32 { return s.threshold }

// Viewport returns the current (clamped) viewport.
func (s *Swarm) Viewport() Viewport { return s.viewport }

// DeviceClass returns the device class derived from the viewport.
func (s *Swarm) DeviceClass() input.DeviceClass { return s.class }

// uniform returns a value in [lo, hi). Rounding in float32 can land exactly
// on hi, so that case is folded back to lo.
func uniform(rng *rand.Rand, lo, hi float32) float32 {
	v := lo + float32(rng.Float64())*(hi-lo)
	if v >= hi && hi > lo {
		return lo
	}
	return v
}

func uniformRange(rng *rand.Rand, r config.Range) float32 {
	return uniform(rng, float32(r.Min), float32(r.Max))
}
