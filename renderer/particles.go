package renderer

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tideline/components"
	"github.com/pthm-cable/tideline/config"
	"github.com/pthm-cable/tideline/systems"
)

// SwarmRenderer emits one line per particle per frame.
type SwarmRenderer struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewSwarmRenderer creates a renderer. rng drives the per-frame jitter and
// stroke widths.
func NewSwarmRenderer(cfg *config.Config, rng *rand.Rand) *SwarmRenderer {
	return &SwarmRenderer{cfg: cfg, rng: rng}
}

// Draw clears the surface and draws every particle, Primary first so Accent
// strokes land on top. Returns the number of lines drawn.
func (r *SwarmRenderer) Draw(s *systems.Swarm, surface Surface) int {
	d := &r.cfg.Derived
	surface.Clear(d.Background)

	threshold := s.Threshold()
	drawn := 0
	for _, cat := range [...]components.Category{components.CategoryPrimary, components.CategoryAccent} {
		col := d.Primary
		if cat == components.CategoryAccent {
			col = d.Accent
		}
		s.ForEach(func(_ ecs.Entity, pos *components.Position, vel *components.Velocity, _ *components.Motion, pt *components.Particle) {
			if pt.Category != cat {
				return
			}
			if pt.IsSettled() {
				r.drawSettled(surface, pt.SettledX, threshold, col)
			} else {
				r.drawStreak(surface, pos, vel, col)
			}
			drawn++
		})
	}
	return drawn
}

// drawSettled draws the vertical mark from the top edge down to the line.
func (r *SwarmRenderer) drawSettled(surface Surface, settledX, threshold float32, col color.RGBA) {
	x := jitterX(settledX, r.Jitter(), float32(r.cfg.Render.Jitter))
	surface.DrawLine(x, 0, x, threshold, col, float32(r.cfg.Render.SettledWidth))
}

// drawStreak draws the motion trail behind a flowing particle.
func (r *SwarmRenderer) drawStreak(surface Surface, pos *components.Position, vel *components.Velocity, col color.RGBA) {
	k := float32(r.cfg.Render.StreakLength)
	w := r.uniform(float32(r.cfg.Render.StrokeWidth.Min), float32(r.cfg.Render.StrokeWidth.Max))
	surface.DrawLine(pos.X, pos.Y, pos.X-vel.X*k, pos.Y-vel.Y*k, col, w)
}

// jitterX offsets x and keeps the result in [x-j, x+j). The sum is taken in
// float64 because float32 rounding can land exactly on x+j.
func jitterX(x, offset, j float32) float32 {
	v := float32(float64(x) + float64(offset))
	if hi := x + j; j > 0 && v >= hi {
		return math.Nextafter32(hi, x)
	}
	return v
}

// Jitter returns a horizontal offset in [-jitter, jitter).
func (r *SwarmRenderer) Jitter() float32 {
	j := float32(r.cfg.Render.Jitter)
	return r.uniform(-j, j)
}

func (r *SwarmRenderer) uniform(lo, hi float32) float32 {
	v := lo + float32(r.rng.Float64())*(hi-lo)
	if v >= hi && hi > lo {
		return lo
	}
	return v
}
