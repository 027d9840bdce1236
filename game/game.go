// Package game owns the simulation context: the swarm, the pointer tracker,
// the renderer and telemetry, advanced one frame at a time by the clock loop.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/tideline/clock"
	"github.com/pthm-cable/tideline/config"
	"github.com/pthm-cable/tideline/input"
	"github.com/pthm-cable/tideline/renderer"
	"github.com/pthm-cable/tideline/systems"
	"github.com/pthm-cable/tideline/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	Width, Height  float32
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string

	// ExternalPointer marks the tracker as driven by a synthetic source such
	// as the autopilot. Device polling is skipped so it cannot overwrite it.
	ExternalPointer bool
}

// PointerSource copies device input into the tracker. Poll runs once per
// frame, before the tracker is sampled.
type PointerSource interface {
	Poll()
}

// Status is a read-only summary for overlays.
type Status struct {
	Tick        int64
	Counts      systems.Counts
	Threshold   float32
	DeviceClass input.DeviceClass
	NoiseKind   string
	Paused      bool
	Last        systems.TickEvents
	Window      telemetry.WindowStats
	Perf        telemetry.PerfStats
}

// Game is the simulation context. It is created once, advanced by Frame from
// a single goroutine, and torn down with Unload.
type Game struct {
	cfg      *config.Config
	rng      *rand.Rand
	swarm    *systems.Swarm
	tracker  *input.Tracker
	renderer *renderer.SwarmRenderer
	surface  renderer.Surface
	source   PointerSource
	external bool

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	logStats  bool

	speeds    []float64
	last      systems.TickEvents
	window    telemetry.WindowStats
	noiseKind string
	paused    bool

	resizeHooks []func(width, height float32)
}

// NewGameWithOptions builds the simulation for surface. The particle count is
// fixed here from opts.Width.
func NewGameWithOptions(cfg *config.Config, surface renderer.Surface, opts Options) (*Game, error) {
	if surface == nil {
		return nil, renderer.ErrSurfaceUnavailable
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	noiseSeed := cfg.Noise.Seed
	if noiseSeed == 0 {
		noiseSeed = opts.Seed
	}
	noiseKind := cfg.Noise.Kind
	if noiseKind == "" {
		noiseKind = "perlin"
	}
	field := systems.NewNoiseField(noiseKind, noiseSeed)

	swarm := systems.NewSwarm(cfg, opts.Width, opts.Height, field, rng)

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		swarm.Close()
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		swarm.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		cfg:       cfg,
		rng:       rng,
		swarm:     swarm,
		tracker:   input.NewTracker(swarm.DeviceClass(), float32(cfg.Pointer.Sentinel)),
		renderer:  renderer.NewSwarmRenderer(cfg, rand.New(rand.NewSource(rng.Int63()))),
		surface:   surface,
		collector: telemetry.NewCollector(statsWindow, cfg.Derived.DT),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks: telemetry.NewBookmarkDetector(10),
		output:    output,
		logStats:  opts.LogStats,
		external:  opts.ExternalPointer,
		speeds:    make([]float64, 0, swarm.Len()),
		noiseKind: noiseKind,
	}

	slog.Info("simulation ready",
		"particles", swarm.Len(),
		"width", swarm.Viewport().Width,
		"height", swarm.Viewport().Height,
		"device", swarm.DeviceClass().String(),
		"noise", noiseKind,
		"seed", opts.Seed,
	)
	return g, nil
}

// Frame runs one frame: sample the pointer, tick (unless paused), draw, and
// flush telemetry. It matches clock.FrameFunc.
func (g *Game) Frame(ctx context.Context, c *clock.Clock) error {
	g.perf.StartTick()
	defer g.perf.EndTick()

	g.perf.StartPhase(telemetry.PhaseInput)
	if g.source != nil && !g.external {
		g.source.Poll()
	}
	ptr := g.tracker.Snapshot()

	if !g.paused {
		g.perf.StartPhase(telemetry.PhaseSimulate)
		g.last = g.swarm.Tick(ptr)
		g.collector.Record(g.last)
	}

	g.perf.StartPhase(telemetry.PhaseRender)
	g.renderer.Draw(g.swarm, g.surface)
	g.perf.RecordFrame()

	if !g.paused {
		g.perf.StartPhase(telemetry.PhaseTelemetry)
		g.flushTelemetry()
	}
	return nil
}

// Resize propagates new surface dimensions to the swarm and the tracker.
func (g *Game) Resize(width, height float32) {
	before := g.swarm.Viewport()
	g.swarm.Resize(width, height)
	after := g.swarm.Viewport()
	if before == after {
		return
	}
	g.tracker.SetDeviceClass(g.swarm.DeviceClass())
	for _, fn := range g.resizeHooks {
		fn(after.Width, after.Height)
	}
	slog.Info("viewport resized",
		"width", after.Width,
		"height", after.Height,
		"threshold", g.swarm.Threshold(),
		"device", g.swarm.DeviceClass().String(),
	)
}

// OnResize registers fn to run with the clamped dimensions after each resize.
func (g *Game) OnResize(fn func(width, height float32)) {
	g.resizeHooks = append(g.resizeHooks, fn)
}

// TogglePause pauses or resumes the simulation. Drawing continues while paused.
func (g *Game) TogglePause() bool {
	g.paused = !g.paused
	return g.paused
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.paused }

// ToggleNoise switches between the Perlin and simplex flow fields.
func (g *Game) ToggleNoise() string {
	next := "simplex"
	if g.noiseKind == "simplex" {
		next = "perlin"
	}
	seed := g.cfg.Noise.Seed
	if seed == 0 {
		seed = g.rng.Int63()
	}
	g.swarm.SetNoiseField(systems.NewNoiseField(next, seed))
	g.noiseKind = next
	slog.Info("noise backend switched", "noise", next)
	return next
}

// SetPointerSource registers the device poller. Frame skips it while the
// pointer is driven externally.
func (g *Game) SetPointerSource(src PointerSource) {
	g.source = src
}

// Tracker returns the pointer tracker that input sources write to.
func (g *Game) Tracker() *input.Tracker { return g.tracker }

// Config returns the live configuration. Edits apply from the next tick.
func (g *Game) Config() *config.Config { return g.cfg }

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int64 { return g.swarm.Frame() }

// Status returns a summary for overlays.
func (g *Game) Status() Status {
	return Status{
		Tick:        g.swarm.Frame(),
		Counts:      g.swarm.Counts(),
		Threshold:   g.swarm.Threshold(),
		DeviceClass: g.swarm.DeviceClass(),
		NoiseKind:   g.noiseKind,
		Paused:      g.paused,
		Last:        g.last,
		Window:      g.window,
		Perf:        g.perf.Stats(),
	}
}

// Unload detaches input, releases the particles and closes output files.
func (g *Game) Unload() error {
	g.tracker.Detach()
	g.swarm.Close()
	if err := g.output.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}
