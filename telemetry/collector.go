// Package telemetry provides windowed swarm statistics, milestone detection,
// per-phase timing and CSV output.
package telemetry

import (
	"math"

	"github.com/pthm-cable/tideline/systems"
)

// Collector accumulates tick events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	settles   int
	erosions  int
	respawns  int
	touched   int
	peakTouch int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(1)
	if dt > 0 {
		ticksPerWindow = int64(math.Round(windowDurationSec / dt))
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record adds one tick's events to the current window.
func (c *Collector) Record(ev systems.TickEvents) {
	c.settles += ev.Settled
	c.erosions += ev.Eroded
	c.respawns += ev.Respawned
	c.touched += ev.Touched
	if ev.Touched > c.peakTouch {
		c.peakTouch = ev.Touched
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// speeds are the speeds of the flowing particles at currentTick.
func (c *Collector) Flush(currentTick int64, counts systems.Counts, speeds []float64, threshold float32) WindowStats {
	mean, std, p10, p50, p90 := ComputeSpeedStats(speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Flowing: counts.Flowing,
		Settled: counts.Settled,
		Accent:  counts.Accent,

		Settles:   c.settles,
		Erosions:  c.erosions,
		Respawns:  c.respawns,
		Touched:   c.touched,
		PeakTouch: c.peakTouch,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		Threshold: float64(threshold),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.settles = 0
	c.erosions = 0
	c.respawns = 0
	c.touched = 0
	c.peakTouch = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
