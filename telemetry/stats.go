package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Flowing int `csv:"flowing"`
	Settled int `csv:"settled"`
	Accent  int `csv:"accent"`

	// Lifecycle events during window
	Settles   int `csv:"settles"`
	Erosions  int `csv:"erosions"`
	Respawns  int `csv:"respawns"`
	Touched   int `csv:"touched"`    // particle-ticks inside the pointer radius
	PeakTouch int `csv:"peak_touch"` // most particles touched in a single tick

	// Speed distribution of flowing particles (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	Threshold float64 `csv:"threshold"`
}

// SettledFraction returns the share of the population sitting on the line.
func (s WindowStats) SettledFraction() float64 {
	total := s.Flowing + s.Settled
	if total == 0 {
		return 0
	}
	return float64(s.Settled) / float64(total)
}

// ComputeSpeedStats returns the population mean and standard deviation and
// the 10th, 50th and 90th percentiles. values is not modified.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("flowing", s.Flowing),
		slog.Int("settled", s.Settled),
		slog.Int("accent", s.Accent),
		slog.Int("settles", s.Settles),
		slog.Int("erosions", s.Erosions),
		slog.Int("respawns", s.Respawns),
		slog.Int("touched", s.Touched),
		slog.Int("peak_touch", s.PeakTouch),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("threshold", s.Threshold),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"flowing", s.Flowing,
		"settled", s.Settled,
		"settles", s.Settles,
		"erosions", s.Erosions,
		"respawns", s.Respawns,
		"touched", s.Touched,
		"peak_touch", s.PeakTouch,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"threshold", s.Threshold,
	)
}
