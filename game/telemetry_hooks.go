package game

import "log/slog"

// flushTelemetry closes the stats window when due, then logs, writes and
// checks it for bookmarks.
func (g *Game) flushTelemetry() {
	tick := g.swarm.Frame()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	g.speeds = g.swarm.Speeds(g.speeds[:0])
	stats := g.collector.Flush(tick, g.swarm.Counts(), g.speeds, g.swarm.Threshold())
	perfStats := g.perf.Stats()
	g.window = stats

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
