package game

import "log/slog"

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	out := g.last
	stats := g.collector.Flush(g.tick, out.State.Elapsed, out.State.Smoothed, out.Sample(&g.sample))
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	for _, b := range g.bookmarks.Check(stats) {
		b.LogBookmark()
		if err := g.outputManager.WriteBookmark(b); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteFrames(stats); err != nil {
			slog.Error("failed to write frames", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
