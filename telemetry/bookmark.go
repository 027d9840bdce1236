package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkTouchSurge  BookmarkType = "touch_surge"
	BookmarkLineFormed  BookmarkType = "line_formed"
	BookmarkLineCleared BookmarkType = "line_cleared"
	BookmarkSteadyLine  BookmarkType = "steady_line"
)

// Detection thresholds.
const (
	surgeFactor       = 2.0  // touched vs. rolling average
	surgeMinPeak      = 50   // particles touched in a single tick
	lineFormedShare   = 0.25 // settled share of the population
	clearedDrop       = 0.30 // drop from the recent settled peak
	clearedMinPeak    = 100
	steadyMaxCV       = 0.1
	steadyWindows     = 5
	steadyLookback    = 4
	minHistoryWindows = 3
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches window stats for notable moments: pointer surges,
// the line forming or being swept away, and the line holding steady.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	settledPeak  int
	lineFormed   bool
	steadyStreak int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < steadyWindows {
		historySize = steadyWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkTouchSurge,
		bd.checkLineFormed,
		bd.checkLineCleared,
		bd.checkSteadyLine,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	if stats.Settled > bd.settledPeak {
		bd.settledPeak = stats.Settled
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	if n > size {
		n = size
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkTouchSurge(stats WindowStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < minHistoryWindows {
		return nil
	}

	touched := make([]float64, len(history))
	for i, h := range history {
		touched[i] = float64(h.Touched)
	}
	avg := stat.Mean(touched, nil)
	if avg == 0 {
		return nil
	}

	if float64(stats.Touched) > avg*surgeFactor && stats.PeakTouch >= surgeMinPeak {
		return &Bookmark{
			Type:        BookmarkTouchSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Pointer touched %d particles, %.1fx the average (%.0f)", stats.Touched, float64(stats.Touched)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkLineFormed(stats WindowStats) *Bookmark {
	share := stats.SettledFraction()
	if share < lineFormedShare {
		bd.lineFormed = false
		return nil
	}
	if bd.lineFormed {
		return nil
	}
	bd.lineFormed = true
	return &Bookmark{
		Type:        BookmarkLineFormed,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%.0f%% of the swarm settled on the line", share*100),
	}
}

func (bd *BookmarkDetector) checkLineCleared(stats WindowStats) *Bookmark {
	if bd.settledPeak < clearedMinPeak {
		return nil
	}

	drop := 1.0 - float64(stats.Settled)/float64(bd.settledPeak)
	if drop <= clearedDrop {
		return nil
	}

	// Reset peak so one sweep triggers once
	oldPeak := bd.settledPeak
	bd.settledPeak = stats.Settled
	return &Bookmark{
		Type:        BookmarkLineCleared,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Settled count fell %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Settled),
	}
}

func (bd *BookmarkDetector) checkSteadyLine(stats WindowStats) *Bookmark {
	if stats.Settled < clearedMinPeak {
		bd.steadyStreak = 0
		return nil
	}

	history := bd.recent(steadyLookback)
	if len(history) < steadyLookback {
		return nil
	}

	settled := make([]float64, 0, len(history)+1)
	for _, h := range history {
		settled = append(settled, float64(h.Settled))
	}
	settled = append(settled, float64(stats.Settled))

	mean, std := stat.PopMeanStdDev(settled, nil)
	if mean > 0 && std/mean < steadyMaxCV {
		bd.steadyStreak++
	} else {
		bd.steadyStreak = 0
	}

	if bd.steadyStreak == steadyWindows {
		return &Bookmark{
			Type:        BookmarkSteadyLine,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Line held steady near %.0f settled particles", mean),
		}
	}
	return nil
}
