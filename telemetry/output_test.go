package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/tideline/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager without error, got %v, %v", om, err)
	}
	// Every method is safe on a nil manager.
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("expected empty dir and nil close error")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := om.WriteStats(WindowStats{WindowEndTick: int64(i * 600), Settled: i}); err != nil {
			t.Fatalf("WriteStats: %v", err)
		}
	}
	perf := PerfStats{AvgTickDuration: 2 * time.Millisecond}
	if err := om.WritePerf(perf, 600); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkLineFormed, Tick: 600, Description: "formed"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, StatsFile))
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows in stats.csv, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,flowing,settled") {
		t.Errorf("unexpected stats header %q", lines[0])
	}
	if strings.Contains(lines[0], "WindowStartTick") {
		t.Error("window start should be excluded from CSV")
	}

	perfLines := readLines(t, filepath.Join(dir, PerfFile))
	if len(perfLines) != 2 || !strings.Contains(perfLines[1], "2000") {
		t.Errorf("unexpected perf.csv contents %q", perfLines)
	}

	bookmarkLines := readLines(t, filepath.Join(dir, BookmarksFile))
	if len(bookmarkLines) != 2 || bookmarkLines[0] != "type,tick,description" {
		t.Errorf("unexpected bookmarks.csv contents %q", bookmarkLines)
	}

	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		t.Errorf("config snapshot does not load back: %v", err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
