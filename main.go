package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pthm-cable/tideline/clock"
	"github.com/pthm-cable/tideline/config"
	"github.com/pthm-cable/tideline/game"
	"github.com/pthm-cable/tideline/input"
	"github.com/pthm-cable/tideline/renderer"
	"github.com/pthm-cable/tideline/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window, drawing to an offscreen recorder")
	paced := flag.Bool("paced", false, "Headless only: pace ticks at the target frame rate")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N frames (0 = unlimited)")
	width := flag.Int("width", 0, "Surface width (0 = use config)")
	height := flag.Int("height", 0, "Surface height (0 = use config)")
	autopilot := flag.Bool("autopilot", false, "Drive the pointer with a synthetic gesture")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	w, h := cfg.Screen.Width, cfg.Screen.Height
	if *width > 0 {
		w = *width
	}
	if *height > 0 {
		h = *height
	}

	opts := game.Options{
		Seed:           rngSeed,
		Width:          float32(w),
		Height:         float32(h),
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,

		ExternalPointer: *autopilot,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		surface   renderer.Surface
		scheduler clock.Scheduler
		frame     clock.FrameFunc
		window    *ui.WindowSurface
	)

	if *headless {
		surface = &renderer.Recorder{}
		if *paced {
			ticker := clock.NewTickerScheduler(time.Duration(cfg.Derived.DT * float64(time.Second)))
			defer ticker.Stop()
			scheduler = ticker
		} else {
			scheduler = clock.Unpaced{}
		}
	} else {
		ws, err := ui.OpenWindow(cfg, int32(w), int32(h))
		if err != nil {
			slog.Error("failed to open window", "error", err)
			os.Exit(1)
		}
		window = ws
		surface = ws
		scheduler = ui.VSyncScheduler{}
		// The window may come up at a different size than requested.
		sw, sh := ws.Size()
		opts.Width, opts.Height = sw, sh
	}

	g, err := game.NewGameWithOptions(cfg, surface, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		if window != nil {
			window.Close()
		}
		os.Exit(1)
	}

	if window != nil {
		frame = ui.NewWindow(g, window, cfg.Screen.Title).Frame
	} else {
		frame = g.Frame
	}

	// Input sources run until the loop ends and are stopped before teardown.
	inputCtx, stopInput := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if *autopilot {
		ap := input.NewAutopilot(g.Tracker(), opts.Width, opts.Height, time.Duration(cfg.Derived.DT*float64(time.Second)))
		g.OnResize(ap.Resize)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ap.Run(inputCtx)
		}()
	}

	slog.Info("starting simulation",
		"headless", *headless,
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"autopilot", *autopilot,
	)

	loop := &clock.Loop{Scheduler: scheduler, MaxFrames: *maxTicks}
	res, runErr := loop.Run(ctx, frame)

	stopInput()
	wg.Wait()

	if err := g.Unload(); err != nil {
		slog.Error("teardown failed", "error", err)
	}
	if window != nil {
		window.Close()
	}

	slog.Info("simulation stopped", "frames", res.Frames, "skipped", res.Skipped, "tick", g.Tick())
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("loop failed", "error", runErr)
		os.Exit(1)
	}
}
