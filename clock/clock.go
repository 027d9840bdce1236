// Package clock drives the cooperative frame loop: one frame callback per
// scheduler slot, never overlapping, until the context is canceled.
package clock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrStopped is returned by a Scheduler or frame callback to end the loop
// without an error, e.g. when the window is closed.
var ErrStopped = errors.New("clock: stopped")

// Clock tracks the frame count and elapsed time of a running loop.
type Clock struct {
	frame int64
	start time.Time
	now   time.Time
	delta time.Duration
}

// New returns a clock starting at start.
func New(start time.Time) *Clock {
	return &Clock{start: start, now: start}
}

// Advance moves the clock to now and counts one frame.
func (c *Clock) Advance(now time.Time) {
	c.delta = now.Sub(c.now)
	c.now = now
	c.frame++
}

// Frame returns the number of frames started so far.
func (c *Clock) Frame() int64 { return c.frame }

// Elapsed returns the time since the clock started.
func (c *Clock) Elapsed() time.Duration { return c.now.Sub(c.start) }

// Delta returns the time between the last two frames.
func (c *Clock) Delta() time.Duration { return c.delta }

// Scheduler blocks until the next frame may run.
type Scheduler interface {
	Next(ctx context.Context) error
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(ctx context.Context) error

// Next calls f.
func (f SchedulerFunc) Next(ctx context.Context) error { return f(ctx) }

// TickerScheduler paces frames with a time.Ticker.
type TickerScheduler struct {
	ticker *time.Ticker
}

// NewTickerScheduler returns a scheduler firing every interval.
// A non-positive interval falls back to 60 Hz.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerScheduler{ticker: time.NewTicker(interval)}
}

// Next waits for the next tick or cancellation.
func (s *TickerScheduler) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ticker.C:
		return nil
	}
}

// Stop releases the ticker.
func (s *TickerScheduler) Stop() { s.ticker.Stop() }

// Unpaced runs frames back to back, only checking for cancellation.
type Unpaced struct{}

// Next implements Scheduler.
func (Unpaced) Next(ctx context.Context) error { return ctx.Err() }

// FrameFunc runs one frame. Returning ErrStopped ends the loop; any other
// error, or a panic, skips the frame.
type FrameFunc func(ctx context.Context, c *Clock) error

// Loop runs frames from a Scheduler.
type Loop struct {
	Scheduler Scheduler
	MaxFrames int64            // stop after this many frames; 0 means unlimited
	Now       func() time.Time // defaults to time.Now
	Logger    *slog.Logger     // defaults to slog.Default()
}

// Result summarizes a finished loop.
type Result struct {
	Frames  int64
	Skipped int64
}

// Run calls frame once per scheduler slot until ctx is canceled, the
// scheduler or frame returns ErrStopped, or MaxFrames is reached. Cancellation
// and ErrStopped are a normal exit and return a nil error.
func (l *Loop) Run(ctx context.Context, frame FrameFunc) (Result, error) {
	now := l.Now
	if now == nil {
		now = time.Now
	}
	log := l.Logger
	if log == nil {
		log = slog.Default()
	}

	var res Result
	c := New(now())
	for {
		if ctx.Err() != nil {
			return res, nil
		}
		if l.MaxFrames > 0 && c.Frame() >= l.MaxFrames {
			return res, nil
		}

		if err := l.Scheduler.Next(ctx); err != nil {
			if errors.Is(err, ErrStopped) || ctx.Err() != nil {
				return res, nil
			}
			return res, fmt.Errorf("scheduler: %w", err)
		}

		c.Advance(now())
		res.Frames++

		if err := runFrame(ctx, c, frame); err != nil {
			if errors.Is(err, ErrStopped) {
				return res, nil
			}
			res.Skipped++
			log.Warn("frame skipped", "frame", c.Frame(), "error", err)
		}
	}
}

// runFrame converts a panic in frame into an error.
func runFrame(ctx context.Context, c *Clock, frame FrameFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame panic: %v", r)
		}
	}()
	return frame(ctx, c)
}
