package clock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeTime returns a Now func advancing 16ms per call.
func fakeTime() func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(16 * time.Millisecond)
		return t
	}
}

func TestClockAdvance(t *testing.T) {
	start := time.Unix(100, 0)
	c := New(start)
	c.Advance(start.Add(16 * time.Millisecond))
	c.Advance(start.Add(40 * time.Millisecond))

	if c.Frame() != 2 {
		t.Errorf("expected 2 frames, got %d", c.Frame())
	}
	if c.Elapsed() != 40*time.Millisecond {
		t.Errorf("expected 40ms elapsed, got %v", c.Elapsed())
	}
	if c.Delta() != 24*time.Millisecond {
		t.Errorf("expected 24ms delta, got %v", c.Delta())
	}
}

func TestLoopStopsAtMaxFrames(t *testing.T) {
	l := &Loop{Scheduler: Unpaced{}, MaxFrames: 25, Now: fakeTime(), Logger: quiet}

	var seen []int64
	res, err := l.Run(context.Background(), func(_ context.Context, c *Clock) error {
		seen = append(seen, c.Frame())
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Frames != 25 || len(seen) != 25 {
		t.Fatalf("expected 25 frames, got %d (%d callbacks)", res.Frames, len(seen))
	}
	for i, f := range seen {
		if f != int64(i+1) {
			t.Fatalf("frame %d reported as %d", i+1, f)
		}
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{Scheduler: Unpaced{}, Now: fakeTime(), Logger: quiet}

	res, err := l.Run(ctx, func(_ context.Context, c *Clock) error {
		if c.Frame() == 10 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected cancellation to be a clean exit, got %v", err)
	}
	if res.Frames != 10 {
		t.Errorf("expected the loop to stop after frame 10, ran %d", res.Frames)
	}
}

func TestLoopSkipsFailedFrames(t *testing.T) {
	l := &Loop{Scheduler: Unpaced{}, MaxFrames: 6, Now: fakeTime(), Logger: quiet}

	ran := 0
	res, err := l.Run(context.Background(), func(_ context.Context, c *Clock) error {
		ran++
		switch c.Frame() {
		case 2:
			return errors.New("draw failed")
		case 4:
			panic("surface lost")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ran != 6 || res.Frames != 6 {
		t.Errorf("expected all 6 frames to run, ran %d", ran)
	}
	if res.Skipped != 2 {
		t.Errorf("expected 2 skipped frames, got %d", res.Skipped)
	}
}

func TestLoopStopsOnErrStopped(t *testing.T) {
	tests := []struct {
		name      string
		scheduler Scheduler
		frame     FrameFunc
		want      int64
	}{
		{
			name: "from scheduler",
			scheduler: func() Scheduler {
				n := 0
				return SchedulerFunc(func(ctx context.Context) error {
					n++
					if n > 3 {
						return ErrStopped
					}
					return nil
				})
			}(),
			frame: func(context.Context, *Clock) error { return nil },
			want:  3,
		},
		{
			name:      "from frame",
			scheduler: Unpaced{},
			frame: func(_ context.Context, c *Clock) error {
				if c.Frame() == 5 {
					return ErrStopped
				}
				return nil
			},
			want: 5,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := &Loop{Scheduler: tc.scheduler, Now: fakeTime(), Logger: quiet}
			res, err := l.Run(context.Background(), tc.frame)
			if err != nil {
				t.Fatalf("expected clean exit, got %v", err)
			}
			if res.Frames != tc.want {
				t.Errorf("expected %d frames, got %d", tc.want, res.Frames)
			}
		})
	}
}

func TestLoopReportsSchedulerFailure(t *testing.T) {
	boom := errors.New("vsync lost")
	l := &Loop{
		Scheduler: SchedulerFunc(func(context.Context) error { return boom }),
		Logger:    quiet,
	}
	if _, err := l.Run(context.Background(), func(context.Context, *Clock) error { return nil }); !errors.Is(err, boom) {
		t.Errorf("expected wrapped scheduler error, got %v", err)
	}
}

func TestTickerSchedulerHonorsCancel(t *testing.T) {
	s := NewTickerScheduler(time.Hour)
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTickerSchedulerPaces(t *testing.T) {
	s := NewTickerScheduler(5 * time.Millisecond)
	defer s.Stop()

	l := &Loop{Scheduler: s, MaxFrames: 4, Logger: quiet}
	start := time.Now()
	res, err := l.Run(context.Background(), func(context.Context, *Clock) error { return nil })
	if err != nil || res.Frames != 4 {
		t.Fatalf("expected 4 frames, got %d (%v)", res.Frames, err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("expected frames to be paced, took %v", elapsed)
	}
}
