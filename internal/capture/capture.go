// internal/capture/capture.go
// Description: Captures the prepared player as a sequence of PNG frames. Runs
// strictly after readiness orchestration has finished, so it never contends
// with script injection for the tab.

package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/tuberec/internal/config"
)

// maxConsecutiveGrabFailures bounds how long a wedged tab can stall a
// recording before we give up.
const maxConsecutiveGrabFailures = 5

// Grabber captures a single frame of the current page.
type Grabber interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Stats summarizes a finished recording.
type Stats struct {
	Frames  int
	Dir     string
	Elapsed time.Duration
}

// Recorder writes screenshot frames to a per-session directory at a fixed
// frame rate.
type Recorder struct {
	logger  *zap.Logger
	dir     string
	limiter *rate.Limiter
}

// NewRecorder creates the session frame directory under cfg.OutputDir and
// returns a recorder writing into it.
func NewRecorder(cfg config.CaptureConfig, logger *zap.Logger) (*Recorder, error) {
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %v", cfg.FrameRate)
	}

	dir := filepath.Join(cfg.OutputDir, uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory %s: %w", dir, err)
	}

	return &Recorder{
		logger:  logger.Named("capture"),
		dir:     dir,
		limiter: rate.NewLimiter(rate.Limit(cfg.FrameRate), 1),
	}, nil
}

// Dir returns the directory frames are written to.
func (r *Recorder) Dir() string {
	return r.dir
}

type frame struct {
	seq  int
	data []byte
}

// Record grabs frames from g for the given duration. The grab loop and the
// disk writer run concurrently so a slow disk does not skew the frame cadence.
// Reaching the end of the duration is success, not an error.
func (r *Recorder) Record(ctx context.Context, g Grabber, duration time.Duration) (Stats, error) {
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	frames := make(chan frame, 8)
	written := 0

	eg, egCtx := errgroup.WithContext(runCtx)

	eg.Go(func() error {
		defer close(frames)
		return r.grabLoop(egCtx, g, frames)
	})

	eg.Go(func() error {
		for f := range frames {
			name := filepath.Join(r.dir, fmt.Sprintf("frame-%06d.png", f.seq))
			if err := os.WriteFile(name, f.data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			written++
		}
		return nil
	})

	err := eg.Wait()
	// The recording window closing is the normal way out. The limiter and the
	// grab loop surface it through differently shaped errors, so the window's
	// context state decides, not the error value; caller cancellation (outer
	// ctx done) stays an error.
	if err != nil && runCtx.Err() != nil && ctx.Err() == nil {
		err = nil
	}

	stats := Stats{Frames: written, Dir: r.dir, Elapsed: time.Since(start)}
	if err != nil {
		return stats, err
	}

	r.logger.Info("Recording finished.",
		zap.Int("frames", stats.Frames),
		zap.Duration("elapsed", stats.Elapsed),
		zap.String("dir", stats.Dir))
	return stats, nil
}

// grabLoop captures frames at the configured rate until ctx is done. A single
// failed grab is tolerated; a run of them aborts the recording.
func (r *Recorder) grabLoop(ctx context.Context, g Grabber, out chan<- frame) error {
	seq := 0
	failures := 0
	for {
		if err := r.limiter.Wait(ctx); err != nil {
			return err // ctx done: deadline or cancellation
		}

		data, err := g.Screenshot(ctx)
		if err != nil {
			failures++
			if failures >= maxConsecutiveGrabFailures {
				return fmt.Errorf("aborting after %d consecutive failed frame grabs: %w", failures, err)
			}
			r.logger.Warn("Frame grab failed; continuing.", zap.Error(err), zap.Int("consecutive", failures))
			continue
		}
		failures = 0

		select {
		case out <- frame{seq: seq, data: data}:
			seq++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
