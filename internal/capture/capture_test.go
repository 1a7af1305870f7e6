// internal/capture/capture_test.go
package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tuberec/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeGrabber returns a counter-stamped payload per frame.
type fakeGrabber struct {
	calls atomic.Int32
	err   error
}

func (f *fakeGrabber) Screenshot(_ context.Context) ([]byte, error) {
	n := f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0x89, 'P', 'N', 'G', byte(n)}, nil
}

func newTestRecorder(t *testing.T, frameRate float64) *Recorder {
	t.Helper()
	r, err := NewRecorder(config.CaptureConfig{
		OutputDir: t.TempDir(),
		FrameRate: frameRate,
	}, zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestRecordWritesFrames(t *testing.T) {
	r := newTestRecorder(t, 100)
	g := &fakeGrabber{}

	stats, err := r.Record(context.Background(), g, 150*time.Millisecond)
	require.NoError(t, err)

	assert.Greater(t, stats.Frames, 1)
	assert.Equal(t, r.Dir(), stats.Dir)
	assert.GreaterOrEqual(t, stats.Elapsed, 150*time.Millisecond)

	entries, err := os.ReadDir(r.Dir())
	require.NoError(t, err)
	require.Len(t, entries, stats.Frames)

	// Frames are numbered sequentially from zero.
	assert.Equal(t, "frame-000000.png", entries[0].Name())
	first, err := os.ReadFile(filepath.Join(r.Dir(), entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', 1}, first)
}

func TestRecordRespectsFrameRate(t *testing.T) {
	r := newTestRecorder(t, 10) // 10 fps over 300ms: roughly 3-4 frames
	g := &fakeGrabber{}

	stats, err := r.Record(context.Background(), g, 300*time.Millisecond)
	require.NoError(t, err)
	assert.LessOrEqual(t, stats.Frames, 6, "limiter must cap the frame cadence")
}

func TestRecordEndOfWindowIsSuccess(t *testing.T) {
	// At 1 fps the limiter hands out one immediate token and then refuses the
	// next Wait outright because a full second never fits in the window. That
	// refusal is not context.DeadlineExceeded, yet the recording still ended
	// normally.
	r := newTestRecorder(t, 1)
	g := &fakeGrabber{}

	stats, err := r.Record(context.Background(), g, 150*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Frames)
}

func TestRecordAbortsAfterConsecutiveGrabFailures(t *testing.T) {
	r := newTestRecorder(t, 1000)
	g := &fakeGrabber{err: errors.New("target closed")}

	_, err := r.Record(context.Background(), g, 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consecutive failed frame grabs")
	assert.Equal(t, int32(maxConsecutiveGrabFailures), g.calls.Load())
}

func TestRecordHonorsCallerCancellation(t *testing.T) {
	r := newTestRecorder(t, 100)
	g := &fakeGrabber{}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := r.Record(ctx, g, time.Hour)
	require.Error(t, err, "cancellation by the caller is not a normal end of recording")
}

func TestNewRecorderRejectsZeroFrameRate(t *testing.T) {
	_, err := NewRecorder(config.CaptureConfig{OutputDir: t.TempDir()}, zap.NewNop())
	require.Error(t, err)
}
