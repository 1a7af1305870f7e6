// internal/youtube/prepare.go
// Description: Drives a YouTube watch page from freshly-navigated to a stable,
// recording-ready playback state. The page is externally controlled and
// non-deterministic (consent dialogs, pre-roll ads of variable length, async
// buffering), so every stage works on best-effort signals under one shared
// wall-clock deadline.

package youtube

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// pollInterval is the fixed cadence of the boolean poll primitive.
	pollInterval = 500 * time.Millisecond

	// settlePause lets a frame render between the chrome-settle actions.
	settlePause = 500 * time.Millisecond

	// fadeOutPause covers the control overlay's fade-out animation.
	fadeOutPause = 3 * time.Second
)

// Sequencer runs the readiness stages in strict forward order:
// consent, ad-wait, media-wait, playback-kick, playback-confirm, settle.
// One Sequencer drives one tab; all evaluations are strictly sequential.
type Sequencer struct {
	tab     Tab
	consent *Resolver
	logger  *zap.Logger

	// Overridable in tests to keep them fast.
	interval time.Duration
	pauses   struct {
		settle  time.Duration
		fadeOut time.Duration
	}
}

// NewSequencer returns a Sequencer operating on the given tab.
func NewSequencer(tab Tab, logger *zap.Logger) *Sequencer {
	s := &Sequencer{
		tab:      tab,
		consent:  NewResolver(tab, logger),
		logger:   logger.Named("readiness"),
		interval: pollInterval,
	}
	s.pauses.settle = settlePause
	s.pauses.fadeOut = fadeOutPause
	return s
}

// Prepare runs the full post-navigation orchestration.
//
// deadline is a single absolute budget shared by every waiting stage; it is
// never extended, so a slow ad leaves less time for the media and playback
// waits. timeout must equal the budget implied by deadline and is used only to
// format human-readable timeout messages. Beyond the deadline there is no
// cancellation primitive; callers needing one must race the whole call.
func (s *Sequencer) Prepare(ctx context.Context, deadline time.Time, timeout time.Duration, targetURL string) error {
	// Stage 0: consent. Covers the interstitial appearing post-navigation even
	// when cookies were pre-seeded.
	if err := s.consent.Dismiss(ctx, targetURL); err != nil {
		return err
	}

	// Stage 1: wait out pre-roll ads.
	s.logger.Debug("Waiting for ads to finish.")
	if !s.pollJS(ctx, jsAdShowing, false, deadline) {
		return fmt.Errorf("%w within %s", ErrAdsTimeout, timeout)
	}

	// Stage 2: wait for a playable media element to exist.
	s.logger.Debug("Waiting for the video element.")
	if !s.pollJS(ctx, jsVideoPresent, true, deadline) {
		return fmt.Errorf("%w within %s", ErrMediaElementTimeout, timeout)
	}

	// Stage 3: kick playback. Fire-and-forget: an evaluation error here is
	// indistinguishable from "feature not present on this page version" and
	// must not abort an otherwise-successful sequence.
	if err := s.tab.Evaluate(ctx, jsKickPlayback, nil); err != nil {
		s.logger.Debug("Playback kick script failed (ignored).", zap.Error(err))
	}

	// Stage 4: confirm sustained playback.
	s.logger.Debug("Waiting for playback to start.")
	if !s.pollJS(ctx, jsVideoPlaying, true, deadline) {
		return &PlaybackTimeoutError{Timeout: timeout, Snapshot: s.diagnose(ctx)}
	}

	// Stage 5: settle the player chrome. Everything here improves the end
	// state but cannot fail the call.
	s.settle(ctx)

	s.logger.Info("Player ready for capture.", zap.String("url", targetURL))
	return nil
}

// settle switches to theater layout and fades out the control overlay, with
// fixed pauses for the frame render and the fade-out animation. All actions
// are fire-and-forget.
func (s *Sequencer) settle(ctx context.Context) {
	s.sleep(ctx, s.pauses.settle)

	if err := s.tab.Evaluate(ctx, jsTheaterToggle, nil); err != nil {
		s.logger.Debug("Theater toggle failed (ignored).", zap.Error(err))
	}
	s.sleep(ctx, s.pauses.settle)

	if err := s.tab.Evaluate(ctx, jsBlurControls, nil); err != nil {
		s.logger.Debug("Control overlay blur failed (ignored).", zap.Error(err))
	}
	s.sleep(ctx, s.pauses.fadeOut)
}

// diagnose captures a snapshot of the media element state for the terminal
// playback error. Falls back to "unknown" when even the snapshot script fails.
func (s *Sequencer) diagnose(ctx context.Context) string {
	var snapshot string
	if err := s.tab.Evaluate(ctx, jsPlaybackDiagnostic, &snapshot); err != nil || snapshot == "" {
		return "unknown"
	}
	return snapshot
}

// pollJS evaluates a side-effect-free boolean script at a fixed cadence until
// it yields expect (true) or the deadline passes (false). The loop is bounded
// purely by the deadline, never by attempt count. An evaluation failure, or a
// result that is not a boolean, counts as "not matching" for that tick and
// never aborts the poll.
//
// If the script already yields expect at call time, pollJS returns without
// sleeping.
func (s *Sequencer) pollJS(ctx context.Context, script string, expect bool, deadline time.Time) bool {
	for {
		var value bool
		if err := s.tab.Evaluate(ctx, script, &value); err != nil {
			value = !expect
		}
		if value == expect {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		if err := s.sleep(ctx, s.interval); err != nil {
			return false
		}
	}
}

// sleep blocks for d or until ctx is done.
func (s *Sequencer) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
