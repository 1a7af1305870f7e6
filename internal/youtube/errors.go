// internal/youtube/errors.go
package youtube

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the ways consent handling and readiness sequencing can
// fail. All of them are terminal for the Prepare call; the caller may retry
// the whole call but this package never retries a failed stage internally.
var (
	// ErrConsentCookieInjection indicates that writing the consent cookies
	// (protocol-level or script-level) failed.
	ErrConsentCookieInjection = errors.New("consent cookie injection failed")

	// ErrConsentRenavigation indicates that a navigation performed as part of
	// consent elimination failed.
	ErrConsentRenavigation = errors.New("consent re-navigation failed")

	// ErrAdsTimeout indicates pre-roll ads were still showing at the deadline.
	ErrAdsTimeout = errors.New("ads did not finish")

	// ErrMediaElementTimeout indicates no <video> element appeared before the
	// deadline.
	ErrMediaElementTimeout = errors.New("no media element appeared")

	// ErrPlaybackTimeout indicates the video never reached sustained playback
	// before the deadline. Returned wrapped inside a *PlaybackTimeoutError.
	ErrPlaybackTimeout = errors.New("video did not start playing")
)

// PlaybackTimeoutError carries a live diagnostic snapshot of the media element
// taken at the moment playback confirmation gave up. Playback-confirm is the
// one stage where failure is rare but highly disruptive, so the error pays for
// a richer message.
type PlaybackTimeoutError struct {
	// Timeout is the total configured budget, for the human-readable message.
	Timeout time.Duration
	// Snapshot describes media element presence, readiness level, pause state
	// and source URL as observed in the page.
	Snapshot string
}

func (e *PlaybackTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for video to play (state: %s)", e.Timeout, e.Snapshot)
}

// Is makes errors.Is(err, ErrPlaybackTimeout) match.
func (e *PlaybackTimeoutError) Is(target error) bool {
	return target == ErrPlaybackTimeout
}
