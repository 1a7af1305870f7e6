// internal/browser/context.go
package browser

import "context"

// CombineContext derives a context from primary that is canceled when either
// primary or secondary is done. primary must be the chromedp tab context: the
// derived context inherits its values, which is what keeps the CDP target
// association intact while still honoring the caller's operational deadline.
func CombineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)

	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}
