// internal/youtube/tab.go
package youtube

import (
	"context"

	"github.com/chromedp/cdproto/network"
)

// Tab is the narrow capability surface this package needs from a browser tab.
// The tab is owned by the caller; this package only invokes it, strictly
// sequentially, and never creates or destroys it.
type Tab interface {
	// Evaluate runs a script in the page and unmarshals its result into res.
	// Pass a nil res when the result is irrelevant.
	Evaluate(ctx context.Context, script string, res any) error

	// Navigate loads the URL and returns once the navigation has completed.
	Navigate(ctx context.Context, url string) error

	// CurrentURL reports the URL of the document currently loaded in the tab.
	CurrentURL(ctx context.Context) (string, error)

	// SetCookies injects cookies through the browser protocol, independent of
	// the loaded document.
	SetCookies(ctx context.Context, cookies []*network.CookieParam) error
}
