// internal/browser/tab.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tuberec/internal/config"
	"github.com/xkilldash9x/tuberec/internal/youtube"
)

// Tab is a single browser tab driven over CDP. It implements youtube.Tab and
// capture's frame source; it is exclusively owned by its creator and all
// operations against it are strictly sequential.
type Tab struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    *config.Config

	closeOnce sync.Once
}

var _ youtube.Tab = (*Tab)(nil)

func newTab(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger) *Tab {
	id := uuid.New().String()
	return &Tab{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger.With(zap.String("tab_id", id)),
	}
}

// ID returns the tab identifier.
func (t *Tab) ID() string {
	return t.id
}

// Context exposes the underlying chromedp context for callers that attach
// their own CDP listeners.
func (t *Tab) Context() context.Context {
	return t.ctx
}

// run executes chromedp actions against this tab, honoring both the tab
// lifecycle and the caller's operational context.
func (t *Tab) run(ctx context.Context, actions ...chromedp.Action) error {
	opCtx, cancel := CombineContext(t.ctx, ctx)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// Evaluate runs a script in the page, unmarshalling the result into res when
// res is non-nil.
func (t *Tab) Evaluate(ctx context.Context, script string, res any) error {
	return t.run(ctx, chromedp.Evaluate(script, res))
}

// Navigate loads the URL and waits for the document body to be ready, so the
// caller can start injecting scripts immediately afterwards.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	t.logger.Debug("Navigating.", zap.String("url", url))

	navTimeout := t.cfg.Browser.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	err := t.run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %s: %w", url, navTimeout, err)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// CurrentURL reports the URL of the document currently loaded in the tab.
func (t *Tab) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := t.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read current location: %w", err)
	}
	return url, nil
}

// SetCookies injects cookies through the CDP network domain, independent of
// any loaded document.
func (t *Tab) SetCookies(ctx context.Context, cookies []*network.CookieParam) error {
	return t.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		return network.SetCookies(cookies).Do(c)
	}))
}

// Screenshot captures the current viewport as PNG bytes.
func (t *Tab) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := t.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

// Close tears the tab down. Safe to call more than once.
func (t *Tab) Close() {
	t.closeOnce.Do(func() {
		t.logger.Debug("Closing tab.")
		t.cancel()
	})
}
