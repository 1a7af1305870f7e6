// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tuberec/internal/config"
)

// Manager owns the browser process: it configures the exec allocator, primes
// the browser on first use, and hands out tabs. Tabs must be closed before the
// manager is.
type Manager struct {
	logger *zap.Logger
	cfg    *config.Config

	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu   sync.Mutex
	tabs []*Tab
}

// NewManager creates a browser manager and starts the exec allocator. The
// browser process itself launches lazily with the first tab.
func NewManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("browser manager requires a configuration")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(cfg.Browser)...)

	m := &Manager{
		logger:      logger.Named("browser"),
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
	m.logger.Info("Browser manager created.", zap.Bool("headless", cfg.Browser.Headless))
	return m, nil
}

// allocatorOptions maps the browser configuration onto chromedp exec
// allocator options. Autoplay must be allowed without a user gesture or the
// playback kick cannot start a muted video.
func allocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
		chromedp.Flag("disable-infobars", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	for _, arg := range cfg.Args {
		opts = append(opts, chromedp.Flag(arg, true))
	}
	return opts
}

// NewTab opens a fresh tab and primes the CDP connection. The first call also
// launches the browser process.
func (m *Manager) NewTab(ctx context.Context) (*Tab, error) {
	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		m.logger.Sugar().Debugf(format, args...)
	}))

	// Run with no actions forces target creation and connects CDP. Bounded by
	// the caller's context so a wedged browser launch cannot hang forever.
	runCtx, runCancel := CombineContext(tabCtx, ctx)
	defer runCancel()
	if err := chromedp.Run(runCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to open browser tab: %w", err)
	}

	tab := newTab(tabCtx, tabCancel, m.cfg, m.logger)

	m.mu.Lock()
	m.tabs = append(m.tabs, tab)
	m.mu.Unlock()

	m.logger.Debug("Opened browser tab.", zap.String("tab_id", tab.ID()))
	return tab, nil
}

// Close shuts down all remaining tabs and the browser process.
func (m *Manager) Close() {
	m.mu.Lock()
	tabs := m.tabs
	m.tabs = nil
	m.mu.Unlock()

	for _, t := range tabs {
		t.Close()
	}
	m.allocCancel()
	m.logger.Info("Browser manager closed.")
}
