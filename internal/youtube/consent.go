// internal/youtube/consent.go
package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"go.uber.org/zap"
)

const (
	homeURL = "https://www.youtube.com"

	// Fixed consent tokens known to satisfy YouTube's consent check. SOCS=CAI
	// records a "reject all" choice; CONSENT is the legacy equivalent still
	// honored on some page variants. Neither is derived per-session.
	socsValue    = "CAI"
	consentValue = "YES+cb.20220301-11-p0.en+FX+700"

	consentCookieTTL = 365 * 24 * time.Hour
)

// Resolver eliminates YouTube's cookie-consent interstitial by seeding the
// consent cookies the site itself would set, rather than clicking through the
// dialog. DOM clicking is fragile against markup churn; the cookies are a
// stable contract with the site's consent protocol.
type Resolver struct {
	tab    Tab
	logger *zap.Logger
}

// NewResolver returns a Resolver operating on the given tab.
func NewResolver(tab Tab, logger *zap.Logger) *Resolver {
	return &Resolver{
		tab:    tab,
		logger: logger.Named("consent"),
	}
}

// SeedCookies injects the SOCS consent cookie for .youtube.com and .google.com
// through the browser protocol. It must run strictly before the watch page
// loads, because the consent check is evaluated at page-load time. A failed
// injection is fatal for this path; there is no silent fallback.
func (r *Resolver) SeedCookies(ctx context.Context) error {
	expiry := cdp.TimeSinceEpoch(time.Now().Add(consentCookieTTL))

	cookies := make([]*network.CookieParam, 0, 2)
	for _, domain := range []string{".youtube.com", ".google.com"} {
		cookies = append(cookies, &network.CookieParam{
			Name:    "SOCS",
			Value:   socsValue,
			Domain:  domain,
			Path:    "/",
			Secure:  true,
			Expires: &expiry,
		})
	}

	if err := r.tab.SetCookies(ctx, cookies); err != nil {
		return fmt.Errorf("%w: %v", ErrConsentCookieInjection, err)
	}
	r.logger.Debug("Seeded consent cookies before navigation.")
	return nil
}

// Dismiss checks for a visible consent interstitial and, if present,
// eliminates it by writing the consent cookies in-page and re-navigating to
// targetURL. When no interstitial is detected it is a no-op: zero navigations,
// zero cookie writes.
func (r *Resolver) Dismiss(ctx context.Context, targetURL string) error {
	if !r.detect(ctx) {
		return nil
	}
	r.logger.Info("Consent interstitial detected; reinjecting consent cookies.")

	// A redirect to the standalone consent domain leaves the tab outside
	// youtube.com, where a document.cookie write would be scoped to the wrong
	// domain. Hop home first so the cookies land where YouTube reads them.
	current, err := r.tab.CurrentURL(ctx)
	if err != nil {
		r.logger.Debug("Could not read current URL; assuming off-site.", zap.Error(err))
		current = ""
	}
	if !onYouTubeHost(current) {
		r.logger.Debug("Tab redirected off-site; returning to home page.", zap.String("url", current))
		if err := r.tab.Navigate(ctx, homeURL); err != nil {
			return fmt.Errorf("%w: returning to %s: %v", ErrConsentRenavigation, homeURL, err)
		}
	}

	if err := r.tab.Evaluate(ctx, jsWriteConsentCookies, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrConsentCookieInjection, err)
	}

	// Consent state is read at load time, not reactively, so the cookies only
	// take effect on a fresh navigation.
	if err := r.tab.Navigate(ctx, targetURL); err != nil {
		return fmt.Errorf("%w: reloading %s: %v", ErrConsentRenavigation, targetURL, err)
	}
	return nil
}

// onYouTubeHost reports whether rawURL points at youtube.com or one of its
// subdomains. Only the host counts: a consent redirect routinely carries the
// watch URL in its query string, which must not make consent.google.com look
// on-site.
func onYouTubeHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

// detect runs the consent probes in order, short-circuiting on the first hit.
// A failed evaluation counts as "not present" for that probe.
func (r *Resolver) detect(ctx context.Context) bool {
	for _, probe := range consentProbes {
		var hit bool
		if err := r.tab.Evaluate(ctx, probe, &hit); err != nil {
			continue
		}
		if hit {
			return true
		}
	}
	return false
}
