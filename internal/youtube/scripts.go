// internal/youtube/scripts.go
package youtube

// JavaScript snippets injected into the YouTube watch page. All of them are
// self-contained IIFEs with no dependency on prior injections, so a failed
// evaluation never leaves state behind.

// consentProbes are independent boolean checks for the consent interstitial,
// combined with OR and short-circuited in order. Keeping them as a list means a
// selector change on YouTube's side costs one entry, not a rewrite.
var consentProbes = []string{
	jsConsentInURL,
	jsConsentDialogPresent,
	jsConsentButtonsPresent,
}

const (
	// The interstitial frequently redirects to consent.youtube.com or embeds a
	// "consent" token in the URL.
	jsConsentInURL = `window.location.href.toLowerCase().indexOf('consent') !== -1`

	// The in-page variant renders a dedicated lightbox element.
	jsConsentDialogPresent = `document.querySelector('ytd-consent-bump-v2-lightbox') !== null`

	// Fallback: look for the characteristic choice buttons by their text.
	jsConsentButtonsPresent = `(() => {
		const labels = ['Reject all', 'Accept all'];
		const buttons = document.querySelectorAll('button');
		for (const b of buttons) {
			if (labels.indexOf((b.textContent || '').trim()) !== -1) return true;
		}
		return false;
	})()`
)

// jsWriteConsentCookies records consent directly through the site's own cookie
// protocol. Scoped to .youtube.com with a one-year max-age; YouTube reads the
// consent state at page load, so the caller must re-navigate afterwards.
const jsWriteConsentCookies = `(() => {
	const suffix = '; max-age=31536000; path=/; domain=.youtube.com; Secure';
	document.cookie = 'SOCS=` + socsValue + `' + suffix;
	document.cookie = 'CONSENT=` + consentValue + `' + suffix;
	return true;
})()`

// jsAdShowing reports whether the player container is currently in its
// ad-showing state. A missing container counts as "no ad".
const jsAdShowing = `(() => {
	const p = document.getElementById('movie_player');
	return p ? p.classList.contains('ad-showing') : false;
})()`

// jsVideoPresent reports whether a playable media element exists yet.
const jsVideoPresent = `document.querySelector('video') !== null`

// jsKickPlayback forces playback to start: mute so autoplay policy allows it,
// call play() on the element, and poke the player API for good measure.
// Strictly fire-and-forget.
const jsKickPlayback = `(() => {
	const v = document.querySelector('video');
	if (v && v.paused) { v.muted = true; v.play().catch(() => {}); }
	const p = document.getElementById('movie_player');
	if (p && typeof p.playVideo === 'function') p.playVideo();
})()`

// jsVideoPlaying is the sustained-playback check: element present, buffered
// enough to play through (readyState >= HAVE_FUTURE_DATA), and not paused.
const jsVideoPlaying = `(() => {
	const v = document.querySelector('video');
	return !!v && v.readyState >= 3 && !v.paused;
})()`

// jsPlaybackDiagnostic captures the media element state for the terminal
// playback-confirmation error message.
const jsPlaybackDiagnostic = `(() => {
	const v = document.querySelector('video');
	if (!v) return 'no video element';
	return 'readyState=' + v.readyState + ' paused=' + v.paused +
		' src=' + (v.src || v.currentSrc || 'none');
})()`

// jsTheaterToggle clicks the player's size button to switch to the wide,
// chrome-minimized theater layout. Best-effort.
const jsTheaterToggle = `(() => {
	const btn = document.querySelector('.ytp-size-button');
	if (btn) btn.click();
})()`

// jsBlurControls moves the synthetic cursor away from the player so the
// control overlay fades out: a mouseleave on the player plus a mousemove at
// the document origin. Best-effort.
const jsBlurControls = `(() => {
	const p = document.getElementById('movie_player');
	if (p) p.dispatchEvent(new MouseEvent('mouseleave', {bubbles: true}));
	document.body.dispatchEvent(new MouseEvent('mousemove', {clientX: 0, clientY: 0, bubbles: true}));
})()`
