package max

import (
	"strings"

	"github.com/go-rod/rod"
)

// Verify decides from the final page state whether authentication
// succeeded. Ordered success indicators are probed first; any match wins.
//
// When none match it falls back to a URL heuristic: still on the login page
// means failure, anywhere else is optimistically treated as success. The
// fallback misclassifies an error or interstitial page that lives off the
// login URL; it stays this loose pending a decision on the acceptable
// false-positive rate.
func (s *Scraper) Verify(page *rod.Page) bool {
	if _, probe, ok := s.first(page, successProbes); ok {
		s.log.Debug().Str("probe", probe.Name).Msg("success indicator found")
		return true
	}

	info, err := page.Info()
	if err != nil {
		return false
	}
	return !strings.Contains(info.URL, loginPathFragment)
}
