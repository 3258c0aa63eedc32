package browser

import (
	"context"
	"errors"
	"time"

	"github.com/go-rod/rod"
)

// domStableWindow is how long the DOM must stay unchanged before a page is
// considered settled after load.
const domStableWindow = 300 * time.Millisecond

// Navigate drives the page to url and waits until it has loaded and its DOM
// has settled, bounded by timeout. A timeout is reported via IsTimeout so
// the caller can treat it as retryable rather than fatal.
func Navigate(page *rod.Page, url string, timeout time.Duration) error {
	p := page.Timeout(timeout)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return settle(p)
}

// Settle waits for the current page to finish loading and its DOM to stop
// mutating, bounded by timeout. Used after form submissions and filter
// changes, where navigation may or may not happen.
func Settle(page *rod.Page, timeout time.Duration) error {
	return settle(page.Timeout(timeout))
}

func settle(p *rod.Page) error {
	if err := p.WaitLoad(); err != nil {
		return err
	}
	return p.WaitDOMStable(domStableWindow, 0)
}

// IsTimeout reports whether err is a bounded-wait expiry rather than a hard
// protocol failure.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
