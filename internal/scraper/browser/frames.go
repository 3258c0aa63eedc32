package browser

import "github.com/go-rod/rod"

// DeepestVisibleFrame descends into nested visible iframes and returns the
// innermost frame context, or the page itself when no visible iframe exists.
// Portals commonly render the MFA challenge inside a nested frame, so
// indicator probes run against the frame this returns.
func DeepestVisibleFrame(page *rod.Page) *rod.Page {
	if err := page.WaitDOMStable(domStableWindow, 0); err != nil {
		return page
	}

	iframes, err := page.Elements("iframe")
	if err != nil {
		return page
	}

	for _, iframe := range iframes {
		visible, err := iframe.Visible()
		if err != nil || !visible {
			continue
		}
		child, err := iframe.Frame()
		if err != nil {
			continue
		}
		return DeepestVisibleFrame(child)
	}

	return page
}
