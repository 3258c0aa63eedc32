// Package browser provides utilities for browser automation with Rod.
package browser

import (
	"time"

	"github.com/go-rod/rod"
)

// Probe is one candidate strategy for locating a UI element. Real portals
// drift in markup, so callers hold an ordered ProbeSet and take the first
// candidate that matches instead of pinning a single selector.
type Probe struct {
	// Name labels the candidate in logs and errors.
	Name string
	// Selector is the CSS selector to try.
	Selector string
	// Wait bounds how long this candidate may wait for its element to
	// appear. Zero means a single immediate check.
	Wait time.Duration
}

// TryMatch attempts to locate the probe's element on the page. A miss is
// not an error; it simply reports no match so the caller can move to the
// next candidate.
func (p Probe) TryMatch(page *rod.Page) (*rod.Element, bool) {
	if p.Wait <= 0 {
		el, err := page.Timeout(500 * time.Millisecond).Element(p.Selector)
		if err != nil {
			return nil, false
		}
		return el.CancelTimeout(), true
	}

	el, err := page.Timeout(p.Wait).Element(p.Selector)
	if err != nil {
		return nil, false
	}
	return el.CancelTimeout(), true
}

// ProbeSet is an ordered list of candidates, highest priority first.
type ProbeSet []Probe

// First returns the first candidate that matches on the page.
func (ps ProbeSet) First(page *rod.Page) (*rod.Element, Probe, bool) {
	for _, p := range ps {
		if el, ok := p.TryMatch(page); ok {
			return el, p, true
		}
	}
	return nil, Probe{}, false
}

// Selectors lists every candidate selector, for error context.
func (ps ProbeSet) Selectors() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Selector
	}
	return out
}
