package portal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLaunch means the browser runtime could not be started. Fatal,
	// never retried internally.
	ErrLaunch = errors.New("failed to launch browser")
	// ErrNavigationTimeout is a retryable condition, the caller decides.
	ErrNavigationTimeout = errors.New("navigation timed out")
	// ErrAuthentication covers credential rejection and an unverifiable
	// post-login state. Terminal for the attempt.
	ErrAuthentication = errors.New("authentication failed")
	// ErrMFATimeout means no code arrived before the manual-wait bound.
	ErrMFATimeout = errors.New("mfa challenge timed out")
	// ErrExtraction means expected UI elements were absent. Usually a
	// selector mismatch needing maintenance, so not retried automatically.
	ErrExtraction = errors.New("extraction failed")
	// ErrExport covers write failures at the export sink.
	ErrExport = errors.New("export failed")

	ErrSessionNotActive = errors.New("session not active")
	ErrSessionExists    = errors.New("session already active for identifier")
)

// ScrapeError carries enough context (stage, last URL, selectors tried) to
// diagnose a failure without re-running with verbose tracing.
type ScrapeError struct {
	Portal    PortalCode
	Stage     string
	URL       string
	Selectors []string
	Cause     error
}

func (e *ScrapeError) Error() string {
	msg := fmt.Sprintf("[%s] %s failed: %v", e.Portal, e.Stage, e.Cause)
	if e.URL != "" {
		msg += fmt.Sprintf(" (url: %s)", e.URL)
	}
	if len(e.Selectors) > 0 {
		msg += fmt.Sprintf(" (selectors tried: %s)", strings.Join(e.Selectors, ", "))
	}
	return msg
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}
