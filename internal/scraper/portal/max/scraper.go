package max

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"github.com/maxfetch/maxfetch/internal/scraper/portal"
)

const (
	defaultNavTimeout    = 30 * time.Second
	defaultProbeWait     = 3 * time.Second
	defaultSettleTimeout = 10 * time.Second
	defaultManualWait    = 2 * time.Minute
	defaultCodeMinLen    = 4
)

// Scraper drives the Max portal through one page at a time. It holds no
// per-session state; the session (browser, context, page) is passed into
// every operation.
type Scraper struct {
	log      zerolog.Logger
	loginURL string

	navTimeout    time.Duration
	probeWait     time.Duration
	settleTimeout time.Duration

	mfa mfaHandler
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scraper) { s.log = log }
}

// WithNavigationTimeout bounds page navigations and post-submit settling.
func WithNavigationTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.navTimeout = d }
}

// WithProbeWait bounds each individual candidate-selector probe.
func WithProbeWait(d time.Duration) Option {
	return func(s *Scraper) { s.probeWait = d }
}

// WithSettleTimeout bounds the wait for the transaction table to re-render
// after a filter change.
func WithSettleTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.settleTimeout = d }
}

// WithMFASolver wires an automated solver. When set it takes precedence
// over manual resolution.
func WithMFASolver(solver Solver) Option {
	return func(s *Scraper) { s.mfa.solver = solver }
}

// WithManualMFAWait bounds how long a human gets to supply the MFA code.
// This is the one deliberately long (minutes-scale) wait in the flow.
func WithManualMFAWait(d time.Duration) Option {
	return func(s *Scraper) { s.mfa.manualWait = d }
}

// WithMFACodeMinLength sets the code length treated as a completed manual
// entry. Portal-specific; see the handler for why this is configurable.
func WithMFACodeMinLength(n int) Option {
	return func(s *Scraper) { s.mfa.codeMinLen = n }
}

// New creates a scraper for the portal at loginURL.
func New(loginURL string, opts ...Option) *Scraper {
	s := &Scraper{
		log:           zerolog.Nop(),
		loginURL:      loginURL,
		navTimeout:    defaultNavTimeout,
		probeWait:     defaultProbeWait,
		settleTimeout: defaultSettleTimeout,
		mfa: mfaHandler{
			manualWait: defaultManualWait,
			codeMinLen: defaultCodeMinLen,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mfa.log = s.log
	s.mfa.navTimeout = s.navTimeout
	s.mfa.detectWait = s.probeWait
	return s
}

// scrapeErr builds a ScrapeError with the page's current URL attached when
// it can still be read.
func scrapeErr(stage string, page *rod.Page, selectors []string, cause error) *portal.ScrapeError {
	e := &portal.ScrapeError{
		Portal:    portal.PortalMax,
		Stage:     stage,
		Selectors: selectors,
		Cause:     cause,
	}
	if page != nil {
		if info, err := page.Info(); err == nil {
			e.URL = info.URL
		}
	}
	return e
}
