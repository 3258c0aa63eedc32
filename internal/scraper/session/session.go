// Package session owns browser acquisition and the lifecycle of one
// authenticated scraping session. Each Session holds its own browser process,
// incognito context and page; nothing is shared between Sessions.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxfetch/maxfetch/internal/scraper/portal"
)

// State is the lifecycle position of a Session.
type State string

const (
	StateInitializing State = "INITIALIZING"
	StateAwaitingMFA  State = "AWAITING_MFA"
	StateActive       State = "ACTIVE"
	StateClosed       State = "CLOSED"
	StateFailed       State = "FAILED"
)

// Session is one resource-owning browser automation context scoped to a
// single login attempt and its subsequent extraction.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	state        State
	lastActivity time.Time

	launcher *launcher.Launcher
	browser  *rod.Browser
	router   *rod.HijackRouter
	page     *rod.Page

	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState transitions the session. Transitions out of Closed are ignored;
// a closed session stays closed.
func (s *Session) SetState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = st
	s.lastActivity = time.Now()
}

// Touch records activity on the session.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// LastActivity returns the time of the most recent state change or Touch.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Page returns the session's page. Nil until the manager finished creating
// the session.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Options configure browser acquisition for every session a Manager creates.
type Options struct {
	// Headless runs the browser without a visible window. Manual MFA entry
	// needs a visible window, so interactive runs set this to false.
	Headless bool
	// Bin optionally pins the browser binary instead of the managed download.
	Bin string
	// Hijack, when set, is installed as a catch-all request handler on the
	// session's browser. Tests use it to serve stub portal pages.
	Hijack func(*rod.Hijack)
	// Logger used for session lifecycle events.
	Logger zerolog.Logger
}

// Manager creates and closes Sessions.
type Manager struct {
	opts Options
}

func NewManager(opts Options) *Manager {
	return &Manager{opts: opts}
}

// Create acquires an isolated browser context and page. It fails fast with
// ErrLaunch when the browser cannot be started; the caller decides whether
// to retry. The returned session is in StateInitializing.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	sessCtx, cancel := context.WithCancel(ctx)

	s := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		state:        StateInitializing,
		lastActivity: time.Now(),
		cancel:       cancel,
	}

	l := launcher.New().
		Headless(m.opts.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("window-size", "1920,1080")
	if m.opts.Bin != "" {
		l = l.Bin(m.opts.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", portal.ErrLaunch, err)
	}
	s.launcher = l

	browser := rod.New().ControlURL(controlURL).Context(sessCtx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		cancel()
		return nil, fmt.Errorf("%w: connect: %v", portal.ErrLaunch, err)
	}
	s.browser = browser

	if m.opts.Hijack != nil {
		router := browser.HijackRequests()
		if err := router.Add("*", "", m.opts.Hijack); err != nil {
			_ = browser.Close()
			l.Kill()
			cancel()
			return nil, fmt.Errorf("%w: install hijack: %v", portal.ErrLaunch, err)
		}
		go router.Run()
		s.router = router
	}

	// An incognito context keeps cookies and storage isolated from any
	// other session sharing the machine's browser install.
	incognito, err := browser.Incognito()
	if err != nil {
		s.release()
		return nil, fmt.Errorf("%w: incognito context: %v", portal.ErrLaunch, err)
	}

	page, err := stealth.Page(incognito)
	if err != nil {
		s.release()
		return nil, fmt.Errorf("%w: open page: %v", portal.ErrLaunch, err)
	}
	s.page = page.Context(sessCtx)

	m.opts.Logger.Debug().
		Str("session_id", s.ID).
		Bool("headless", m.opts.Headless).
		Msg("session created")

	return s, nil
}

// Close releases the session's browser resources exactly once. It is
// idempotent and safe to call after a failed login; pending waits on the
// session's page are aborted via context cancellation.
func (m *Manager) Close(s *Session) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.state != StateFailed {
			s.state = StateClosed
		}
		s.lastActivity = time.Now()
		s.mu.Unlock()

		s.closeErr = s.release()

		m.opts.Logger.Debug().
			Str("session_id", s.ID).
			Msg("session closed")
	})
	return s.closeErr
}

// release tears down whatever was acquired so far. Safe on partially
// constructed sessions.
func (s *Session) release() error {
	var err error
	if s.router != nil {
		err = s.router.Stop()
	}
	if s.browser != nil {
		if cerr := s.browser.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
	if s.cancel != nil {
		s.cancel()
	}
	return err
}
