package max

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/maxfetch/maxfetch/internal/scraper/browser"
	"github.com/maxfetch/maxfetch/internal/scraper/portal"
	"github.com/maxfetch/maxfetch/internal/scraper/session"
)

// Login authenticates against the portal and moves the session to Active.
//
// A navigation timeout leaves the session as-is and surfaces
// ErrNavigationTimeout so the caller can retry; every other failure is
// terminal for the attempt and moves the session to Failed. Credential
// submission itself is never retried here; a rejected credential needs a
// fresh attempt with fresh credentials.
func (s *Scraper) Login(ctx context.Context, sess *session.Session, creds portal.Credentials) error {
	page := sess.Page().Context(ctx)

	s.log.Info().Str("session_id", sess.ID).Str("url", s.loginURL).Msg("navigating to login page")
	if err := browser.Navigate(page, s.loginURL, s.navTimeout); err != nil {
		if browser.IsTimeout(err) {
			return scrapeErr("Login", page, nil, fmt.Errorf("%w: %v", portal.ErrNavigationTimeout, err))
		}
		sess.SetState(session.StateFailed)
		return scrapeErr("Login", page, nil, fmt.Errorf("%w: %v", portal.ErrAuthentication, err))
	}

	if err := s.fillCredentials(page, creds); err != nil {
		sess.SetState(session.StateFailed)
		return err
	}

	if err := s.submitLogin(page); err != nil {
		sess.SetState(session.StateFailed)
		return err
	}

	// A rejected attempt usually lands back on the login page with an
	// error banner; read it before probing for MFA.
	if msg, found := s.loginError(page); found {
		sess.SetState(session.StateFailed)
		return scrapeErr("Login", page, nil, fmt.Errorf("%w: portal rejected credentials: %s", portal.ErrAuthentication, msg))
	}

	challenge, err := s.mfa.handle(ctx, sess, page)
	if err != nil {
		sess.SetState(session.StateFailed)
		return scrapeErr("Login", page, nil, err)
	}
	if challenge != nil {
		s.log.Info().
			Str("kind", string(challenge.Kind)).
			Str("resolution", string(challenge.Resolution)).
			Msg("mfa challenge resolved")
	}

	if !s.Verify(page) {
		sess.SetState(session.StateFailed)
		return scrapeErr("Login", page, successProbes.Selectors(), portal.ErrAuthentication)
	}

	sess.SetState(session.StateActive)
	s.log.Info().Str("session_id", sess.ID).Msg("login verified, session active")
	return nil
}

func (s *Scraper) fillCredentials(page *rod.Page, creds portal.Credentials) error {
	userEl, probe, ok := s.first(page, usernameProbes)
	if !ok {
		return scrapeErr("Login", page, usernameProbes.Selectors(),
			fmt.Errorf("%w: username input not found", portal.ErrAuthentication))
	}
	s.log.Debug().Str("probe", probe.Name).Msg("username input located")
	if err := browser.TypeHuman(userEl, creds.Username); err != nil {
		return scrapeErr("Login", page, nil, fmt.Errorf("%w: type username: %v", portal.ErrAuthentication, err))
	}

	passEl, probe, ok := s.first(page, passwordProbes)
	if !ok {
		return scrapeErr("Login", page, passwordProbes.Selectors(),
			fmt.Errorf("%w: password input not found", portal.ErrAuthentication))
	}
	s.log.Debug().Str("probe", probe.Name).Msg("password input located")
	if err := browser.TypeHuman(passEl, creds.Password); err != nil {
		return scrapeErr("Login", page, nil, fmt.Errorf("%w: type password: %v", portal.ErrAuthentication, err))
	}

	return nil
}

func (s *Scraper) submitLogin(page *rod.Page) error {
	btn, probe, ok := s.first(page, loginSubmitProbes)
	if !ok {
		return scrapeErr("Login", page, loginSubmitProbes.Selectors(),
			fmt.Errorf("%w: login button not found", portal.ErrAuthentication))
	}
	s.log.Debug().Str("probe", probe.Name).Msg("submitting credentials")

	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return scrapeErr("Login", page, nil, fmt.Errorf("%w: click login: %v", portal.ErrAuthentication, err))
	}

	if err := browser.Settle(page, s.navTimeout); err != nil && browser.IsTimeout(err) {
		return scrapeErr("Login", page, nil, fmt.Errorf("%w: after submit: %v", portal.ErrNavigationTimeout, err))
	}
	return nil
}

// loginError probes for a rejection banner with a single short pass.
func (s *Scraper) loginError(page *rod.Page) (string, bool) {
	for _, p := range loginErrorProbes {
		if el, ok := p.TryMatch(page); ok {
			text, err := el.Text()
			if err != nil {
				continue
			}
			if msg := strings.TrimSpace(text); msg != "" {
				return msg, true
			}
		}
	}
	return "", false
}

// first runs a probe set with the scraper's per-candidate wait applied.
func (s *Scraper) first(page *rod.Page, probes browser.ProbeSet) (*rod.Element, browser.Probe, bool) {
	for _, p := range probes {
		if p.Wait == 0 {
			p.Wait = s.probeWait
		}
		if el, ok := p.TryMatch(page); ok {
			return el, p, true
		}
	}
	return nil, browser.Probe{}, false
}
