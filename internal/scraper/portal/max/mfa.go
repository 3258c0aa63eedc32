package max

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"

	"github.com/maxfetch/maxfetch/internal/scraper/browser"
	"github.com/maxfetch/maxfetch/internal/scraper/portal"
	"github.com/maxfetch/maxfetch/internal/scraper/session"
)

// Solver resolves a detected MFA challenge programmatically, e.g. by
// generating a TOTP code or polling a message channel.
type Solver interface {
	Solve(ctx context.Context, challenge *portal.MFAChallenge) (string, error)
}

// TOTPSolver generates time-based one-time codes from a shared secret.
type TOTPSolver struct {
	Secret string
}

func (t *TOTPSolver) Solve(_ context.Context, _ *portal.MFAChallenge) (string, error) {
	return totp.GenerateCode(t.Secret, time.Now())
}

const codePollInterval = 500 * time.Millisecond

// mfaHandler runs the challenge state machine for one login attempt:
// NoChallenge -> ChallengeDetected -> Resolved | TimedOut.
//
// Real portals vary in how they present the challenge, so detection is
// deliberately probe-and-fallback over an ordered indicator list rather
// than a single fixed selector.
type mfaHandler struct {
	log        zerolog.Logger
	solver     Solver
	detectWait time.Duration
	manualWait time.Duration
	navTimeout time.Duration
	codeMinLen int
}

// handle probes for a challenge and resolves it. A nil challenge with a nil
// error means no challenge appeared, which is normal (e.g. an
// already-trusted device). ErrMFATimeout is terminal for the attempt.
func (h *mfaHandler) handle(ctx context.Context, sess *session.Session, page *rod.Page) (*portal.MFAChallenge, error) {
	// The challenge often renders inside a nested frame.
	frame := browser.DeepestVisibleFrame(page)

	el, indicator, ok := h.detect(frame)
	if !ok {
		h.log.Debug().Msg("no mfa challenge detected")
		return nil, nil
	}

	challenge := &portal.MFAChallenge{
		Kind:       indicator.kind,
		DetectedAt: time.Now(),
	}
	sess.SetState(session.StateAwaitingMFA)
	h.log.Info().Str("kind", string(challenge.Kind)).Str("probe", indicator.probe.Name).Msg("mfa challenge detected")

	resolution, err := h.resolve(ctx, challenge, el)
	challenge.Resolution = resolution
	if err != nil {
		return challenge, err
	}
	challenge.ResolvedAt = time.Now()

	h.clickSubmit(frame)

	// The page may navigate after submission (or auto-advance without a
	// submit control); either way let it settle before verification.
	if err := browser.Settle(page, h.navTimeout); err != nil {
		h.log.Debug().Err(err).Msg("post-mfa settle did not complete cleanly")
	}

	return challenge, nil
}

// detect probes the ordered indicator list, a short bounded wait each. More
// than one indicator present resolves to the first match; simultaneous
// multi-challenge flows are not modelled.
func (h *mfaHandler) detect(frame *rod.Page) (*rod.Element, mfaIndicator, bool) {
	for _, indicator := range mfaIndicators {
		p := indicator.probe
		p.Wait = h.detectWait
		if el, ok := p.TryMatch(frame); ok {
			return el, indicator, true
		}
	}
	return nil, mfaIndicator{}, false
}

// resolve tries the configured strategies in fixed priority order: the
// automated solver when wired in, then manual entry through the portal's
// input field.
func (h *mfaHandler) resolve(ctx context.Context, challenge *portal.MFAChallenge, el *rod.Element) (portal.MFAResolution, error) {
	if challenge.Kind == portal.MFAKindPush {
		return h.resolvePush(ctx, el)
	}

	if h.solver != nil {
		code, err := h.solver.Solve(ctx, challenge)
		if err == nil {
			if err := browser.TypeFast(el, code); err == nil {
				return portal.MFAResolvedAutomated, nil
			}
			h.log.Warn().Msg("failed to enter solver code, falling back to manual entry")
		} else {
			h.log.Warn().Err(err).Msg("mfa solver failed, falling back to manual entry")
		}
	}

	return h.waitManualEntry(ctx, el)
}

// waitManualEntry blocks until a human has typed a code of at least
// codeMinLen characters into the challenge input, or the manual-wait bound
// elapses. The minimum-length completion signal is portal-specific, which
// is why it is configurable rather than fixed.
func (h *mfaHandler) waitManualEntry(ctx context.Context, el *rod.Element) (portal.MFAResolution, error) {
	h.log.Info().Dur("timeout", h.manualWait).Msg("waiting for manual mfa code entry")

	deadline := time.Now().Add(h.manualWait)
	for {
		if v, err := el.Property("value"); err == nil {
			if len(strings.TrimSpace(v.Str())) >= h.codeMinLen {
				return portal.MFAResolvedManually, nil
			}
		}
		if time.Now().After(deadline) {
			return portal.MFAResolutionTimedOut, portal.ErrMFATimeout
		}
		select {
		case <-ctx.Done():
			return portal.MFAResolutionTimedOut, ctx.Err()
		case <-time.After(codePollInterval):
		}
	}
}

// resolvePush waits for the challenge indicator to leave the DOM, which is
// what an approved push prompt does. There is no code to type.
func (h *mfaHandler) resolvePush(ctx context.Context, el *rod.Element) (portal.MFAResolution, error) {
	h.log.Info().Dur("timeout", h.manualWait).Msg("waiting for push approval")

	deadline := time.Now().Add(h.manualWait)
	for {
		if _, err := el.Describe(1, false); err != nil {
			return portal.MFAResolvedManually, nil
		}
		if time.Now().After(deadline) {
			return portal.MFAResolutionTimedOut, portal.ErrMFATimeout
		}
		select {
		case <-ctx.Done():
			return portal.MFAResolutionTimedOut, ctx.Err()
		case <-time.After(codePollInterval):
		}
	}
}

// clickSubmit searches the ordered submit candidates and clicks the first
// match. Absence of a submit control is tolerated: some portal variants
// auto-advance once the code is complete.
func (h *mfaHandler) clickSubmit(frame *rod.Page) {
	for _, p := range mfaSubmitProbes {
		if el, ok := p.TryMatch(frame); ok {
			if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
				h.log.Debug().Str("probe", p.Name).Msg("clicked mfa submit")
				return
			}
		}
	}

	// Text-matched fallback for unlabeled buttons.
	if el, err := frame.Timeout(time.Second).ElementR("button", mfaSubmitTextPattern); err == nil {
		if err := el.CancelTimeout().Click(proto.InputMouseButtonLeft, 1); err == nil {
			h.log.Debug().Msg("clicked text-matched mfa submit")
			return
		}
	}

	h.log.Debug().Msg("no mfa submit control found, assuming auto-advance")
}
