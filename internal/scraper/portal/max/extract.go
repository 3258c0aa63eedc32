package max

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/maxfetch/maxfetch/internal/scraper/browser"
	"github.com/maxfetch/maxfetch/internal/scraper/portal"
	"github.com/maxfetch/maxfetch/internal/scraper/session"
)

// Extract scrapes the transaction table for the requested account and
// period. The session must be Active; anything else is refused.
//
// The portal filters by statement month, so a period spanning several
// months is walked one month at a time and the rows concatenated in
// presentation order. The result is materialized eagerly: it is a scrape of
// a live UI, so re-reading requires re-invocation.
func (s *Scraper) Extract(ctx context.Context, sess *session.Session, req portal.ExtractionRequest) ([]portal.TransactionRecord, error) {
	if st := sess.State(); st != session.StateActive {
		return nil, scrapeErr("Extract", nil, nil,
			fmt.Errorf("%w: session %s is %s", portal.ErrSessionNotActive, sess.ID, st))
	}

	page := sess.Page().Context(ctx)

	if err := s.selectAccount(page, req.AccountFragment); err != nil {
		return nil, err
	}

	var records []portal.TransactionRecord
	for _, month := range monthsBetween(req.PeriodStart, req.PeriodEnd) {
		monthRecords, err := s.extractMonth(page, req, month)
		if err != nil {
			return nil, err
		}
		records = append(records, monthRecords...)
	}

	sess.Touch()
	s.log.Info().
		Str("account", req.AccountFragment).
		Int("records", len(records)).
		Msg("extraction complete")

	if records == nil {
		records = []portal.TransactionRecord{}
	}
	return records, nil
}

func (s *Scraper) extractMonth(page *rod.Page, req portal.ExtractionRequest, month time.Time) ([]portal.TransactionRecord, error) {
	if err := s.setPeriod(page, month); err != nil {
		return nil, err
	}

	// Bounded settle for the table to (re)render after the filter change.
	if err := browser.Settle(page, s.settleTimeout); err != nil && !browser.IsTimeout(err) {
		return nil, scrapeErr("Extract", page, nil, fmt.Errorf("%w: table settle: %v", portal.ErrExtraction, err))
	}

	html, err := browser.SnapshotHTML(page)
	if err != nil {
		return nil, scrapeErr("Extract", page, nil, fmt.Errorf("%w: snapshot page: %v", portal.ErrExtraction, err))
	}

	records, err := ParseTransactions(html)
	if err != nil {
		return nil, scrapeErr("Extract", page, transactionRowSelectors,
			fmt.Errorf("account %q period %s: %w", req.AccountFragment, month.Format("2006-01"), err))
	}
	return records, nil
}

// selectAccount picks the target card among the available options by
// matching the masked-digit fragment against option labels. When no
// structured select exists it falls back to clicking an element whose text
// carries the fragment, mirroring how a human would pick the card.
func (s *Scraper) selectAccount(page *rod.Page, fragment string) error {
	pattern := regexp.QuoteMeta(fragment)

	if sel, probe, ok := s.first(page, cardSelectProbes); ok {
		if err := sel.Select([]string{pattern}, true, rod.SelectorTypeRegex); err == nil {
			s.log.Debug().Str("probe", probe.Name).Str("fragment", fragment).Msg("card selected")
			return nil
		}
	}

	el, err := page.Timeout(s.probeWait).ElementR("option, a, button, span, td", pattern)
	if err != nil {
		return scrapeErr("Extract", page, cardSelectProbes.Selectors(),
			fmt.Errorf("%w: no card matching %q", portal.ErrExtraction, fragment))
	}
	if err := el.CancelTimeout().Click(proto.InputMouseButtonLeft, 1); err != nil {
		return scrapeErr("Extract", page, nil, fmt.Errorf("%w: click card %q: %v", portal.ErrExtraction, fragment, err))
	}
	s.log.Debug().Str("fragment", fragment).Msg("card selected via text click")
	return nil
}

// setPeriod drives the month/year pickers to the statement month.
func (s *Scraper) setPeriod(page *rod.Page, month time.Time) error {
	monthValue := fmt.Sprintf("%02d", int(month.Month()))
	yearValue := fmt.Sprintf("%d", month.Year())

	monthEl, _, ok := s.first(page, monthSelectProbes)
	if !ok {
		return scrapeErr("Extract", page, monthSelectProbes.Selectors(),
			fmt.Errorf("%w: month picker not found", portal.ErrExtraction))
	}
	if err := selectOption(monthEl, monthValue); err != nil {
		return scrapeErr("Extract", page, nil,
			fmt.Errorf("%w: select month %s: %v", portal.ErrExtraction, monthValue, err))
	}

	yearEl, _, ok := s.first(page, yearSelectProbes)
	if !ok {
		return scrapeErr("Extract", page, yearSelectProbes.Selectors(),
			fmt.Errorf("%w: year picker not found", portal.ErrExtraction))
	}
	if err := selectOption(yearEl, yearValue); err != nil {
		return scrapeErr("Extract", page, nil,
			fmt.Errorf("%w: select year %s: %v", portal.ErrExtraction, yearValue, err))
	}

	return nil
}

// selectOption prefers the option's value attribute and falls back to exact
// text, since the portal has used both across releases.
func selectOption(el *rod.Element, value string) error {
	cssSelector := fmt.Sprintf(`[value=%q]`, value)
	if err := el.Select([]string{cssSelector}, true, rod.SelectorTypeCSSSector); err == nil {
		return nil
	}
	return el.Select([]string{"^" + regexp.QuoteMeta(value) + "$"}, true, rod.SelectorTypeRegex)
}

// monthsBetween lists the first-of-month timestamps covering [start, end].
// A zero or inverted end collapses to the start month.
func monthsBetween(start, end time.Time) []time.Time {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	if end.IsZero() || end.Before(start) {
		return []time.Time{first}
	}
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []time.Time
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		months = append(months, cur)
	}
	return months
}
