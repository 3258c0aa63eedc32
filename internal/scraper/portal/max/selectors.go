// Package max implements the scraper for the Max card portal: login,
// MFA challenge handling, session verification and transaction extraction.
package max

import (
	"github.com/maxfetch/maxfetch/internal/scraper/browser"
	"github.com/maxfetch/maxfetch/internal/scraper/portal"
)

// The portal's markup drifts between releases, so every element is located
// through an ordered candidate list; the first match wins.

// Login page
var (
	usernameProbes = browser.ProbeSet{
		{Name: "username-id", Selector: "#username"},
		{Name: "username-name", Selector: `input[name="username"]`},
		{Name: "username-autocomplete", Selector: `input[autocomplete="username"]`},
	}

	passwordProbes = browser.ProbeSet{
		{Name: "password-id", Selector: "#password"},
		{Name: "password-name", Selector: `input[name="password"]`},
		{Name: "password-type", Selector: `input[type="password"]`},
	}

	loginSubmitProbes = browser.ProbeSet{
		{Name: "login-btn-id", Selector: "#login-btn"},
		{Name: "login-form-submit", Selector: `form button[type="submit"]`},
		{Name: "generic-submit", Selector: `button[type="submit"]`},
	}

	// Error banner shown on the login page after a rejected attempt.
	loginErrorProbes = browser.ProbeSet{
		{Name: "login-error-class", Selector: ".login-error"},
		{Name: "error-message", Selector: ".error-message"},
		{Name: "alert-role", Selector: `[role="alert"]`},
	}
)

// MFA challenge indicators, probed in priority order. Kind-specific
// indicators come first so a challenge is classified when the markup allows
// it; the generic code-input patterns close the list as Unknown.
type mfaIndicator struct {
	kind  portal.MFAKind
	probe browser.Probe
}

var mfaIndicators = []mfaIndicator{
	{portal.MFAKindSMS, browser.Probe{Name: "sms-code", Selector: `#sms-code, input[name*="sms"]`}},
	{portal.MFAKindEmail, browser.Probe{Name: "email-code", Selector: `#email-code, input[name*="email-code"]`}},
	{portal.MFAKindTOTP, browser.Probe{Name: "totp-code", Selector: `#totp-code, input[name*="otp"], input[autocomplete="one-time-code"]`}},
	{portal.MFAKindPush, browser.Probe{Name: "push-approval", Selector: `[data-mfa="push"], .push-approval`}},
	{portal.MFAKindUnknown, browser.Probe{Name: "generic-code", Selector: `[data-testid="mfa-code"], #mfa-code, .mfa-input, input[name*="code"], input[placeholder*="code"]`}},
}

var mfaSubmitProbes = browser.ProbeSet{
	{Name: "mfa-submit-id", Selector: "#mfa-submit"},
	{Name: "mfa-submit-class", Selector: ".mfa-submit"},
	{Name: "generic-submit", Selector: `button[type="submit"]`},
}

// mfaSubmitTextPattern is the js regex for the text-matched submit fallback.
const mfaSubmitTextPattern = `/submit|verify|continue/i`

// Post-login success indicators.
var successProbes = browser.ProbeSet{
	{Name: "account-summary", Selector: ".account-summary"},
	{Name: "dashboard", Selector: ".dashboard"},
	{Name: "account-balance", Selector: "#account-balance"},
	{Name: "account-overview", Selector: `[data-testid="account-overview"]`},
	{Name: "welcome-message", Selector: ".welcome-message"},
}

// loginPathFragment identifies the login page by URL, for the verifier's
// fallback heuristic.
const loginPathFragment = "login"

// Transactions page
var (
	cardSelectProbes = browser.ProbeSet{
		{Name: "card-select-name", Selector: `select[name="card"]`},
		{Name: "card-select-id", Selector: `select[id*="card"]`},
		{Name: "card-select-class", Selector: `select[class*="card"]`},
		{Name: "any-select", Selector: "select"},
	}

	monthSelectProbes = browser.ProbeSet{
		{Name: "month-select-name", Selector: `select[name="month"]`},
		{Name: "month-select-id", Selector: `select[id*="month"]`},
	}

	yearSelectProbes = browser.ProbeSet{
		{Name: "year-select-name", Selector: `select[name="year"]`},
		{Name: "year-select-id", Selector: `select[id*="year"]`},
	}
)

// Row selectors for the snapshotted transactions page, tried in order
// against the parsed document.
var transactionRowSelectors = []string{
	".transaction-row",
	"table#transactions tbody tr",
	"table.transactions tbody tr",
}

// transactionTableSelectors distinguish "table rendered but empty" from
// "table missing entirely" (a selector mismatch needing maintenance).
var transactionTableSelectors = []string{
	"#transactions",
	".transactions",
	".transaction-table",
}

const transactionCellSelector = "td"
