package portal

import "time"

// Credentials are supplied once per login attempt and never persisted.
type Credentials struct {
	Username    string
	Password    string
	Institution PortalCode
}

// MFAKind classifies the challenge form presented by the portal.
type MFAKind string

const (
	MFAKindSMS     MFAKind = "SMS"
	MFAKindEmail   MFAKind = "EMAIL"
	MFAKindTOTP    MFAKind = "TOTP"
	MFAKindPush    MFAKind = "PUSH"
	MFAKindUnknown MFAKind = "UNKNOWN"
)

// MFAResolution records how a detected challenge ended.
type MFAResolution string

const (
	MFAResolvedManually   MFAResolution = "MANUAL"
	MFAResolvedAutomated  MFAResolution = "AUTOMATED"
	MFAResolutionTimedOut MFAResolution = "TIMED_OUT"
)

// MFAChallenge is created when a challenge is detected during login. At most
// one challenge is active per login attempt.
type MFAChallenge struct {
	Kind       MFAKind
	DetectedAt time.Time
	ResolvedAt time.Time
	Resolution MFAResolution
}

// ExtractionRequest is the immutable input to the extractor.
type ExtractionRequest struct {
	// AccountFragment is a stable identifying fragment of the target account,
	// typically the masked last digits of the card number.
	AccountFragment string
	PeriodStart     time.Time
	PeriodEnd       time.Time
}

// TransactionRecord is one scraped row of the portal's transaction table.
// Field values are the trimmed cell text in presentation order; optional
// trailing columns absent from a row stay empty.
type TransactionRecord struct {
	Date          string
	Merchant      string
	Category      string
	Type          string
	ForeignAmount string
	LocalAmount   string
	Balance       string
}

// ExportResult describes one completed export.
type ExportResult struct {
	Path        string
	RecordCount int
	WrittenAt   time.Time
}
