// Package config loads runtime configuration from the process environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MFAMethod selects the automated solver wired into the challenge handler.
type MFAMethod string

const (
	MFAManual MFAMethod = "manual"
	MFATOTP   MFAMethod = "totp"
)

// Config carries everything an extraction run needs. Credentials are read
// at invocation time and never written anywhere by the core.
type Config struct {
	LoginURL string
	Username string
	Password string

	Headless   bool
	BrowserBin string

	NavigationTimeout time.Duration
	SettleTimeout     time.Duration
	ProbeWait         time.Duration

	MFAMethod        MFAMethod
	TOTPSecret       string
	MFAManualWait    time.Duration
	MFACodeMinLength int

	SessionTTL time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present but not required.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LoginURL:          os.Getenv("MAXFETCH_LOGIN_URL"),
		Username:          os.Getenv("MAXFETCH_USERNAME"),
		Password:          os.Getenv("MAXFETCH_PASSWORD"),
		Headless:          envBool("MAXFETCH_HEADLESS", true),
		BrowserBin:        os.Getenv("MAXFETCH_BROWSER_BIN"),
		NavigationTimeout: envDuration("MAXFETCH_NAV_TIMEOUT", 30*time.Second),
		SettleTimeout:     envDuration("MAXFETCH_SETTLE_TIMEOUT", 10*time.Second),
		ProbeWait:         envDuration("MAXFETCH_PROBE_WAIT", 3*time.Second),
		MFAMethod:         MFAMethod(envString("MAXFETCH_MFA_METHOD", string(MFAManual))),
		TOTPSecret:        os.Getenv("MAXFETCH_TOTP_SECRET"),
		MFAManualWait:     envDuration("MAXFETCH_MFA_MANUAL_WAIT", 2*time.Minute),
		MFACodeMinLength:  envInt("MAXFETCH_MFA_CODE_MIN_LENGTH", 4),
		SessionTTL:        envDuration("MAXFETCH_SESSION_TTL", 15*time.Minute),
	}

	if cfg.MFAMethod == MFATOTP && cfg.TOTPSecret == "" {
		return Config{}, fmt.Errorf("MAXFETCH_MFA_METHOD=totp requires MAXFETCH_TOTP_SECRET")
	}

	return cfg, nil
}

// RequireCredentials verifies the secret material needed for a login
// attempt is present.
func (c Config) RequireCredentials() error {
	if c.LoginURL == "" {
		return fmt.Errorf("MAXFETCH_LOGIN_URL must be set")
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("MAXFETCH_USERNAME and MAXFETCH_PASSWORD must be set")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
