package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxfetch/maxfetch/internal/config"
	"github.com/maxfetch/maxfetch/internal/scraper/export"
	"github.com/maxfetch/maxfetch/internal/scraper/portal"
	"github.com/maxfetch/maxfetch/internal/scraper/portal/max"
	"github.com/maxfetch/maxfetch/internal/scraper/session"
)

var (
	flagAccount string
	flagMonth   int
	flagYear    int
	flagOut     string
)

func init() {
	extractCmd.Flags().StringVar(&flagAccount, "account", "", "identifying fragment of the target card, e.g. its last 4 digits")
	extractCmd.Flags().IntVar(&flagMonth, "month", 0, "statement month (1-12, defaults to last month)")
	extractCmd.Flags().IntVar(&flagYear, "year", 0, "statement year (defaults to last month's year)")
	extractCmd.Flags().StringVar(&flagOut, "out", "", "output CSV path (defaults to max_transactions_MM_YYYY_<account>.csv)")
	_ = extractCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Log in, scrape one statement period and export it as CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.RequireCredentials(); err != nil {
			return err
		}

		period := statementMonth(flagMonth, flagYear)
		outPath := flagOut
		if outPath == "" {
			outPath = fmt.Sprintf("max_transactions_%02d_%d_%s.csv",
				int(period.Month()), period.Year(), flagAccount)
		}

		result, err := runExtraction(cmd.Context(), cfg, log, flagAccount, period, outPath)
		if err != nil {
			log.Error().Err(err).Msg("extraction failed")
			return fmt.Errorf("extraction failed: %s", reasonFor(err))
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Account", "Period", "Records", "Output"})
		t.AppendRow(table.Row{flagAccount, period.Format("2006-01"), result.RecordCount, result.Path})
		t.Render()

		return nil
	},
}

// registry guards against two concurrent extractions for the same account
// fighting over portal state under one identity.
var registry = session.NewRegistry(15 * time.Minute)

func runExtraction(ctx context.Context, cfg config.Config, log zerolog.Logger, account string, period time.Time, outPath string) (portal.ExportResult, error) {
	manager := session.NewManager(session.Options{
		Headless: cfg.Headless,
		Bin:      cfg.BrowserBin,
		Logger:   log,
	})

	sess, err := manager.Create(ctx)
	if err != nil {
		return portal.ExportResult{}, err
	}
	defer manager.Close(sess)

	if err := registry.Put(account, sess); err != nil {
		return portal.ExportResult{}, err
	}
	defer registry.Remove(account)

	opts := []max.Option{
		max.WithLogger(log.With().Str("component", "scraper").Logger()),
		max.WithNavigationTimeout(cfg.NavigationTimeout),
		max.WithSettleTimeout(cfg.SettleTimeout),
		max.WithProbeWait(cfg.ProbeWait),
		max.WithManualMFAWait(cfg.MFAManualWait),
		max.WithMFACodeMinLength(cfg.MFACodeMinLength),
	}
	if cfg.MFAMethod == config.MFATOTP {
		opts = append(opts, max.WithMFASolver(&max.TOTPSolver{Secret: cfg.TOTPSecret}))
	}
	scraper := max.New(cfg.LoginURL, opts...)

	creds := portal.Credentials{
		Username:    cfg.Username,
		Password:    cfg.Password,
		Institution: portal.PortalMax,
	}
	if err := scraper.Login(ctx, sess, creds); err != nil {
		return portal.ExportResult{}, err
	}

	records, err := scraper.Extract(ctx, sess, portal.ExtractionRequest{
		AccountFragment: account,
		PeriodStart:     period,
		PeriodEnd:       period,
	})
	if err != nil {
		return portal.ExportResult{}, err
	}

	return export.WriteCSV(records, outPath)
}

// statementMonth resolves the requested period, defaulting to the previous
// calendar month (the most recent complete statement).
func statementMonth(month, year int) time.Time {
	if month >= 1 && month <= 12 && year > 0 {
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	}
	lastMonth := time.Now().UTC().AddDate(0, -1, 0)
	return time.Date(lastMonth.Year(), lastMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// reasonFor maps the error taxonomy to the short human-readable reason the
// triggering surface reports.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, portal.ErrLaunch):
		return "browser could not be started"
	case errors.Is(err, portal.ErrNavigationTimeout):
		return "portal did not respond in time, try again"
	case errors.Is(err, portal.ErrAuthentication):
		return "login was rejected, check credentials"
	case errors.Is(err, portal.ErrMFATimeout):
		return "MFA code was not supplied in time"
	case errors.Is(err, portal.ErrSessionExists):
		return "an extraction for this account is already running"
	case errors.Is(err, portal.ErrExtraction):
		return "transaction table could not be read"
	case errors.Is(err, portal.ErrExport):
		return "result file could not be written"
	default:
		return err.Error()
	}
}
