// Capture-fixtures walks a human through the Max portal in a visible
// browser and snapshots each page of interest as an HTML fixture (plus a
// reference screenshot). The snapshots feed the parser tests in
// internal/scraper/portal/max.
//
// Usage: go run ./scripts/capture-fixtures [-output DIR]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	browserutil "github.com/maxfetch/maxfetch/internal/scraper/browser"
)

type pageCapture struct {
	Name         string
	Instructions string
}

var capturePages = []pageCapture{
	{Name: "login_page", Instructions: "Navigate to the login page (don't log in yet)"},
	{Name: "login_error", Instructions: "Enter INVALID credentials and submit"},
	{Name: "mfa_challenge", Instructions: "Log in with VALID credentials until the MFA prompt shows (skip if none appears)"},
	{Name: "dashboard", Instructions: "Complete the login, wait for the dashboard"},
	{Name: "transactions", Instructions: "Open transaction details, pick a card and a month with activity"},
	{Name: "transactions_empty", Instructions: "Switch to a month with no activity (or skip)"},
	{Name: "logout", Instructions: "Log out before quitting (or skip)"},
}

func main() {
	outputDir := flag.String("output", "", "output directory (default: internal/scraper/portal/max/testdata/fixtures)")
	flag.Parse()

	outDir := *outputDir
	if outDir == "" {
		outDir = filepath.Join("internal", "scraper", "portal", "max", "testdata", "fixtures")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Printf("error creating directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Max portal fixture capture -> %s\n\n", outDir)

	url := launcher.New().
		Headless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("exclude-switches", "enable-automation").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("window-size", "1920,1080").
		Devtools(false).
		MustLaunch()

	browser := rod.New().ControlURL(url).MustConnect()
	defer browser.MustClose()

	page := stealth.MustPage(browser)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("A browser window has opened. Follow the prompts below and press")
	fmt.Println("ENTER after completing each step ('skip' to skip, 'quit' to exit).")
	fmt.Println()

	for _, capture := range capturePages {
		fmt.Printf("Capturing: %s.html\n", capture.Name)
		fmt.Printf("  %s\n", capture.Instructions)
		fmt.Print("  ENTER when ready (or 'skip'/'quit'): ")

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))
		if input == "quit" {
			break
		}
		if input == "skip" {
			fmt.Printf("  skipped %s\n\n", capture.Name)
			continue
		}

		time.Sleep(time.Second)

		// Screenshot before the snapshot mutates the DOM.
		if buf, err := page.Screenshot(false, nil); err == nil {
			shotPath := filepath.Join(outDir, capture.Name+".png")
			if err := os.WriteFile(shotPath, buf, 0o644); err == nil {
				fmt.Printf("  screenshot: %s\n", shotPath)
			}
		}

		html, err := browserutil.SnapshotHTML(page)
		if err != nil {
			fmt.Printf("  error capturing HTML: %v\n\n", err)
			continue
		}

		htmlPath := filepath.Join(outDir, capture.Name+".html")
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			fmt.Printf("  error saving HTML: %v\n\n", err)
			continue
		}

		fmt.Printf("  saved: %s (url: %s)\n\n", htmlPath, page.MustInfo().URL)
	}

	fmt.Println("Capture complete. Redact credentials, codes and account numbers")
	fmt.Println("from the fixtures before committing them.")
}
