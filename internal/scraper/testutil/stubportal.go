// Package testutil provides testing utilities for the scraper packages,
// including a hijack-based stub portal for browser tests.
package testutil

import (
	"log"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// StubPortal serves authored pages to a hijacked browser so login, MFA and
// extraction flows can run against a deterministic portal without touching
// the network. Install its Middleware as the session manager's hijack
// handler and navigate to BaseURL-relative paths.
type StubPortal struct {
	// BaseURL is the scheme://host the stub answers for.
	BaseURL string

	mu      sync.RWMutex
	pages   map[string]StubPage
	verbose bool
}

// StubPage is one served response.
type StubPage struct {
	Status      int
	ContentType string
	Body        string
}

// NewStubPortal creates an empty stub portal at https://portal.test.
func NewStubPortal() *StubPortal {
	return &StubPortal{
		BaseURL: "https://portal.test",
		pages:   make(map[string]StubPage),
	}
}

// Verbose enables request match logging.
func (s *StubPortal) Verbose() *StubPortal {
	s.verbose = true
	return s
}

// HandleHTML registers an HTML page under path ("/login", "/dashboard").
func (s *StubPortal) HandleHTML(path, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path] = StubPage{Status: 200, ContentType: "text/html; charset=utf-8", Body: html}
}

// Handle registers an arbitrary response under path.
func (s *StubPortal) Handle(path string, page StubPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path] = page
}

// URL returns the absolute URL for a registered path.
func (s *StubPortal) URL(path string) string {
	return s.BaseURL + path
}

// Middleware returns a Rod hijack handler serving the registered pages.
// Unregistered URLs get a 404 so a test fails loudly on an unexpected
// navigation instead of hitting the real network.
func (s *StubPortal) Middleware() func(*rod.Hijack) {
	return func(ctx *rod.Hijack) {
		reqURL := ctx.Request.URL().String()

		s.mu.RLock()
		page, found := s.pages[ctx.Request.URL().Path]
		s.mu.RUnlock()

		if !found {
			if s.verbose {
				log.Printf("[stubportal] no page for: %s", reqURL)
			}
			s.serveNotFound(ctx, reqURL)
			return
		}

		if s.verbose {
			log.Printf("[stubportal] served: %s -> %d", reqURL, page.Status)
		}

		payload := ctx.Response.Payload()
		payload.ResponseCode = page.Status
		payload.ResponseHeaders = []*proto.FetchHeaderEntry{
			{Name: "Content-Type", Value: page.ContentType},
		}
		payload.Body = []byte(page.Body)
	}
}

func (s *StubPortal) serveNotFound(ctx *rod.Hijack, reqURL string) {
	payload := ctx.Response.Payload()
	payload.ResponseCode = 404
	payload.ResponseHeaders = []*proto.FetchHeaderEntry{
		{Name: "Content-Type", Value: "text/html; charset=utf-8"},
	}
	payload.Body = []byte("<html><body>stub portal: no page registered for " + reqURL + "</body></html>")
}
