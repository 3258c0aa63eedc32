package portal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapeError_Message(t *testing.T) {
	err := &ScrapeError{
		Portal:    PortalMax,
		Stage:     "Login",
		URL:       "https://portal.test/login",
		Selectors: []string{"#username", `input[name="username"]`},
		Cause:     ErrAuthentication,
	}

	msg := err.Error()
	assert.Contains(t, msg, "[MAX] Login failed")
	assert.Contains(t, msg, "authentication failed")
	assert.Contains(t, msg, "url: https://portal.test/login")
	assert.Contains(t, msg, "selectors tried: #username")
}

func TestScrapeError_MessageOmitsEmptyContext(t *testing.T) {
	err := &ScrapeError{Portal: PortalMax, Stage: "Extract", Cause: ErrExtraction}

	msg := err.Error()
	assert.NotContains(t, msg, "url:")
	assert.NotContains(t, msg, "selectors tried:")
}

func TestScrapeError_UnwrapsToSentinel(t *testing.T) {
	cause := fmt.Errorf("%w: banner present", ErrAuthentication)
	err := &ScrapeError{Portal: PortalMax, Stage: "Login", Cause: cause}

	assert.ErrorIs(t, err, ErrAuthentication)
	assert.NotErrorIs(t, err, ErrExtraction)

	var scrapeErr *ScrapeError
	assert.True(t, errors.As(err, &scrapeErr))
}
