package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeSet_SelectorsPreserveOrder(t *testing.T) {
	ps := ProbeSet{
		{Name: "primary", Selector: "#username"},
		{Name: "by-name", Selector: `input[name="username"]`},
		{Name: "by-autocomplete", Selector: `input[autocomplete="username"]`},
	}

	assert.Equal(t, []string{
		"#username",
		`input[name="username"]`,
		`input[autocomplete="username"]`,
	}, ps.Selectors())
}

func TestProbeSet_SelectorsEmpty(t *testing.T) {
	assert.Empty(t, ProbeSet{}.Selectors())
}
