package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// LoadFixture reads an HTML fixture for the given portal implementation,
// e.g. LoadFixture(t, "max", "transactions").
func LoadFixture(t *testing.T, portalCode, name string) string {
	t.Helper()

	// Resolve relative to this file so tests work from any package dir.
	_, filename, _, _ := runtime.Caller(0)
	baseDir := filepath.Dir(filepath.Dir(filename)) // up to portal/

	path := filepath.Join(baseDir, portalCode, "testdata", "fixtures", name+".html")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture %s/%s: %v", portalCode, name, err)
	}

	return string(data)
}
