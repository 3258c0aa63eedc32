package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxfetch/maxfetch/internal/scraper/portal"
)

func sampleRecords() []portal.TransactionRecord {
	return []portal.TransactionRecord{
		{Date: "01/09/2024", Merchant: "SUPER YUDA", Category: "Groceries", Type: "Regular", LocalAmount: "214.90", Balance: "3,412.10"},
		{Date: "04/09/2024", Merchant: "AMAZON MKTPLACE", Category: "Online", Type: "Foreign", ForeignAmount: "$24.99", LocalAmount: "93.71"},
		{Date: "09/09/2024", Merchant: "INTEREST ADJUSTMENT"},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	result, err := WriteCSV(sampleRecords(), path)
	require.NoError(t, err)

	assert.Equal(t, path, result.Path)
	assert.Equal(t, 3, result.RecordCount)
	assert.WithinDuration(t, time.Now(), result.WrittenAt, 10*time.Second)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4) // header + 3 records

	assert.Equal(t, "Date,Merchant,Category,Type,FX Amount,Local Amount,Balance", lines[0])
	assert.Equal(t, `01/09/2024,SUPER YUDA,Groceries,Regular,,214.90,"3,412.10"`, lines[1])
	// Absent optional columns stay present as empty cells.
	assert.Equal(t, "09/09/2024,INTEREST ADJUSTMENT,,,,,", lines[3])
}

func TestWriteCSV_OverwritesDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := WriteCSV(sampleRecords(), path)
	require.NoError(t, err)

	_, err = WriteCSV(sampleRecords(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Overwrite, not append: still header + 3 records.
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 4)
}

func TestWriteCSV_EmptyRecordSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	result, err := WriteCSV(nil, path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RecordCount)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "Date,Merchant,Category,Type,FX Amount,Local Amount,Balance", lines[0])
}

func TestWriteCSV_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist", "out.csv")

	_, err := WriteCSV(sampleRecords(), path)

	require.Error(t, err)
	assert.ErrorIs(t, err, portal.ErrExport)
	// Nothing partial left behind.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
