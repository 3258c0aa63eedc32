package max

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxfetch/maxfetch/internal/scraper/portal"
	"github.com/maxfetch/maxfetch/internal/scraper/portal/testutil"
)

func TestParseTransactions(t *testing.T) {
	html := testutil.LoadFixture(t, "max", "transactions")

	got, err := ParseTransactions(html)

	require.NoError(t, err)
	require.Len(t, got, 10)

	// First and last rows pin the presentation order.
	assert.Equal(t, portal.TransactionRecord{
		Date:          "01/09/2024",
		Merchant:      "SUPER YUDA",
		Category:      "Groceries",
		Type:          "Regular",
		ForeignAmount: "",
		LocalAmount:   "214.90",
		Balance:       "3,412.10",
	}, got[0])

	assert.Equal(t, portal.TransactionRecord{
		Date:          "29/09/2024",
		Merchant:      "PHARM PLUS",
		Category:      "Health",
		Type:          "Regular",
		ForeignAmount: "",
		LocalAmount:   "86.40",
		Balance:       "610.27",
	}, got[9])

	// A foreign transaction fills the FX column.
	assert.Equal(t, "$24.99", got[2].ForeignAmount)
	assert.Equal(t, "93.71", got[2].LocalAmount)
}

func TestParseTransactions_RowOrderPreserved(t *testing.T) {
	html := testutil.LoadFixture(t, "max", "transactions")

	got, err := ParseTransactions(html)
	require.NoError(t, err)

	dates := make([]string, len(got))
	for i, r := range got {
		dates[i] = r.Date
	}
	assert.Equal(t, []string{
		"01/09/2024", "02/09/2024", "04/09/2024", "07/09/2024", "10/09/2024",
		"12/09/2024", "15/09/2024", "18/09/2024", "23/09/2024", "29/09/2024",
	}, dates)
}

func TestParseTransactions_ShortRows(t *testing.T) {
	html := testutil.LoadFixture(t, "max", "transactions_short")

	got, err := ParseTransactions(html)

	// Rows with missing trailing columns yield best-effort records, not an
	// error.
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, portal.TransactionRecord{
		Date:     "05/09/2024",
		Merchant: "MEMBERSHIP FEE",
		Category: "Fees",
		Type:     "Regular",
	}, got[1])

	assert.Equal(t, portal.TransactionRecord{
		Date:     "09/09/2024",
		Merchant: "INTEREST ADJUSTMENT",
	}, got[2])
}

func TestParseTransactions_EmptyTable(t *testing.T) {
	html := testutil.LoadFixture(t, "max", "transactions_empty")

	got, err := ParseTransactions(html)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseTransactions_TableMissing(t *testing.T) {
	html := `<html><body><h1>Something unexpected</h1></body></html>`

	got, err := ParseTransactions(html)

	require.Error(t, err)
	assert.ErrorIs(t, err, portal.ErrExtraction)
	assert.ErrorContains(t, err, "transaction table not found")
	assert.Nil(t, got)
}
