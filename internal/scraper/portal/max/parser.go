package max

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maxfetch/maxfetch/internal/scraper/portal"
)

// ParseTransactions maps the snapshotted transactions page into records,
// one per table row, preserving the source presentation order. Rows are
// read by fixed column position: Date, Merchant, Category, Type, FX Amount,
// Local Amount, Balance.
//
// Table shape varies by account and transaction type, so a row carrying
// fewer cells than the full column set yields a best-effort record with the
// missing trailing fields left empty rather than an error. A rendered table
// with zero rows is an empty statement month, not a failure; a missing
// table is a selector mismatch and reported as one.
func ParseTransactions(html string) ([]portal.TransactionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", portal.ErrExtraction, err)
	}

	rows := findRows(doc)
	if rows == nil {
		if !hasTransactionTable(doc) {
			return nil, fmt.Errorf("%w: transaction table not found (selectors tried: %s)",
				portal.ErrExtraction, strings.Join(transactionRowSelectors, ", "))
		}
		return []portal.TransactionRecord{}, nil
	}

	records := make([]portal.TransactionRecord, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		records = append(records, recordFromRow(row))
	})
	return records, nil
}

func findRows(doc *goquery.Document) *goquery.Selection {
	for _, selector := range transactionRowSelectors {
		if rows := doc.Find(selector); rows.Length() > 0 {
			return rows
		}
	}
	return nil
}

func hasTransactionTable(doc *goquery.Document) bool {
	for _, selector := range transactionTableSelectors {
		if doc.Find(selector).Length() > 0 {
			return true
		}
	}
	return false
}

func recordFromRow(row *goquery.Selection) portal.TransactionRecord {
	cells := row.Find(transactionCellSelector).Map(func(_ int, cell *goquery.Selection) string {
		return strings.TrimSpace(cell.Text())
	})

	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	return portal.TransactionRecord{
		Date:          cell(0),
		Merchant:      cell(1),
		Category:      cell(2),
		Type:          cell(3),
		ForeignAmount: cell(4),
		LocalAmount:   cell(5),
		Balance:       cell(6),
	}
}
