// Package export serializes extracted transaction records to durable
// output with a stable schema.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maxfetch/maxfetch/internal/scraper/portal"
)

// Header is the fixed column order of every export. Optional columns are
// present even when an extraction carries no data for them.
var Header = []string{"Date", "Merchant", "Category", "Type", "FX Amount", "Local Amount", "Balance"}

// WriteCSV serializes records to path as UTF-8 CSV: one header row, one row
// per record, fixed column order. An existing destination is overwritten.
//
// The write is all-or-nothing: records go to a temp file in the destination
// directory which is renamed into place only after a clean flush, so a
// failed export never leaves a partial file behind.
func WriteCSV(records []portal.TransactionRecord, path string) (portal.ExportResult, error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".maxfetch-export-*")
	if err != nil {
		return portal.ExportResult{}, fmt.Errorf("%w: create temp file: %v", portal.ErrExport, err)
	}
	tmpName := tmp.Name()

	if err := writeAll(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return portal.ExportResult{}, fmt.Errorf("%w: %v", portal.ErrExport, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return portal.ExportResult{}, fmt.Errorf("%w: close temp file: %v", portal.ErrExport, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return portal.ExportResult{}, fmt.Errorf("%w: move into place: %v", portal.ErrExport, err)
	}

	return portal.ExportResult{
		Path:        path,
		RecordCount: len(records),
		WrittenAt:   time.Now(),
	}, nil
}

func writeAll(f *os.File, records []portal.TransactionRecord) error {
	w := csv.NewWriter(f)

	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %v", err)
	}
	for i, r := range records {
		row := []string{r.Date, r.Merchant, r.Category, r.Type, r.ForeignAmount, r.LocalAmount, r.Balance}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write record %d: %v", i, err)
		}
	}

	w.Flush()
	return w.Error()
}
