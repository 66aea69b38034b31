// Package csv provides a wikiscrape.Exporter that writes comma-separated files.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/fs"
)

// Header is the single column written by Exporter.
const Header = "Summary"

// Ensure Exporter implements wikiscrape.Exporter at compile time.
var _ wikiscrape.Exporter = (*Exporter)(nil)

// Exporter writes rows as a one-column CSV file with a header line.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export replaces the file at path. The file is written atomically and
// missing parent directories are created.
func (e *Exporter) Export(ctx context.Context, path string, rows []wikiscrape.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return wikiscrape.Errorf(wikiscrape.EINVALID, "the provided path %q is not a valid CSV file path", path)
	}
	if len(rows) == 0 {
		return wikiscrape.Errorf(wikiscrape.EINVALID, "no data to write to %s", path)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{Header}); err != nil {
		return wikiscrape.Errorf(wikiscrape.EINTERNAL, "cannot encode CSV: %w", err)
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Summary}); err != nil {
			return wikiscrape.Errorf(wikiscrape.EINTERNAL, "cannot encode CSV: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return wikiscrape.Errorf(wikiscrape.EINTERNAL, "cannot encode CSV: %w", err)
	}

	return fs.WriteFile(path, buf.Bytes())
}
