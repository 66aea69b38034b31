package mock

import (
	"context"

	"github.com/fwojciec/wikiscrape"
)

var _ wikiscrape.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of wikiscrape.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, path string, rows []wikiscrape.Row) error
}

func (e *Exporter) Export(ctx context.Context, path string, rows []wikiscrape.Row) error {
	return e.ExportFn(ctx, path, rows)
}
