package mock

import (
	"context"

	"github.com/fwojciec/wikiscrape"
)

var _ wikiscrape.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of wikiscrape.Fetcher.
type Fetcher struct {
	FetchSummaryFn func(ctx context.Context, title string) (*wikiscrape.Summary, error)
}

func (f *Fetcher) FetchSummary(ctx context.Context, title string) (*wikiscrape.Summary, error) {
	return f.FetchSummaryFn(ctx, title)
}
