package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wikiscrape"
)

// Ensure LoggingFetcher implements wikiscrape.Fetcher.
var _ wikiscrape.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   wikiscrape.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next wikiscrape.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchSummary delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) FetchSummary(ctx context.Context, title string) (summary *wikiscrape.Summary, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"title", title,
			"duration", time.Since(begin),
		}
		if summary != nil {
			attrs = append(attrs, "bytes", len(summary.Markup))
			if summary.PageID != nil {
				attrs = append(attrs, "page_id", *summary.PageID)
			}
		}
		attrs = append(attrs, "err", err)
		f.logger.Info("fetch summary", attrs...)
	}(time.Now())
	return f.next.FetchSummary(ctx, title)
}
