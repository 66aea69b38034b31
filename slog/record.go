package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wikiscrape"
)

// Ensure LoggingRecordStore implements wikiscrape.RecordStore.
var _ wikiscrape.RecordStore = (*LoggingRecordStore)(nil)

// LoggingRecordStore wraps a RecordStore with logging.
type LoggingRecordStore struct {
	next   wikiscrape.RecordStore
	logger *slog.Logger
}

// NewLoggingRecordStore creates a new LoggingRecordStore.
func NewLoggingRecordStore(next wikiscrape.RecordStore, logger *slog.Logger) *LoggingRecordStore {
	return &LoggingRecordStore{next: next, logger: logger}
}

// Append delegates to the wrapped store and logs the resulting size.
func (s *LoggingRecordStore) Append(ctx context.Context, rec *wikiscrape.Record) (coll []*wikiscrape.Record, err error) {
	defer func(begin time.Time) {
		title := ""
		if rec != nil {
			title = rec.Title
		}
		s.logger.Info("append record",
			"title", title,
			"count", len(coll),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Append(ctx, rec)
}

// Records delegates to the wrapped store.
func (s *LoggingRecordStore) Records(ctx context.Context) (coll []*wikiscrape.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("read records",
			"count", len(coll),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Records(ctx)
}
