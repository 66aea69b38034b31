package mock

import (
	"context"

	"github.com/fwojciec/wikiscrape"
)

var _ wikiscrape.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of wikiscrape.RecordStore.
type RecordStore struct {
	AppendFn  func(ctx context.Context, rec *wikiscrape.Record) ([]*wikiscrape.Record, error)
	RecordsFn func(ctx context.Context) ([]*wikiscrape.Record, error)
}

func (s *RecordStore) Append(ctx context.Context, rec *wikiscrape.Record) ([]*wikiscrape.Record, error) {
	return s.AppendFn(ctx, rec)
}

func (s *RecordStore) Records(ctx context.Context) ([]*wikiscrape.Record, error) {
	return s.RecordsFn(ctx)
}
