package wikiscrape

import (
	"context"
	"strings"
)

// Record is one scraped page summary.
// The JSON keys match the on-disk dataset format.
type Record struct {
	Title   string `json:"Title"`
	PageID  *int64 `json:"Page_ID,omitempty"`
	Summary string `json:"Summary"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return Errorf(EINVALID, "record title required")
	}
	if strings.TrimSpace(r.Summary) == "" {
		return Errorf(EINVALID, "record summary required for %q", r.Title)
	}
	return nil
}

// RecordStore persists records as an ordered collection without duplicates.
// Two records are duplicates only when every field is equal; the same title
// with a different summary is a distinct record.
//
// A store is bound to one location, chosen when it is constructed. Callers
// must serialize access to a given location themselves.
type RecordStore interface {
	// Append adds rec to the collection unless an identical record is
	// already present, and returns the resulting collection.
	// Returns EINVALID for an invalid record, EMALFORMED if the stored
	// collection has the wrong shape and EACCESS on I/O failure.
	Append(ctx context.Context, rec *Record) ([]*Record, error)

	// Records returns the stored collection in insertion order.
	// Returns ENOTFOUND if nothing has been stored yet and EMALFORMED if
	// the collection is empty or unreadable.
	Records(ctx context.Context) ([]*Record, error)
}
