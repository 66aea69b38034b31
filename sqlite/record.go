package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/wikiscrape"
)

// Compile-time interface verification.
var _ wikiscrape.RecordStore = (*RecordStore)(nil)

// RecordStore implements wikiscrape.RecordStore using SQLite.
// Records are ordered by insertion and deduplicated on all fields.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// hashRecord computes the xxHash of a record's fields as a hex string.
// Fields are NUL-separated so that shifted boundaries hash differently.
func hashRecord(rec *wikiscrape.Record) string {
	d := xxhash.New()
	_, _ = d.WriteString(rec.Title)
	_, _ = d.WriteString("\x00")
	if rec.PageID != nil {
		_, _ = d.WriteString(strconv.FormatInt(*rec.PageID, 10))
	}
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(rec.Summary)

	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, d.Sum64())
	return hex.EncodeToString(b)
}

// Append inserts rec unless an identical record exists, then returns
// the full collection.
func (s *RecordStore) Append(ctx context.Context, rec *wikiscrape.Record) ([]*wikiscrape.Record, error) {
	if rec == nil {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "record required")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot begin transaction on %s: %w", s.db.Path(), err)
	}
	defer tx.Rollback()

	hash := hashRecord(rec)
	var pageID any
	if rec.PageID != nil {
		pageID = *rec.PageID
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM records
			WHERE content_hash = ? AND title = ? AND page_id IS ? AND summary = ?
		)
	`, hash, rec.Title, pageID, rec.Summary).Scan(&exists)
	if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot query %s: %w", s.db.Path(), err)
	}

	if !exists {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO records (title, page_id, summary, content_hash, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, rec.Title, pageID, rec.Summary, hash, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot insert into %s: %w", s.db.Path(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot commit to %s: %w", s.db.Path(), err)
	}

	return s.Records(ctx)
}

// Records returns all records in insertion order.
// Returns ENOTFOUND if the table is empty.
func (s *RecordStore) Records(ctx context.Context) ([]*wikiscrape.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, page_id, summary FROM records ORDER BY id ASC`)
	if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot query %s: %w", s.db.Path(), err)
	}
	defer rows.Close()

	var recs []*wikiscrape.Record
	for rows.Next() {
		var rec wikiscrape.Record
		var pageID sql.NullInt64
		if err := rows.Scan(&rec.Title, &pageID, &rec.Summary); err != nil {
			return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot read %s: %w", s.db.Path(), err)
		}
		if pageID.Valid {
			id := pageID.Int64
			rec.PageID = &id
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot read %s: %w", s.db.Path(), err)
	}

	if len(recs) == 0 {
		return nil, wikiscrape.Errorf(wikiscrape.ENOTFOUND, "no records stored in %s", s.db.Path())
	}
	return recs, nil
}
