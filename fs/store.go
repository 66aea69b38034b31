package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/wikiscrape"
	"github.com/google/go-cmp/cmp"
)

// Ensure RecordStore implements wikiscrape.RecordStore at compile time.
var _ wikiscrape.RecordStore = (*RecordStore)(nil)

// RecordStore keeps records in a file holding a single JSON array.
//
// Entries are compared by their decoded JSON value, so hand-edited files
// with reordered keys or extra fields keep working. Fields the store does
// not know about are preserved when the file is rewritten.
type RecordStore struct {
	path   string
	logger *slog.Logger
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithLogger sets the logger used to report recovered store files.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *RecordStore) {
		s.logger = logger
	}
}

// NewRecordStore creates a RecordStore backed by the JSON file at path.
func NewRecordStore(path string, opts ...Option) *RecordStore {
	s := &RecordStore{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds rec unless an identical record is already stored.
//
// A missing or empty file is created with rec as its only element. A file
// that is not valid JSON is logged and replaced by [rec]. A file that is
// valid JSON but not an array of objects is left untouched and EMALFORMED
// is returned.
func (s *RecordStore) Append(ctx context.Context, rec *wikiscrape.Record) ([]*wikiscrape.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "record required")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "record store path required")
	}

	if err := ensureDir(s.path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return s.reset(rec)
	} else if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot read %s: %w", s.path, err)
	}

	coll, err := s.parse(data)
	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		s.logger.Warn("corrupted record store, rewriting with new record",
			"path", s.path,
			"err", decodeErr.err,
		)
		return s.reset(rec)
	} else if err != nil {
		return nil, err
	}

	candidate, err := newEntry(rec)
	if err != nil {
		return nil, err
	}

	if coll.contains(candidate) {
		return coll.records(), nil
	}

	coll = append(coll, candidate)
	if err := s.write(coll); err != nil {
		return nil, err
	}
	return coll.records(), nil
}

// Records returns the stored collection.
// Unlike Append, Records never repairs a damaged file.
func (s *RecordStore) Records(ctx context.Context) ([]*wikiscrape.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "record store path required")
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, wikiscrape.Errorf(wikiscrape.ENOTFOUND, "the file %s does not exist", s.path)
	} else if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot read %s: %w", s.path, err)
	}

	coll, err := s.parse(data)
	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return nil, wikiscrape.Errorf(wikiscrape.EMALFORMED, "%s is not valid JSON: %w", s.path, decodeErr.err)
	} else if err != nil {
		return nil, err
	}

	if len(coll) == 0 {
		return nil, wikiscrape.Errorf(wikiscrape.EMALFORMED, "invalid or empty data in %s", s.path)
	}
	return coll.records(), nil
}

// reset replaces the file with a single-element collection.
func (s *RecordStore) reset(rec *wikiscrape.Record) ([]*wikiscrape.Record, error) {
	e, err := newEntry(rec)
	if err != nil {
		return nil, err
	}
	coll := collection{e}
	if err := s.write(coll); err != nil {
		return nil, err
	}
	return coll.records(), nil
}

func (s *RecordStore) write(coll collection) error {
	raws := make([]json.RawMessage, len(coll))
	for i, e := range coll {
		raws[i] = e.raw
	}

	data, err := json.MarshalIndent(raws, "", "    ")
	if err != nil {
		return wikiscrape.Errorf(wikiscrape.EINTERNAL, "cannot encode records: %w", err)
	}
	return WriteFile(s.path, data)
}

// parse decodes a stored collection. Syntax errors are reported as
// *decodeError; well-formed JSON of the wrong shape as EMALFORMED.
func (s *RecordStore) parse(data []byte) (collection, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &decodeError{err: err}
	}

	values, ok := doc.([]any)
	if !ok {
		return nil, wikiscrape.Errorf(wikiscrape.EMALFORMED, "%s does not contain a JSON array", s.path)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EMALFORMED, "%s does not contain a JSON array: %w", s.path, err)
	}

	coll := make(collection, 0, len(values))
	for i, v := range values {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, wikiscrape.Errorf(wikiscrape.EMALFORMED, "%s: element %d is not an object", s.path, i)
		}

		rec, err := decodeRecord(raws[i])
		if err != nil {
			return nil, wikiscrape.Errorf(wikiscrape.EMALFORMED, "%s: element %d is not an object: %w", s.path, i, err)
		}

		coll = append(coll, &entry{
			raw:    compact(raws[i]),
			value:  obj,
			key:    fingerprint(obj),
			record: rec,
		})
	}
	return coll, nil
}

// decodeRecord reads the known fields of a stored object. Fields of an
// unexpected type are left at their zero value; a Page_ID that is not an
// integer, such as the legacy "No page ID found", reads as no page ID.
func decodeRecord(raw json.RawMessage) (*wikiscrape.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	rec := &wikiscrape.Record{}
	rec.Title, _ = fields["Title"].(string)
	rec.Summary, _ = fields["Summary"].(string)
	if n, ok := fields["Page_ID"].(json.Number); ok {
		rec.PageID = pageID(n)
	}
	return rec, nil
}

func pageID(n json.Number) *int64 {
	if id, err := n.Int64(); err == nil {
		return &id
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return nil
	}
	id := int64(f)
	return &id
}

// decodeError reports a store file that is not valid JSON at all.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return e.err.Error()
}

// entry is one element of a stored collection.
type entry struct {
	raw    json.RawMessage
	value  map[string]any
	key    uint64
	record *wikiscrape.Record
}

func newEntry(rec *wikiscrape.Record) (*entry, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EINTERNAL, "cannot encode record: %w", err)
	}

	var value map[string]any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EINTERNAL, "cannot decode record: %w", err)
	}

	cp := *rec
	return &entry{
		raw:    raw,
		value:  value,
		key:    fingerprint(value),
		record: &cp,
	}, nil
}

type collection []*entry

// contains reports whether an element structurally equal to e is present.
func (c collection) contains(e *entry) bool {
	for _, other := range c {
		if other.key == e.key && cmp.Equal(other.value, e.value) {
			return true
		}
	}
	return false
}

func (c collection) records() []*wikiscrape.Record {
	recs := make([]*wikiscrape.Record, len(c))
	for i, e := range c {
		recs[i] = e.record
	}
	return recs
}

// fingerprint hashes the canonical encoding of a decoded JSON object.
// encoding/json writes map keys in sorted order, so equal values hash equally.
func fingerprint(value map[string]any) uint64 {
	data, err := json.Marshal(value)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

func compact(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
