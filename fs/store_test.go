package fs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func newStore(t *testing.T, path string) (*fs.RecordStore, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return fs.NewRecordStore(path, fs.WithLogger(logger)), &buf
}

func readStored(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	return got
}

// Story: Idempotent Record Store
// Repeated scrapes append records without duplicating them.

func TestRecordStore_CreatesFileOnFirstAppend(t *testing.T) {
	t.Parallel()

	// Given a store whose file and parent directory do not exist
	path := filepath.Join(t.TempDir(), "raw_data", "raw_data.json")
	store, _ := newStore(t, path)

	// When I append a record
	coll, err := store.Append(context.Background(), &wikiscrape.Record{
		Title:   "Test",
		PageID:  int64Ptr(42),
		Summary: "Hi there",
	})

	// Then the collection holds exactly that record
	require.NoError(t, err)
	require.Len(t, coll, 1)
	assert.Equal(t, "Test", coll[0].Title)

	// And the file contains a one-element array
	assert.Equal(t, []map[string]any{
		{"Title": "Test", "Page_ID": float64(42), "Summary": "Hi there"},
	}, readStored(t, path))
}

func TestRecordStore_OmitsUnknownPageID(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	store, _ := newStore(t, path)

	_, err := store.Append(context.Background(), &wikiscrape.Record{Title: "Test", Summary: "Hi there"})
	require.NoError(t, err)

	assert.Equal(t, []map[string]any{
		{"Title": "Test", "Summary": "Hi there"},
	}, readStored(t, path))
}

func TestRecordStore_AppendIsIdempotent(t *testing.T) {
	t.Parallel()

	// Given a fresh store
	path := filepath.Join(t.TempDir(), "raw.json")
	store, _ := newStore(t, path)
	rec := &wikiscrape.Record{Title: "Go", PageID: int64Ptr(7), Summary: "A language."}

	// When I append the same record twice
	_, err := store.Append(context.Background(), rec)
	require.NoError(t, err)
	coll, err := store.Append(context.Background(), rec)

	// Then the collection has one element
	require.NoError(t, err)
	assert.Len(t, coll, 1)
	assert.Len(t, readStored(t, path), 1)
}

func TestRecordStore_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	store, _ := newStore(t, path)
	ctx := context.Background()

	a := &wikiscrape.Record{Title: "A", Summary: "first"}
	b := &wikiscrape.Record{Title: "B", Summary: "second"}
	c := &wikiscrape.Record{Title: "C", Summary: "third"}

	// Appends interleaved with no-op duplicates
	for _, rec := range []*wikiscrape.Record{a, a, b, a, c, b, c} {
		_, err := store.Append(ctx, rec)
		require.NoError(t, err)
	}

	coll, err := store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, coll, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{coll[0].Title, coll[1].Title, coll[2].Title})
}

func TestRecordStore_SameTitleDifferentSummaryIsDistinct(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	store, _ := newStore(t, path)
	ctx := context.Background()

	_, err := store.Append(ctx, &wikiscrape.Record{Title: "Go", Summary: "old text"})
	require.NoError(t, err)
	coll, err := store.Append(ctx, &wikiscrape.Record{Title: "Go", Summary: "new text"})

	require.NoError(t, err)
	assert.Len(t, coll, 2)
}

func TestRecordStore_PageIDTakesPartInEquality(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	store, _ := newStore(t, path)
	ctx := context.Background()

	_, err := store.Append(ctx, &wikiscrape.Record{Title: "Go", Summary: "text"})
	require.NoError(t, err)
	coll, err := store.Append(ctx, &wikiscrape.Record{Title: "Go", PageID: int64Ptr(1), Summary: "text"})

	require.NoError(t, err)
	assert.Len(t, coll, 2)
}

func TestRecordStore_TreatsEmptyFileAsNew(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	store, _ := newStore(t, path)

	coll, err := store.Append(context.Background(), &wikiscrape.Record{Title: "R", Summary: "r"})

	require.NoError(t, err)
	assert.Len(t, coll, 1)
	assert.Len(t, readStored(t, path), 1)
}

func TestRecordStore_MatchesHandEditedEntries(t *testing.T) {
	t.Parallel()

	// Given a hand-edited file with reordered keys and compact formatting
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Summary":"Hi there","Page_ID":42,"Title":"Test"}]`), 0644))
	store, _ := newStore(t, path)

	// When I append the same record
	coll, err := store.Append(context.Background(), &wikiscrape.Record{
		Title:   "Test",
		PageID:  int64Ptr(42),
		Summary: "Hi there",
	})

	// Then it is recognised as a duplicate
	require.NoError(t, err)
	assert.Len(t, coll, 1)
}

func TestRecordStore_PreservesUnknownFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Title":"Old","Summary":"old","Note":"keep me"}]`), 0644))
	store, _ := newStore(t, path)

	_, err := store.Append(context.Background(), &wikiscrape.Record{Title: "New", Summary: "new"})
	require.NoError(t, err)

	stored := readStored(t, path)
	require.Len(t, stored, 2)
	assert.Equal(t, "keep me", stored[0]["Note"])
}

func TestRecordStore_AppendsToLegacyPageIDs(t *testing.T) {
	t.Parallel()

	// Given a dataset whose page without an ID was recorded as text
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Title":"Nope","Page_ID":"No page ID found","Summary":"No extract available"}]`), 0644))
	store, _ := newStore(t, path)

	// When I append a record
	coll, err := store.Append(context.Background(), &wikiscrape.Record{Title: "Go", Summary: "s"})

	// Then the legacy entry reads as having no page ID
	require.NoError(t, err)
	require.Len(t, coll, 2)
	assert.Equal(t, &wikiscrape.Record{Title: "Nope", Summary: "No extract available"}, coll[0])
	assert.Equal(t, "Go", coll[1].Title)

	// And the legacy value is kept on disk
	stored := readStored(t, path)
	require.Len(t, stored, 2)
	assert.Equal(t, "No page ID found", stored[0]["Page_ID"])
}

func TestRecordStore_ReadsLenientFieldTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    *wikiscrape.Record
	}{
		{
			name:    "float page ID",
			content: `[{"Title":"Test","Page_ID":42.0,"Summary":"Hi there"}]`,
			want:    &wikiscrape.Record{Title: "Test", PageID: int64Ptr(42), Summary: "Hi there"},
		},
		{
			name:    "fractional page ID",
			content: `[{"Title":"Test","Page_ID":4.5,"Summary":"Hi there"}]`,
			want:    &wikiscrape.Record{Title: "Test", Summary: "Hi there"},
		},
		{
			name:    "null page ID",
			content: `[{"Title":"Test","Page_ID":null,"Summary":"Hi there"}]`,
			want:    &wikiscrape.Record{Title: "Test", Summary: "Hi there"},
		},
		{
			name:    "numeric title",
			content: `[{"Title":5,"Summary":"a"}]`,
			want:    &wikiscrape.Record{Summary: "a"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "raw.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			store, _ := newStore(t, path)

			coll, err := store.Records(context.Background())

			require.NoError(t, err)
			require.Len(t, coll, 1)
			assert.Equal(t, tt.want, coll[0])
		})
	}
}

func TestRecordStore_MatchesFloatPageID(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	content := `[{"Title":"Test","Page_ID":42.0,"Summary":"Hi there"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	store, _ := newStore(t, path)

	coll, err := store.Append(context.Background(), &wikiscrape.Record{Title: "Test", PageID: int64Ptr(42), Summary: "Hi there"})

	require.NoError(t, err)
	assert.Len(t, coll, 1)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

// Story: Corrupted Store Recovery
// Undecodable files are replaced; well-formed files of the wrong shape are not.

func TestRecordStore_RecoversFromUndecodableFile(t *testing.T) {
	t.Parallel()

	// Given a store file that is not valid JSON
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`"not valid json`), 0644))
	store, logs := newStore(t, path)

	// When I append a record
	rec := &wikiscrape.Record{Title: "R", Summary: "recovered"}
	coll, err := store.Append(context.Background(), rec)

	// Then the append succeeds with a fresh collection
	require.NoError(t, err)
	require.Len(t, coll, 1)
	assert.Equal(t, "recovered", coll[0].Summary)

	// And the file contains exactly [R]
	assert.Equal(t, []map[string]any{{"Title": "R", "Summary": "recovered"}}, readStored(t, path))

	// And the recovery is logged
	assert.Contains(t, logs.String(), "corrupted record store")
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestRecordStore_RecoversFromPlainText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte("not valid json"), 0644))
	store, _ := newStore(t, path)

	coll, err := store.Append(context.Background(), &wikiscrape.Record{Title: "R", Summary: "r"})

	require.NoError(t, err)
	assert.Len(t, coll, 1)
}

func TestRecordStore_RejectsWrongShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "object", content: `{"a": 1}`},
		{name: "string", content: `"not valid json"`},
		{name: "null", content: `null`},
		{name: "array of numbers", content: `[1, 2, 3]`},
		{name: "array with null element", content: `[{"Title":"A","Summary":"a"}, null]`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Given a valid JSON file that is not an array of records
			path := filepath.Join(t.TempDir(), "raw.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			store, _ := newStore(t, path)

			// When I append a record
			_, err := store.Append(context.Background(), &wikiscrape.Record{Title: "R", Summary: "r"})

			// Then EMALFORMED is returned
			require.Error(t, err)
			assert.Equal(t, wikiscrape.EMALFORMED, wikiscrape.ErrorCode(err))
			assert.Contains(t, wikiscrape.ErrorMessage(err), path)

			// And the file is unchanged
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestRecordStore_RejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.json")
	store, _ := newStore(t, path)

	_, err := store.Append(context.Background(), &wikiscrape.Record{Title: "R"})

	assert.Equal(t, wikiscrape.EINVALID, wikiscrape.ErrorCode(err))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "store file should not be created")
}

func TestRecordStore_RequiresPath(t *testing.T) {
	t.Parallel()

	store := fs.NewRecordStore("")

	_, err := store.Append(context.Background(), &wikiscrape.Record{Title: "R", Summary: "r"})
	assert.Equal(t, wikiscrape.EINVALID, wikiscrape.ErrorCode(err))

	_, err = store.Records(context.Background())
	assert.Equal(t, wikiscrape.EINVALID, wikiscrape.ErrorCode(err))
}

func TestRecordStore_ReportsUncreatableDirectory(t *testing.T) {
	t.Parallel()

	// Given a parent "directory" that is actually a file
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	store, _ := newStore(t, filepath.Join(blocker, "raw.json"))

	_, err := store.Append(context.Background(), &wikiscrape.Record{Title: "R", Summary: "r"})

	require.Error(t, err)
	assert.Equal(t, wikiscrape.EACCESS, wikiscrape.ErrorCode(err))
}

func TestRecordStore_LeavesNoTemporaryFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, _ := newStore(t, filepath.Join(dir, "raw.json"))
	ctx := context.Background()

	_, err := store.Append(ctx, &wikiscrape.Record{Title: "A", Summary: "a"})
	require.NoError(t, err)
	_, err = store.Append(ctx, &wikiscrape.Record{Title: "B", Summary: "b"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "raw.json", entries[0].Name())
}

func TestRecordStore_Records(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for a missing file", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t, filepath.Join(t.TempDir(), "missing.json"))

		_, err := store.Records(context.Background())
		assert.Equal(t, wikiscrape.ENOTFOUND, wikiscrape.ErrorCode(err))
	})

	t.Run("returns EMALFORMED for an empty array", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "raw.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))
		store, _ := newStore(t, path)

		_, err := store.Records(context.Background())
		assert.Equal(t, wikiscrape.EMALFORMED, wikiscrape.ErrorCode(err))
	})

	t.Run("does not repair an undecodable file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "raw.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{`), 0644))
		store, _ := newStore(t, path)

		_, err := store.Records(context.Background())
		assert.Equal(t, wikiscrape.EMALFORMED, wikiscrape.ErrorCode(err))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `[{`, string(data))
	})

	t.Run("decodes page IDs", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "raw.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"Title":"T","Page_ID":42,"Summary":"s"}]`), 0644))
		store, _ := newStore(t, path)

		coll, err := store.Records(context.Background())
		require.NoError(t, err)
		require.Len(t, coll, 1)
		require.NotNil(t, coll[0].PageID)
		assert.Equal(t, int64(42), *coll[0].PageID)
	})
}
