package wikiscrape

import (
	"context"
	"strings"
)

// Row is one line of the tabular export.
type Row struct {
	Summary string
}

// Exporter writes rows to a delimited file.
type Exporter interface {
	// Export replaces the file at path with a header and one line per row.
	// Returns EINVALID if rows is empty or path has the wrong extension.
	Export(ctx context.Context, path string, rows []Row) error
}

// RowsFromLines builds one row per non-blank line, trimming each line.
func RowsFromLines(lines []string) []Row {
	var rows []Row
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			rows = append(rows, Row{Summary: s})
		}
	}
	return rows
}
