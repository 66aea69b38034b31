package fs

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/fwojciec/wikiscrape"
)

// WriteLines replaces the file at path with lines joined by newlines.
// Missing parent directories are created.
func WriteLines(path string, lines []string) error {
	if path == "" {
		return wikiscrape.Errorf(wikiscrape.EINVALID, "output path required")
	}
	return WriteFile(path, []byte(strings.Join(lines, "\n")))
}

// ReadLines returns the lines of the file at path.
// Returns ENOTFOUND if the file does not exist.
func ReadLines(path string) ([]string, error) {
	if path == "" {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "input path required")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, wikiscrape.Errorf(wikiscrape.ENOTFOUND, "the file %s does not exist", path)
	} else if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EACCESS, "cannot read %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}
