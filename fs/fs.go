// Package fs provides file-based storage for scraped records and the
// intermediate text files produced while processing them.
package fs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/wikiscrape"
)

// ensureDir creates the parent directory of path if it does not exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return wikiscrape.Errorf(wikiscrape.EACCESS, "cannot create directory %s: %w", dir, err)
	}
	return nil
}

// WriteFile replaces path with data. Data is written to a temporary file in
// the same directory and renamed into place, so readers never observe a
// partially written file. An existing file keeps its permissions, and a
// symlink is followed so that its target is the file replaced.
func WriteFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode().Perm()
		}
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return wikiscrape.Errorf(wikiscrape.EACCESS, "cannot write %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return wikiscrape.Errorf(wikiscrape.EACCESS, "cannot write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return wikiscrape.Errorf(wikiscrape.EACCESS, "cannot write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return wikiscrape.Errorf(wikiscrape.EACCESS, "cannot write %s: %w", path, err)
	}

	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return wikiscrape.Errorf(wikiscrape.EACCESS, "cannot write %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return wikiscrape.Errorf(wikiscrape.EACCESS, "cannot replace %s: %w", path, err)
	}

	return nil
}
