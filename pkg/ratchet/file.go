package ratchet

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultCountsFile is the conventional counts file name at the project root.
const DefaultCountsFile = "ratchet-counts.toml"

// LoadFile reads and parses the counts file at path.
// A missing file is an empty store, not an error. Read failures are returned
// as *IOError and malformed content as *ParseError carrying the path.
func LoadFile(path string) (*Budgets, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration or git
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewBudgets(), nil
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	b, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return b, nil
}

// WriteFile serializes b and atomically replaces the file at path.
//
// The text is written to a temporary file in the same directory, synced and
// renamed over path. If any step fails the temporary file is removed and the
// previous content of path is left untouched.
func (b *Budgets) WriteFile(path string) error {
	return writeFileAtomic(path, b.Text())
}

func writeFileAtomic(path string, data []byte) (err error) {
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
