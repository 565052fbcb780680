// Package walker discovers the files a check run scans.
package walker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leapstack-labs/ratchet/pkg/lint"
)

// sniffLen is how much of a file is inspected for NUL bytes.
const sniffLen = 8 << 10

// DefaultExclude lists patterns skipped when no exclude list is configured.
var DefaultExclude = []string{".git/**", "vendor/**", "node_modules/**", "target/**"}

// Options controls discovery. Patterns are doublestar globs matched against
// paths relative to the root.
type Options struct {
	Include []string // empty means every file
	Exclude []string
}

// File is a discovered file.
type File struct {
	Path     string        // relative to the root, forward slashes
	AbsPath  string        // filesystem path for reading
	Language lint.Language // empty when not recognized
}

// Validate reports the first malformed pattern.
func (o Options) Validate() error {
	for _, p := range append(append([]string{}, o.Include...), o.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// Walk returns the text files under root that pass the include and exclude
// patterns, sorted by path. Excluded directories are not descended into.
// Symlinks and other non-regular files are skipped.
func Walk(ctx context.Context, root string, opts Options) ([]File, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if excludedDir(opts.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matchAny(opts.Exclude, rel) {
			return nil
		}
		if len(opts.Include) > 0 && !matchAny(opts.Include, rel) {
			return nil
		}

		binary, err := isBinary(path)
		if err != nil {
			return err
		}
		if binary {
			return nil
		}

		lang, _ := lint.DetectLanguage(rel)
		files = append(files, File{Path: rel, AbsPath: path, Language: lang})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// excludedDir reports whether a directory is excluded, either directly or
// by a "dir/**" pattern covering everything below it.
func excludedDir(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if prefix, found := strings.CutSuffix(p, "/**"); found {
			if ok, _ := doublestar.Match(prefix, rel); ok {
				return true
			}
		}
	}
	return false
}

// isBinary reports whether the start of the file contains a NUL byte.
func isBinary(path string) (bool, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from WalkDir under the project root
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
