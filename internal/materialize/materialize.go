// Package materialize manages the output tree: destination validation,
// force removal, and per-file copies preserving modification time.
package materialize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"mimicker/internal/pathutil"
)

// ErrDestinationExists marks an occupied output root used without force.
var ErrDestinationExists = errors.New("destination exists and is not empty")

// Tree is the output root plus the record of paths written this run,
// used to detect same-destination collisions.
type Tree struct {
	root    string
	written map[string]struct{}
}

// Prepare validates the output root and returns a Tree ready for
// copies. A non-empty pre-existing root fails with ErrDestinationExists
// unless force is set; under force the whole existing tree is removed
// before Prepare returns, so no new file is ever written next to old
// content.
func Prepare(root string, force bool) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	switch {
	case err != nil && os.IsNotExist(err):
		// created below
	case err != nil:
		return nil, err
	case !info.IsDir():
		return nil, fmt.Errorf("%s is a file: %w", root, ErrDestinationExists)
	default:
		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			if !force {
				return nil, fmt.Errorf("%s: %w", root, ErrDestinationExists)
			}
			if err := removeTree(abs); err != nil {
				return nil, fmt.Errorf("removing existing output: %w", err)
			}
		}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Tree{root: abs, written: make(map[string]struct{})}, nil
}

// Root returns the absolute output root.
func (t *Tree) Root() string { return t.root }

// Copy places the file at src under relDir/name, creating directories
// as needed. It reports whether an earlier copy to the same relative
// path was overwritten.
func (t *Tree) Copy(relDir []string, name, src string) (overwrote bool, err error) {
	rel := pathutil.File(relDir, name)
	dst := filepath.Join(t.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	if err := copyFile(src, dst); err != nil {
		return false, err
	}
	_, overwrote = t.written[rel]
	t.written[rel] = struct{}{}
	return overwrote, nil
}

// copyFile copies the full content of src to dst and carries the source
// modification time over where the filesystem allows it.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// Best effort; copied bytes matter more than the timestamp.
	_ = os.Chtimes(dst, time.Now(), info.ModTime())
	return nil
}

// removeTree deletes dir and everything under it, failing on the first
// entry that cannot be removed. Explicit recursion instead of
// os.RemoveAll so a partial failure surfaces before any write happens.
func removeTree(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, de := range entries {
		full := filepath.Join(dir, de.Name())
		if de.IsDir() {
			if err := removeTree(full); err != nil {
				return err
			}
			continue
		}
		if err := os.Remove(full); err != nil {
			return err
		}
	}
	return os.Remove(dir)
}
