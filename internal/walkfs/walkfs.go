// Package walkfs provides a deterministic, depth-first walker over the
// preview tree. Files are emitted in lexicographic order within each
// directory; symlinks are followed as their target type, with a visited
// set guarding against link cycles.
package walkfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Entry identifies one regular file by its location under the walk root.
type Entry struct {
	Dir  []string // relative directory segments under the root
	Name string   // file base name, extension included
}

// TraversalError reports a path that could not be traversed.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string { return "traverse " + e.Path + ": " + e.Err.Error() }
func (e *TraversalError) Unwrap() error { return e.Err }

// ErrCycle marks a directory reached twice through symlinks. The walk
// aborts rather than risk looping indefinitely.
var ErrCycle = errors.New("symbolic link cycle")

// VisitFunc receives each regular file found during the walk. The Entry
// is only valid for the duration of the call.
type VisitFunc func(Entry)

// ErrorFunc receives non-fatal traversal errors; the offending subtree
// is skipped and the walk continues. May be nil.
type ErrorFunc func(*TraversalError)

// Walk enumerates the regular files under root depth-first. A symlink
// cycle aborts the walk with a TraversalError wrapping ErrCycle; any
// other unreadable path is reported via onErr and skipped.
func Walk(root string, visit VisitFunc, onErr ErrorFunc) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return &TraversalError{Path: root, Err: err}
	}
	w := &walker{visit: visit, onErr: onErr, seen: make(map[string]struct{})}
	return w.walkDir(abs, nil)
}

type walker struct {
	visit VisitFunc
	onErr ErrorFunc
	seen  map[string]struct{} // resolved directory paths already entered
}

func (w *walker) report(path string, err error) {
	if w.onErr != nil {
		w.onErr(&TraversalError{Path: path, Err: err})
	}
}

func (w *walker) walkDir(dir string, rel []string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.report(dir, err)
		return nil
	}
	if _, ok := w.seen[resolved]; ok {
		return &TraversalError{Path: dir, Err: ErrCycle}
	}
	w.seen[resolved] = struct{}{}

	// os.ReadDir returns entries sorted by name, which fixes the walk order.
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.report(dir, err)
		return nil
	}
	for _, de := range entries {
		full := filepath.Join(dir, de.Name())
		var info fs.FileInfo
		if de.Type()&fs.ModeSymlink != 0 {
			// Stat resolves the link so it is treated as its target type.
			info, err = os.Stat(full)
		} else {
			info, err = de.Info()
		}
		if err != nil {
			w.report(full, err)
			continue
		}
		if info.IsDir() {
			sub := append(rel[:len(rel):len(rel)], de.Name())
			if err := w.walkDir(full, sub); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		w.visit(Entry{Dir: rel, Name: de.Name()})
	}
	return nil
}
