// Package flatpool indexes the flat directory of high-quality files by
// name stem, so preview files can be matched regardless of extension
// and letter case.
package flatpool

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Index maps normalized file stems to the absolute path of the
// high-quality file carrying them. Built once per run, read-only after.
type Index struct {
	byStem map[string]string
}

// Stem returns the lowercased file name with its extension removed.
func Stem(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

// Build scans dir (non-recursive) and indexes every regular file by
// stem. When two files share a stem, the lexicographically smallest
// base name wins; os.ReadDir's name ordering makes the first occurrence
// that file.
func Build(dir string) (*Index, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("scanning flat pool: %w", err)
	}
	ix := &Index{byStem: make(map[string]string, len(entries))}
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		if de.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(abs, de.Name()))
			if err != nil || info.IsDir() {
				continue
			}
		}
		key := Stem(de.Name())
		if _, dup := ix.byStem[key]; dup {
			continue
		}
		ix.byStem[key] = filepath.Join(abs, de.Name())
	}
	return ix, nil
}

// Lookup resolves a preview file name to its high-quality counterpart.
// The preview's own extension is ignored; matching is by stem only.
func (ix *Index) Lookup(previewName string) (string, bool) {
	p, ok := ix.byStem[Stem(previewName)]
	return p, ok
}

// Len reports how many distinct stems the index holds.
func (ix *Index) Len() int { return len(ix.byStem) }
