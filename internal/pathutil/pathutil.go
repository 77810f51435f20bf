// Package pathutil treats tree-relative paths as ordered segment slices
// joined with forward slashes, so the rest of the tool never concatenates
// raw strings across platform separators.
package pathutil

import (
	"path"
	"sort"
)

// File joins a directory's segments and a file name into a slash-separated
// relative path. An empty dir yields the bare file name.
func File(dir []string, name string) string {
	if len(dir) == 0 {
		return name
	}
	return path.Join(path.Join(dir...), name)
}

// StableSort returns a new slice containing the input paths sorted
// lexicographically. The original slice is not modified.
func StableSort(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}

// SortedUnique returns the input paths sorted lexicographically with
// duplicates removed. The original slice is not modified.
func SortedUnique(paths []string) []string {
	out := StableSort(paths)
	n := 0
	for i, p := range out {
		if i > 0 && p == out[n-1] {
			continue
		}
		out[n] = p
		n++
	}
	return out[:n]
}
