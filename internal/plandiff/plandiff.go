// Package plandiff renders output-tree listings and the unified diff
// between the destination's current and planned state, used by dry-run.
package plandiff

import (
	"os"

	difflib "github.com/pmezard/go-difflib/difflib"

	"mimicker/internal/pathutil"
	"mimicker/internal/walkfs"
)

// ListTree returns the sorted relative paths of all regular files under
// root. A missing root yields an empty listing.
func ListTree(root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}
	var out []string
	err := walkfs.Walk(root, func(e walkfs.Entry) {
		out = append(out, pathutil.File(e.Dir, e.Name))
	}, nil)
	if err != nil {
		return nil, err
	}
	return pathutil.StableSort(out), nil
}

// Unified produces a classic unified diff between the existing and
// planned listings. An empty string means the tree is already in the
// planned shape.
func Unified(existing, planned []string) (string, error) {
	u := difflib.UnifiedDiff{
		A:        withNewlines(existing),
		B:        withNewlines(planned),
		FromFile: "existing",
		ToFile:   "planned",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(u)
}

// withNewlines appends the newline difflib expects on each element.
func withNewlines(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p + "\n"
	}
	return out
}
