package walkfs

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mimicker/internal/pathutil"
)

func writeFile(t *testing.T, root string, rel string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(rel), 0o644); err != nil {
		t.Fatal(err)
	}
}

func collect(t *testing.T, root string) []string {
	t.Helper()
	var got []string
	err := Walk(root, func(e Entry) {
		got = append(got, pathutil.File(e.Dir, e.Name))
	}, nil)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return got
}

func TestWalkDeterministicDepthFirst(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"b/z.jpg", "b/a.jpg", "a/sel/x.jpg", "top.jpg", ".hidden.jpg"} {
		writeFile(t, root, rel)
	}
	want := []string{".hidden.jpg", "a/sel/x.jpg", "b/a.jpg", "b/z.jpg", "top.jpg"}
	got := collect(t, root)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch:\n got %v\nwant %v", got, want)
	}
	// Same inputs, same order.
	if again := collect(t, root); !reflect.DeepEqual(again, got) {
		t.Fatalf("walk not deterministic: %v vs %v", again, got)
	}
}

func TestWalkEmitsDirSegments(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "trip/sel/a.jpg")
	var entries []Entry
	if err := Walk(root, func(e Entry) {
		entries = append(entries, Entry{Dir: append([]string(nil), e.Dir...), Name: e.Name})
	}, nil); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries=%d", len(entries))
	}
	if !reflect.DeepEqual(entries[0].Dir, []string{"trip", "sel"}) || entries[0].Name != "a.jpg" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestWalkSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "trip/a.jpg")
	if err := os.Symlink(filepath.Join(root, "trip"), filepath.Join(root, "trip", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	err := Walk(root, func(Entry) {}, nil)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	var te *TraversalError
	if !errors.As(err, &te) {
		t.Fatalf("expected TraversalError, got %T", err)
	}
}

func TestWalkSymlinkToFileIsEmitted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pool/orig.jpg")
	if err := os.Symlink(filepath.Join(root, "pool", "orig.jpg"), filepath.Join(root, "link.jpg")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	got := collect(t, root)
	want := []string{"link.jpg", "pool/orig.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWalkDanglingSymlinkReported(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg")
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	var reported int
	var got []string
	err := Walk(root, func(e Entry) {
		got = append(got, pathutil.File(e.Dir, e.Name))
	}, func(*TraversalError) { reported++ })
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if reported != 1 {
		t.Fatalf("reported=%d", reported)
	}
	if !reflect.DeepEqual(got, []string{"a.jpg"}) {
		t.Fatalf("got %v", got)
	}
}
