package materialize

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSrc(t *testing.T, dir, name, content string) string {
	t.Helper()
	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}

func TestPrepareCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	tree, err := Prepare(root, false)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	info, err := os.Stat(tree.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestPrepareEmptyExistingRootOK(t *testing.T) {
	root := t.TempDir()
	if _, err := Prepare(root, false); err != nil {
		t.Fatalf("Prepare on empty dir: %v", err)
	}
}

func TestPrepareNonEmptyWithoutForce(t *testing.T) {
	root := t.TempDir()
	old := writeSrc(t, root, "old.txt", "old")
	_, err := Prepare(root, false)
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	// Existing tree untouched.
	if _, err := os.Stat(old); err != nil {
		t.Fatalf("existing file removed: %v", err)
	}
}

func TestPrepareForceRemovesWholeTree(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "nested", "deep"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeSrc(t, filepath.Join(root, "nested", "deep"), "old.txt", "old")
	tree, err := Prepare(root, true)
	if err != nil {
		t.Fatalf("Prepare force: %v", err)
	}
	entries, err := os.ReadDir(tree.Root())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("root not emptied: %v", entries)
	}
}

func TestPrepareRootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := writeSrc(t, dir, "occupied", "x")
	if _, err := Prepare(file, false); !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
}

func TestCopyCreatesDirsAndContent(t *testing.T) {
	src := writeSrc(t, t.TempDir(), "a.png", "hq bytes")
	tree, err := Prepare(filepath.Join(t.TempDir(), "out"), false)
	if err != nil {
		t.Fatal(err)
	}
	overwrote, err := tree.Copy([]string{"trip", "day1"}, "a.png", src)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if overwrote {
		t.Fatalf("first copy reported overwrite")
	}
	got, err := os.ReadFile(filepath.Join(tree.Root(), "trip", "day1", "a.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "hq bytes" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestCopyPreservesModTime(t *testing.T) {
	srcDir := t.TempDir()
	src := writeSrc(t, srcDir, "a.png", "x")
	want := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, want, want); err != nil {
		t.Fatal(err)
	}
	tree, err := Prepare(filepath.Join(t.TempDir(), "out"), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tree.Copy(nil, "a.png", src); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	info, err := os.Stat(filepath.Join(tree.Root(), "a.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(want) {
		t.Fatalf("mtime got %v want %v", info.ModTime(), want)
	}
}

func TestCopyReportsOverwrite(t *testing.T) {
	srcDir := t.TempDir()
	first := writeSrc(t, srcDir, "a.png", "first")
	second := writeSrc(t, srcDir, "b.png", "second")
	tree, err := Prepare(filepath.Join(t.TempDir(), "out"), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tree.Copy([]string{"trip"}, "a.png", first); err != nil {
		t.Fatal(err)
	}
	overwrote, err := tree.Copy([]string{"trip"}, "a.png", second)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if !overwrote {
		t.Fatalf("second copy should report overwrite")
	}
	got, _ := os.ReadFile(filepath.Join(tree.Root(), "trip", "a.png"))
	if string(got) != "second" {
		t.Fatalf("last write should win, got %q", got)
	}
}

func TestCopyMissingSource(t *testing.T) {
	tree, err := Prepare(filepath.Join(t.TempDir(), "out"), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tree.Copy(nil, "a.png", filepath.Join(t.TempDir(), "gone.png")); err == nil {
		t.Fatalf("expected error for vanished source")
	}
}
