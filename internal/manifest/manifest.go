// Package manifest writes a CSV inventory of the files copied into the
// mirrored tree. Capture dates come from EXIF metadata when a file
// carries it, otherwise from the source modification time.
package manifest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// FileName is the manifest's name inside the output root.
const FileName = "manifest.csv"

// Row describes one copied file.
type Row struct {
	RelPath string // path relative to the output root, forward slashes
	Source  string // absolute path of the high-quality source
}

var header = []string{
	"filename",
	"relative_path",
	"source_file",
	"file_size_bytes",
	"capture_date",
	"extension",
	"copied_date",
}

const timeLayout = "2006-01-02 15:04:05"

// Write renders rows sorted by relative path into <root>/manifest.csv.
// The file is written to a temp name and renamed so readers never see a
// partial manifest.
func Write(root string, rows []Row) error {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RelPath < sorted[j].RelPath })

	tmp, err := os.CreateTemp(root, ".manifest-*.csv")
	if err != nil {
		return err
	}
	name := tmp.Name()
	w := csv.NewWriter(tmp)
	w.Write(header)
	now := time.Now().Format(timeLayout)
	for i, r := range sorted {
		// On a same-path overwrite only the last copy survives on disk.
		if i+1 < len(sorted) && sorted[i+1].RelPath == r.RelPath {
			continue
		}
		full := filepath.Join(root, filepath.FromSlash(r.RelPath))
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		w.Write([]string{
			filepath.Base(r.RelPath),
			r.RelPath,
			r.Source,
			strconv.FormatInt(info.Size(), 10),
			captureDate(full, info.ModTime()).Format(timeLayout),
			strings.ToLower(filepath.Ext(r.RelPath)),
			now,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, filepath.Join(root, FileName))
}

// captureDate prefers EXIF DateTimeOriginal and falls back to mtime.
func captureDate(path string, fallback time.Time) time.Time {
	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()
	x, err := exif.Decode(f)
	if err != nil {
		return fallback
	}
	if t, err := x.DateTime(); err == nil {
		return t
	}
	return fallback
}
