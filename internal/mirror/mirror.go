// Package mirror reconstructs a curated preview tree using the
// high-quality originals from a flat pool: walk the previews, decide
// inclusion and output shape per the selection policy, resolve each
// preview to its high-quality counterpart by stem, and copy it into the
// mirrored structure.
package mirror

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mimicker/internal/flatpool"
	"mimicker/internal/manifest"
	"mimicker/internal/materialize"
	"mimicker/internal/pathutil"
	"mimicker/internal/selection"
	"mimicker/internal/walkfs"
)

// ErrInvalidInput marks a required root path that is missing or not a
// directory. Surfaced before any filesystem mutation.
var ErrInvalidInput = errors.New("invalid input directory")

// Options configures a run.
type Options struct {
	PrevDir   string // structured preview tree, read-only
	FlatDir   string // flat high-quality pool, read-only
	StructDir string // output root, created if absent

	SelOnly    bool // keep only entries under sel/selected directories
	LevelUpSel bool // strip marker directories from output paths
	TopLevel   bool // collapse all output paths to the root
	AddPrefix  bool // prefix file names with their event directory

	Force    bool // remove a pre-existing output tree first
	DryRun   bool // plan only, write nothing
	Manifest bool // write manifest.csv into the output root

	// Logger for per-entry decisions (debug) and warnings.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Status classifies what happened to one preview entry.
type Status string

const (
	StatusExcluded    Status = "excluded"
	StatusUnresolved  Status = "unresolved"
	StatusPlanned     Status = "planned"
	StatusCopied      Status = "copied"
	StatusOverwritten Status = "overwritten"
	StatusFailed      Status = "failed"
)

// Outcome records the decision and result for a single preview entry.
type Outcome struct {
	PreviewPath string // preview-relative path
	OutputPath  string // output-relative path, "" when excluded/unresolved
	Source      string // resolved high-quality path, "" when unresolved
	Status      Status
	Err         error // set only for StatusFailed
}

// Summary aggregates the counters and per-entry outcomes of one run.
type Summary struct {
	Included    int
	Excluded    int
	Resolved    int
	Unresolved  int
	Copied      int
	Failed      int
	Overwritten int
	SkippedDirs int // subtrees dropped on traversal errors

	Outcomes []Outcome
}

// action is one planned copy, produced by the walk and consumed by
// materialization (or reported as-is under dry-run).
type action struct {
	prevRel string
	outDir  []string
	name    string
	src     string
}

// Run executes the mirroring pipeline and returns its summary. Fatal
// conditions (bad inputs, occupied destination without force, symlink
// cycles, failed force removal) return an error; per-file misses and
// copy failures are carried in the summary instead.
func Run(o Options) (*Summary, error) {
	o.defaults()
	log := o.Logger

	if err := checkInputDir(o.PrevDir); err != nil {
		return nil, err
	}
	if err := checkInputDir(o.FlatDir); err != nil {
		return nil, err
	}

	pool, err := flatpool.Build(o.FlatDir)
	if err != nil {
		return nil, err
	}
	log.Debug("flat pool indexed", "dir", o.FlatDir, "stems", pool.Len())

	pol := selection.Policy{
		SelOnly:    o.SelOnly,
		LevelUpSel: o.LevelUpSel,
		TopLevel:   o.TopLevel,
		AddPrefix:  o.AddPrefix,
	}

	sum := &Summary{}
	var acts []action
	err = walkfs.Walk(o.PrevDir, func(e walkfs.Entry) {
		prevRel := pathutil.File(e.Dir, e.Name)
		d := pol.Decide(e.Dir)
		if !d.Include {
			sum.Excluded++
			sum.Outcomes = append(sum.Outcomes, Outcome{PreviewPath: prevRel, Status: StatusExcluded})
			log.Debug("excluded", "path", prevRel)
			return
		}
		sum.Included++
		src, ok := pool.Lookup(e.Name)
		if !ok {
			sum.Unresolved++
			sum.Outcomes = append(sum.Outcomes, Outcome{PreviewPath: prevRel, Status: StatusUnresolved})
			log.Warn("no high-quality match", "path", prevRel)
			return
		}
		sum.Resolved++
		name := d.Prefix + filepath.Base(src)
		acts = append(acts, action{prevRel: prevRel, outDir: d.OutDir, name: name, src: src})
	}, func(te *walkfs.TraversalError) {
		sum.SkippedDirs++
		log.Warn("skipping unreadable path", "path", te.Path, "err", te.Err)
	})
	if err != nil {
		return sum, err
	}

	if o.DryRun {
		for _, a := range acts {
			outRel := pathutil.File(a.outDir, a.name)
			sum.Outcomes = append(sum.Outcomes, Outcome{
				PreviewPath: a.prevRel,
				OutputPath:  outRel,
				Source:      a.src,
				Status:      StatusPlanned,
			})
			log.Debug("would copy", "from", a.src, "to", outRel)
		}
		return sum, nil
	}

	tree, err := materialize.Prepare(o.StructDir, o.Force)
	if err != nil {
		return sum, err
	}
	var rows []manifest.Row
	for _, a := range acts {
		outRel := pathutil.File(a.outDir, a.name)
		overwrote, err := tree.Copy(a.outDir, a.name, a.src)
		if err != nil {
			sum.Failed++
			sum.Outcomes = append(sum.Outcomes, Outcome{
				PreviewPath: a.prevRel,
				OutputPath:  outRel,
				Source:      a.src,
				Status:      StatusFailed,
				Err:         err,
			})
			log.Warn("copy failed", "path", outRel, "err", err)
			continue
		}
		sum.Copied++
		st := StatusCopied
		if overwrote {
			sum.Overwritten++
			st = StatusOverwritten
			log.Warn("overwrote earlier file", "path", outRel)
		}
		sum.Outcomes = append(sum.Outcomes, Outcome{
			PreviewPath: a.prevRel,
			OutputPath:  outRel,
			Source:      a.src,
			Status:      st,
		})
		rows = append(rows, manifest.Row{RelPath: outRel, Source: a.src})
		log.Debug("copied", "from", a.src, "to", outRel)
	}

	if o.Manifest && len(rows) > 0 {
		if err := manifest.Write(tree.Root(), rows); err != nil {
			log.Warn("writing manifest", "err", err)
		}
	}
	return sum, nil
}

// checkInputDir verifies path exists and is a directory.
func checkInputDir(path string) error {
	if path == "" {
		return fmt.Errorf("empty path: %w", ErrInvalidInput)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrInvalidInput)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", path, ErrInvalidInput)
	}
	return nil
}
