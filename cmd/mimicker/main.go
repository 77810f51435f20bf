// Package main provides the mimicker CLI: it mirrors a manually curated
// preview tree using the high-quality originals from a flat directory,
// matching files by name stem.
//
// Usage:
//
//	mimicker [flags] <prev_dir> <hq_flat_dir> <hq_struct_dir>
//
// Key design goals:
//   - Deterministic output (sorted walk, stable duplicate-stem policy)
//   - No destination mutation before validation; force removal is
//     all-or-nothing
//   - Per-file misses and copy failures never abort the run
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mimicker/internal/config"
	"mimicker/internal/materialize"
	"mimicker/internal/mirror"
	"mimicker/internal/pathutil"
	"mimicker/internal/plandiff"
)

// Config holds the parsed CLI surface.
type Config struct {
	prevDir    string
	flatDir    string
	structDir  string
	configPath string

	selOnly    bool
	levelUpSel bool
	topLevel   bool
	addPrefix  bool
	dryRun     bool
	manifest   bool
	verbose    bool
	force      bool

	set map[string]bool // flag names given explicitly
}

// explicit reports whether the long or short form of a flag was passed.
func (c Config) explicit(names ...string) bool {
	for _, n := range names {
		if c.set[n] {
			return true
		}
	}
	return false
}

func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("mimicker", flag.ContinueOnError)
	fs.Usage = func() {
		name := filepath.Base(os.Args[0])
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags] <prev_dir> <hq_flat_dir> <hq_struct_dir>\n\nFlags:\n", name)
		fs.PrintDefaults()
	}

	selOnly := fs.Bool("sel-only", false, "keep only content of sel/selected subdirectories")
	s := fs.Bool("s", false, "short for -sel-only")
	levelUp := fs.Bool("level-up-sel", false, "move content of sel folders one level up")
	l := fs.Bool("l", false, "short for -level-up-sel")
	topLevel := fs.Bool("top-level", false, "move all files to the output root")
	t := fs.Bool("t", false, "short for -top-level")
	prefix := fs.Bool("prefix", false, "add the event directory as a filename prefix")
	p := fs.Bool("p", false, "short for -prefix")
	dry := fs.Bool("dry", false, "dry-run: print the planned tree diff, write nothing")
	n := fs.Bool("n", false, "short for -dry")
	man := fs.Bool("manifest", false, "write manifest.csv into the output root")
	m := fs.Bool("m", false, "short for -manifest")
	verbose := fs.Bool("verbose", false, "log every per-entry decision")
	v := fs.Bool("v", false, "short for -verbose")
	force := fs.Bool("force", false, "remove a pre-existing output directory first")
	f := fs.Bool("f", false, "short for -force")
	cfgPath := fs.String("config", "", "YAML file with default run options (flags override)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() != 3 {
		return Config{}, fmt.Errorf("expected <prev_dir> <hq_flat_dir> <hq_struct_dir>, got %d arguments", fs.NArg())
	}

	cfg := Config{
		prevDir:    filepath.Clean(fs.Arg(0)),
		flatDir:    filepath.Clean(fs.Arg(1)),
		structDir:  filepath.Clean(fs.Arg(2)),
		configPath: *cfgPath,
		selOnly:    *selOnly || *s,
		levelUpSel: *levelUp || *l,
		topLevel:   *topLevel || *t,
		addPrefix:  *prefix || *p,
		dryRun:     *dry || *n,
		manifest:   *man || *m,
		verbose:    *verbose || *v,
		force:      *force || *f,
		set:        make(map[string]bool),
	}
	fs.Visit(func(fl *flag.Flag) { cfg.set[fl.Name] = true })
	return cfg, nil
}

// buildOptions turns the CLI surface into run options, overlaying the
// optional config file. File values apply only where no flag was given.
// The second result is the effective verbose setting.
func buildOptions(cfg Config) (mirror.Options, bool, error) {
	o := mirror.Options{
		PrevDir:    cfg.prevDir,
		FlatDir:    cfg.flatDir,
		StructDir:  cfg.structDir,
		SelOnly:    cfg.selOnly,
		LevelUpSel: cfg.levelUpSel,
		TopLevel:   cfg.topLevel,
		AddPrefix:  cfg.addPrefix,
		DryRun:     cfg.dryRun,
		Manifest:   cfg.manifest,
		Force:      cfg.force,
	}
	verbose := cfg.verbose
	if cfg.configPath == "" {
		return o, verbose, nil
	}
	file, err := config.Load(cfg.configPath)
	if err != nil {
		return o, verbose, err
	}
	overlay := func(dst *bool, val *bool, names ...string) {
		if val != nil && !cfg.explicit(names...) {
			*dst = *val
		}
	}
	overlay(&o.SelOnly, file.SelOnly, "sel-only", "s")
	overlay(&o.LevelUpSel, file.LevelUpSel, "level-up-sel", "l")
	overlay(&o.TopLevel, file.MoveToTopLevel, "top-level", "t")
	overlay(&o.AddPrefix, file.AddPrefix, "prefix", "p")
	overlay(&o.Manifest, file.Manifest, "manifest", "m")
	overlay(&o.Force, file.Force, "force", "f")
	overlay(&verbose, file.Verbose, "verbose", "v")
	return o, verbose, nil
}

// exitCode maps a fatal run error to the process exit code: 1 for
// invalid input or an occupied destination, 2 for a run aborted mid-way.
func exitCode(err error) int {
	if errors.Is(err, mirror.ErrInvalidInput) || errors.Is(err, materialize.ErrDestinationExists) {
		return 1
	}
	return 2
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}

	opts, verbose, err := buildOptions(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sum, err := mirror.Run(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(exitCode(err))
	}

	if opts.DryRun {
		printPlan(opts.StructDir, sum)
		return
	}
	fmt.Printf(
		"Mirrored %d files (included=%d, excluded=%d, unresolved=%d, overwritten=%d, failed=%d)\n",
		sum.Copied, sum.Included, sum.Excluded, sum.Unresolved, sum.Overwritten, sum.Failed,
	)
}

// printPlan shows the dry-run diff between the destination's current
// listing and the planned one.
func printPlan(structDir string, sum *mirror.Summary) {
	existing, err := plandiff.ListTree(structDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	var planned []string
	for _, oc := range sum.Outcomes {
		if oc.Status == mirror.StatusPlanned {
			planned = append(planned, oc.OutputPath)
		}
	}
	planned = pathutil.SortedUnique(planned)
	diff, err := plandiff.Unified(existing, planned)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	if diff == "" {
		fmt.Println("Destination already matches the plan.")
	} else {
		fmt.Print(diff)
	}
	fmt.Printf(
		"[dry-run] would copy %d files (included=%d, excluded=%d, unresolved=%d)\n",
		len(planned), sum.Included, sum.Excluded, sum.Unresolved,
	)
}
