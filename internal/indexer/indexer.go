// Package indexer is the driver that ties internal/walker,
// internal/watcher, internal/lang, internal/filter, and internal/store
// together into the indexer's single-pass and daemon run modes
// (spec.md §4.8, §5). It follows the teacher's cmd/canopy/main.go
// sequencing style (stat targets, open store, run, print a timing
// summary) but adds the daemon loop and signal handling spec.md §5/§6
// require that the teacher's one-shot `canopy index` never needed.
package indexer

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/lang"
	"github.com/jward/codeidx/internal/recordbuf"
	"github.com/jward/codeidx/internal/store"
	"github.com/jward/codeidx/internal/walker"
	"github.com/jward/codeidx/internal/watcher"
)

// Verbosity controls how much diagnostic output the driver emits, per
// spec.md §6's --quiet-init/--silent/--verbose/--debug flags.
type Verbosity int

const (
	Normal Verbosity = iota
	QuietInit
	Silent
	Verbose
	Debug
)

// Options configures one indexer run.
type Options struct {
	Targets     []string // directories, or regular files (not mixed; spec.md §6)
	DBFile      string
	ExcludeDirs []string
	Once        bool
	Echo        string
	Verbosity   Verbosity
}

// Indexer owns the store, filter engine, language registry, and logger for
// one run. It is constructed once per process, mirroring the teacher's
// single-Store-per-process lifecycle (spec.md §5 "Shared-resource policy").
type Indexer struct {
	opts     Options
	store    *store.Store
	filt     *filter.Engine
	registry *lang.Registry
	log      *log.Logger
	buf      recordbuf.Buffer
}

// New opens the store and validates targets, but does not run any pass.
func New(opts Options, filt *filter.Engine, registry *lang.Registry) (*Indexer, error) {
	if len(opts.Targets) == 0 {
		return nil, fmt.Errorf("indexer: no targets given")
	}
	if opts.DBFile == "" {
		opts.DBFile = "code-index.db"
	}

	if err := validateTargets(opts.Targets); err != nil {
		return nil, err
	}

	st, err := store.Open(opts.DBFile)
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr, "[codeidx] ", log.LstdFlags)

	ix := &Indexer{opts: opts, store: st, filt: filt, registry: registry, log: logger}
	ix.buf.Init()
	return ix, nil
}

// Close releases the store.
func (ix *Indexer) Close() error {
	ix.buf.Free()
	return ix.store.Close()
}

// validateTargets enforces spec.md §6: targets are either all directories
// or all regular files, never mixed.
func validateTargets(targets []string) error {
	var sawDir, sawFile bool
	for _, t := range targets {
		info, err := os.Stat(t)
		if err != nil {
			return fmt.Errorf("indexer: target %s: %w", t, err)
		}
		if info.IsDir() {
			sawDir = true
		} else if info.Mode().IsRegular() {
			sawFile = true
		} else {
			return fmt.Errorf("indexer: target %s is neither a directory nor a regular file", t)
		}
		if sawDir && sawFile {
			return fmt.Errorf("indexer: targets must be all directories or all regular files, not mixed")
		}
	}
	return nil
}

// Run executes either a single pass (Options.Once) or the daemon loop
// (initial pass, then watch-and-reindex until a signal arrives), per
// spec.md §4.8.
func (ix *Indexer) Run() error {
	if ix.opts.Echo != "" {
		fmt.Println(ix.opts.Echo)
	}

	start := time.Now()
	n, err := ix.runInitialPass()
	if err != nil {
		return err
	}
	if ix.opts.Verbosity != Silent && ix.opts.Verbosity != QuietInit {
		ix.log.Printf("indexed %d file(s) in %s", n, time.Since(start).Round(time.Millisecond))
	}

	if ix.opts.Once {
		return nil
	}
	return ix.runDaemonLoop()
}

// runInitialPass walks every target and reindexes each matched file, per
// spec.md §4.6/§4.8.
func (ix *Indexer) runInitialPass() (int, error) {
	files, roots, err := ix.enumerateTargets()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, f := range files {
		root := rootFor(f, roots)
		if err := ix.reindexFile(f, root); err != nil {
			ix.log.Printf("skipping %s: %v", f, err)
			continue
		}
		count++
	}
	return count, nil
}

// enumerateTargets walks directory targets via internal/walker, or treats
// file targets as the list directly (spec.md §6's target mode).
func (ix *Indexer) enumerateTargets() (files []string, roots []string, err error) {
	info, err := os.Stat(ix.opts.Targets[0])
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return ix.opts.Targets, []string{"."}, nil
	}

	files, err = walker.Walk(walker.Config{
		Roots:      ix.opts.Targets,
		Extensions: ix.registry.Extensions(),
		IgnoreDirs: ix.opts.ExcludeDirs,
	})
	if err != nil {
		return nil, nil, err
	}
	return files, ix.opts.Targets, nil
}

// rootFor returns the target root that contains path, so relative
// directory/filename pairs are computed consistently whether indexing
// started from a single root or several.
func rootFor(path string, roots []string) string {
	for _, root := range roots {
		if rel, err := filepath.Rel(root, path); err == nil && !isOutsideRoot(rel) {
			return root
		}
	}
	return filepath.Dir(path)
}

func isOutsideRoot(rel string) bool {
	return len(rel) >= 2 && rel[:2] == ".."
}

// reindexFile parses one file and replaces its records, delete-then-insert
// inside a single transaction, per spec.md §5's ordering guarantee.
func (ix *Indexer) reindexFile(path, root string) error {
	v, ok := ix.registry.For(path)
	if !ok {
		return fmt.Errorf("no visitor registered for %s", filepath.Ext(path))
	}

	ix.buf.Reset()
	if err := v.ParseFile(path, root, &ix.buf, ix.filt); err != nil {
		return err
	}

	directory, filename := lang.RelDirFile(path, root)

	tx, err := ix.store.Begin()
	if err != nil {
		return err
	}
	if err := tx.DeleteByFile(directory, filename); err != nil {
		tx.Rollback()
		return err
	}
	for _, r := range ix.buf.Records() {
		if err := tx.Insert(r); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if ix.opts.Verbosity == Debug {
		ix.log.Printf("reindexed %s/%s: %d record(s)", directory, filename, ix.buf.Len())
	}
	return nil
}

// runDaemonLoop watches every directory target for changes and reindexes
// affected files until SIGINT/SIGTERM arrives, per spec.md §4.7/§5's
// cancellation contract: the next watcher return unblocks the loop, any
// open transaction commits, and the process exits cleanly.
func (ix *Indexer) runDaemonLoop() error {
	w, err := watcher.New()
	if err != nil {
		return fmt.Errorf("indexer: starting watcher: %w", err)
	}
	defer w.Close()

	for _, root := range ix.opts.Targets {
		if err := w.AddDirectory(root, ix.registry.Extensions()); err != nil {
			return fmt.Errorf("indexer: watching %s: %w", root, err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		ix.log.Printf("shutdown signal received, finishing current batch")
		w.Shutdown()
	}()

	for {
		events, err := w.Wait(0)
		if err != nil {
			return fmt.Errorf("indexer: watch: %w", err)
		}
		if len(events) == 0 {
			return nil // Shutdown() unblocked Wait with nothing pending.
		}

		for _, ev := range events {
			root := rootFor(ev.Path, ix.opts.Targets)
			if ev.Kind == watcher.Deleted {
				directory, filename := lang.RelDirFile(ev.Path, root)
				if err := ix.deleteFile(directory, filename); err != nil {
					ix.log.Printf("deleting %s: %v", ev.Path, err)
				}
				continue
			}
			if err := ix.reindexFile(ev.Path, root); err != nil {
				ix.log.Printf("reindexing %s: %v", ev.Path, err)
			}
		}
		if ix.opts.Verbosity != Silent {
			ix.log.Printf("processed %d change(s)", len(events))
		}
	}
}

func (ix *Indexer) deleteFile(directory, filename string) error {
	tx, err := ix.store.Begin()
	if err != nil {
		return err
	}
	if err := tx.DeleteByFile(directory, filename); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
