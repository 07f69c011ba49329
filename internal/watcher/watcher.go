// Package watcher provides event-driven notification of file changes with a
// post-burst debounce window, per spec.md §4.7. It wraps fsnotify, the
// idiomatic Go ecosystem choice for cross-platform filesystem events (no
// teacher repo carries a watcher dependency; fsnotify is the library every
// file-watching example in the retrieval pack reaches for — see
// DESIGN.md's watcher entry).
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Kind is one of the three semantic event kinds spec.md §4.7 collapses
// platform-specific fsnotify ops into.
type Kind int

const (
	Modified Kind = iota
	Created
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	default:
		return "modified"
	}
}

// Event is one deduplicated filesystem change.
type Event struct {
	Path string
	Kind Kind
}

// DebounceWindow is the sliding window spec.md §4.7 requires: after any
// event, wait this long for further events before returning a batch; every
// further event restarts the timer.
const DebounceWindow = 200 * time.Millisecond

// Watcher recursively subscribes to create/modify/delete events for files
// matching configured extensions and batches them behind a debounce window.
type Watcher struct {
	fsw        *fsnotify.Watcher
	extensions map[string]bool
	shutdown   chan struct{}
}

// New creates an uninitialized Watcher. Call AddDirectory before Wait.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:        fsw,
		extensions: make(map[string]bool),
		shutdown:   make(chan struct{}),
	}, nil
}

// AddDirectory recursively subscribes to path for the given extensions.
func (w *Watcher) AddDirectory(path string, extensions []string) error {
	for _, ext := range extensions {
		w.extensions[ext] = true
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(p)
		}
		return nil
	})
}

// Shutdown breaks a blocked Wait call, causing it to return with whatever
// partial batch is available, per spec.md §4.7's graceful-shutdown clause.
func (w *Watcher) Shutdown() {
	close(w.shutdown)
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) matchesExtension(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	for ext := range w.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func classify(op fsnotify.Op) Kind {
	switch {
	case op&fsnotify.Remove != 0:
		return Deleted
	case op&fsnotify.Rename != 0:
		// The old path disappears under rename; fsnotify emits a separate
		// Create for the new path, so renames are treated as deletions of
		// the old path (see SPEC_FULL.md §7 watcher note).
		return Deleted
	case op&fsnotify.Create != 0:
		return Created
	default:
		// Write, Chmod.
		return Modified
	}
}

// Wait blocks for the first event, then opens the 200ms debounce window
// described in spec.md §4.7, restarting the timer on every further event,
// and returns up to max deduplicated-by-path events once the window
// elapses without new activity. A Shutdown call unblocks Wait early with
// whatever partial batch has accumulated.
func (w *Watcher) Wait(max int) ([]Event, error) {
	batch := make(map[string]Event)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.shutdown:
			return dedupedBatch(batch, max), nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return dedupedBatch(batch, max), nil
			}
			_ = err // fsnotify errors are dropped; Wait keeps waiting
			continue

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return dedupedBatch(batch, max), nil
			}
			if !w.matchesExtension(ev.Name) {
				continue
			}
			batch[ev.Name] = Event{Path: ev.Name, Kind: classify(ev.Op)}

			if timer == nil {
				timer = time.NewTimer(DebounceWindow)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(DebounceWindow)
			}
			timerC = timer.C

		case <-timerC:
			return dedupedBatch(batch, max), nil
		}
	}
}

func dedupedBatch(batch map[string]Event, max int) []Event {
	out := make([]Event, 0, len(batch))
	for _, ev := range batch {
		out = append(out, ev)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
