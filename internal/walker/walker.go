// Package walker recursively enumerates files matching configured
// extensions, honoring ignore patterns, per spec.md §4.6. The scheduling
// model in spec.md §5 is single-threaded cooperative — unlike the teacher's
// parallel worker-pool FileWalker (termfx-morfx/core/filewalker.go), this
// walker runs synchronously in the calling goroutine, but keeps the
// teacher's doublestar-based glob matching for ignore/include rules.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config controls one Walk call.
type Config struct {
	Roots      []string
	Extensions []string // e.g. []string{".go", ".py"}
	IgnoreDirs []string // plain names or path-shaped fragments
}

// Walk enumerates every file under Config.Roots whose basename ends in one
// of Config.Extensions, skipping directories/files matched by IgnoreDirs,
// and returns a grow-on-demand list of paths (spec.md §4.6). Each path is
// its root joined with the path below it, so it is absolute only when the
// root is; relative roots are not resolved.
func Walk(cfg Config) ([]string, error) {
	var out []string
	for _, root := range cfg.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("walker: stat %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("walker: %s is not a directory", root)
		}
		if err := walkDir(root, root, cfg, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func walkDir(root, dir string, cfg Config, out *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil // skip directories we can't read, per spec.md §4.6
	}
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if isIgnored(root, full, entry.Name(), cfg.IgnoreDirs) {
				continue
			}
			if err := walkDir(root, full, cfg, out); err != nil {
				return err
			}
			continue
		}
		if isIgnored(root, full, entry.Name(), cfg.IgnoreDirs) {
			continue
		}
		if hasExtension(entry.Name(), cfg.Extensions) {
			*out = append(*out, full)
		}
	}
	return nil
}

func hasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isIgnored applies the ignore rules from spec.md §4.6: plain names (no
// "/") match the directory/file basename via glob when wildcards are
// present, else by exact equality; path-shaped names (containing "/")
// match against the accumulated partial path (relative to root), with a
// trailing "/" stripped and glob matching path-separator aware.
func isIgnored(root, full, basename string, patterns []string) bool {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		rel = full
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}
		if strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, rel); matched {
				return true
			}
			if strings.HasPrefix(rel, pattern+"/") || rel == pattern {
				return true
			}
			continue
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := doublestar.Match(pattern, basename); matched {
				return true
			}
		} else if pattern == basename {
			return true
		}
	}
	return false
}
