package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Config groups the raw configuration sources loaded at startup
// (spec.md §4.2): a shared stopword list, a per-language keyword list, an
// optional regex blacklist, a per-language extension list, and an ignore
// list for directories/file patterns (consumed by internal/walker, not
// this package, but loaded alongside the rest here since they share a
// preflight pass).
type Config struct {
	Stopwords     []string
	Keywords      []string
	Blacklist     []string
	Extensions    []string
	IgnoreDirs    []string
	IgnoreGlobs   []string
	MaxLineLength int
}

// LoadWordList reads one word per non-empty, non-comment line from path.
// A line starting with '#' is a comment. Preflight (spec.md §4.2) requires
// the file exist and be non-empty when required is true.
func LoadWordList(path string, required bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("filter: opening word list %s: %w", path, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > MaxLineLength {
			return nil, fmt.Errorf("filter: line in %s exceeds max length %d", path, MaxLineLength)
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("filter: reading %s: %w", path, err)
	}
	if required && len(words) == 0 {
		return nil, fmt.Errorf("filter: required word list %s is empty", path)
	}
	return words, nil
}

// Preflight validates that the loaded configuration respects the caps in
// this package and names at least one file extension. It does not open
// files: the exists-and-non-empty check for a required word list is made
// by LoadWordList. Any failure aborts indexing before work begins
// (spec.md §4.2, §7).
func Preflight(cfg *Config) error {
	if err := ValidateCaps(cfg.Stopwords, cfg.Blacklist, cfg.MaxLineLength); err != nil {
		return err
	}
	if err := ValidateCaps(cfg.Keywords, nil, 0); err != nil {
		return err
	}
	if len(cfg.Extensions) == 0 {
		return fmt.Errorf("filter: preflight: no file extensions configured")
	}
	return nil
}

// BuildEngine loads the filter Engine from a Config, running Preflight first.
func BuildEngine(cfg *Config) (*Engine, error) {
	if err := Preflight(cfg); err != nil {
		return nil, err
	}
	return New(cfg.Stopwords, cfg.Keywords, cfg.Blacklist)
}
