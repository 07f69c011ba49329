// Package config implements the ambient configuration layer SPEC_FULL.md
// §4.0.2 describes: a hand-rolled INI-like reader for $HOME/.smconfig
// (sections [ic] and [qi]), CLI-flag-suppresses-config-line merging per
// spec.md §4.8/§6, and the $INDEXER_DATA_DIR search-path override. There is
// no config library in the dependency tree for this concern, mirroring
// mvp-joe-canopy's own hand-rolled internal/config package (see
// DESIGN.md's configuration entry).
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the parsed contents of $HOME/.smconfig: a map from section
// name ("ic", "qi") to its raw, non-empty, non-comment lines in file order.
type Config struct {
	Sections map[string][]string
}

// ConfigPath returns $HOME/.smconfig, the fixed config file location
// spec.md §6 names.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolving home directory: %w", err)
	}
	return filepath.Join(home, ".smconfig"), nil
}

// Load reads path, returning an empty Config (not an error) if the file
// does not exist — the config file is optional, per spec.md §7's
// "missing... config file" being a soft failure unless preflight demands
// otherwise.
func Load(path string) (*Config, error) {
	cfg := &Config{Sections: make(map[string][]string)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	current := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}
		if current == "" {
			continue
		}
		cfg.Sections[current] = append(cfg.Sections[current], line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return cfg, nil
}

// MergeArgs implements the CLI-flag-suppresses-config-line precedence rule
// (spec.md §4.8, §6): each config line is whitespace-tokenized; its tokens
// are prepended to argv unless argv already contains that line's leading
// flag token.
func (c *Config) MergeArgs(section string, argv []string) []string {
	present := make(map[string]bool, len(argv))
	for _, a := range argv {
		if strings.HasPrefix(a, "-") {
			present[a] = true
		}
	}

	var prepend []string
	for _, line := range c.Sections[section] {
		tokens := strings.Fields(line)
		if len(tokens) == 0 || present[tokens[0]] {
			continue
		}
		prepend = append(prepend, tokens...)
	}
	return append(prepend, argv...)
}

// DataDir resolves the store data directory search order from spec.md §6:
// $INDEXER_DATA_DIR, then "./<lang>/data" if it exists, then a platform
// install directory.
func DataDir(lang string) string {
	if v := os.Getenv("INDEXER_DATA_DIR"); v != "" {
		return v
	}
	local := filepath.Join(".", lang, "data")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "codeidx")
	}
	return local
}

// columnsPreset is the shape of a YAML --columns preset file: a named list
// of column names to pass through to internal/printer.Options.Columns.
type columnsPreset struct {
	Columns []string `yaml:"columns"`
}

// LoadColumnsPreset reads a YAML file naming a display-column list for
// --columns (SPEC_FULL.md §5's yaml.v3 wiring), e.g.:
//
//	columns:
//	  - symbol
//	  - context
//	  - line
func LoadColumnsPreset(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading columns preset %s: %w", path, err)
	}
	var preset columnsPreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("config: parsing columns preset %s: %w", path, err)
	}
	if len(preset.Columns) == 0 {
		return nil, fmt.Errorf("config: columns preset %s names no columns", path)
	}
	return preset.Columns, nil
}
