package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".smconfig")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileIsEmptyNotError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, cfg.Sections)
}

func TestLoadParsesSectionsAndSkipsComments(t *testing.T) {
	path := writeConfig(t, "# comment\n[ic]\n--exclude-dir vendor node_modules\n--verbose\n\n[qi]\n--compact\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"--exclude-dir vendor node_modules", "--verbose"}, cfg.Sections["ic"])
	require.Equal(t, []string{"--compact"}, cfg.Sections["qi"])
}

func TestMergeArgsPrependsConfigLinesNotOnCLI(t *testing.T) {
	cfg := &Config{Sections: map[string][]string{
		"ic": {"--exclude-dir vendor", "--verbose"},
	}}
	argv := cfg.MergeArgs("ic", []string{"targets/"})
	require.Equal(t, []string{"--exclude-dir", "vendor", "--verbose", "targets/"}, argv)
}

func TestMergeArgsSuppressesConfigLineAlreadyOnCLI(t *testing.T) {
	cfg := &Config{Sections: map[string][]string{
		"ic": {"--exclude-dir vendor", "--verbose"},
	}}
	argv := cfg.MergeArgs("ic", []string{"--verbose", "targets/"})
	require.Equal(t, []string{"--exclude-dir", "vendor", "--verbose", "targets/"}, argv)
}

func TestDataDirPrefersEnvOverride(t *testing.T) {
	t.Setenv("INDEXER_DATA_DIR", "/custom/data")
	require.Equal(t, "/custom/data", DataDir("go"))
}

func TestLoadColumnsPresetParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  - symbol\n  - context\n  - line\n"), 0o644))
	cols, err := LoadColumnsPreset(path)
	require.NoError(t, err)
	require.Equal(t, []string{"symbol", "context", "line"}, cols)
}

func TestLoadColumnsPresetRejectsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns: []\n"), 0o644))
	_, err := LoadColumnsPreset(path)
	require.Error(t, err)
}

func TestConfigPathJoinsHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	path, err := ConfigPath()
	require.NoError(t, err)
	require.Equal(t, "/home/tester/.smconfig", path)
}
