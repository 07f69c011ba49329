package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/registry"
)

func writeSampleGoFile(t *testing.T, dir string) string {
	t.Helper()
	content := "package sample\n\nfunc Greet(name string) string {\n\treturn \"hi \" + name\n}\n"
	path := filepath.Join(dir, "greet.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestIndexer(t *testing.T, opts Options) *Indexer {
	t.Helper()
	filt, err := filter.New(nil, nil, nil)
	require.NoError(t, err)
	ix, err := New(opts, filt, registry.Build())
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestRunOnceIndexesTargetDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSampleGoFile(t, dir)
	dbPath := filepath.Join(t.TempDir(), "code-index.db")

	ix := newTestIndexer(t, Options{Targets: []string{dir}, DBFile: dbPath, Once: true})
	require.NoError(t, ix.Run())

	var n int
	require.NoError(t, ix.store.DB().QueryRow(
		"SELECT COUNT(*) FROM records WHERE symbol = ? AND context = 'function'", "greet",
	).Scan(&n))
	require.Equal(t, 1, n)
}

func TestReindexFileReplacesStaleRecords(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleGoFile(t, dir)
	dbPath := filepath.Join(t.TempDir(), "code-index.db")

	ix := newTestIndexer(t, Options{Targets: []string{dir}, DBFile: dbPath, Once: true})
	require.NoError(t, ix.Run())

	content := "package sample\n\nfunc Renamed(name string) string {\n\treturn name\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, ix.reindexFile(path, dir))

	var oldCount, newCount int
	require.NoError(t, ix.store.DB().QueryRow(
		"SELECT COUNT(*) FROM records WHERE symbol = 'greet'").Scan(&oldCount))
	require.NoError(t, ix.store.DB().QueryRow(
		"SELECT COUNT(*) FROM records WHERE symbol = 'renamed'").Scan(&newCount))
	require.Equal(t, 0, oldCount)
	require.Equal(t, 1, newCount)
}

func TestValidateTargetsRejectsMixedDirAndFile(t *testing.T) {
	dir := t.TempDir()
	file := writeSampleGoFile(t, dir)
	err := validateTargets([]string{dir, file})
	require.Error(t, err)
}

func TestNewRejectsEmptyTargets(t *testing.T) {
	filt, err := filter.New(nil, nil, nil)
	require.NoError(t, err)
	_, err = New(Options{}, filt, registry.Build())
	require.Error(t, err)
}
