package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildIndexBinary(t *testing.T, root string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "codeidx-index")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = filepath.Join(root, "cmd", "codeidx-index")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build codeidx-index failed: %s", string(out))
	return bin
}

func buildQueryBinary(t *testing.T, root string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "codeidx-query")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = filepath.Join(root, "cmd", "codeidx-query")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build codeidx-query failed: %s", string(out))
	return bin
}

func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found above test file")
		}
		dir = parent
	}
}

func TestQueryFindsIndexedFunction(t *testing.T) {
	root := projectRoot(t)
	indexBin := buildIndexBinary(t, root)
	queryBin := buildQueryBinary(t, root)

	srcDir := t.TempDir()
	content := "package sample\n\nfunc Greet(name string) string {\n\treturn name\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "greet.go"), []byte(content), 0o644))

	dbPath := filepath.Join(t.TempDir(), "code-index.db")
	home := t.TempDir()

	indexCmd := exec.Command(indexBin, srcDir, "--once", "-f", dbPath)
	indexCmd.Env = append(os.Environ(), "HOME="+home)
	out, err := indexCmd.CombinedOutput()
	require.NoError(t, err, "index failed: %s", string(out))

	queryCmd := exec.Command(queryBin, "greet", "-f", dbPath, "--compact")
	queryCmd.Dir = srcDir
	queryCmd.Env = append(os.Environ(), "HOME="+home)
	out, err = queryCmd.CombinedOutput()
	require.NoError(t, err, "query failed: %s", string(out))
	require.True(t, strings.Contains(string(out), "greet"), "expected output to mention greet, got: %s", string(out))
}

func TestQueryDebugPrintsPlannedSQLWithoutExecuting(t *testing.T) {
	root := projectRoot(t)
	queryBin := buildQueryBinary(t, root)

	queryCmd := exec.Command(queryBin, "anything", "--debug", "-f", filepath.Join(t.TempDir(), "missing.db"))
	out, err := queryCmd.CombinedOutput()
	require.NoError(t, err, "debug query should not touch the store: %s", string(out))
	require.True(t, strings.Contains(string(out), "SELECT"), "expected planned SQL in output, got: %s", string(out))
}
