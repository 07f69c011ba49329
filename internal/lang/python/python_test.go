package python

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/recordbuf"
)

const sample = `import os
from collections import OrderedDict

MAX_RETRIES = 3


class Greeter:
    def __init__(self, name):
        self.name = name

    def greet(self):
        # say hello
        fn = lambda x: x + 1
        print(fn(1), self.name)
`

func parseSample(t *testing.T) []recordbuf.Record {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.py")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	filt, err := filter.New(nil, nil, nil)
	require.NoError(t, err)

	var buf recordbuf.Buffer
	buf.Init()

	v := New()
	require.NoError(t, v.ParseFile(path, dir, &buf, filt))
	return buf.Records()
}

func findSymbol(records []recordbuf.Record, symbol, context string) (recordbuf.Record, bool) {
	for _, r := range records {
		if r.Symbol == symbol && r.Context == context {
			return r, true
		}
	}
	return recordbuf.Record{}, false
}

func TestParseFileEmitsClassAndMethod(t *testing.T) {
	records := parseSample(t)
	_, ok := findSymbol(records, "greeter", "class")
	require.True(t, ok)
	method, ok := findSymbol(records, "greet", "function")
	require.True(t, ok)
	require.Equal(t, "Greeter", method.Ext.ParentSymbol)
}

func TestParseFileSkipsSelfParameter(t *testing.T) {
	records := parseSample(t)
	for _, r := range records {
		if r.Context == "argument" {
			require.NotEqual(t, "self", r.Symbol)
		}
	}
}

func TestParseFileEmitsPropertyFromSelfAssignment(t *testing.T) {
	records := parseSample(t)
	r, ok := findSymbol(records, "name", "property")
	require.True(t, ok)
	require.Equal(t, "__init__", r.Ext.ParentSymbol)
}

func TestParseFileEmitsLambda(t *testing.T) {
	records := parseSample(t)
	r, ok := findSymbol(records, "<lambda>", "lambda")
	require.True(t, ok)
	require.True(t, r.Ext.IsDefinition)
}

func TestParseFileEmitsImports(t *testing.T) {
	records := parseSample(t)
	_, ok := findSymbol(records, "os", "import")
	require.True(t, ok)
	_, ok = findSymbol(records, "collections", "import")
	require.True(t, ok)
}

func TestParseFileMarksConstantModifier(t *testing.T) {
	records := parseSample(t)
	r, ok := findSymbol(records, "max_retries", "variable")
	require.True(t, ok)
	require.Equal(t, "constant", r.Ext.Modifier)
}
