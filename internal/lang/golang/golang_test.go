package golang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/recordbuf"
)

const sample = `package sample

import "fmt"

// Greet prints a greeting.
type Greeter struct {
	Name string
}

func (g *Greeter) Greet() {
	msg := "hello"
	fn := func(x int) int {
		return x + 1
	}
	fmt.Println(msg, fn(1))
}
`

func parseSample(t *testing.T) []recordbuf.Record {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.go")
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

func TestParseFileEmitsFilenameRecord(t *testing.T) {
	records := parseSample(t)
	r, ok := findSymbol(records, "sample", "filename")
	require.True(t, ok)
	require.Equal(t, 1, r.Line)
}

func TestParseFileEmitsStructAndField(t *testing.T) {
	records := parseSample(t)
	_, ok := findSymbol(records, "greeter", "class")
	require.True(t, ok)
	field, ok := findSymbol(records, "name", "property")
	require.True(t, ok)
	require.Equal(t, "Greeter", field.Ext.ParentSymbol)
}

func TestParseFileEmitsMethodWithReceiver(t *testing.T) {
	records := parseSample(t)
	r, ok := findSymbol(records, "greet", "function")
	require.True(t, ok)
	require.Equal(t, "Greeter", r.Ext.ParentSymbol)
}

func TestParseFileEmitsLambdaWithFixedSymbol(t *testing.T) {
	records := parseSample(t)
	r, ok := findSymbol(records, "<lambda>", "lambda")
	require.True(t, ok)
	require.True(t, r.Ext.IsDefinition)
}

func TestParseFileEmitsCallInMethodBody(t *testing.T) {
	records := parseSample(t)
	_, ok := findSymbol(records, "println", "call")
	require.True(t, ok)
}

func TestParseFileEmitsImport(t *testing.T) {
	records := parseSample(t)
	_, ok := findSymbol(records, "fmt", "import")
	require.True(t, ok)
}
