package fallback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smacker/go-tree-sitter/rust"
	"github.com/stretchr/testify/require"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/recordbuf"
)

const rustSample = `use std::fmt;

// formats a greeting
struct Greeter {
    name: String,
}

fn greet(g: &Greeter) {
    println!("hello {}", g.name);
}
`

func parseRust(t *testing.T) []recordbuf.Record {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.rs")
	require.NoError(t, os.WriteFile(path, []byte(rustSample), 0o644))

	filt, err := filter.New(nil, nil, nil)
	require.NoError(t, err)

	var buf recordbuf.Buffer
	buf.Init()

	v := New(Config{
		LangName:      "rust",
		Exts:          []string{".rs"},
		Grammar:       rust.GetLanguage(),
		FunctionTypes: setOf("function_item"),
		ClassTypes:    setOf("struct_item"),
		ImportTypes:   setOf("use_declaration"),
		CommentTypes:  setOf("line_comment", "block_comment"),
		StringTypes:   setOf("string_literal"),
	})
	require.NoError(t, v.ParseFile(path, dir, &buf, filt))
	return buf.Records()
}

func setOf(values ...string) map[string]bool {
	s := make(map[string]bool, len(values))
	for _, v := range values {
		s[v] = true
	}
	return s
}

func findSymbol(records []recordbuf.Record, symbol, context string) (recordbuf.Record, bool) {
	for _, r := range records {
		if r.Symbol == symbol && r.Context == context {
			return r, true
		}
	}
	return recordbuf.Record{}, false
}

func TestParseFileEmitsFunctionAndStruct(t *testing.T) {
	records := parseRust(t)
	_, ok := findSymbol(records, "greet", "function")
	require.True(t, ok)
	_, ok = findSymbol(records, "greeter", "class")
	require.True(t, ok)
}

func TestParseFileEmitsComment(t *testing.T) {
	records := parseRust(t)
	_, ok := findSymbol(records, "formats", "comment")
	require.True(t, ok)
	_, ok = findSymbol(records, "greeting", "comment")
	require.True(t, ok)
}

func TestParseFileEmitsFilenameRecord(t *testing.T) {
	records := parseRust(t)
	_, ok := findSymbol(records, "sample", "filename")
	require.True(t, ok)
}
