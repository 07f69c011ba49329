package printer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/codeidx/internal/queryplan"
)

func sampleRows() []queryplan.Row {
	return []queryplan.Row{
		{Symbol: "main", Directory: "pkg", Filename: "foo.c", Line: 1, Context: "function", IsDefinition: true, SourceLocation: "1:1 - 1:40"},
		{Symbol: "helper", Directory: "pkg", Filename: "foo.c", Line: 3, Context: "function", IsDefinition: true},
	}
}

func TestPrintResultsGroupsByFileWithHeader(t *testing.T) {
	var buf bytes.Buffer
	p := New(Options{Compact: true}, &buf)
	require.NoError(t, p.PrintResults(sampleRows()))
	out := buf.String()
	require.Contains(t, out, "=== pkg/foo.c ===")
	require.Contains(t, out, "main")
	require.Contains(t, out, "helper")
}

func TestApplyLimitPerFileCapsRowsPerFile(t *testing.T) {
	var buf bytes.Buffer
	p := New(Options{Compact: true, LimitPerFile: 1}, &buf)
	rows := p.applyLimitPerFile(sampleRows())
	require.Len(t, rows, 1)
	require.Equal(t, "main", rows[0].Symbol)
}

func TestPrintFilesOnlyDeduplicatesAndSorts(t *testing.T) {
	var buf bytes.Buffer
	p := New(Options{}, &buf)
	require.NoError(t, p.PrintFilesOnly(sampleRows()))
	require.Equal(t, "pkg/foo.c\n", buf.String())
}

func TestSourceContextDegradesGracefullyOnMissingFile(t *testing.T) {
	var buf bytes.Buffer
	p := New(Options{Compact: true, Before: 1, After: 1, Root: t.TempDir()}, &buf)
	require.NoError(t, p.PrintResults(sampleRows()))
	// No panic, no context lines emitted since the file does not exist.
	require.NotContains(t, buf.String(), "1| ")
}

func TestExpandDefinitionReadsSourceRange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	content := "int main(int argc, char **argv){\n    return 0;\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "foo.c"), []byte(content), 0o644))

	var buf bytes.Buffer
	p := New(Options{Compact: true, Expand: true, Root: root}, &buf)
	rows := []queryplan.Row{
		{Symbol: "main", Directory: "pkg", Filename: "foo.c", Line: 1, Context: "function", IsDefinition: true, SourceLocation: "1:1 - 3:2"},
	}
	require.NoError(t, p.PrintResults(rows))
	require.Contains(t, buf.String(), "return 0;")
}

func TestValidateTOCContextRejectsUnsupportedTag(t *testing.T) {
	err := ValidateTOCContext([]string{"variable"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "allowed:")
}

func TestPrintTOCGroupsSectionsSortedByLine(t *testing.T) {
	var buf bytes.Buffer
	p := New(Options{}, &buf)
	rows := []queryplan.Row{
		{Symbol: "helper", Directory: "pkg", Filename: "foo.c", Line: 3, Context: "function"},
		{Symbol: "main", Directory: "pkg", Filename: "foo.c", Line: 1, Context: "function"},
	}
	require.NoError(t, p.PrintTOC(rows))
	out := buf.String()
	require.Less(t, strings.Index(out, "main"), strings.Index(out, "helper"))
}
