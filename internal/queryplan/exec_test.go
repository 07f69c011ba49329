package queryplan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/codeidx/internal/recordbuf"
	"github.com/jward/codeidx/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var buf recordbuf.Buffer
	buf.Init()
	buf.AddEntry("main", 1, "function", "pkg", "foo.c", "1:1 - 1:40", recordbuf.ExtCols{IsDefinition: true})
	buf.AddEntry("argc", 1, "argument", "pkg", "foo.c", "", recordbuf.ExtCols{ParentSymbol: "main"})
	buf.AddEntry("argv", 1, "argument", "pkg", "foo.c", "", recordbuf.ExtCols{ParentSymbol: "main"})
	buf.AddEntry("helper", 3, "function", "pkg", "foo.c", "3:1 - 3:24", recordbuf.ExtCols{IsDefinition: true})
	require.NoError(t, s.ReindexFile("pkg", "foo.c", buf.Records()))
	return s
}

func TestExecuteSinglePatternReturnsRow(t *testing.T) {
	s := seededStore(t)
	p, err := Build(Query{Patterns: []string{"main"}})
	require.NoError(t, err)

	rows, err := Execute(s.DB(), p)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "function", rows[0].Context)
	require.Equal(t, 1, rows[0].Line)
}

func TestExecuteIntersectRequiresSameLine(t *testing.T) {
	s := seededStore(t)
	p, err := Build(Query{Patterns: []string{"argc", "argv"}, Range: 0})
	require.NoError(t, err)

	rows, err := Execute(s.DB(), p)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Equal(t, 1, r.Line)
	}
}

func TestExecuteIntersectNoMatchReturnsEmpty(t *testing.T) {
	s := seededStore(t)
	p, err := Build(Query{Patterns: []string{"argc", "nosuch"}, Range: 0})
	require.NoError(t, err)

	rows, err := Execute(s.DB(), p)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestExecuteProximityFindsMatchWithinWindow(t *testing.T) {
	s := seededStore(t)
	p, err := Build(Query{Patterns: []string{"main", "helper"}, Range: 5})
	require.NoError(t, err)

	rows, err := Execute(s.DB(), p)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "main", rows[0].Symbol)
}

func TestExecuteProximityOutsideWindowReturnsEmpty(t *testing.T) {
	s := seededStore(t)
	p, err := Build(Query{Patterns: []string{"main", "helper"}, Range: 1})
	require.NoError(t, err)

	rows, err := Execute(s.DB(), p)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestExecuteDefOnlyFilter(t *testing.T) {
	s := seededStore(t)
	p, err := Build(Query{Patterns: []string{"%"}, Def: DefOnly})
	require.NoError(t, err)

	rows, err := Execute(s.DB(), p)
	require.NoError(t, err)
	for _, r := range rows {
		require.True(t, r.IsDefinition)
	}
	require.Len(t, rows, 2)
}
