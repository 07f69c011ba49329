package queryplan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSingleUsesLikeAndOrdering(t *testing.T) {
	p, err := Build(Query{Patterns: []string{"%foo%"}})
	require.NoError(t, err)
	require.Contains(t, p.Main, "WHERE symbol LIKE ?")
	require.Contains(t, p.Main, "ORDER BY directory, filename, line")
	require.Equal(t, []any{"%foo%"}, p.MainArgs)
}

func TestBuildSingleAppliesContextAndDefFilters(t *testing.T) {
	p, err := Build(Query{
		Patterns:       []string{"foo"},
		IncludeContext: []string{"function", "class"},
		Def:            DefOnly,
	})
	require.NoError(t, err)
	require.Contains(t, p.Main, "context IN (?,?)")
	require.Contains(t, p.Main, "is_definition = 1")
	require.Equal(t, []any{"foo", "function", "class"}, p.MainArgs)
}

func TestBuildIntersectForMultiplePatternsSameLine(t *testing.T) {
	p, err := Build(Query{Patterns: []string{"argc", "argv"}, Range: 0})
	require.NoError(t, err)
	require.Contains(t, p.Main, "INTERSECT")
	require.Contains(t, p.Main, "(directory, filename, line) IN (")
	require.Contains(t, p.Main, "symbol LIKE ? OR symbol LIKE ?")
}

func TestBuildProximityCreatesTempTableAndExists(t *testing.T) {
	p, err := Build(Query{Patterns: []string{"foo", "bar"}, Range: 5})
	require.NoError(t, err)
	require.Contains(t, p.Setup, "CREATE TEMP TABLE anchor_matches")
	require.Contains(t, p.Main, "JOIN anchor_matches a")
	require.Contains(t, p.Main, "EXISTS (SELECT 1 FROM records r2")
	require.Contains(t, p.Main, "BETWEEN MAX(1, a.line - ?) AND (a.line + ?)")
	require.Equal(t, "DROP TABLE IF EXISTS anchor_matches", p.Teardown)
}

func TestFileFilterSplitsOnSlashAndExpandsTrailingSlash(t *testing.T) {
	dir, file, hasDir := splitFileFilter("src/utils/")
	require.True(t, hasDir)
	require.Equal(t, "src/utils", dir)
	require.Equal(t, "%", file)

	_, file, hasDir = splitFileFilter("foo.go")
	require.False(t, hasDir)
	require.Equal(t, "foo.go", file)
}

func TestValidateRejectsUnknownContextTag(t *testing.T) {
	err := Query{Patterns: []string{"x"}, IncludeContext: []string{"bogus"}}.Validate()
	require.Error(t, err)
}

func TestValidateRejectsMutuallyExclusiveContextFlags(t *testing.T) {
	err := Query{
		Patterns:       []string{"x"},
		IncludeContext: []string{"function"},
		ExcludeContext: []string{"comment"},
	}.Validate()
	require.Error(t, err)
}
