package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllColumnNamesOrder(t *testing.T) {
	names := AllColumnNames()
	require.Equal(t, "symbol", names[0])
	require.Equal(t, "directory", names[1])
	require.Equal(t, "filename", names[2])
	require.Equal(t, "line", names[3])
	require.Equal(t, "context", names[4])
	require.Equal(t, "full_symbol", names[5])
	require.Equal(t, "source_location", names[6])
	require.Equal(t, len(InfrastructureColumns)+len(Columns), len(names))
}

func TestCreateTableSQLContainsAllColumns(t *testing.T) {
	ddl := CreateTableSQL()
	for _, name := range AllColumnNames() {
		require.Contains(t, ddl, name, "DDL must mention column %s", name)
	}
}

func TestInsertSQLPlaceholderCountMatchesColumns(t *testing.T) {
	sql := InsertSQL()
	require.Equal(t, len(AllColumnNames()), strings.Count(sql, "?"))
}

func TestIndexStatementsCoverEveryExtensibleColumn(t *testing.T) {
	stmts := IndexStatements()
	for _, c := range Columns {
		found := false
		for _, s := range stmts {
			if strings.Contains(s, "("+c.Name+")") {
				found = true
				break
			}
		}
		require.True(t, found, "no index statement for column %s", c.Name)
	}
}

func TestContextTagClosedSet(t *testing.T) {
	require.True(t, IsContextTag("lambda"))
	require.False(t, IsContextTag("bogus"))
}

func TestTOCContextTagsRestricted(t *testing.T) {
	require.True(t, IsTOCContextTag("class"))
	require.False(t, IsTOCContextTag("comment"))
}

func TestByLongFlagAndByName(t *testing.T) {
	col, ok := ByLongFlag("parent")
	require.True(t, ok)
	require.Equal(t, "parent_symbol", col.Name)

	col2, ok := ByName("is_definition")
	require.True(t, ok)
	require.Equal(t, Int, col2.Type)

	_, ok = ByLongFlag("nope")
	require.False(t, ok)
}
