package schema

import (
	"fmt"
	"strings"
)

// CreateTableSQL renders the CREATE TABLE statement: infrastructure columns
// first, then extensible columns, per spec.md §4.1.
func CreateTableSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS records (\n")
	b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	b.WriteString("\tsymbol TEXT NOT NULL,\n")
	b.WriteString("\tdirectory TEXT NOT NULL,\n")
	b.WriteString("\tfilename TEXT NOT NULL,\n")
	b.WriteString("\tline INTEGER NOT NULL,\n")
	b.WriteString("\tcontext TEXT NOT NULL,\n")
	b.WriteString("\tfull_symbol TEXT NOT NULL,\n")
	b.WriteString("\tsource_location TEXT,\n")
	for _, c := range Columns {
		b.WriteString(fmt.Sprintf("\t%s %s,\n", c.Name, c.Type.SQLType()))
	}
	b.WriteString("\tCHECK (length(symbol) >= 2)\n")
	b.WriteString(")")
	return b.String()
}

// IndexStatements renders one single-column index per extensible column plus
// the composite indexes covering the highest-traffic query shapes
// (spec.md §4.1).
func IndexStatements() []string {
	stmts := make([]string, 0, len(Columns)+3)
	for _, c := range Columns {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_records_%s ON records(%s)",
			c.Name, c.Name,
		))
	}
	stmts = append(stmts,
		"CREATE INDEX IF NOT EXISTS idx_records_context_def ON records(context, is_definition)",
		"CREATE INDEX IF NOT EXISTS idx_records_dir_file ON records(directory, filename)",
		"CREATE INDEX IF NOT EXISTS idx_records_parent_context ON records(parent_symbol, context)",
	)
	return stmts
}

// InsertSQL renders the parameterized INSERT statement, with placeholders
// in AllColumnNames order, the order internal/store's bindArgs returns
// values in.
func InsertSQL() string {
	names := AllColumnNames()
	placeholders := make([]string, len(names))
	for i := range names {
		placeholders[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO records (%s) VALUES (%s)",
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
	)
}

// DisplayColumns returns every extensible column with its display label and
// width, in registry order; the printer appends these for --full. verbose
// selects FullLabel vs CompactLabel.
func DisplayColumns(verbose bool) []struct {
	Name  string
	Label string
	Width int
} {
	out := make([]struct {
		Name  string
		Label string
		Width int
	}, 0, len(Columns))
	for _, c := range Columns {
		label := c.CompactLabel
		if verbose {
			label = c.FullLabel
		}
		out = append(out, struct {
			Name  string
			Label string
			Width int
		}{Name: c.Name, Label: label, Width: c.Width})
	}
	return out
}
