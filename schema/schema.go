// Package schema is the single source of truth for the extensible columns
// of an IndexRecord. DDL, the INSERT statement, CLI filter flags, SQL filter
// generation, and display labels derive from the ColumnDef table below. The
// Go record and row types (recordbuf.ExtCols, queryplan.Row), the store's
// bindArgs, queryplan's scanRows, and the printer's fieldValue name each
// column explicitly, so a new column also needs an edit in each of those.
package schema

// ColType is the SQL storage type of an extensible column.
type ColType int

const (
	Text ColType = iota
	Int
)

// ColumnDef describes one extensible column of the records table.
type ColumnDef struct {
	// Name is the SQL column name and the internal field key.
	Name string
	// Type is the SQL storage type.
	Type ColType
	// FullLabel is the verbose display header (e.g. "PARENT").
	FullLabel string
	// CompactLabel is the short display header (e.g. "par").
	CompactLabel string
	// Width is the default display column width in characters.
	Width int
	// LongFlag is the CLI long flag name, without leading dashes (e.g. "parent").
	LongFlag string
	// ShortFlag is the CLI short flag name, without leading dash (e.g. "p").
	ShortFlag string
}

// Columns is the extensible column table. Order here fixes DDL column
// order (after the infrastructure columns), insert binding order, and
// default display order.
var Columns = []ColumnDef{
	{
		Name:         "parent_symbol",
		Type:         Text,
		FullLabel:    "PARENT",
		CompactLabel: "par",
		Width:        20,
		LongFlag:     "parent",
		ShortFlag:    "p",
	},
	{
		Name:         "scope",
		Type:         Text,
		FullLabel:    "SCOPE",
		CompactLabel: "scp",
		Width:        10,
		LongFlag:     "scope",
		ShortFlag:    "s",
	},
	{
		Name:         "namespace",
		Type:         Text,
		FullLabel:    "NAMESPACE",
		CompactLabel: "ns",
		Width:        24,
		LongFlag:     "namespace",
		ShortFlag:    "ns",
	},
	{
		Name:         "modifier",
		Type:         Text,
		FullLabel:    "MODIFIER",
		CompactLabel: "mod",
		Width:        16,
		LongFlag:     "modifier",
		ShortFlag:    "m",
	},
	{
		Name:         "type",
		Type:         Text,
		FullLabel:    "TYPE",
		CompactLabel: "t",
		Width:        16,
		LongFlag:     "type",
		ShortFlag:    "t",
	},
	{
		Name:         "clue",
		Type:         Text,
		FullLabel:    "CLUE",
		CompactLabel: "c",
		Width:        10,
		LongFlag:     "clue",
		ShortFlag:    "c",
	},
	{
		Name:         "is_definition",
		Type:         Int,
		FullLabel:    "DEF",
		CompactLabel: "d",
		Width:        3,
		LongFlag:     "def-flag",
		ShortFlag:    "d",
	},
}

// InfrastructureColumns lists the always-present, non-user-filterable
// columns in DDL/bind order, preceding the extensible columns.
var InfrastructureColumns = []string{
	"symbol",
	"directory",
	"filename",
	"line",
	"context",
	"full_symbol",
	"source_location",
}

// ContextTags is the closed set of syntactic roles an occurrence may carry.
var ContextTags = []string{
	"class", "interface", "function", "argument", "variable", "exception",
	"type", "property", "comment", "string", "filename", "import", "export",
	"call", "namespace", "enum", "enum_case", "trait", "lambda", "label", "goto",
}

// IsContextTag reports whether tag is a member of the closed context set.
func IsContextTag(tag string) bool {
	for _, t := range ContextTags {
		if t == tag {
			return true
		}
	}
	return false
}

// TOCContextTags restricts the table-of-contents view (spec.md §4.10 point 7).
var TOCContextTags = []string{"filename", "class", "function", "enum", "type", "import"}

// IsTOCContextTag reports whether tag is one of the TOC-eligible tags.
func IsTOCContextTag(tag string) bool {
	for _, t := range TOCContextTags {
		if t == tag {
			return true
		}
	}
	return false
}

// ByLongFlag returns the ColumnDef registered under the given long flag name,
// or (zero, false) if none matches.
func ByLongFlag(flag string) (ColumnDef, bool) {
	for _, c := range Columns {
		if c.LongFlag == flag {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// ByName returns the ColumnDef for a given column name.
func ByName(name string) (ColumnDef, bool) {
	for _, c := range Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// SQLType returns the SQLite storage affinity for a ColType.
func (t ColType) SQLType() string {
	if t == Int {
		return "INTEGER"
	}
	return "TEXT"
}

// AllColumnNames returns infrastructure columns followed by extensible
// columns, in DDL/bind order — the exact order every INSERT must follow.
func AllColumnNames() []string {
	names := make([]string, 0, len(InfrastructureColumns)+len(Columns))
	names = append(names, InfrastructureColumns...)
	for _, c := range Columns {
		names = append(names, c.Name)
	}
	return names
}
