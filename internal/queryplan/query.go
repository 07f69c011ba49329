// Package queryplan composes the positional patterns, context/column/file
// filters, and proximity range of one invocation of the query CLI into SQL
// against the records table, per spec.md §4.9. A single pattern produces a
// plain WHERE clause; multiple patterns compose via INTERSECT (same line)
// or a temp-table proximity join (±N lines).
package queryplan

import (
	"fmt"

	"github.com/jward/codeidx/schema"
)

// DefFilter narrows results to definition sites, usage sites, or neither.
type DefFilter int

const (
	DefAny DefFilter = iota
	DefOnly
	UsageOnly
)

// Query is the fully-parsed input to the planner: everything the query CLI
// accepts, independent of how it was parsed from argv.
type Query struct {
	Patterns       []string
	IncludeContext []string
	ExcludeContext []string
	ColumnFilters  map[string][]string
	FileFilters    []string
	Range          int
	Def            DefFilter
	Limit          int
	LimitPerFile   int
}

// Validate rejects plan-time errors per spec.md §7's "unknown context tag,
// invalid flag" query error class.
func (q Query) Validate() error {
	if len(q.Patterns) == 0 {
		return fmt.Errorf("queryplan: at least one pattern is required")
	}
	if len(q.IncludeContext) > 0 && len(q.ExcludeContext) > 0 {
		return fmt.Errorf("queryplan: -i and -x are mutually exclusive")
	}
	for _, tag := range q.IncludeContext {
		if !schema.IsContextTag(tag) {
			return fmt.Errorf("queryplan: unknown context tag %q", tag)
		}
	}
	for _, tag := range q.ExcludeContext {
		if !schema.IsContextTag(tag) {
			return fmt.Errorf("queryplan: unknown context tag %q", tag)
		}
	}
	for name := range q.ColumnFilters {
		if _, ok := schema.ByName(name); !ok {
			return fmt.Errorf("queryplan: unknown filter column %q", name)
		}
	}
	if q.Range < 0 {
		return fmt.Errorf("queryplan: range must be >= 0")
	}
	return nil
}
