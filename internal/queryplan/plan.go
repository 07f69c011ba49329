package queryplan

import (
	"fmt"
	"strings"

	"github.com/jward/codeidx/schema"
)

// Plan is a fully built, ready-to-run query: an optional setup statement
// (the proximity temp table), the main statement, and a teardown statement
// to drop anything setup created.
type Plan struct {
	Setup    string
	SetupArgs []any
	Main     string
	MainArgs []any
	Teardown string
}

var selectList = strings.Join(schema.AllColumnNames(), ", ")

func aliasedSelectList(alias string) string {
	names := schema.AllColumnNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = alias + "." + n
	}
	return strings.Join(out, ", ")
}

func colRef(alias, name string) string {
	if alias == "" {
		return name
	}
	return alias + "." + name
}

// Build translates q into a Plan. Validate should be called first; Build
// does not re-validate.
func Build(q Query) (*Plan, error) {
	switch {
	case len(q.Patterns) == 1:
		return buildSingle(q)
	case q.Range == 0:
		return buildIntersect(q)
	default:
		return buildProximity(q)
	}
}

// sharedConditions returns the WHERE fragments (and their bind args, in
// order) common to every pattern branch: context include/exclude, per-column
// filters, file filters, and the definition flag (spec.md §4.9).
func sharedConditions(q Query, alias string) ([]string, []any) {
	var conds []string
	var args []any

	switch {
	case len(q.IncludeContext) > 0:
		conds = append(conds, colRef(alias, "context")+" IN ("+placeholders(len(q.IncludeContext))+")")
		for _, c := range q.IncludeContext {
			args = append(args, c)
		}
	case len(q.ExcludeContext) > 0:
		conds = append(conds, colRef(alias, "context")+" NOT IN ("+placeholders(len(q.ExcludeContext))+")")
		for _, c := range q.ExcludeContext {
			args = append(args, c)
		}
	}

	for _, col := range schema.Columns {
		values, ok := q.ColumnFilters[col.Name]
		if !ok || len(values) == 0 {
			continue
		}
		conds = append(conds, colRef(alias, col.Name)+" IN ("+placeholders(len(values))+")")
		for _, v := range values {
			args = append(args, v)
		}
	}

	for _, f := range q.FileFilters {
		dirPart, filePart, hasDir := splitFileFilter(f)
		if hasDir {
			conds = append(conds, colRef(alias, "directory")+" LIKE ?")
			args = append(args, dirPart)
			conds = append(conds, colRef(alias, "filename")+" LIKE ?")
			args = append(args, filePart)
			continue
		}
		conds = append(conds, "("+colRef(alias, "directory")+" LIKE ? OR "+colRef(alias, "filename")+" LIKE ?)")
		args = append(args, filePart, filePart)
	}

	switch q.Def {
	case DefOnly:
		conds = append(conds, colRef(alias, "is_definition")+" = 1")
	case UsageOnly:
		conds = append(conds, colRef(alias, "is_definition")+" = 0")
	}

	return conds, args
}

// splitFileFilter implements spec.md §4.9's file-filter rule: a pattern
// containing "/" splits into directory/filename parts, each matched
// independently; a trailing "/" expands to "%".
func splitFileFilter(pattern string) (dirPart, filePart string, hasDir bool) {
	idx := strings.LastIndex(pattern, "/")
	if idx < 0 {
		return "", pattern, false
	}
	dirPart = pattern[:idx]
	filePart = pattern[idx+1:]
	if filePart == "" {
		filePart = "%"
	}
	return dirPart, filePart, true
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func buildSingle(q Query) (*Plan, error) {
	buf := newBuffer()
	var args []any

	if err := buf.WriteString("SELECT " + selectList + " FROM records WHERE symbol LIKE ?"); err != nil {
		return nil, err
	}
	args = append(args, q.Patterns[0])

	conds, condArgs := sharedConditions(q, "")
	for _, c := range conds {
		if err := buf.WriteString(" AND " + c); err != nil {
			return nil, err
		}
	}
	args = append(args, condArgs...)

	if err := writeOrderAndLimit(buf, "", q); err != nil {
		return nil, err
	}

	return &Plan{Main: buf.String(), MainArgs: args}, nil
}

// buildIntersect implements the R=0 "AND-same-line" composition: each
// pattern's occurrences project onto (directory, filename, line) and the
// outer query returns every column for rows at an intersected location
// whose symbol matches at least one requested pattern (spec.md §4.9).
func buildIntersect(q Query) (*Plan, error) {
	buf := newBuffer()
	conds, condArgs := sharedConditions(q, "")

	var args []any
	for i, p := range q.Patterns {
		if i > 0 {
			if err := buf.WriteString(" INTERSECT "); err != nil {
				return nil, err
			}
		}
		if err := buf.WriteString("SELECT directory, filename, line FROM records WHERE symbol LIKE ?"); err != nil {
			return nil, err
		}
		args = append(args, p)
		for _, c := range conds {
			if err := buf.WriteString(" AND " + c); err != nil {
				return nil, err
			}
		}
		args = append(args, condArgs...)
	}
	intersectSQL := buf.String()
	intersectArgs := args

	outer := newBuffer()
	if err := outer.WriteString("SELECT " + selectList + " FROM records WHERE (directory, filename, line) IN (" + intersectSQL + ")"); err != nil {
		return nil, err
	}
	outerArgs := append([]any{}, intersectArgs...)

	orClauses := make([]string, len(q.Patterns))
	for i, p := range q.Patterns {
		orClauses[i] = "symbol LIKE ?"
		outerArgs = append(outerArgs, p)
	}
	if err := outer.WriteString(" AND (" + strings.Join(orClauses, " OR ") + ")"); err != nil {
		return nil, err
	}

	for _, c := range conds {
		if err := outer.WriteString(" AND " + c); err != nil {
			return nil, err
		}
	}
	outerArgs = append(outerArgs, condArgs...)

	if err := writeOrderAndLimit(outer, "", q); err != nil {
		return nil, err
	}

	return &Plan{Main: outer.String(), MainArgs: outerArgs}, nil
}

// buildProximity implements the R>0 path: the anchor pattern populates a
// temp table, joined back against records with one EXISTS clause per
// secondary pattern requiring a match within the ±R window (spec.md §4.9).
func buildProximity(q Query) (*Plan, error) {
	conds, condArgs := sharedConditions(q, "")

	setup := newBuffer()
	if err := setup.WriteString("CREATE TEMP TABLE anchor_matches AS SELECT DISTINCT directory, filename, line FROM records WHERE symbol LIKE ?"); err != nil {
		return nil, err
	}
	setupArgs := []any{q.Patterns[0]}
	for _, c := range conds {
		if err := setup.WriteString(" AND " + c); err != nil {
			return nil, err
		}
	}
	setupArgs = append(setupArgs, condArgs...)

	rConds, rArgs := sharedConditions(q, "r")
	main := newBuffer()
	if err := main.WriteString(
		"SELECT " + aliasedSelectList("r") +
			" FROM records r JOIN anchor_matches a" +
			" ON r.directory = a.directory AND r.filename = a.filename AND r.line = a.line"); err != nil {
		return nil, err
	}

	var mainArgs []any
	var whereClauses []string
	whereClauses = append(whereClauses, "r.symbol LIKE ?")
	mainArgs = append(mainArgs, q.Patterns[0])
	whereClauses = append(whereClauses, rConds...)
	mainArgs = append(mainArgs, rArgs...)

	for _, p := range q.Patterns[1:] {
		r2Conds, r2Args := sharedConditions(q, "r2")
		exists := "EXISTS (SELECT 1 FROM records r2 WHERE r2.directory = a.directory" +
			" AND r2.filename = a.filename AND r2.symbol LIKE ?" +
			" AND r2.line BETWEEN MAX(1, a.line - ?) AND (a.line + ?)"
		for _, c := range r2Conds {
			exists += " AND " + c
		}
		exists += ")"
		whereClauses = append(whereClauses, exists)
		mainArgs = append(mainArgs, p, q.Range, q.Range)
		mainArgs = append(mainArgs, r2Args...)
	}

	if err := main.WriteString(" WHERE " + strings.Join(whereClauses, " AND ")); err != nil {
		return nil, err
	}

	if err := writeOrderAndLimit(main, "r", q); err != nil {
		return nil, err
	}

	return &Plan{
		Setup:     setup.String(),
		SetupArgs: setupArgs,
		Main:      main.String(),
		MainArgs:  mainArgs,
		Teardown:  "DROP TABLE IF EXISTS anchor_matches",
	}, nil
}

func writeOrderAndLimit(buf *buffer, alias string, q Query) error {
	order := fmt.Sprintf(" ORDER BY %s, %s, %s",
		colRef(alias, "directory"), colRef(alias, "filename"), colRef(alias, "line"))
	if err := buf.WriteString(order); err != nil {
		return err
	}
	if q.Limit > 0 {
		if err := buf.WriteString(fmt.Sprintf(" LIMIT %d", q.Limit)); err != nil {
			return err
		}
	}
	return nil
}
