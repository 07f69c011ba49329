package queryplan

import (
	"context"
	"database/sql"
	"fmt"
)

// Row is one result row carrying every infrastructure and extensible
// column, in the order the printer needs them.
type Row struct {
	Symbol         string
	Directory      string
	Filename       string
	Line           int
	Context        string
	FullSymbol     string
	SourceLocation string
	ParentSymbol   string
	Scope          string
	Namespace      string
	Modifier       string
	Type           string
	Clue           string
	IsDefinition   bool
}

// Execute runs a built Plan against db: the optional setup statement,
// the main query (collecting Rows), then the teardown statement, so a
// proximity query's temp table never outlives one call (spec.md §4.9). A
// TEMP TABLE is connection-scoped in SQLite, so setup/main/teardown all run
// on one borrowed *sql.Conn rather than through db's pool directly.
func Execute(db *sql.DB, p *Plan) ([]Row, error) {
	ctx := context.Background()

	if p.Setup == "" {
		rows, err := db.QueryContext(ctx, p.Main, p.MainArgs...)
		if err != nil {
			return nil, fmt.Errorf("queryplan: query: %w", err)
		}
		defer rows.Close()
		return scanRows(rows)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("queryplan: acquiring connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, p.Setup, p.SetupArgs...); err != nil {
		return nil, fmt.Errorf("queryplan: setup: %w", err)
	}
	defer conn.ExecContext(ctx, p.Teardown) //nolint:errcheck

	rows, err := conn.QueryContext(ctx, p.Main, p.MainArgs...)
	if err != nil {
		return nil, fmt.Errorf("queryplan: query: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	var out []Row
	for rows.Next() {
		var r Row
		var isDef int
		var sourceLoc, parent, scope, ns, modifier, typ, clue sql.NullString
		if err := rows.Scan(
			&r.Symbol, &r.Directory, &r.Filename, &r.Line, &r.Context,
			&r.FullSymbol, &sourceLoc,
			&parent, &scope, &ns, &modifier, &typ, &clue, &isDef,
		); err != nil {
			return nil, fmt.Errorf("queryplan: scan: %w", err)
		}
		r.SourceLocation = sourceLoc.String
		r.ParentSymbol = parent.String
		r.Scope = scope.String
		r.Namespace = ns.String
		r.Modifier = modifier.String
		r.Type = typ.String
		r.Clue = clue.String
		r.IsDefinition = isDef != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("queryplan: rows: %w", err)
	}
	return out, nil
}

// CountSymbolMatches reports how many rows match pattern exactly as given,
// with no wildcard wrapping. The printer's zero-result diagnostic
// (spec.md §4.10 point 6) uses this to detect the "matched with %p% but not
// p" case and decide whether a wildcard retry is warranted.
func CountSymbolMatches(db *sql.DB, pattern string) (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM records WHERE symbol LIKE ?", pattern).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("queryplan: count: %w", err)
	}
	return n, nil
}
