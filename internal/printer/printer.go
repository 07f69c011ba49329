// Package printer renders query results to a terminal, per spec.md §4.10:
// a two-pass column layout (width computation, then render), file grouping
// with a header on every file change, optional -A/-B/-C source context,
// -e full-definition expansion, a zero-result diagnostic with a wildcard
// retry suggestion, and a restricted table-of-contents view. The column-alignment
// style is grounded on mvp-joe-canopy's cmd/canopy/format.go (tabwriter
// over io.Writer), generalized to the schema registry's extensible columns
// instead of a fixed symbol-table shape.
package printer

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jward/codeidx/internal/queryplan"
	"github.com/jward/codeidx/schema"
)

// Options controls display behavior, one field per query CLI display flag.
type Options struct {
	Columns      []string // explicit --columns list; empty means use defaults
	Verbose      bool     // -v: full column labels
	Full         bool     // --full: show every extensible column
	Compact      bool     // --compact: symbol/context/line only
	Before       int      // -B
	After        int      // -A
	Expand       bool     // -e
	LimitPerFile int
	Root         string // project root, for resolving -A/-B/-C and -e source reads
}

// Printer renders queryplan.Row slices to Out under Opts.
type Printer struct {
	Opts Options
	Out  io.Writer
}

// New builds a Printer writing to out.
func New(opts Options, out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{Opts: opts, Out: out}
}

func fieldValue(r queryplan.Row, name string) string {
	switch name {
	case "symbol":
		return r.Symbol
	case "directory":
		return r.Directory
	case "filename":
		return r.Filename
	case "line":
		return strconv.Itoa(r.Line)
	case "context":
		return r.Context
	case "full_symbol":
		return r.FullSymbol
	case "source_location":
		return r.SourceLocation
	case "is_definition":
		if r.IsDefinition {
			return "1"
		}
		return "0"
	default:
		for _, c := range schema.Columns {
			if c.Name != name {
				continue
			}
			switch name {
			case "parent_symbol":
				return r.ParentSymbol
			case "scope":
				return r.Scope
			case "namespace":
				return r.Namespace
			case "modifier":
				return r.Modifier
			case "type":
				return r.Type
			case "clue":
				return r.Clue
			}
		}
	}
	return ""
}

func columnHeader(name string, verbose bool) string {
	switch name {
	case "symbol":
		return "SYMBOL"
	case "context":
		return "CTX"
	case "line":
		return "LINE"
	case "directory":
		return "DIR"
	case "filename":
		return "FILE"
	case "full_symbol":
		return "FULL"
	case "source_location":
		return "LOC"
	}
	if c, ok := schema.ByName(name); ok {
		if verbose {
			return c.FullLabel
		}
		return c.CompactLabel
	}
	return strings.ToUpper(name)
}

// resolveColumns determines which fields to render, honoring --columns,
// --compact, and --full in that precedence order (spec.md §6's display
// control flags).
func (p *Printer) resolveColumns() []string {
	if len(p.Opts.Columns) > 0 {
		return p.Opts.Columns
	}
	cols := []string{"symbol", "context", "line"}
	if p.Opts.Compact {
		return cols
	}
	if p.Opts.Full {
		for _, c := range schema.DisplayColumns(p.Opts.Verbose) {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// applyLimitPerFile enforces --limit-per-file row-by-row, since it can't be
// expressed in the SQL itself (spec.md §4.9).
func (p *Printer) applyLimitPerFile(rows []queryplan.Row) []queryplan.Row {
	if p.Opts.LimitPerFile <= 0 {
		return rows
	}
	counts := make(map[string]int)
	out := make([]queryplan.Row, 0, len(rows))
	for _, r := range rows {
		key := r.Directory + "/" + r.Filename
		if counts[key] >= p.Opts.LimitPerFile {
			continue
		}
		counts[key]++
		out = append(out, r)
	}
	return out
}

// PrintResults runs the full layout: limit-per-file, two-pass width
// computation, file-grouped rendering, and optional context expansion.
func (p *Printer) PrintResults(rows []queryplan.Row) error {
	rows = p.applyLimitPerFile(rows)
	columns := p.resolveColumns()

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(columnHeader(col, p.Opts.Verbose))
	}
	for _, r := range rows {
		for i, col := range columns {
			if n := len(fieldValue(r, col)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var lastFile string
	for _, r := range rows {
		file := r.Directory + "/" + r.Filename
		if file != lastFile {
			if lastFile != "" {
				fmt.Fprintln(p.Out)
			}
			fmt.Fprintf(p.Out, "=== %s ===\n", file)
			lastFile = file
			p.writeHeaderRow(columns, widths)
		}
		p.writeRow(r, columns, widths)

		if p.Opts.Before > 0 || p.Opts.After > 0 {
			p.printSourceContext(r)
		}
		if p.Opts.Expand && r.IsDefinition && r.SourceLocation != "" {
			p.printExpandedDefinition(r)
		}
	}
	return nil
}

func (p *Printer) writeHeaderRow(columns []string, widths []int) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = padRight(columnHeader(col, p.Opts.Verbose), widths[i])
	}
	fmt.Fprintln(p.Out, strings.Join(parts, "  "))
}

func (p *Printer) writeRow(r queryplan.Row, columns []string, widths []int) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = padRight(fieldValue(r, col), widths[i])
	}
	fmt.Fprintln(p.Out, strings.Join(parts, "  "))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// printSourceContext implements -A/-B/-C: a failure to read the source
// file degrades to printing nothing for this row rather than aborting
// (spec.md §4.10's I/O failure semantics).
func (p *Printer) printSourceContext(r queryplan.Row) {
	path := filepath.Join(p.Opts.Root, r.Directory, r.Filename)
	lines, err := readLines(path)
	if err != nil {
		return
	}
	start := r.Line - p.Opts.Before
	if start < 1 {
		start = 1
	}
	end := r.Line + p.Opts.After
	if end > len(lines) {
		end = len(lines)
	}
	for ln := start; ln <= end; ln++ {
		marker := "  "
		if ln == r.Line {
			marker = "> "
		}
		fmt.Fprintf(p.Out, "%s%4d| %s\n", marker, ln, lines[ln-1])
	}
}

// printExpandedDefinition implements -e: re-read the file and print the
// byte range source_location describes, respecting start/end columns on
// the first/last line.
func (p *Printer) printExpandedDefinition(r queryplan.Row) {
	startRow, startCol, endRow, endCol, ok := parseSourceLocation(r.SourceLocation)
	if !ok {
		return
	}
	path := filepath.Join(p.Opts.Root, r.Directory, r.Filename)
	lines, err := readLines(path)
	if err != nil || startRow < 1 || endRow > len(lines) {
		return
	}
	for ln := startRow; ln <= endRow; ln++ {
		text := lines[ln-1]
		if ln == startRow && startCol-1 <= len(text) {
			text = text[startCol-1:]
		}
		if ln == endRow {
			relEnd := endCol - 1
			if ln == startRow {
				relEnd -= startCol - 1
			}
			if relEnd >= 0 && relEnd <= len(text) {
				text = text[:relEnd]
			}
		}
		fmt.Fprintf(p.Out, "    %4d| %s\n", ln, text)
	}
}

func parseSourceLocation(loc string) (startRow, startCol, endRow, endCol int, ok bool) {
	parts := strings.Split(loc, " - ")
	if len(parts) != 2 {
		return 0, 0, 0, 0, false
	}
	sr, sc, ok1 := parsePoint(parts[0])
	er, ec, ok2 := parsePoint(parts[1])
	if !ok1 || !ok2 {
		return 0, 0, 0, 0, false
	}
	return sr, sc, er, ec, true
}

func parsePoint(s string) (row, col int, ok bool) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) != 2 {
		return 0, 0, false
	}
	r, err1 := strconv.Atoi(fields[0])
	c, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return r, c, true
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// PrintFilesOnly implements --files: deduplicated matching file paths.
func (p *Printer) PrintFilesOnly(rows []queryplan.Row) error {
	seen := make(map[string]bool)
	var ordered []string
	for _, r := range rows {
		path := filepath.Join(r.Directory, r.Filename)
		if !seen[path] {
			seen[path] = true
			ordered = append(ordered, path)
		}
	}
	sort.Strings(ordered)
	for _, path := range ordered {
		fmt.Fprintln(p.Out, path)
	}
	return nil
}

// PrintZeroResultDiagnostic implements spec.md §4.10 point 6: explain why a
// pattern produced no output, distinguishing "no rows matched" from
// "pattern filtered". For a bare pattern with no matches it counts the
// "%pattern%" form once and, if that matches, prints the count as a
// suggestion; the wildcard query is not run and its rows are not printed.
func (p *Printer) PrintZeroResultDiagnostic(db *sql.DB, patterns []string) error {
	anyFiltered := false
	for _, pat := range patterns {
		n, err := queryplan.CountSymbolMatches(db, pat)
		if err != nil {
			return err
		}
		if n > 0 {
			anyFiltered = true
			fmt.Fprintf(p.Out, "pattern %q matched %d row(s) in the index but was excluded by other filters\n", pat, n)
			continue
		}
		if !strings.Contains(pat, "%") && !strings.Contains(pat, "_") {
			wrapped := "%" + pat + "%"
			n2, err := queryplan.CountSymbolMatches(db, wrapped)
			if err == nil && n2 > 0 {
				fmt.Fprintf(p.Out, "no rows matched %q; retrying as %q finds %d row(s) (not applied automatically, rerun with the wildcard)\n", pat, wrapped, n2)
				continue
			}
		}
		fmt.Fprintf(p.Out, "no rows matched pattern %q\n", pat)
	}
	if !anyFiltered {
		fmt.Fprintln(p.Out, "no rows matched")
	}
	return nil
}
