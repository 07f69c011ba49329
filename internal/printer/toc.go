package printer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jward/codeidx/internal/queryplan"
	"github.com/jward/codeidx/schema"
)

// tocSections lists the TOC's fixed section labels and the context tags
// each one groups, in render order (spec.md §4.10 point 7). "import" is
// handled separately since it collapses to one deduplicated line instead
// of a sorted-by-line list.
var tocSections = []struct {
	label string
	tags  map[string]bool
}{
	{"CLASSES", map[string]bool{"class": true}},
	{"FUNCTIONS", map[string]bool{"function": true}},
	{"ENUMS", map[string]bool{"enum": true, "enum_case": true}},
	{"TYPES", map[string]bool{"type": true}},
}

// ValidateTOCContext rejects any requested include-context tag outside the
// closed TOC vocabulary, with the allowed list spelled out in the error
// (spec.md §9's "helpful rejection listing the allowed tags").
func ValidateTOCContext(tags []string) error {
	for _, t := range tags {
		if !schema.IsTOCContextTag(t) {
			return fmt.Errorf(
				"queryplan: %q is not a table-of-contents context tag; allowed: %s",
				t, strings.Join(schema.TOCContextTags, ", "),
			)
		}
	}
	return nil
}

// PrintTOC implements --toc: group by file, then within each file render
// CLASSES/FUNCTIONS/ENUMS/TYPES sections sorted by start line, with a
// single deduplicated IMPORTS: line.
func (p *Printer) PrintTOC(rows []queryplan.Row) error {
	type fileKey struct{ dir, file string }
	order := []fileKey{}
	grouped := make(map[fileKey][]queryplan.Row)
	for _, r := range rows {
		k := fileKey{r.Directory, r.Filename}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], r)
	}

	for i, k := range order {
		if i > 0 {
			fmt.Fprintln(p.Out)
		}
		fmt.Fprintf(p.Out, "=== %s/%s ===\n", k.dir, k.file)

		fileRows := grouped[k]
		for _, sec := range tocSections {
			var members []queryplan.Row
			for _, r := range fileRows {
				if sec.tags[r.Context] {
					members = append(members, r)
				}
			}
			if len(members) == 0 {
				continue
			}
			sort.SliceStable(members, func(a, b int) bool { return members[a].Line < members[b].Line })
			fmt.Fprintf(p.Out, "%s:\n", sec.label)
			for _, m := range members {
				fmt.Fprintf(p.Out, "  %s ... %d\n", m.Symbol, m.Line)
			}
		}

		seen := make(map[string]bool)
		var imports []string
		for _, r := range fileRows {
			if r.Context != "import" {
				continue
			}
			if !seen[r.Symbol] {
				seen[r.Symbol] = true
				imports = append(imports, r.Symbol)
			}
		}
		if len(imports) > 0 {
			sort.Strings(imports)
			fmt.Fprintf(p.Out, "IMPORTS: %s\n", strings.Join(imports, ", "))
		}
	}
	return nil
}
