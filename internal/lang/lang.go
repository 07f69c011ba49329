// Package lang defines the per-language visitor contract from spec.md §4.4
// and a registry mapping file extensions to the Visitor that parses them.
// Each concrete visitor (internal/lang/golang, internal/lang/python, ...)
// walks a tree-sitter concrete syntax tree with a dispatch table keyed by
// node kind, grounded on termfx-morfx's internal/lang/golang/provider.go.
package lang

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/recordbuf"
)

// Visitor is the per-language parse contract: feed bytes to the external
// tree-sitter grammar, traverse the resulting tree, and append normalized
// records to buf (spec.md §4.4).
type Visitor interface {
	// Language returns the canonical language name (e.g. "go").
	Language() string
	// Extensions returns the file extensions this visitor claims.
	Extensions() []string
	// ParseFile reads path, parses it, and appends extracted records to buf.
	// root is the project root, used to compute the record's Directory as
	// a path relative to it.
	ParseFile(path, root string, buf *recordbuf.Buffer, filt *filter.Engine) error
}

// Registry maps file extensions to the Visitor responsible for them.
type Registry struct {
	byExt map[string]Visitor
}

// NewRegistry creates an empty Registry. Visitors are registered explicitly
// via Register, mirroring termfx-morfx's language-agnostic core/registry
// design: nothing in this package has built-in knowledge of any language.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Visitor)}
}

// Register adds v for every extension it claims.
func (r *Registry) Register(v Visitor) {
	for _, ext := range v.Extensions() {
		r.byExt[ext] = v
	}
}

// For returns the Visitor registered for path's extension, or (nil, false).
func (r *Registry) For(path string) (Visitor, bool) {
	v, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return v, ok
}

// Extensions returns every extension with a registered visitor.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}

// ReadSource memory-maps (conceptually — os.ReadFile in this port) the file
// at path for the external syntax-tree builder, per spec.md §4.4 step 1.
func ReadSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("lang: stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("lang: %s is not a regular file", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lang: read %s: %w", path, err)
	}
	return src, nil
}

// RelDirFile splits path (relative to root) into the (directory, filename)
// pair the store keys records on.
func RelDirFile(path, root string) (directory, filename string) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	directory, filename = filepath.Split(rel)
	directory = strings.TrimSuffix(directory, "/")
	if directory == "" {
		directory = "."
	}
	return directory, filename
}

// FilenameRecord appends the basename-without-extension record on line 1,
// required by spec.md §4.4 step 3 for every parsed file.
func FilenameRecord(buf *recordbuf.Buffer, directory, filename string) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if len(base) < 2 {
		return
	}
	buf.AddEntry(base, 1, "filename", directory, filename, "", recordbuf.ExtCols{})
}

var wordSplit = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// TokenizeWords splits text on non-word characters, sanitizes each word via
// the filter engine's sanitizer, skips empties, and emits each surviving
// word as its own record with the given context (spec.md §4.4 "Comment/
// string tokenization"). Words that normalize to fewer than two characters
// (after the same trailing-punctuation strip recordbuf.AddEntry applies for
// comment/string contexts) are dropped here too, per spec.md §8's filter
// soundness invariant and the schema's length(symbol) >= 2 constraint.
func TokenizeWords(buf *recordbuf.Buffer, text string, line int, context, directory, filename string) {
	for _, word := range wordSplit.Split(text, -1) {
		clean := filter.SanitizeWord(word)
		if clean == "" {
			continue
		}
		if len(strings.TrimRight(clean, ".,;:!?)]}\"'")) < 2 {
			continue
		}
		buf.AddEntry(clean, line, context, directory, filename, "", recordbuf.ExtCols{})
	}
}

// SourceLocation renders a tree-sitter node's span as "row:col - row:col"
// (1-based rows and columns, matching spec.md §3's source_location format;
// tree-sitter points are 0-based, so this adds 1 to both).
func SourceLocation(n *sitter.Node) string {
	start := n.StartPoint()
	end := n.EndPoint()
	return fmt.Sprintf("%d:%d - %d:%d", start.Row+1, start.Column+1, end.Row+1, end.Column+1)
}

// LineOf returns the 1-based line number of a tree-sitter node's start.
func LineOf(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}
