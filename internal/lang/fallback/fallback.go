// Package fallback provides a reduced-depth visitor for the languages
// SPEC_FULL.md §6 documents as reduced-fidelity: javascript, typescript,
// java, c, cpp, ruby, php, rust. It emits comment and string words,
// function/class names, and imports; other identifiers produce no record. Each gets full
// tree-sitter grammar registration (github.com/smacker/go-tree-sitter's
// per-language subpackages, the same import set mvp-joe-canopy's
// internal/runtime/languages.go registers) but a single generic traversal
// instead of a bespoke dispatch table per language, trading extraction
// depth for breadth across the remaining grammars.
package fallback

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/lang"
	"github.com/jward/codeidx/internal/recordbuf"
)

// Config describes one language's grammar and the small set of node-type
// names worth distinguishing beyond comment/string/identifier.
type Config struct {
	LangName      string
	Exts          []string
	Grammar       *sitter.Language
	FunctionTypes map[string]bool
	ClassTypes    map[string]bool
	ImportTypes   map[string]bool
	CommentTypes  map[string]bool
	StringTypes   map[string]bool
}

// Visitor implements lang.Visitor generically from a Config.
type Visitor struct {
	cfg Config
}

// New builds a fallback Visitor for the given language configuration.
func New(cfg Config) *Visitor { return &Visitor{cfg: cfg} }

func (v *Visitor) Language() string     { return v.cfg.LangName }
func (v *Visitor) Extensions() []string { return v.cfg.Exts }

type walker struct {
	cfg       Config
	src       []byte
	buf       *recordbuf.Buffer
	filt      *filter.Engine
	directory string
	filename  string
}

func (v *Visitor) ParseFile(path, root string, buf *recordbuf.Buffer, filt *filter.Engine) error {
	src, err := lang.ReadSource(path)
	if err != nil {
		return err
	}
	directory, filename := lang.RelDirFile(path, root)
	lang.FilenameRecord(buf, directory, filename)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(v.cfg.Grammar)

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	w := &walker{cfg: v.cfg, src: src, buf: buf, filt: filt, directory: directory, filename: filename}
	w.walk(tree.RootNode(), "")
	return nil
}

func (w *walker) text(n *sitter.Node) string { return n.Content(w.src) }

func (w *walker) emit(raw string, line int, context, parent string, isDef bool, loc string) {
	if context != "comment" && context != "string" && context != "filename" {
		if !w.filt.ShouldIndex(raw) {
			return
		}
	}
	w.buf.AddEntry(raw, line, context, w.directory, w.filename, loc, recordbuf.ExtCols{
		ParentSymbol: parent,
		IsDefinition: isDef,
	})
}

// walk recurses over every node, recognizing only the node-type sets in
// cfg.{FunctionTypes,ClassTypes,ImportTypes,CommentTypes,StringTypes};
// everything else is plain recursion with no record emitted for the node
// itself. Word tokenization applies only to comment and string nodes, so
// identifiers outside those node-type sets (variables, arguments, calls)
// are not recorded.
func (w *walker) walk(n *sitter.Node, parent string) {
	if n == nil {
		return
	}
	t := n.Type()
	switch {
	case w.cfg.CommentTypes[t]:
		w.tokenizeText(n, "comment")
		return
	case w.cfg.StringTypes[t]:
		w.tokenizeText(n, "string")
		return
	case w.cfg.FunctionTypes[t]:
		w.visitNamed(n, parent, "function", true)
		return
	case w.cfg.ClassTypes[t]:
		w.visitNamed(n, parent, "class", true)
		return
	case w.cfg.ImportTypes[t]:
		w.emit(strings.Trim(w.text(n), "'\"; \t"), lang.LineOf(n), "import", "", false, "")
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i), parent)
	}
}

// visitNamed emits a record for n's "name" field child (falling back to the
// first identifier-shaped child), then recurses into the body with the new
// name as parent, so nested functions/classes still attach correctly.
func (w *walker) visitNamed(n *sitter.Node, parent, context string, isDef bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if strings.Contains(c.Type(), "identifier") {
				nameNode = c
				break
			}
		}
	}
	name := parent
	if nameNode != nil {
		name = w.text(nameNode)
		w.emit(name, lang.LineOf(nameNode), context, parent, isDef, lang.SourceLocation(n))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nameNode {
			continue
		}
		w.walk(child, name)
	}
}

func (w *walker) tokenizeText(n *sitter.Node, context string) {
	text := strings.Trim(w.text(n), "'\"`")
	lang.TokenizeWords(w.buf, text, lang.LineOf(n), context, w.directory, w.filename)
}
