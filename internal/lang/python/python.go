// Package python implements the Python language visitor, grounded on
// termfx-morfx/internal/lang/python/provider.go's GetNodeKind/GetNodeName
// extraction helpers (extractIdentifier, extractAssignmentTarget,
// extractImportName/extractFromImportName, extractCallName), generalized to
// emit spec.md IndexRecords via the dispatch-table traversal shared in
// spirit with internal/lang/golang.
package python

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	python_sitter "github.com/smacker/go-tree-sitter/python"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/lang"
	"github.com/jward/codeidx/internal/recordbuf"
)

// Visitor implements lang.Visitor for Python source files.
type Visitor struct{}

func New() *Visitor { return &Visitor{} }

func (v *Visitor) Language() string     { return "python" }
func (v *Visitor) Extensions() []string { return []string{".py", ".pyw", ".pyi"} }

type walker struct {
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
	parser.SetLanguage(python_sitter.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	w := &walker{src: src, buf: buf, filt: filt, directory: directory, filename: filename}
	w.walk(tree.RootNode(), "")
	return nil
}

func (w *walker) text(n *sitter.Node) string { return n.Content(w.src) }

func (w *walker) emit(raw string, line int, context, parent, typ, modifier, clue string, isDef bool, loc string) {
	if context != "comment" && context != "string" && context != "filename" {
		if !w.filt.ShouldIndex(raw) {
			return
		}
	}
	w.buf.AddEntry(raw, line, context, w.directory, w.filename, loc, recordbuf.ExtCols{
		ParentSymbol: parent,
		Modifier:     modifier,
		Type:         typ,
		Clue:         clue,
		IsDefinition: isDef,
	})
}

// walk mirrors the dispatch-by-node-kind traversal of internal/lang/golang,
// generalized to the node types Python's grammar produces.
func (w *walker) walk(n *sitter.Node, parent string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_definition":
		w.visitFunctionDefinition(n, parent)
	case "class_definition":
		w.visitClassDefinition(n)
	case "assignment", "annotated_assignment":
		w.visitAssignment(n, parent)
	case "import_statement":
		w.visitImportStatement(n)
	case "import_from_statement":
		w.visitImportFromStatement(n)
	case "decorator":
		w.visitDecorator(n, parent)
	case "call":
		w.visitCall(n, parent)
	case "lambda":
		w.visitLambda(n, parent)
	case "comment":
		w.tokenizeText(n, "comment")
	case "string":
		w.tokenizeText(n, "string")
	default:
		w.walkChildren(n, parent)
	}
}

func (w *walker) tokenizeText(n *sitter.Node, context string) {
	text := strings.Trim(w.text(n), "'\"")
	lang.TokenizeWords(w.buf, text, lang.LineOf(n), context, w.directory, w.filename)
}

func (w *walker) walkChildren(n *sitter.Node, parent string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i), parent)
	}
}

// isMethod reports whether n (a function_definition) has any
// class_definition ancestor, matching provider.go's GetNodeKind
// walk-up-to-class_definition check. A function nested inside a method also
// counts.
func isMethod(n *sitter.Node) bool {
	p := n.Parent()
	for p != nil {
		if p.Type() == "class_definition" {
			return true
		}
		p = p.Parent()
	}
	return false
}

func (w *walker) visitFunctionDefinition(n *sitter.Node, parent string) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		w.walkChildren(n, parent)
		return
	}
	name := w.text(nameNode)
	modifier := ""
	if isMethod(n) {
		modifier = "method"
	}
	w.emit(name, lang.LineOf(nameNode), "function", parent, "", modifier, "", true, lang.SourceLocation(n))

	if params := n.ChildByFieldName("parameters"); params != nil {
		w.visitParameters(params, name)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body, name)
	}
}

func (w *walker) visitParameters(n *sitter.Node, parent string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "identifier":
			name := w.text(child)
			if name == "self" || name == "cls" {
				continue
			}
			w.emit(name, lang.LineOf(child), "argument", parent, "", "", "", false, "")
		case "default_parameter", "typed_parameter", "typed_default_parameter":
			if id := child.ChildByFieldName("name"); id != nil {
				w.emit(w.text(id), lang.LineOf(id), "argument", parent, "", "", "", false, "")
			} else if child.ChildCount() > 0 && child.Child(0).Type() == "identifier" {
				w.emit(w.text(child.Child(0)), lang.LineOf(child), "argument", parent, "", "", "", false, "")
			}
		}
	}
}

func (w *walker) visitClassDefinition(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		w.walkChildren(n, "")
		return
	}
	name := w.text(nameNode)
	w.emit(name, lang.LineOf(nameNode), "class", "", "", "", "", true, lang.SourceLocation(n))
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body, name)
	}
}

// visitAssignment extracts the target per provider.go's
// extractAssignmentTarget: plain identifier, self.attribute (emitted as a
// property), or the first element of a tuple/pattern list.
func (w *walker) visitAssignment(n *sitter.Node, parent string) {
	left := n.ChildByFieldName("left")
	if left == nil {
		w.walkChildren(n, parent)
		return
	}
	switch left.Type() {
	case "identifier":
		name := w.text(left)
		modifier := ""
		if isUpperCase(name) {
			modifier = "constant"
		}
		w.emit(name, lang.LineOf(left), "variable", parent, "", modifier, "", false, "")
	case "attribute":
		if attr := left.ChildByFieldName("attribute"); attr != nil {
			w.emit(w.text(attr), lang.LineOf(attr), "property", parent, "", "", "", false, "")
		}
	case "pattern_list", "tuple_pattern":
		if left.ChildCount() > 0 {
			first := left.Child(0)
			if first.Type() == "identifier" {
				w.emit(w.text(first), lang.LineOf(first), "variable", parent, "", "", "", false, "")
			}
		}
	}
	if right := n.ChildByFieldName("right"); right != nil {
		w.walk(right, parent)
	}
}

func isUpperCase(s string) bool {
	if s == "" {
		return false
	}
	return s == strings.ToUpper(s) && strings.ToUpper(s) != strings.ToLower(s)
}

func (w *walker) visitImportStatement(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "dotted_name":
			w.emit(w.text(child), lang.LineOf(child), "import", "", "", "", "", false, "")
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				w.emit(w.text(name), lang.LineOf(name), "import", "", "", "", "", false, "")
			}
		}
	}
}

func (w *walker) visitImportFromStatement(n *sitter.Node) {
	if module := n.ChildByFieldName("module_name"); module != nil {
		w.emit(w.text(module), lang.LineOf(module), "import", "", "", "", "", false, "")
	}
}

func (w *walker) visitDecorator(n *sitter.Node, parent string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "identifier":
			w.emit(w.text(child), lang.LineOf(child), "call", parent, "", "decorator", "", false, "")
		case "attribute":
			if attr := child.ChildByFieldName("attribute"); attr != nil {
				w.emit(w.text(attr), lang.LineOf(attr), "call", parent, "", "decorator", "", false, "")
			}
		case "call":
			w.walk(child, parent)
		}
	}
}

func (w *walker) visitCall(n *sitter.Node, parent string) {
	fn := n.ChildByFieldName("function")
	if fn != nil {
		name, receiver := w.callName(fn)
		if name != "" {
			callParent := receiver
			if callParent == "" {
				callParent = parent
			}
			w.emit(name, lang.LineOf(fn), "call", callParent, "", "", "", false, "")
		}
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		w.walk(args, parent)
	}
}

func (w *walker) callName(fn *sitter.Node) (name, receiver string) {
	switch fn.Type() {
	case "identifier":
		return w.text(fn), ""
	case "attribute":
		obj := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		if attr != nil {
			r := ""
			if obj != nil {
				r = w.text(obj)
			}
			return w.text(attr), r
		}
	}
	return w.text(fn), ""
}

func (w *walker) visitLambda(n *sitter.Node, parent string) {
	w.emit("<lambda>", lang.LineOf(n), "lambda", parent, "", "closure", "", true, lang.SourceLocation(n))
	if params := n.ChildByFieldName("parameters"); params != nil {
		w.visitParameters(params, "<lambda>")
	}
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body, "<lambda>")
	}
}
