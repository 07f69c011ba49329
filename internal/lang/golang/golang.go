// Package golang implements the Go language visitor: a tree-sitter
// dispatch table over Go's grammar, grounded on
// termfx-morfx/internal/lang/golang/provider.go's GetNodeKind/GetNodeName
// extraction style, generalized to emit spec.md IndexRecords instead of a
// DSL query AST.
package golang

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/jward/codeidx/internal/filter"
	"github.com/jward/codeidx/internal/lang"
	"github.com/jward/codeidx/internal/recordbuf"
)

// Visitor implements lang.Visitor for Go source files.
type Visitor struct{}

// New returns a Go language Visitor.
func New() *Visitor { return &Visitor{} }

func (v *Visitor) Language() string     { return "go" }
func (v *Visitor) Extensions() []string { return []string{".go"} }

// walker carries the per-file state threaded through the dispatch table:
// the source bytes, the target buffer, the filter engine, and the
// (directory, filename) the records are keyed under (spec.md §4.4).
type walker struct {
	src       []byte
	buf       *recordbuf.Buffer
	filt      *filter.Engine
	directory string
	filename  string
}

// ParseFile implements lang.Visitor (spec.md §4.4 steps 1-4).
func (v *Visitor) ParseFile(path, root string, buf *recordbuf.Buffer, filt *filter.Engine) error {
	src, err := lang.ReadSource(path)
	if err != nil {
		return err
	}
	directory, filename := lang.RelDirFile(path, root)
	lang.FilenameRecord(buf, directory, filename)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(golang.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		// no tree: skip file, per spec.md §4.4 failure semantics; the error
		// keeps the driver from replacing the file's existing rows.
		return fmt.Errorf("golang: no syntax tree for %s", path)
	}
	defer tree.Close()

	w := &walker{src: src, buf: buf, filt: filt, directory: directory, filename: filename}
	w.walk(tree.RootNode(), "")
	return nil
}

func (w *walker) text(n *sitter.Node) string {
	return n.Content(w.src)
}

func (w *walker) emit(raw string, line int, context, parent, typ, scope, modifier, clue string, isDef bool, loc string) {
	if context != "comment" && context != "string" && context != "filename" {
		if !w.filt.ShouldIndex(raw) {
			return
		}
	}
	w.buf.AddEntry(raw, line, context, w.directory, w.filename, loc, recordbuf.ExtCols{
		ParentSymbol: parent,
		Scope:        scope,
		Namespace:    "",
		Modifier:     modifier,
		Type:         typ,
		Clue:         clue,
		IsDefinition: isDef,
	})
}

// walk is the dispatch-table traversal: node kinds with a handler run it
// (which may recurse explicitly into substructure); everything else falls
// through to default recursion over children, per spec.md §4.4/§4.9
// ("Dispatch by node kind").
func (w *walker) walk(n *sitter.Node, parent string) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_declaration":
		w.visitFunction(n)
	case "method_declaration":
		w.visitMethod(n)
	case "var_declaration":
		w.visitVarDeclaration(n, parent)
	case "short_var_declaration":
		w.visitShortVarDeclaration(n, parent)
	case "const_declaration":
		w.visitConstDeclaration(n)
	case "type_declaration":
		w.visitTypeDeclaration(n)
	case "import_declaration":
		w.visitImportDeclaration(n)
	case "call_expression":
		w.visitCallExpression(n, parent)
	case "func_literal":
		w.visitFuncLiteral(n, parent)
	case "comment":
		w.tokenizeText(n, "comment")
	case "interpreted_string_literal", "raw_string_literal":
		w.tokenizeText(n, "string")
	default:
		w.walkChildren(n, parent)
	}
}

func (w *walker) tokenizeText(n *sitter.Node, context string) {
	text := strings.Trim(w.text(n), "`\"")
	lang.TokenizeWords(w.buf, text, lang.LineOf(n), context, w.directory, w.filename)
}

func (w *walker) walkChildren(n *sitter.Node, parent string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i), parent)
	}
}

func (w *walker) visitFunction(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		w.walkChildren(n, "")
		return
	}
	name := w.text(nameNode)
	w.emit(name, lang.LineOf(nameNode), "function", "", "", "", "", "", true, lang.SourceLocation(n))

	if params := n.ChildByFieldName("parameters"); params != nil {
		w.visitParameterList(params, name)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body, name)
	}
}

func (w *walker) visitMethod(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		w.walkChildren(n, "")
		return
	}
	name := w.text(nameNode)
	receiver := ""
	if recv := n.ChildByFieldName("receiver"); recv != nil {
		receiver = w.receiverTypeName(recv)
	}
	w.emit(name, lang.LineOf(nameNode), "function", receiver, "", "", "", "method", true, lang.SourceLocation(n))

	if params := n.ChildByFieldName("parameters"); params != nil {
		w.visitParameterList(params, name)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body, name)
	}
}

func (w *walker) receiverTypeName(recv *sitter.Node) string {
	for i := 0; i < int(recv.ChildCount()); i++ {
		if recv.Child(i).Type() == "parameter_declaration" {
			if t := recv.Child(i).ChildByFieldName("type"); t != nil {
				return strings.TrimPrefix(w.text(t), "*")
			}
		}
	}
	return ""
}

// visitParameterList emits one argument record per parameter, attached to
// parent (the enclosing function/method/lambda name), per spec.md §4.4.
func (w *walker) visitParameterList(n *sitter.Node, parent string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "parameter_declaration" && child.Type() != "variadic_parameter_declaration" {
			continue
		}
		typ := ""
		if t := child.ChildByFieldName("type"); t != nil {
			typ = w.text(t)
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			id := child.Child(j)
			if id.Type() == "identifier" {
				w.emit(w.text(id), lang.LineOf(id), "argument", parent, typ, "", "", "", false, "")
			}
		}
	}
}

func (w *walker) visitVarDeclaration(n *sitter.Node, parent string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec.Type() != "var_spec" {
			continue
		}
		typ := ""
		if t := spec.ChildByFieldName("type"); t != nil {
			typ = w.text(t)
		}
		if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
			w.emitVarNames(nameNode, parent, typ)
		}
		if value := spec.ChildByFieldName("value"); value != nil {
			w.walk(value, parent)
		}
	}
}

func (w *walker) emitVarNames(nameNode *sitter.Node, parent, typ string) {
	if nameNode.Type() == "identifier_list" {
		for i := 0; i < int(nameNode.ChildCount()); i++ {
			id := nameNode.Child(i)
			if id.Type() == "identifier" {
				w.emit(w.text(id), lang.LineOf(id), "variable", parent, typ, "", "", "", false, "")
			}
		}
		return
	}
	w.emit(w.text(nameNode), lang.LineOf(nameNode), "variable", parent, typ, "", "", "", false, "")
}

func (w *walker) visitShortVarDeclaration(n *sitter.Node, parent string) {
	left := n.ChildByFieldName("left")
	if left != nil {
		w.emitVarNames(left, parent, "")
	}
	if right := n.ChildByFieldName("right"); right != nil {
		w.walk(right, parent)
	}
}

func (w *walker) visitConstDeclaration(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec.Type() != "const_spec" {
			continue
		}
		if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
			w.emitVarNames(nameNode, "", "")
		}
	}
}

func (w *walker) visitTypeDeclaration(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec.Type() != "type_spec" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := w.text(nameNode)
		w.emit(name, lang.LineOf(nameNode), "class", "", "", "", "", "", true, lang.SourceLocation(spec))

		if t := spec.ChildByFieldName("type"); t != nil && t.Type() == "struct_type" {
			w.visitStructFields(t, name)
		}
		if t := spec.ChildByFieldName("type"); t != nil && t.Type() == "interface_type" {
			w.visitInterfaceMethods(t, name)
		}
	}
}

func (w *walker) visitStructFields(n *sitter.Node, parent string) {
	body := n.ChildByFieldName("body")
	if body == nil {
		body = n
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		field := body.Child(i)
		if field.Type() != "field_declaration" {
			continue
		}
		typ := ""
		if t := field.ChildByFieldName("type"); t != nil {
			typ = w.text(t)
		}
		nameNode := field.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		if nameNode.Type() == "field_identifier_list" {
			for j := 0; j < int(nameNode.ChildCount()); j++ {
				id := nameNode.Child(j)
				if id.Type() == "field_identifier" {
					w.emit(w.text(id), lang.LineOf(id), "property", parent, typ, "", "", "", false, "")
				}
			}
			continue
		}
		w.emit(w.text(nameNode), lang.LineOf(nameNode), "property", parent, typ, "", "", "", false, "")
	}
}

func (w *walker) visitInterfaceMethods(n *sitter.Node, parent string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		method := n.Child(i)
		if method.Type() != "method_elem" {
			continue
		}
		nameNode := method.ChildByFieldName("name")
		if nameNode != nil {
			w.emit(w.text(nameNode), lang.LineOf(nameNode), "function", parent, "", "", "", "interface-method", false, "")
		}
	}
}

func (w *walker) visitImportDeclaration(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		w.collectImportSpecs(child)
	}
}

func (w *walker) collectImportSpecs(n *sitter.Node) {
	if n.Type() == "import_spec" {
		pathNode := n.ChildByFieldName("path")
		if pathNode != nil {
			path := strings.Trim(w.text(pathNode), "\"`")
			w.emit(path, lang.LineOf(n), "import", "", "", "", "", "", false, "")
		}
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.collectImportSpecs(n.Child(i))
	}
}

func (w *walker) visitCallExpression(n *sitter.Node, parent string) {
	fn := n.ChildByFieldName("function")
	if fn != nil {
		name, receiver := w.callName(fn)
		if name != "" {
			callParent := receiver
			if callParent == "" {
				callParent = parent
			}
			w.emit(name, lang.LineOf(fn), "call", callParent, "", "", "", "", false, "")
		}
	}
	// Explicit recursion into arguments so lambdas embedded as call
	// arguments are reached (spec.md §4.4 extraction rules).
	if args := n.ChildByFieldName("arguments"); args != nil {
		w.walk(args, parent)
	}
}

func (w *walker) callName(fn *sitter.Node) (name, receiver string) {
	switch fn.Type() {
	case "identifier":
		return w.text(fn), ""
	case "selector_expression":
		field := fn.ChildByFieldName("field")
		operand := fn.ChildByFieldName("operand")
		if field != nil {
			r := ""
			if operand != nil {
				r = w.text(operand)
			}
			return w.text(field), r
		}
	}
	return w.text(fn), ""
}

func (w *walker) visitFuncLiteral(n *sitter.Node, parent string) {
	w.emit("<lambda>", lang.LineOf(n), "lambda", parent, "", "", "", "closure", true, lang.SourceLocation(n))
	if params := n.ChildByFieldName("parameters"); params != nil {
		w.visitParameterList(params, "<lambda>")
	}
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body, "<lambda>")
	}
}
