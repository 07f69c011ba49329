// Package registry wires every language visitor into a single
// lang.Registry. It lives outside internal/lang itself to avoid an import
// cycle: each concrete visitor package imports internal/lang for the
// shared Visitor contract and helpers, so the thing that imports all of
// them has to sit a layer above.
package registry

import (
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	tstypescript "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/jward/codeidx/internal/lang"
	"github.com/jward/codeidx/internal/lang/fallback"
	"github.com/jward/codeidx/internal/lang/golang"
	"github.com/jward/codeidx/internal/lang/python"
)

// Build constructs the Registry wiring every supported language, per
// spec.md §4.4/§4.9. Go and Python get the full dispatch-table visitors;
// the remaining eight languages get the reduced fallback visitor described
// in SPEC_FULL.md §6 (comment/string words, function/class names, and
// imports only; no variable, argument, or call records), using the same grammar
// subpackage set mvp-joe-canopy's internal/runtime/languages.go registers.
func Build() *lang.Registry {
	r := lang.NewRegistry()
	r.Register(golang.New())
	r.Register(python.New())

	r.Register(fallback.New(fallback.Config{
		LangName:      "javascript",
		Exts:          []string{".js", ".jsx", ".mjs", ".cjs"},
		Grammar:       javascript.GetLanguage(),
		FunctionTypes: setOf("function_declaration", "method_definition", "generator_function_declaration"),
		ClassTypes:    setOf("class_declaration"),
		ImportTypes:   setOf("import_statement"),
		CommentTypes:  setOf("comment"),
		StringTypes:   setOf("string", "template_string"),
	}))

	r.Register(fallback.New(fallback.Config{
		LangName:      "typescript",
		Exts:          []string{".ts", ".tsx"},
		Grammar:       tstypescript.GetLanguage(),
		FunctionTypes: setOf("function_declaration", "method_definition", "method_signature"),
		ClassTypes:    setOf("class_declaration", "interface_declaration"),
		ImportTypes:   setOf("import_statement"),
		CommentTypes:  setOf("comment"),
		StringTypes:   setOf("string", "template_string"),
	}))

	r.Register(fallback.New(fallback.Config{
		LangName:      "java",
		Exts:          []string{".java"},
		Grammar:       java.GetLanguage(),
		FunctionTypes: setOf("method_declaration", "constructor_declaration"),
		ClassTypes:    setOf("class_declaration", "interface_declaration", "enum_declaration"),
		ImportTypes:   setOf("import_declaration"),
		CommentTypes:  setOf("line_comment", "block_comment"),
		StringTypes:   setOf("string_literal"),
	}))

	r.Register(fallback.New(fallback.Config{
		LangName:      "c",
		Exts:          []string{".c", ".h"},
		Grammar:       c.GetLanguage(),
		FunctionTypes: setOf("function_definition"),
		ClassTypes:    setOf("struct_specifier", "enum_specifier", "union_specifier"),
		ImportTypes:   setOf("preproc_include"),
		CommentTypes:  setOf("comment"),
		StringTypes:   setOf("string_literal"),
	}))

	r.Register(fallback.New(fallback.Config{
		LangName:      "cpp",
		Exts:          []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		Grammar:       cpp.GetLanguage(),
		FunctionTypes: setOf("function_definition"),
		ClassTypes:    setOf("class_specifier", "struct_specifier", "enum_specifier"),
		ImportTypes:   setOf("preproc_include"),
		CommentTypes:  setOf("comment"),
		StringTypes:   setOf("string_literal"),
	}))

	r.Register(fallback.New(fallback.Config{
		LangName:      "ruby",
		Exts:          []string{".rb"},
		Grammar:       ruby.GetLanguage(),
		FunctionTypes: setOf("method", "singleton_method"),
		ClassTypes:    setOf("class", "module"),
		ImportTypes:   setOf("call"), // require/require_relative surface as calls in ruby's grammar
		CommentTypes:  setOf("comment"),
		StringTypes:   setOf("string"),
	}))

	r.Register(fallback.New(fallback.Config{
		LangName:      "php",
		Exts:          []string{".php"},
		Grammar:       php.GetLanguage(),
		FunctionTypes: setOf("function_definition", "method_declaration"),
		ClassTypes:    setOf("class_declaration", "interface_declaration", "trait_declaration"),
		ImportTypes:   setOf("namespace_use_declaration"),
		CommentTypes:  setOf("comment"),
		StringTypes:   setOf("string"),
	}))

	r.Register(fallback.New(fallback.Config{
		LangName:      "rust",
		Exts:          []string{".rs"},
		Grammar:       rust.GetLanguage(),
		FunctionTypes: setOf("function_item"),
		ClassTypes:    setOf("struct_item", "enum_item", "trait_item", "impl_item"),
		ImportTypes:   setOf("use_declaration"),
		CommentTypes:  setOf("line_comment", "block_comment"),
		StringTypes:   setOf("string_literal"),
	}))

	return r
}

func setOf(values ...string) map[string]bool {
	s := make(map[string]bool, len(values))
	for _, v := range values {
		s[v] = true
	}
	return s
}
