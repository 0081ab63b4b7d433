package treesitter

import (
	ts "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"

	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/hir"
)

// file, ident, and kind build the three classifications almost
// every grammar needs, factored out so each langSpec below states only
// what its grammar calls these constructs.
func file(name string) nodeSpec {
	return nodeSpec{name: name, named: true, hir: hir.KindFile, block: block.KindUndefined}
}

func ident(name string) nodeSpec {
	return nodeSpec{name: name, named: true, hir: hir.KindIdentifier, block: block.KindUndefined}
}

func kind(name string, bk block.Kind) nodeSpec {
	return nodeSpec{name: name, named: true, hir: hir.KindScope, block: bk}
}

func init() {
	register(goSpec)
	register(rustSpec)
	register(pythonSpec)
	register(javascriptSpec)
	register(typescriptSpec)
	register(tsxSpec)
	register(javaSpec)
	register(cppSpec)
	register(csharpSpec)
	register(phpSpec)
	register(zigSpec)
}

// goSpec comes first since llmcc itself is written in Go, and this is
// the grammar its own source exercises.
var goSpec = langSpec{
	tag:        "go",
	extensions: []string{".go"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_go.Language()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("source_file"),
		kind("function_declaration", block.KindFunc),
		kind("method_declaration", block.KindFunc),
		kind("type_spec", block.KindClass),
		kind("parameter_declaration", block.KindParameter),
		kind("field_declaration", block.KindField),
		kind("import_spec", block.KindUse),
		ident("identifier"),
		ident("field_identifier"),
		ident("type_identifier"),
		ident("package_identifier"),
	},
}

// rustSpec covers Rust's struct/trait/impl triad directly: impl_item
// is the one construct every other language here lacks, the reason
// block.KindImpl exists as its own kind rather than folding into Class
// (see DESIGN.md).
var rustSpec = langSpec{
	tag:        "rust",
	extensions: []string{".rs"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_rust.Language()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("source_file"),
		kind("function_item", block.KindFunc),
		kind("struct_item", block.KindClass),
		kind("enum_item", block.KindClass),
		kind("trait_item", block.KindTrait),
		kind("impl_item", block.KindImpl),
		kind("parameter", block.KindParameter),
		kind("field_declaration", block.KindField),
		kind("use_declaration", block.KindUse),
		ident("identifier"),
		ident("field_identifier"),
		ident("type_identifier"),
	},
}

// pythonSpec: bare (non-annotated) positional parameters are plain
// identifier nodes in this grammar, not a dedicated parameter kind, so
// they fall through to hir.KindIdentifier and never become a
// block.KindParameter — only typed/default-valued parameters, which
// this grammar does wrap in their own node kind, do. See DESIGN.md.
var pythonSpec = langSpec{
	tag:        "python",
	extensions: []string{".py"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_python.Language()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("module"),
		kind("function_definition", block.KindFunc),
		kind("class_definition", block.KindClass),
		kind("typed_parameter", block.KindParameter),
		kind("default_parameter", block.KindParameter),
		kind("typed_default_parameter", block.KindParameter),
		kind("import_statement", block.KindUse),
		kind("import_from_statement", block.KindUse),
		ident("identifier"),
	},
}

var javascriptSpec = langSpec{
	tag:        "javascript",
	extensions: []string{".js", ".jsx", ".mjs"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_javascript.Language()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("program"),
		kind("function_declaration", block.KindFunc),
		kind("method_definition", block.KindFunc),
		kind("class_declaration", block.KindClass),
		kind("import_specifier", block.KindUse),
		ident("identifier"),
		ident("property_identifier"),
		ident("shorthand_property_identifier"),
	},
}

// typescriptSpec/tsxSpec share one grammar family: TypeScript has no
// impl construct either, so its interfaces are registered as
// block.KindTrait, the same approximation Rust's traits use.
var typescriptSpec = langSpec{
	tag:        "typescript",
	extensions: []string{".ts"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_typescript.LanguageTypescript()) },
	nameField:  "name",
	typeField:  "type",
	nodes:      typescriptNodes,
}

var tsxSpec = langSpec{
	tag:        "tsx",
	extensions: []string{".tsx"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_typescript.LanguageTSX()) },
	nameField:  "name",
	typeField:  "type",
	nodes:      typescriptNodes,
}

var typescriptNodes = []nodeSpec{
	file("program"),
	kind("function_declaration", block.KindFunc),
	kind("method_definition", block.KindFunc),
	kind("class_declaration", block.KindClass),
	kind("interface_declaration", block.KindTrait),
	kind("required_parameter", block.KindParameter),
	kind("optional_parameter", block.KindParameter),
	kind("public_field_definition", block.KindField),
	kind("import_specifier", block.KindUse),
	ident("identifier"),
	ident("property_identifier"),
	ident("type_identifier"),
}

var javaSpec = langSpec{
	tag:        "java",
	extensions: []string{".java"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_java.Language()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("program"),
		kind("method_declaration", block.KindFunc),
		kind("constructor_declaration", block.KindFunc),
		kind("class_declaration", block.KindClass),
		kind("interface_declaration", block.KindTrait),
		kind("formal_parameter", block.KindParameter),
		kind("field_declaration", block.KindField),
		kind("import_declaration", block.KindUse),
		ident("identifier"),
		ident("type_identifier"),
	},
}

// cppSpec: free functions and methods alike parse as function_definition
// in this grammar (the declarator distinguishes them, not the node
// kind), so both collapse to block.KindFunc here. Parameter/field
// names live under a "declarator" field this grammar doesn't expose
// through a single "name" field the way Go's does; TypeField still
// recovers the declared type. See DESIGN.md.
var cppSpec = langSpec{
	tag:        "cpp",
	extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".h"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_cpp.Language()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("translation_unit"),
		kind("function_definition", block.KindFunc),
		kind("class_specifier", block.KindClass),
		kind("struct_specifier", block.KindClass),
		kind("parameter_declaration", block.KindParameter),
		kind("field_declaration", block.KindField),
		kind("preproc_include", block.KindUse),
		ident("identifier"),
		ident("field_identifier"),
		ident("type_identifier"),
		ident("namespace_identifier"),
	},
}

var csharpSpec = langSpec{
	tag:        "csharp",
	extensions: []string{".cs"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_c_sharp.Language()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("compilation_unit"),
		kind("method_declaration", block.KindFunc),
		kind("constructor_declaration", block.KindFunc),
		kind("class_declaration", block.KindClass),
		kind("interface_declaration", block.KindTrait),
		kind("parameter", block.KindParameter),
		kind("field_declaration", block.KindField),
		kind("using_directive", block.KindUse),
		ident("identifier"),
	},
}

var phpSpec = langSpec{
	tag:        "php",
	extensions: []string{".php"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_php.LanguagePHP()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("program"),
		kind("function_definition", block.KindFunc),
		kind("method_declaration", block.KindFunc),
		kind("class_declaration", block.KindClass),
		kind("interface_declaration", block.KindTrait),
		kind("simple_parameter", block.KindParameter),
		kind("property_declaration", block.KindField),
		kind("namespace_use_declaration", block.KindUse),
		ident("name"),
		ident("variable_name"),
	},
}

// zigSpec is deliberately minimal: Zig's grammar is the one
// community-maintained binding in this stack, and its node-kind
// vocabulary is less stable release to release than the
// tree-sitter/tree-sitter-* grammars above. Registering only
// "identifier" still lets .zig files parse and contribute identifier
// references; function/class/field classification is left for a
// later pass once a specific grammar version is pinned down.
var zigSpec = langSpec{
	tag:        "zig",
	extensions: []string{".zig"},
	language:   func() *ts.Language { return ts.NewLanguage(tree_sitter_zig.Language()) },
	nameField:  "name",
	typeField:  "type",
	nodes: []nodeSpec{
		file("source_file"),
		ident("identifier"),
	},
}
