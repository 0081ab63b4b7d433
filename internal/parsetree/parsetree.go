// Package parsetree defines the parser-agnostic capability interface
// the rest of the compiler builds on. A concrete parser — tree-sitter,
// or anything else — only needs to satisfy Tree and Node; nothing
// above this package ever inspects parser internals.
package parsetree

// ByteRange is a half-open [Start, End) byte offset into a compile
// unit's source.
type ByteRange struct {
	Start uint32
	End   uint32
}

// Len reports the span's width in bytes.
func (r ByteRange) Len() uint32 { return r.End - r.Start }

// Node is a single node of a parse tree: an opaque, thread-safe
// handle exposing a token-kind id, a byte span, and ways to reach its
// children.
type Node interface {
	// Kind is the raw, parser-specific token/grammar-symbol id for
	// this node. The language registry maps these to HirKind/BlockKind.
	Kind() uint16

	// Span is this node's byte range into the compile unit's source.
	Span() ByteRange

	// ChildCount reports how many children this node has.
	ChildCount() int

	// Child returns the i'th child, or nil if i is out of range.
	Child(i int) Node

	// FieldChild returns the child reachable via the named grammar
	// field (e.g. a function's "name" or "type" field), or nil if the
	// node has no child under that field. fieldID is a language
	// registry field id, not a string, so this never allocates.
	FieldChild(fieldID uint16) Node
}

// Tree is a complete parsed source file: an opaque, thread-safe
// object exposing a root Node. The core only ever walks a Tree
// through this interface.
type Tree interface {
	// Root returns the tree's root node.
	Root() Node

	// Close releases any resources the concrete parser implementation
	// holds for this tree (e.g. a tree-sitter C tree handle). Safe to
	// call more than once.
	Close()
}
