// Package treesitter is the one concrete parsetree/langregistry
// implementation this module ships: it wraps github.com/tree-sitter/
// go-tree-sitter and a per-language grammar module into the small
// capability interfaces internal/parsetree and internal/langregistry
// define, so the rest of the compiler never imports tree-sitter
// directly.
//
// A lazily constructed, pooled *tree_sitter.Parser per language (one
// sync.Pool per adapter, since each adapter already is one language),
// with the usual Parse/RootNode/ChildByFieldName/Kind traversal
// surface. Rather than classify every node by a big per-language
// switch on node.Kind() (a string) at walk time, this package resolves
// each grammar's node-kind and field names to tree-sitter's own
// numeric ids once, at registration time, and hands the rest of the
// compiler the constant-time uint16 lookups internal/hir and
// internal/block expect.
package treesitter

import (
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/langregistry"
	"github.com/allenanswerzq/llmcc/internal/parsetree"
)

// node adapts a *tree_sitter.Node to parsetree.Node.
type node struct{ n *ts.Node }

func wrapNode(n *ts.Node) parsetree.Node {
	if n == nil {
		return nil
	}
	return node{n}
}

func (w node) Kind() uint16 { return w.n.KindId() }

func (w node) Span() parsetree.ByteRange {
	return parsetree.ByteRange{Start: uint32(w.n.StartByte()), End: uint32(w.n.EndByte())}
}

func (w node) ChildCount() int { return int(w.n.ChildCount()) }

func (w node) Child(i int) parsetree.Node {
	if i < 0 || i >= w.ChildCount() {
		return nil
	}
	return wrapNode(w.n.Child(uint(i)))
}

func (w node) FieldChild(fieldID uint16) parsetree.Node {
	if fieldID == 0 {
		return nil
	}
	return wrapNode(w.n.ChildByFieldId(fieldID))
}

// tree adapts a *tree_sitter.Tree to parsetree.Tree.
type tree struct{ t *ts.Tree }

func (w *tree) Root() parsetree.Node { return wrapNode(w.t.RootNode()) }

func (w *tree) Close() {
	if w.t != nil {
		w.t.Close()
	}
}

// kindEntry is what a grammar's node-kind id resolves to in this
// compiler's two classification schemes.
type kindEntry struct {
	hir   hir.Kind
	block block.Kind
}

// nodeSpec names one grammar node kind (by the string tree-sitter's
// grammar.json uses, e.g. "function_declaration") and what it means.
type nodeSpec struct {
	name  string
	named bool
	hir   hir.Kind
	block block.Kind
}

// langSpec is the declarative definition of one language adapter: a
// grammar, the field names this grammar uses consistently for a
// node's identifier and declared-type children, and the node kinds
// that matter to the block/HIR builders. Every other node kind is
// left unclassified and safely flattens (block.KindUndefined) or
// falls back to hir.KindScope/KindInternal.
type langSpec struct {
	tag        string
	extensions []string
	language   func() *ts.Language
	nameField  string
	typeField  string
	nodes      []nodeSpec
}

// adapter is the langregistry.Language built from a langSpec, with
// every name resolved to tree-sitter's numeric ids up front.
type adapter struct {
	tag        string
	extensions []string
	language   *ts.Language
	pool       sync.Pool

	kinds      map[uint16]kindEntry
	tokenNames map[uint16]string
	nameField  uint16
	typeField  uint16
}

func newAdapter(spec langSpec) *adapter {
	lang := spec.language()
	a := &adapter{
		tag:        spec.tag,
		extensions: spec.extensions,
		language:   lang,
		kinds:      make(map[uint16]kindEntry, len(spec.nodes)),
		tokenNames: make(map[uint16]string, len(spec.nodes)),
	}
	a.pool.New = func() any {
		p := ts.NewParser()
		if err := p.SetLanguage(lang); err != nil {
			// Registration-time grammar/binding mismatch: every adapter
			// shares one grammar pointer with its Language, so this can
			// only fail if the grammar module and go-tree-sitter's ABI
			// disagree, not from anything a caller passed in.
			panic(fmt.Sprintf("treesitter: %s: SetLanguage: %v", spec.tag, err))
		}
		return p
	}

	for _, ns := range spec.nodes {
		id := lang.IdForNodeKind(ns.name, ns.named)
		if id == 0 {
			// Grammar doesn't have this node kind (e.g. a construct one
			// language lacks, like Go's impl_item). Silently skip: the
			// spec lists the union of constructs this family of
			// languages might have, not a promise every one exists.
			continue
		}
		a.kinds[id] = kindEntry{hir: ns.hir, block: ns.block}
		a.tokenNames[id] = ns.name
	}

	a.nameField = lang.FieldIdForName(spec.nameField)
	a.typeField = lang.FieldIdForName(spec.typeField)
	return a
}

func (a *adapter) Tag() string                   { return a.tag }
func (a *adapter) SupportedExtensions() []string { return a.extensions }
func (a *adapter) NameField() uint16             { return a.nameField }
func (a *adapter) TypeField() uint16             { return a.typeField }

func (a *adapter) HirKind(tokenID uint16) hir.Kind {
	if e, ok := a.kinds[tokenID]; ok {
		return e.hir
	}
	return hir.KindScope
}

func (a *adapter) BlockKind(tokenID uint16) block.Kind {
	if e, ok := a.kinds[tokenID]; ok {
		return e.block
	}
	return block.KindUndefined
}

func (a *adapter) TokenStr(tokenID uint16) (string, bool) {
	s, ok := a.tokenNames[tokenID]
	return s, ok
}

func (a *adapter) IsValidToken(tokenID uint16) bool {
	_, ok := a.kinds[tokenID]
	return ok
}

// Parse leases a parser from this adapter's pool (one per concurrent
// caller, grown on demand) and hands back a parsetree.Tree wrapping the
// resulting *tree_sitter.Tree. The parser is returned to the pool
// immediately: unlike the tree, it holds no reference into src once
// Parse returns.
func (a *adapter) Parse(src []byte) (parsetree.Tree, error) {
	p := a.pool.Get().(*ts.Parser)
	defer a.pool.Put(p)

	t := p.Parse(src, nil)
	if t == nil {
		return nil, fmt.Errorf("treesitter: %s: parser produced no tree", a.tag)
	}
	return &tree{t: t}, nil
}

// register resolves spec and adds it to the process-wide language
// registry under its tag and extensions.
func register(spec langSpec) {
	langregistry.Register(newAdapter(spec))
}
