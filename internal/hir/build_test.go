package hir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/interner"
	"github.com/allenanswerzq/llmcc/internal/parsetree"
)

// fakeNode is a minimal in-memory parsetree.Node used to test the HIR
// builder without depending on a real parser.
type fakeNode struct {
	kind     uint16
	span     parsetree.ByteRange
	children []*fakeNode
	fields   map[uint16]*fakeNode
}

func (n *fakeNode) Kind() uint16                 { return n.kind }
func (n *fakeNode) Span() parsetree.ByteRange     { return n.span }
func (n *fakeNode) ChildCount() int               { return len(n.children) }
func (n *fakeNode) FieldChild(f uint16) parsetree.Node {
	if child, ok := n.fields[f]; ok {
		return child
	}
	return nil
}
func (n *fakeNode) Child(i int) parsetree.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

type fakeTree struct{ root *fakeNode }

func (t *fakeTree) Root() parsetree.Node {
	if t.root == nil {
		return nil
	}
	return t.root
}
func (t *fakeTree) Close()                {}

const (
	tokFile = iota
	tokFunc
	tokIdent
	nameField = 100
)

type fakeLang struct{}

func (fakeLang) HirKind(tok uint16) hir.Kind {
	switch tok {
	case tokFile:
		return hir.KindFile
	case tokIdent:
		return hir.KindIdentifier
	default:
		return hir.KindScope
	}
}
func (fakeLang) IsValidToken(tok uint16) bool { return tok <= tokIdent }
func (fakeLang) NameField() uint16            { return nameField }
func (fakeLang) TypeField() uint16            { return 200 }

func TestBuildProducesRootAndChildren(t *testing.T) {
	src := []byte("func foo")
	ident := &fakeNode{kind: tokIdent, span: parsetree.ByteRange{Start: 5, End: 8}}
	fn := &fakeNode{
		kind:     tokFunc,
		span:     parsetree.ByteRange{Start: 0, End: 8},
		children: []*fakeNode{ident},
		fields:   map[uint16]*fakeNode{nameField: ident},
	}
	root := &fakeNode{kind: tokFile, span: parsetree.ByteRange{Start: 0, End: 8}, children: []*fakeNode{fn}}
	tree := &fakeTree{root: root}

	in := interner.New()
	unit := hir.Build(tree, fakeLang{}, in, src)

	rootNode := unit.Root()
	require.NotNil(t, rootNode)
	require.Equal(t, hir.KindFile, rootNode.Kind)
	require.Len(t, rootNode.Children, 1)

	fnID := rootNode.Children[0]
	fnNode := unit.Get(fnID)
	require.Equal(t, hir.KindScope, fnNode.Kind)
	name, ok := in.Resolve(fnNode.Name)
	require.True(t, ok)
	require.Equal(t, "foo", name)

	identID := fnNode.Children[0]
	identNode := unit.Get(identID)
	require.Equal(t, hir.KindIdentifier, identNode.Kind)
	identName, _ := in.Resolve(identNode.Name)
	require.Equal(t, "foo", identName)
}

func TestBuildInvalidTokenBecomesInternal(t *testing.T) {
	src := []byte("x")
	weird := &fakeNode{kind: 255, span: parsetree.ByteRange{Start: 0, End: 1}}
	root := &fakeNode{kind: tokFile, span: parsetree.ByteRange{Start: 0, End: 1}, children: []*fakeNode{weird}}
	tree := &fakeTree{root: root}

	unit := hir.Build(tree, fakeLang{}, interner.New(), src)

	weirdNode := unit.Get(unit.Root().Children[0])
	require.Equal(t, hir.KindInternal, weirdNode.Kind)
}

func TestBuildEmptyTree(t *testing.T) {
	unit := hir.Build(&fakeTree{root: nil}, fakeLang{}, interner.New(), nil)
	require.Nil(t, unit.Root())
}
