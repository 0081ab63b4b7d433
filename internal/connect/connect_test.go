package connect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/bind"
	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/connect"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/interner"
	"github.com/allenanswerzq/llmcc/internal/parsetree"
	"github.com/allenanswerzq/llmcc/internal/symtab"
)

type fakeNode struct {
	kind     uint16
	span     parsetree.ByteRange
	children []*fakeNode
	fields   map[uint16]*fakeNode
}

func (n *fakeNode) Kind() uint16              { return n.kind }
func (n *fakeNode) Span() parsetree.ByteRange { return n.span }
func (n *fakeNode) ChildCount() int           { return len(n.children) }
func (n *fakeNode) FieldChild(f uint16) parsetree.Node {
	if c, ok := n.fields[f]; ok {
		return c
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

func (t *fakeTree) Root() parsetree.Node { return t.root }
func (t *fakeTree) Close()               {}

const (
	tokFile = iota
	tokFunc
	tokIdent
	tokCall
	tokClass
	tokImpl
	nameField = 1
	typeField = 2
)

type fakeLang struct{}

func (fakeLang) HirKind(tok uint16) hir.Kind {
	switch tok {
	case tokIdent:
		return hir.KindIdentifier
	case tokFile:
		return hir.KindFile
	default:
		return hir.KindScope
	}
}
func (fakeLang) BlockKind(tok uint16) block.Kind {
	switch tok {
	case tokFunc:
		return block.KindFunc
	case tokCall:
		return block.KindStatement
	case tokClass:
		return block.KindClass
	case tokImpl:
		return block.KindImpl
	default:
		return block.KindUndefined
	}
}
func (fakeLang) IsValidToken(tok uint16) bool { return true }
func (fakeLang) NameField() uint16            { return nameField }
func (fakeLang) TypeField() uint16            { return typeField }
func (fakeLang) Tag() string                  { return "fake" }
func (fakeLang) Parse([]byte) (parsetree.Tree, error) { return nil, nil }
func (fakeLang) TokenStr(uint16) (string, bool)       { return "", false }
func (fakeLang) SupportedExtensions() []string        { return []string{".fk"} }

// buildProject builds two functions, "greet" and "main", where main's
// single statement calls greet — internal/connect.Connector is the
// only piece of the pipeline that should turn that reference into an
// edge on main's statement block.
func buildProject(t *testing.T) (*block.Graph, *symtab.Table, []connect.Unit) {
	t.Helper()
	in := interner.New()
	table := symtab.NewTable()

	src := []byte("greetgreet main call")

	greetName := &fakeNode{kind: tokIdent, span: parsetree.ByteRange{Start: 0, End: 5}}
	greetFn := &fakeNode{
		kind:     tokFunc,
		span:     parsetree.ByteRange{Start: 0, End: 5},
		fields:   map[uint16]*fakeNode{nameField: greetName},
		children: []*fakeNode{greetName},
	}

	calleeRef := &fakeNode{kind: tokIdent, span: parsetree.ByteRange{Start: 5, End: 10}}
	callStmt := &fakeNode{kind: tokCall, span: parsetree.ByteRange{Start: 16, End: 20}, children: []*fakeNode{calleeRef}}

	mainName := &fakeNode{kind: tokIdent, span: parsetree.ByteRange{Start: 11, End: 15}}
	mainFn := &fakeNode{
		kind:     tokFunc,
		span:     parsetree.ByteRange{Start: 11, End: 20},
		fields:   map[uint16]*fakeNode{nameField: mainName},
		children: []*fakeNode{mainName, callStmt},
	}

	root := &fakeNode{kind: tokFile, span: parsetree.ByteRange{Start: 0, End: 20}, children: []*fakeNode{greetFn, mainFn}}
	tree := &fakeTree{root: root}

	hirUnit := hir.Build(tree, fakeLang{}, in, src)
	bindUnit := &bind.Unit{Path: "main.fk", Lang: fakeLang{}, HIR: hirUnit}

	binder := bind.NewBinder(in, table, []*bind.Unit{bindUnit})
	binder.Bind()

	graph := block.NewGraph()
	builder := block.NewBuilder(graph, table, 0)
	moduleID := builder.BuildUnit(hirUnit, fakeLang{}, src, "main.fk")
	require.NotEqual(t, block.NoBlock, moduleID)

	// Wire each definition symbol's BlockID now that blocks exist, the
	// way internal/compiler's orchestration does between block-build
	// and connect.
	for id := 1; id <= table.Len(); id++ {
		sym := table.Get(hir.SymbolId(id))
		if sym == nil || !sym.HasDefinedAt {
			continue
		}
		if bid, ok := builder.Map.BlockOf[sym.DefinedAt]; ok {
			sym.BlockID, sym.HasBlockID = bid, true
		}
	}

	units := []connect.Unit{{HIR: hirUnit, Lang: fakeLang{}, Map: builder.Map}}
	return graph, table, units
}

func TestConnectRecordsCallEdge(t *testing.T) {
	graph, table, units := buildProject(t)

	c := connect.NewConnector(graph, table, units)
	c.Connect()

	var stmt *block.Block
	for _, b := range graph.Blocks {
		if b != nil && b.Kind == block.KindStatement {
			stmt = b
		}
	}
	require.NotNil(t, stmt, "expected a statement block for the call")
	require.Len(t, stmt.Refs, 1)
	require.Equal(t, block.EdgeCall, stmt.Refs[0].Kind)

	callee := graph.Get(stmt.Refs[0].To)
	require.NotNil(t, callee)
	require.Equal(t, block.KindFunc, callee.Kind)
}

// TestConnectBindsImplToSubjectClass: an impl whose type reference
// resolves to a class symbol gets its TargetID filled once every
// block exists.
func TestConnectBindsImplToSubjectClass(t *testing.T) {
	in := interner.New()
	table := symtab.NewTable()

	src := []byte("Pointarea")
	classSpan := parsetree.ByteRange{Start: 0, End: 5}

	className := &fakeNode{kind: tokIdent, span: classSpan}
	class := &fakeNode{
		kind:     tokClass,
		span:     classSpan,
		fields:   map[uint16]*fakeNode{nameField: className},
		children: []*fakeNode{className},
	}

	areaName := &fakeNode{kind: tokIdent, span: parsetree.ByteRange{Start: 5, End: 9}}
	areaFn := &fakeNode{
		kind:     tokFunc,
		span:     parsetree.ByteRange{Start: 5, End: 9},
		fields:   map[uint16]*fakeNode{nameField: areaName},
		children: []*fakeNode{areaName},
	}

	implTypeRef := &fakeNode{kind: tokIdent, span: classSpan}
	impl := &fakeNode{
		kind:     tokImpl,
		span:     parsetree.ByteRange{Start: 0, End: 9},
		fields:   map[uint16]*fakeNode{typeField: implTypeRef},
		children: []*fakeNode{implTypeRef, areaFn},
	}

	root := &fakeNode{kind: tokFile, span: parsetree.ByteRange{Start: 0, End: 9}, children: []*fakeNode{class, impl}}
	hirUnit := hir.Build(&fakeTree{root: root}, fakeLang{}, in, src)

	bindUnit := &bind.Unit{Path: "point.fk", Lang: fakeLang{}, HIR: hirUnit}
	bind.NewBinder(in, table, []*bind.Unit{bindUnit}).Bind()

	graph := block.NewGraph()
	builder := block.NewBuilder(graph, table, 0)
	builder.BuildUnit(hirUnit, fakeLang{}, src, "point.fk")

	for id := 1; id <= table.Len(); id++ {
		sym := table.Get(hir.SymbolId(id))
		if sym == nil || !sym.HasDefinedAt {
			continue
		}
		if bid, ok := builder.Map.BlockOf[sym.DefinedAt]; ok {
			sym.BlockID, sym.HasBlockID = bid, true
		}
	}

	units := []connect.Unit{{Path: "point.fk", HIR: hirUnit, Lang: fakeLang{}, Map: builder.Map}}
	connect.NewConnector(graph, table, units).Connect()

	var classBlock, implBlock *block.Block
	for _, b := range graph.Blocks {
		if b == nil {
			continue
		}
		switch b.Kind {
		case block.KindClass:
			classBlock = b
		case block.KindImpl:
			implBlock = b
		}
	}
	require.NotNil(t, classBlock)
	require.NotNil(t, implBlock)
	require.NotNil(t, implBlock.Impl)
	require.Equal(t, classBlock.ID, implBlock.Impl.TargetID, "impl must bind to its subject class block")
}
