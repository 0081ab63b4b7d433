package block

import (
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/langregistry"
	"github.com/allenanswerzq/llmcc/internal/symtab"
)

// NodeMap records, for one compile unit, which block (if any) a given
// HIR node produced. The other direction, the HIR node a block was
// built from, is kept on the block itself as Block.Node. The connect pass uses this to find a statement's callee
// block and a parameter's type-defining block.
type NodeMap struct {
	BlockOf map[hir.NodeId]Id
}

func newNodeMap() *NodeMap {
	return &NodeMap{BlockOf: make(map[hir.NodeId]Id)}
}

// Builder builds one compile unit's block subtree and grafts it under
// the shared project Graph's Root.
type Builder struct {
	Graph *Graph
	Table *symtab.Table
	Map   *NodeMap

	// UnitIndex is stamped onto every block this Builder allocates, so
	// the connect pass can recover which compile unit's HIR tree a
	// block's Node id addresses (HIR node ids are dense per unit, not
	// globally unique).
	UnitIndex int

	// src is the source of the unit currently being built, used to
	// recover a type child's textual name for TypeName.
	src []byte
}

// NewBuilder creates a Builder writing into graph for the compile unit
// at unitIndex (its position in the compile context's unit list).
func NewBuilder(graph *Graph, table *symtab.Table, unitIndex int) *Builder {
	return &Builder{Graph: graph, Table: table, Map: newNodeMap(), UnitIndex: unitIndex}
}

// BuildUnit produces a Module block for unit (rooted at root), grafts
// it under the project Root, and returns the Module block's Id. path
// identifies the compile unit (its source file path), recorded on the
// Module block for the emitter's node labels and cluster_by_crate
// grouping.
func (b *Builder) BuildUnit(unit *hir.Unit, lang langregistry.Language, src []byte, path string) Id {
	b.src = src
	root := unit.Root()
	moduleID := b.alloc(KindModule, root)
	b.Graph.Get(moduleID).Module = &ModuleData{Path: path}
	b.Graph.AddChild(b.Graph.RootID, moduleID)
	if root == nil {
		return moduleID
	}
	b.walkChildren(unit, lang, root, moduleID)
	return moduleID
}

func (b *Builder) alloc(kind Kind, hirNode *hir.Node) Id {
	blk := b.Graph.alloc()
	blk.Kind = kind
	blk.Unit = b.UnitIndex
	if hirNode != nil {
		blk.Node = hirNode.ID
		b.Map.BlockOf[hirNode.ID] = blk.ID
	}
	return blk.ID
}

// walk builds blocks for n (and its descendants) under parentBlockID,
// and returns the Id of the block n produced, or NoBlock if n was
// flattened into its parent (Undefined block_kind).
func (b *Builder) walk(unit *hir.Unit, lang langregistry.Language, n *hir.Node, parentBlockID Id) Id {
	bk := lang.BlockKind(n.ParseKind)

	switch bk {
	case KindFunc:
		return b.buildFunc(unit, lang, n, parentBlockID)
	case KindClass, KindTrait:
		return b.buildClass(unit, lang, n, parentBlockID, bk)
	case KindImpl:
		return b.buildImpl(unit, lang, n, parentBlockID)
	case KindParameter, KindField, KindReturn:
		return b.buildTyped(unit, lang, n, parentBlockID, bk)
	case KindUse:
		id := b.allocGeneric(KindUse, n)
		b.Graph.AddChild(parentBlockID, id)
		return id
	case KindUndefined:
		// Flattened: still walk children so nested definitions (a
		// function inside an expression statement, say) are found,
		// but attach any blocks they produce directly to parentBlockID
		// as statements, per the "flattened into the nearest ancestor"
		// rule.
		b.walkChildrenAsStatements(unit, lang, n, parentBlockID)
		return NoBlock
	default:
		id := b.allocGeneric(KindStatement, n)
		b.Graph.AddChild(parentBlockID, id)
		b.walkChildren(unit, lang, n, id)
		return id
	}
}

func (b *Builder) allocGeneric(kind Kind, n *hir.Node) Id {
	blk := b.Graph.alloc()
	blk.Kind = kind
	blk.Node = n.ID
	blk.Unit = b.UnitIndex
	b.Map.BlockOf[n.ID] = blk.ID
	return blk.ID
}

func (b *Builder) walkChildren(unit *hir.Unit, lang langregistry.Language, n *hir.Node, parentBlockID Id) {
	for _, childID := range n.Children {
		child := unit.Get(childID)
		if child == nil {
			continue
		}
		b.walk(unit, lang, child, parentBlockID)
	}
}

func (b *Builder) walkChildrenAsStatements(unit *hir.Unit, lang langregistry.Language, n *hir.Node, parentBlockID Id) {
	for _, childID := range n.Children {
		child := unit.Get(childID)
		if child == nil {
			continue
		}
		childBlockID := b.walk(unit, lang, child, parentBlockID)
		if childBlockID != NoBlock {
			parent := b.Graph.Get(parentBlockID)
			if parent != nil && parent.Kind == KindFunc && parent.Func != nil {
				parent.Func.Stmts = append(parent.Func.Stmts, childBlockID)
			}
		}
	}
}

func (b *Builder) buildFunc(unit *hir.Unit, lang langregistry.Language, n *hir.Node, parentBlockID Id) Id {
	id := b.alloc(KindFunc, n)
	blk := b.Graph.Get(id)
	blk.Func = &FuncData{Name: n.Name, ReturnID: NoBlock}
	b.Graph.AddChild(parentBlockID, id)

	for _, childID := range n.Children {
		child := unit.Get(childID)
		if child == nil {
			continue
		}
		childKind := lang.BlockKind(child.ParseKind)
		childBlockID := b.walk(unit, lang, child, id)
		switch {
		case childKind == KindParameter:
			blk.Func.Parameters = append(blk.Func.Parameters, childBlockID)
		case childKind == KindReturn:
			blk.Func.ReturnID = childBlockID
		case childBlockID != NoBlock && childKind != KindUndefined:
			blk.Func.Stmts = append(blk.Func.Stmts, childBlockID)
		}
	}
	return id
}

func (b *Builder) buildClass(unit *hir.Unit, lang langregistry.Language, n *hir.Node, parentBlockID Id, kind Kind) Id {
	id := b.alloc(kind, n)
	blk := b.Graph.Get(id)
	blk.Class = &ClassData{Name: n.Name}
	b.Graph.AddChild(parentBlockID, id)

	for _, childID := range n.Children {
		child := unit.Get(childID)
		if child == nil {
			continue
		}
		childKind := lang.BlockKind(child.ParseKind)
		childBlockID := b.walk(unit, lang, child, id)
		if childKind == KindField {
			blk.Class.Fields = append(blk.Class.Fields, childBlockID)
		}
	}
	return id
}

func (b *Builder) buildImpl(unit *hir.Unit, lang langregistry.Language, n *hir.Node, parentBlockID Id) Id {
	id := b.alloc(KindImpl, n)
	blk := b.Graph.Get(id)
	blk.Impl = &ImplData{TargetID: NoBlock}
	b.Graph.AddChild(parentBlockID, id)
	b.walkChildren(unit, lang, n, id)
	return id
}

// buildTyped builds a Parameter/Field/Return block and attempts to
// resolve its type immediately by following the anchoring HIR node's
// resolved symbol's TypeOf through the symbol table: if that type
// symbol carries a BlockID, it is copied into type_ref; otherwise only
// type_name (the type child's source text, recovered via its span) is
// recorded, and the connect pass gets a second attempt later.
func (b *Builder) buildTyped(unit *hir.Unit, lang langregistry.Language, n *hir.Node, parentBlockID Id, kind Kind) Id {
	id := b.alloc(kind, n)
	blk := b.Graph.Get(id)

	data := &ParamData{Name: n.Name, TypeRef: NoBlock}
	if typeNode := unit.Get(n.TypeChild); typeNode != nil && b.src != nil {
		span := typeNode.Span
		if int(span.End) <= len(b.src) {
			data.TypeName = string(b.src[span.Start:span.End])
		}
	}

	if sym, ok := b.symbolForNode(n.ID); ok && sym.TypeOfSet {
		if typeSym := b.Table.Get(sym.TypeOf); typeSym != nil && typeSym.HasBlockID {
			data.TypeRef = typeSym.BlockID
		}
	}

	if kind == KindReturn {
		blk.Return = data
	} else {
		blk.Parameter = data
	}
	b.Graph.AddChild(parentBlockID, id)
	return id
}

// symbolForNode scans the table for the symbol defined at nodeID
// within this builder's own unit. As in internal/bind, this is a
// linear scan run once per block, not a hot-path operation; it also
// filters on DefinedUnit since nodeID by itself is only dense per
// unit and could otherwise match a node in a different compile unit.
func (b *Builder) symbolForNode(nodeID hir.NodeId) (*symtab.Symbol, bool) {
	n := b.Table.Len()
	for i := 1; i <= n; i++ {
		sym := b.Table.Get(hir.SymbolId(i))
		if sym != nil && sym.HasDefinedAt && sym.DefinedAt == nodeID && sym.DefinedUnit == b.UnitIndex {
			return sym, true
		}
	}
	return nil, false
}
