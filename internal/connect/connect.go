// Package connect implements the compiler's connect pass: the
// single-pass walk that runs once every compile unit's blocks exist
// and fills in the cross-block references the block builder could not
// resolve on its own — an impl's target class, a call statement's
// callee function, and any parameter/return type_ref left unresolved
// because its defining block hadn't been allocated yet.
//
// A second pass over already-built structures, filling link fields
// that could only be known once the whole project's definitions exist.
package connect

import (
	"github.com/allenanswerzq/llmcc/internal/arena"
	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/cerr"
	"github.com/allenanswerzq/llmcc/internal/diag"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/langregistry"
	"github.com/allenanswerzq/llmcc/internal/symtab"
)

// Unit is the connect pass's view of one compile unit: its HIR tree,
// language, the node->block map the block builder produced for it, and
// the unit's path for diagnostics.
type Unit struct {
	Path string
	HIR  *hir.Unit
	Lang langregistry.Language
	Map  *block.NodeMap
}

// Connector runs the connect pass over every block in graph, using
// table to resolve symbols to their defining blocks and units to map a
// block's anchoring HIR node back to its unit's tree.
type Connector struct {
	Graph *block.Graph
	Table *symtab.Table
	Units []Unit

	// scratch recycles the per-statement reference slices the pass
	// collects and immediately discards, one short-lived slice per
	// Statement block in the project.
	scratch *arena.SlabAllocator[*hir.Node]
}

// NewConnector creates a Connector. units must be indexed identically
// to however internal/block.Builder.UnitIndex was assigned when the
// blocks were built, since that is how a Block's Unit field is
// interpreted.
func NewConnector(graph *block.Graph, table *symtab.Table, units []Unit) *Connector {
	return &Connector{
		Graph:   graph,
		Table:   table,
		Units:   units,
		scratch: arena.NewSlabAllocatorWithDefaults[*hir.Node](),
	}
}

// Connect walks every block in ascending id order (keeping emission
// deterministic) and fills whichever cross-references apply to its
// Kind. It requires no fixed-point iteration: every block, in every
// unit, has already been allocated by the time this runs.
func (c *Connector) Connect() {
	for _, blk := range c.Graph.Blocks {
		if blk == nil || blk.Unit < 0 || blk.Unit >= len(c.Units) {
			continue
		}
		u := c.Units[blk.Unit]

		switch blk.Kind {
		case block.KindImpl:
			c.connectImpl(u, blk)
		case block.KindStatement:
			c.connectStatement(u, blk)
		case block.KindParameter, block.KindField, block.KindReturn:
			c.retryTypeRef(u, blk)
		}
	}
}

// connectImpl resolves an Impl block's TargetID by following its
// anchoring node's TypeChild through to the symbol the binder already
// resolved it to (the same lookup bind.resolveTypes uses to finalize
// the impl's pending Self symbol).
func (c *Connector) connectImpl(u Unit, blk *block.Block) {
	if blk.Impl == nil || blk.Impl.TargetID != block.NoBlock {
		return
	}
	n := u.HIR.Get(blk.Node)
	if n == nil || n.TypeChild == hir.NoNode {
		return
	}
	typeNode := u.HIR.Get(n.TypeChild)
	if typeNode == nil {
		return
	}
	symID, ok := typeNode.Symbol.Get()
	if !ok {
		return
	}
	sym := c.Table.Get(symID)
	if sym == nil || !sym.HasBlockID {
		return
	}
	blk.Impl.TargetID = sym.BlockID
}

// connectStatement records an edge for every identifier in blk's
// HIR subtree whose resolved symbol carries a BlockID (Call for a
// function target, TypeUse for a class or trait, FieldAccess
// otherwise), stopping
// descent at any child node that produced its own block (that
// subtree's references are connected independently, when its own
// block is visited).
func (c *Connector) connectStatement(u Unit, blk *block.Block) {
	n := u.HIR.Get(blk.Node)
	if n == nil {
		return
	}
	refs := c.appendReferences(u, n, c.scratch.Get(8))
	defer c.scratch.Put(refs)
	for _, ref := range refs {
		symID, ok := ref.Symbol.Get()
		if !ok {
			continue
		}
		sym := c.Table.Get(symID)
		if sym == nil || !sym.HasBlockID {
			continue
		}
		target := c.Graph.Get(sym.BlockID)
		if target == nil {
			continue
		}
		kind := block.EdgeFieldAccess
		if target.Kind == block.KindFunc {
			kind = block.EdgeCall
		} else if target.Kind == block.KindClass || target.Kind == block.KindTrait {
			kind = block.EdgeTypeUse
		}
		blk.Refs = append(blk.Refs, block.Edge{Kind: kind, To: sym.BlockID})
	}
}

// appendReferences walks n's descendants (n itself included when it
// is an identifier), stopping at any child that produced its own
// block — that subtree's references are connected on its own turn,
// when the connect pass visits that block. Appends into out, which
// comes from (and returns to) c.scratch.
func (c *Connector) appendReferences(u Unit, n *hir.Node, out []*hir.Node) []*hir.Node {
	if n.Kind == hir.KindIdentifier {
		out = append(out, n)
	}
	for _, childID := range n.Children {
		child := u.HIR.Get(childID)
		if child == nil {
			continue
		}
		if _, ok := u.Map.BlockOf[childID]; ok {
			continue
		}
		out = c.appendReferences(u, child, out)
	}
	return out
}

// retryTypeRef gives a parameter/field/return a second chance to
// resolve TypeRef, now that every block in the project is known. The
// block builder already tried this once with whatever blocks existed
// at the time; this repeats the same lookup against the final symbol
// table. A type that still fails to resolve here keeps its textual
// type_name only — the usual outcome for primitives, which never own
// a block.
func (c *Connector) retryTypeRef(u Unit, blk *block.Block) {
	data := blk.Parameter
	if blk.Kind == block.KindReturn {
		data = blk.Return
	}
	if data == nil || data.TypeRef != block.NoBlock {
		return
	}

	n := c.findUnit(blk)
	if n == nil {
		return
	}
	sym := c.symbolDefinedAt(blk)
	if sym == nil || !sym.TypeOfSet {
		return
	}
	typeSym := c.Table.Get(sym.TypeOf)
	if typeSym == nil || !typeSym.HasBlockID {
		diag.Log("connect", "%v", cerr.NewTypeReferenceError(data.TypeName, u.Path))
		return
	}
	data.TypeRef = typeSym.BlockID
}

func (c *Connector) findUnit(blk *block.Block) *hir.Node {
	if blk.Unit < 0 || blk.Unit >= len(c.Units) {
		return nil
	}
	return c.Units[blk.Unit].HIR.Get(blk.Node)
}

// symbolDefinedAt scans the table for the symbol whose DefinedAt
// equals blk's anchoring node, mirroring internal/block's own
// first-pass lookup, filtered to blk.Unit since DefinedAt by itself is
// only dense per unit and could otherwise match a node belonging to a
// different compile unit. Run once per unresolved parameter/return
// during the connect pass, not a hot path.
func (c *Connector) symbolDefinedAt(blk *block.Block) *symtab.Symbol {
	n := c.Table.Len()
	for id := 1; id <= n; id++ {
		sym := c.Table.Get(hir.SymbolId(id))
		if sym != nil && sym.HasDefinedAt && sym.DefinedAt == blk.Node && sym.DefinedUnit == blk.Unit {
			return sym
		}
	}
	return nil
}
