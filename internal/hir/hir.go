// Package hir defines the high-level intermediate representation the
// compiler builds by walking each compile unit's parse tree. HIR
// nodes never move once allocated; everything downstream addresses
// them by HirNodeId rather than by pointer so the tree can be built
// and read from multiple goroutines without fear of invalidation.
package hir

import (
	"sync/atomic"

	"github.com/allenanswerzq/llmcc/internal/arena"
	"github.com/allenanswerzq/llmcc/internal/interner"
	"github.com/allenanswerzq/llmcc/internal/parsetree"
)

// NodeId is a dense, per-unit index identifying an HIR node.
type NodeId uint32

// NoNode is the sentinel value meaning "no node" (used for a root's
// absent parent).
const NoNode NodeId = 0

// Kind classifies an HIR node at the fine granularity the parse tree
// itself exposes, before any per-language refinement.
type Kind uint8

const (
	KindFile Kind = iota
	KindScope
	KindIdentifier
	KindInternal
	// KindLanguageBase is the first value a language registry may use
	// for its own refinements of Kind (e.g. distinguishing a function
	// declaration from a generic Scope).
	KindLanguageBase
)

// Node is a single HIR node. It is allocated once, from a compile
// unit's bump arena, and never mutated except through Symbol, which
// is filled in exactly once during binding.
type Node struct {
	ID        NodeId
	Kind      Kind
	ParseKind uint16
	Span      parsetree.ByteRange
	Parent    NodeId
	Children  []NodeId

	// Name holds the candidate identifier text recorded by the HIR
	// builder for identifier-bearing nodes, already interned. Zero
	// (interner.SymId's unset value) means this node carries no name.
	Name interner.SymId

	// TypeChild is the node reachable via the language's type field,
	// when this node has one (a parameter, field, or return). NoNode
	// if absent.
	TypeChild NodeId

	// Symbol is filled in during binding's reference-resolution phase.
	// It starts unset (ok==false) for every node and is written
	// exactly once.
	Symbol atomicSymbol
}

// SymbolId addresses an entry in the symbol table (internal/symtab).
// It is a distinct id space from interner.SymId: two symbols can
// share a name (shadowing) but never a SymbolId.
type SymbolId uint32

// atomicSymbol is an interior-mutable optional SymbolId slot, filled
// at most once.
type atomicSymbol struct {
	v atomic.Uint64 // 1<<63 set bit | SymbolId
}

const symbolSetBit = uint64(1) << 63

// Set records sym as this node's resolved symbol. Safe to call from
// any goroutine; only the first call has effect contractually (the
// binder never calls it twice for the same node).
func (s *atomicSymbol) Set(sym SymbolId) {
	s.v.Store(symbolSetBit | uint64(sym))
}

// Get returns the resolved symbol and true, or false if unresolved.
func (s *atomicSymbol) Get() (SymbolId, bool) {
	v := s.v.Load()
	if v&symbolSetBit == 0 {
		return 0, false
	}
	return SymbolId(v &^ symbolSetBit), true
}

// Unit is the HIR for one compile unit: a dense node table addressed
// by NodeId, with index 0 reserved (NoNode) and index 1 the unit's
// File root. The nodes themselves live in the unit's bump arena; the
// table only carries pointers into it.
type Unit struct {
	Nodes []*Node

	nodes *arena.TypedBump[Node]
}

// NewUnit creates an empty Unit with the NoNode sentinel slot
// pre-populated.
func NewUnit() *Unit {
	return &Unit{
		Nodes: []*Node{nil},
		nodes: arena.NewTypedBump[Node](arena.DefaultSlabElems),
	}
}

// Root returns the unit's root node (always NodeId 1), or nil if the
// unit has not been built yet.
func (u *Unit) Root() *Node {
	if len(u.Nodes) < 2 {
		return nil
	}
	return u.Nodes[1]
}

// Get returns the node for id.
func (u *Unit) Get(id NodeId) *Node {
	if int(id) >= len(u.Nodes) {
		return nil
	}
	return u.Nodes[id]
}

// alloc reserves a node in the unit's arena, registers it in the
// dense node table, and returns it with its id already assigned. The
// caller fills in the remaining fields; the node never moves after
// this.
func (u *Unit) alloc() *Node {
	n := u.nodes.Alloc()
	n.ID = NodeId(len(u.Nodes))
	u.Nodes = append(u.Nodes, n)
	return n
}
