// Package block defines the coarser block graph the compiler builds
// on top of a compile unit's HIR, and the per-unit builder that
// produces it. Blocks are the unit the graph emitter ultimately draws:
// functions, parameters, fields, classes, modules.
package block

import (
	"github.com/allenanswerzq/llmcc/internal/arena"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/interner"
)

// Id is a dense, per-compile-context index identifying a block.
type Id uint32

// NoBlock is the sentinel meaning "no block" (an absent parent, an
// unresolved type_ref).
const NoBlock Id = 0

// Kind classifies a Block.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindRoot
	KindModule
	KindClass
	KindImpl
	KindTrait
	KindFunc
	KindParameter
	KindField
	KindReturn
	KindStatement
	KindUse
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindImpl:
		return "impl"
	case KindTrait:
		return "trait"
	case KindFunc:
		return "func"
	case KindParameter:
		return "param"
	case KindField:
		return "field"
	case KindReturn:
		return "return"
	case KindStatement:
		return "stmt"
	case KindUse:
		return "use"
	default:
		return "undefined"
	}
}

// Block is a single node of the block graph. Common fields live
// directly on Block; kind-specific data lives in the pointer fields
// below, exactly one of which is non-nil for a given Kind (except for
// kinds with no extra data, e.g. Root/Statement/Use).
//
// Specialized fields carry interior mutability (plain fields, filled
// only by the connect pass after construction) rather than requiring
// the block be rebuilt — the connect pass runs single-pass over an
// already-complete block set.
type Block struct {
	ID       Id
	Node     hir.NodeId
	Unit     int // index into the compile context's unit list; -1 for the project Root
	Kind     Kind
	Parent   Id
	Children []Id

	Func      *FuncData
	Parameter *ParamData
	Return    *ParamData
	Class     *ClassData
	Impl      *ImplData
	Module    *ModuleData

	// Refs holds the cross-block reference edges the connect pass
	// records for this block (a call statement's callee, a
	// field-access/type-use target). Filled only during the connect
	// pass, after every unit's blocks already exist.
	Refs []Edge
}

// EdgeKind classifies a Refs entry.
type EdgeKind uint8

const (
	EdgeCall EdgeKind = iota
	EdgeFieldAccess
	EdgeTypeUse
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeCall:
		return "call"
	case EdgeFieldAccess:
		return "field_access"
	case EdgeTypeUse:
		return "type_use"
	default:
		return "ref"
	}
}

// Edge is one resolved cross-block reference.
type Edge struct {
	Kind EdgeKind
	To   Id
}

// FuncData holds a Func block's specialized fields.
type FuncData struct {
	Name       interner.SymId
	Parameters []Id
	ReturnID   Id // NoBlock if the function has no declared return
	Stmts      []Id
}

// ParamData holds the fields shared by Parameter and Return blocks.
type ParamData struct {
	Name     interner.SymId // unset for Return blocks
	TypeName string
	TypeRef  Id // NoBlock until resolved (or for primitives, forever)
}

// TypeAnnotation renders this parameter/return's type the way the
// graph emitter displays it: "@type NAME" for primitives, or
// "@type:<block-id> NAME" once TypeRef has been resolved to a
// defining block.
func (p *ParamData) TypeAnnotation() string {
	if p.TypeRef == NoBlock {
		return "@type " + p.TypeName
	}
	return "@type:" + idString(p.TypeRef) + " " + p.TypeName
}

// ClassData holds a Class/Trait block's specialized fields.
type ClassData struct {
	Name   interner.SymId
	Fields []Id
}

// ImplData holds an Impl block's specialized fields. TargetID is
// filled by the connect pass once the impl's subject type is resolved.
type ImplData struct {
	TargetID Id // NoBlock until the connect pass resolves it
}

// ModuleData holds a Module block's specialized fields: the compile
// unit path it was built from, used by the emitter for node labels and
// by cluster_by_crate grouping.
type ModuleData struct {
	Path string
}

func idString(id Id) string {
	// Small, allocation-light uint->string without importing strconv
	// at call sites that only need this one conversion.
	if id == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = byte('0' + id%10)
		id /= 10
	}
	return string(buf[i:])
}

// Graph owns every Block allocated for a compile context, addressed
// densely by Id. Graph is shared across all compile units; each unit
// contributes one Module block plus everything beneath it. Block
// storage lives in the graph's bump arena; Blocks only carries
// pointers into it.
type Graph struct {
	Blocks []*Block
	RootID Id

	blocks *arena.TypedBump[Block]
}

// NewGraph creates an empty Graph with its single project Root block
// already allocated.
func NewGraph() *Graph {
	g := &Graph{
		Blocks: []*Block{nil},
		blocks: arena.NewTypedBump[Block](arena.DefaultSlabElems),
	}
	root := g.alloc()
	root.Kind = KindRoot
	root.Unit = -1
	g.RootID = root.ID
	return g
}

// Get returns the block for id, or nil if id is out of range.
func (g *Graph) Get(id Id) *Block {
	if int(id) >= len(g.Blocks) {
		return nil
	}
	return g.Blocks[id]
}

// alloc reserves a block in the graph's arena, registers it in the
// dense block table, and returns it with its Id already assigned. The
// caller fills in the remaining fields.
func (g *Graph) alloc() *Block {
	b := g.blocks.Alloc()
	b.ID = Id(len(g.Blocks))
	g.Blocks = append(g.Blocks, b)
	return b
}

// AddChild appends childID to parentID's Children and sets childID's
// Parent, maintaining the invariant that block children order mirrors
// the order blocks were added (source order, since the builder walks
// HIR depth-first in source order).
func (g *Graph) AddChild(parentID, childID Id) {
	parent := g.Get(parentID)
	child := g.Get(childID)
	if parent == nil || child == nil {
		return
	}
	parent.Children = append(parent.Children, childID)
	child.Parent = parentID
}
