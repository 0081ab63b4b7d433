// Package graphemit projects the compiler's block graph at a
// requested granularity (project / crate / module / file+symbol) into
// a small, self-contained node/edge set, then renders it as
// line-oriented DOT. No direct teacher file grounds this package — the
// teacher's DOT-shaped output lived in internal/display, which is
// CLI-facing rendering out of this package's scope — so this is new
// code built with the same plain fmt/strings/sort toolkit the rest of
// this module uses.
package graphemit

import (
	"sort"
	"strconv"

	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/interner"
)

// Depth selects emission granularity.
type Depth int

const (
	DepthProject Depth = iota
	DepthCrate
	DepthModule
	DepthFileSymbol
)

// Node is one emitted graph node.
type Node struct {
	ID    block.Id
	Kind  block.Kind
	Label string
}

// DotID is this node's stable identifier, "<kind>:<block-id>", e.g.
// "func:42". Block ids render in decimal, matching the @type:<block-id>
// annotations on parameter and return labels.
func (n Node) DotID() string {
	return n.Kind.String() + ":" + strconv.FormatUint(uint64(n.ID), 10)
}

// Edge is one emitted graph edge, already lifted to the projection's
// depth (From/To are node ids that exist in the same Projection).
type Edge struct {
	From, To block.Id
	Kind     string
}

// Projection is a self-contained, depth-specific slice of the block
// graph: every edge's endpoints are guaranteed present among Nodes, so
// Projection alone is all a consumer needs to render or analyze it.
type Projection struct {
	Nodes []Node
	Edges []Edge
}

// Project builds the node/edge set for depth over g, resolving
// block/symbol names through in.
func Project(g *block.Graph, in *interner.Interner, depth Depth) *Projection {
	switch depth {
	case DepthProject:
		return projectRoot(g, in)
	case DepthCrate, DepthModule:
		return projectModules(g, in)
	default:
		return projectFileSymbol(g, in)
	}
}

func projectRoot(g *block.Graph, in *interner.Interner) *Projection {
	root := g.Get(g.RootID)
	if root == nil {
		return &Projection{}
	}
	return &Projection{Nodes: []Node{{ID: root.ID, Kind: root.Kind, Label: "project"}}}
}

// projectModules emits one node per Module block (the crate and
// module depths coincide in this block model, which has no separate
// crate-grouping block kind) and lifts every
// cross-block reference whose endpoints fall in different modules up
// to a module-to-module edge.
func projectModules(g *block.Graph, in *interner.Interner) *Projection {
	root := g.Get(g.RootID)
	if root == nil {
		return &Projection{}
	}

	// The project root is kept at this depth too, so node counts stay
	// monotonic in depth (an empty project is one node at every depth,
	// never zero).
	p := &Projection{Nodes: []Node{{ID: root.ID, Kind: root.Kind, Label: "project"}}}
	for _, childID := range root.Children {
		m := g.Get(childID)
		if m == nil || m.Kind != block.KindModule {
			continue
		}
		p.Nodes = append(p.Nodes, Node{ID: m.ID, Kind: m.Kind, Label: moduleLabel(m)})
	}

	seen := make(map[edgeKey]bool)
	for _, blk := range g.Blocks {
		if blk == nil {
			continue
		}
		for _, ref := range crossReferences(blk) {
			srcMod := moduleOf(g, blk.ID)
			dstMod := moduleOf(g, ref.to)
			if srcMod == block.NoBlock || dstMod == block.NoBlock || srcMod == dstMod {
				continue
			}
			key := edgeKey{srcMod, dstMod, ref.kind}
			if seen[key] {
				continue
			}
			seen[key] = true
			p.Edges = append(p.Edges, Edge{From: srcMod, To: dstMod, Kind: ref.kind})
		}
	}

	sortEdges(p.Edges)
	return p
}

// projectFileSymbol emits every block in the graph (the lone project
// node must survive even at this depth when there are no compile units
// at all) plus a parent/child edge for every non-root block and every
// resolved cross-block reference.
func projectFileSymbol(g *block.Graph, in *interner.Interner) *Projection {
	p := &Projection{}
	for _, blk := range g.Blocks {
		if blk == nil {
			continue
		}
		p.Nodes = append(p.Nodes, Node{ID: blk.ID, Kind: blk.Kind, Label: label(blk, in)})
	}

	for _, blk := range g.Blocks {
		if blk == nil {
			continue
		}
		if blk.ID != g.RootID && blk.Parent != block.NoBlock {
			p.Edges = append(p.Edges, Edge{From: blk.Parent, To: blk.ID, Kind: "child"})
		}
		for _, ref := range crossReferences(blk) {
			p.Edges = append(p.Edges, Edge{From: blk.ID, To: ref.to, Kind: ref.kind})
		}
	}

	sortEdges(p.Edges)
	return p
}

type crossRef struct {
	to   block.Id
	kind string
}

// crossReferences lists every cross-block reference blk carries,
// regardless of kind: call/field-access/type-use edges recorded by the
// connect pass, an impl's resolved target, and a parameter/return's
// resolved type_ref.
func crossReferences(blk *block.Block) []crossRef {
	var out []crossRef
	for _, ref := range blk.Refs {
		out = append(out, crossRef{to: ref.To, kind: ref.Kind.String()})
	}
	if blk.Impl != nil && blk.Impl.TargetID != block.NoBlock {
		out = append(out, crossRef{to: blk.Impl.TargetID, kind: "impl"})
	}
	data := blk.Parameter
	if blk.Kind == block.KindReturn {
		data = blk.Return
	}
	if data != nil && data.TypeRef != block.NoBlock {
		out = append(out, crossRef{to: data.TypeRef, kind: "type_use"})
	}
	return out
}

type edgeKey struct {
	from, to block.Id
	kind     string
}

// moduleOf walks id's Parent chain up to (and including) its owning
// Module block, or block.NoBlock if id is the project Root or
// unreachable.
func moduleOf(g *block.Graph, id block.Id) block.Id {
	for cur := id; cur != block.NoBlock; {
		blk := g.Get(cur)
		if blk == nil {
			return block.NoBlock
		}
		if blk.Kind == block.KindModule {
			return cur
		}
		if blk.Kind == block.KindRoot {
			return block.NoBlock
		}
		cur = blk.Parent
	}
	return block.NoBlock
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].Kind != edges[j].Kind {
			return edges[i].Kind < edges[j].Kind
		}
		return edges[i].To < edges[j].To
	})
}

// label renders blk's node label: the qualified name for
// symbol-bearing kinds, "project" for the root, the module path for
// Module, and name-plus-type-annotation for Parameter/Field/Return.
func label(blk *block.Block, in *interner.Interner) string {
	switch blk.Kind {
	case block.KindRoot:
		return "project"
	case block.KindModule:
		return moduleLabel(blk)
	case block.KindFunc:
		if blk.Func != nil {
			return resolve(in, blk.Func.Name)
		}
	case block.KindClass, block.KindTrait:
		if blk.Class != nil {
			return resolve(in, blk.Class.Name)
		}
	case block.KindParameter, block.KindField:
		if blk.Parameter != nil {
			return paramLabel(blk.Parameter, in)
		}
	case block.KindReturn:
		if blk.Return != nil {
			return paramLabel(blk.Return, in)
		}
	}
	return ""
}

func paramLabel(p *block.ParamData, in *interner.Interner) string {
	name := resolve(in, p.Name)
	ann := p.TypeAnnotation()
	if name == "" {
		return ann
	}
	return name + " " + ann
}

func moduleLabel(m *block.Block) string {
	if m.Module == nil {
		return ""
	}
	return m.Module.Path
}

func resolve(in *interner.Interner, id interner.SymId) string {
	if in == nil || id == 0 {
		return ""
	}
	s, _ := in.Resolve(id)
	return s
}
