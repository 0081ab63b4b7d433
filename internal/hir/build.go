package hir

import (
	"github.com/allenanswerzq/llmcc/internal/interner"
	"github.com/allenanswerzq/llmcc/internal/parsetree"
)

// LanguageKinds is the slice of registry hooks the HIR builder needs.
// internal/langregistry.Language satisfies this; it is declared here,
// rather than imported from langregistry, so that hir does not depend
// on langregistry (langregistry depends on hir for Kind, not the
// reverse).
type LanguageKinds interface {
	HirKind(tokenID uint16) Kind
	IsValidToken(tokenID uint16) bool
	NameField() uint16
	TypeField() uint16
}

// Build walks tree depth-first and produces a Unit. in interns
// identifier text for name-bearing nodes. lang supplies the
// token-id -> Kind mapping and the name field used to find a node's
// identifier child.
func Build(tree parsetree.Tree, lang LanguageKinds, in *interner.Interner, src []byte) *Unit {
	u := NewUnit()
	root := tree.Root()
	if root == nil {
		return u
	}
	buildNode(u, root, NoNode, lang, in, src)
	return u
}

func buildNode(u *Unit, pn parsetree.Node, parent NodeId, lang LanguageKinds, in *interner.Interner, src []byte) NodeId {
	kind := KindInternal
	if lang.IsValidToken(pn.Kind()) {
		kind = lang.HirKind(pn.Kind())
	}

	n := u.alloc()
	n.Kind = kind
	n.ParseKind = pn.Kind()
	n.Span = pn.Span()
	n.Parent = parent
	id := n.ID

	if kind == KindIdentifier {
		n.Name = in.Intern(string(src[pn.Span().Start:pn.Span().End]))
	} else if nameNode := pn.FieldChild(lang.NameField()); nameNode != nil {
		n.Name = in.Intern(string(src[nameNode.Span().Start:nameNode.Span().End]))
	}

	count := pn.ChildCount()
	n.Children = make([]NodeId, 0, count)
	typeFieldNode := pn.FieldChild(lang.TypeField())
	n.TypeChild = NoNode
	for i := 0; i < count; i++ {
		child := pn.Child(i)
		if child == nil {
			continue
		}
		childID := buildNode(u, child, id, lang, in, src)
		n.Children = append(n.Children, childID)
		if typeFieldNode != nil && n.TypeChild == NoNode && child.Span() == typeFieldNode.Span() {
			n.TypeChild = childID
		}
	}

	return id
}
