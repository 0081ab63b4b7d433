package bind

import (
	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/cerr"
	"github.com/allenanswerzq/llmcc/internal/diag"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/idcodec"
	"github.com/allenanswerzq/llmcc/internal/interner"
	"github.com/allenanswerzq/llmcc/internal/symtab"
)

// selfName is interned lazily so "Self" only occupies a SymId slot in
// languages that actually have impl blocks.
func selfName(in *interner.Interner) interner.SymId {
	return in.Intern("Self")
}

// definitionShaped reports whether bk is a block kind the collector
// registers a symbol for.
func definitionShaped(bk block.Kind) bool {
	switch bk {
	case block.KindFunc, block.KindClass, block.KindTrait, block.KindImpl, block.KindField, block.KindParameter:
		return true
	default:
		return false
	}
}

// scopeIntroducing reports whether bk opens a new lexical scope for
// its children.
func scopeIntroducing(bk block.Kind) bool {
	switch bk {
	case block.KindFunc, block.KindClass, block.KindTrait, block.KindImpl, block.KindModule:
		return true
	default:
		return false
	}
}

// collectDefinitions is phase 1: walk every HIR node of unit, register
// a symbol for each definition-shaped node in the scope active at that
// point, and open new scopes for nodes that introduce one.
func (b *Binder) collectDefinitions(u *Unit) {
	root := u.HIR.Root()
	if root == nil {
		return
	}
	b.collectWalk(u, root, u.scope)
}

func (b *Binder) collectWalk(u *Unit, n *hir.Node, scope *symtab.Scope) {
	bk := u.Lang.BlockKind(n.ParseKind)

	if definitionShaped(bk) && n.Name != 0 {
		sym := b.Table.NewSymbol(n.Name)
		sym.DefinedAt, sym.HasDefinedAt = n.ID, true
		sym.DefinedUnit = u.Index
		if scope == u.scope {
			sym.Visibility = symtab.VisibilityExported
		} else {
			sym.Visibility = symtab.VisibilityModule
		}
		defined := scope.Define(n.Name, sym)
		if sym.Visibility == symtab.VisibilityExported {
			// Define returns the first-seen symbol on a duplicate, so a
			// re-binding never displaces the export importers see.
			u.Exports[n.Name] = defined
		}
	}

	if bk == block.KindUse {
		b.collectImport(u, n)
	}

	childScope := scope
	if scopeIntroducing(bk) {
		childScope = symtab.NewScope(scope)
		u.scopesByNode[n.ID] = childScope
		if bk == block.KindImpl {
			selfSym := b.Table.NewSymbol(selfName(b.Interner))
			childScope.Define(selfSym.Name, selfSym)
			b.selfByImpl[n.ID] = selfPending{unit: u, sym: selfSym}
		}
	}

	for _, childID := range n.Children {
		child := u.HIR.Get(childID)
		if child == nil {
			continue
		}
		b.collectWalk(u, child, childScope)
	}
}

// collectImport records a pending cross-file import for a use/import
// node: it defines a placeholder symbol under the imported local name
// in this unit's file scope (so ordinary reference resolution in
// resolveReferences finds it, exactly as if the name were defined
// locally) and remembers enough to re-point that placeholder at the
// real exported symbol once every unit's exports are known.
func (b *Binder) collectImport(u *Unit, n *hir.Node) {
	if len(u.Src) == 0 || n.Span.Start > n.Span.End || int(n.Span.End) > len(u.Src) {
		return
	}
	tag := ""
	if u.Lang != nil {
		tag = u.Lang.Tag()
	}
	text := string(u.Src[n.Span.Start:n.Span.End])
	localName, modulePath, ok := extractImport(tag, text)
	if !ok {
		return
	}

	nameID := b.Interner.Intern(localName)
	moduleID := b.Interner.Intern(modulePath)

	placeholder := b.Table.NewSymbol(nameID)
	placeholder.DefinedUnit = u.Index
	u.scope.Define(nameID, placeholder)

	u.Imports = append(u.Imports, Import{
		Node:        n.ID,
		ImportName:  nameID,
		FromModule:  moduleID,
		LocalSymbol: placeholder.ID,
	})
}

// resolveReferences is phase 2: re-walk, resolving every identifier
// node against the scope active at that point.
func (b *Binder) resolveReferences(u *Unit) {
	root := u.HIR.Root()
	if root == nil {
		return
	}
	b.resolveWalk(u, root, u.scope)
}

func (b *Binder) resolveWalk(u *Unit, n *hir.Node, scope *symtab.Scope) {
	if n.Kind == hir.KindIdentifier && n.Name != 0 {
		if sym, ok := scope.Lookup(n.Name); ok {
			n.Symbol.Set(sym.ID)
		} else if diag.Enabled() {
			// Left dangling per the failure policy; recorded only for
			// whoever is watching the diagnostics stream.
			name, _ := b.Interner.Resolve(n.Name)
			diag.Log("bind", "%v (node %s)",
				cerr.NewBindingError(name, u.Path), idcodec.Encode(uint32(n.ID)))
		}
	}

	bk := u.Lang.BlockKind(n.ParseKind)
	childScope := scope
	if scopeIntroducing(bk) {
		if sc, ok := u.scopesByNode[n.ID]; ok {
			childScope = sc
		}
	}

	for _, childID := range n.Children {
		child := u.HIR.Get(childID)
		if child == nil {
			continue
		}
		b.resolveWalk(u, child, childScope)
	}
}

// resolveTypes is phase 3: for every symbol whose defining node has a
// TypeChild, resolve that child's name to a symbol and store it as
// TypeOf. Also finalizes every impl block's pending Self symbol.
func (b *Binder) resolveTypes(u *Unit) {
	root := u.HIR.Root()
	if root == nil {
		return
	}
	b.resolveTypesWalk(u, root)

	for implID, pending := range b.selfByImpl {
		if pending.unit != u {
			continue
		}
		implNode := u.HIR.Get(implID)
		if implNode == nil || implNode.TypeChild == hir.NoNode {
			continue
		}
		typeNode := u.HIR.Get(implNode.TypeChild)
		if typeNode == nil {
			continue
		}
		if targetID, ok := typeNode.Symbol.Get(); ok {
			pending.sym.TypeOf, pending.sym.TypeOfSet = targetID, true
		}
	}
}

func (b *Binder) resolveTypesWalk(u *Unit, n *hir.Node) {
	bk := u.Lang.BlockKind(n.ParseKind)
	if (bk == block.KindParameter || bk == block.KindField || bk == block.KindReturn) && n.TypeChild != hir.NoNode {
		if sym, ok := b.symbolDefinedAt(u, n.ID); ok {
			typeNode := u.HIR.Get(n.TypeChild)
			if typeNode != nil {
				if targetID, ok := typeNode.Symbol.Get(); ok {
					sym.TypeOf, sym.TypeOfSet = targetID, true
				}
			}
		}
	}

	for _, childID := range n.Children {
		child := u.HIR.Get(childID)
		if child == nil {
			continue
		}
		b.resolveTypesWalk(u, child)
	}
}

// symbolDefinedAt finds the symbol whose DefinedAt equals nodeID
// within u specifically: DefinedAt alone is only dense per unit, so
// the search must also filter on DefinedUnit to avoid matching a
// same-numbered node in a different compile unit.
func (b *Binder) symbolDefinedAt(u *Unit, nodeID hir.NodeId) (*symtab.Symbol, bool) {
	n := b.Table.Len()
	for id := 1; id <= n; id++ {
		sym := b.Table.Get(hir.SymbolId(id))
		if sym != nil && sym.HasDefinedAt && sym.DefinedAt == nodeID && sym.DefinedUnit == u.Index {
			return sym, true
		}
	}
	return nil, false
}

// linkCrossFile is phase 4: for each unit's recorded imports, find the
// target unit's exported symbol of the same name and re-point both the
// importing node and the placeholder symbol collectImport defined at
// it so every reference already resolved to the placeholder now
// behaves exactly as if it had resolved straight to the export.
func (b *Binder) linkCrossFile() {
	byPath := make(map[string]*Unit, len(b.Units))
	for _, u := range b.Units {
		byPath[u.Path] = u
	}

	for _, u := range b.Units {
		for _, imp := range u.Imports {
			target := b.resolveImportTarget(byPath, imp)
			if target == nil {
				continue
			}
			exported, ok := target.Exports[imp.ImportName]
			if !ok {
				continue
			}
			if n := u.HIR.Get(imp.Node); n != nil {
				n.Symbol.Set(exported.ID)
			}
			if placeholder := b.Table.Get(imp.LocalSymbol); placeholder != nil {
				placeholder.DefinedAt, placeholder.HasDefinedAt = exported.DefinedAt, exported.HasDefinedAt
				placeholder.DefinedUnit = exported.DefinedUnit
				placeholder.TypeOf, placeholder.TypeOfSet = exported.TypeOf, exported.TypeOfSet
			}
		}
	}
}

// resolveImportTarget finds the unit an import refers to. Resolution
// is deliberately simple (exact path match against the module path
// text the language's import extraction recovered) since module-path
// syntax varies per language and is outside this package's concern.
func (b *Binder) resolveImportTarget(byPath map[string]*Unit, imp Import) *Unit {
	if imp.FromModule == 0 {
		return nil
	}
	modulePath, ok := b.Interner.Resolve(imp.FromModule)
	if !ok {
		return nil
	}
	return byPath[modulePath]
}
