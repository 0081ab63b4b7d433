// Package bind implements the compiler's multi-phase symbol binder:
// collect every definition first, then resolve references against the
// now-complete picture, then resolve declared types, then re-link
// cross-file imports/exports. Running phases as four separate passes
// over the whole unit set (rather than one recursive resolve) is what
// lets a reference to a function declared later in the same file, or
// in another file entirely, still resolve.
package bind

import (
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/interner"
	"github.com/allenanswerzq/llmcc/internal/langregistry"
	"github.com/allenanswerzq/llmcc/internal/symtab"
)

// Unit is the binder's view of one compile unit: its HIR tree plus
// enough language context to interpret token ids.
type Unit struct {
	Path string
	Lang langregistry.Language
	HIR  *hir.Unit

	// Src is this unit's source text, used to recover a use/import
	// node's textual name and module path (HIR nodes only carry a
	// byte span, not extracted text). May be nil for units built
	// without import extraction in mind (e.g. some tests), in which
	// case that unit simply never records any Import.
	Src []byte

	// Index is this unit's position in the Units slice passed to
	// NewBinder, assigned by Bind. It disambiguates DefinedAt, an HIR
	// NodeId that is only dense per unit: internal/block and
	// internal/connect key their own per-unit slices the same way, so
	// a Symbol's (DefinedAt, DefinedUnit) pair always names one node
	// in one unit's tree, never a collision across files.
	Index int

	// Exports collects symbols this unit makes visible to importers,
	// keyed by name, populated during collectDefinitions for any
	// top-level definition (module-scope or higher visibility).
	Exports map[interner.SymId]*symtab.Symbol

	// Imports lists the names this unit's use/import nodes reference,
	// together with the importing node (for diagnostics), the module
	// path text recorded on it, and the placeholder symbol collectImport
	// defined locally for the imported name. Populated by
	// collectDefinitions, consumed by linkCrossFile.
	Imports []Import

	scope *symtab.Scope
	// scopesByNode remembers the scope collectDefinitions created for
	// each scope-introducing node, so resolveReferences walks the
	// exact same scope tree instead of rebuilding an equivalent one.
	scopesByNode map[hir.NodeId]*symtab.Scope
}

// Import records one use/import node awaiting cross-file resolution.
type Import struct {
	Node        hir.NodeId
	ImportName  interner.SymId
	FromModule  interner.SymId // 0 if the language gave no module path
	LocalSymbol hir.SymbolId   // placeholder defined in this unit's scope
}

// Binder runs the four-phase binding pass across a set of units
// sharing one interner and symbol table.
type Binder struct {
	Interner *interner.Interner
	Table    *symtab.Table
	Units    []*Unit

	selfByImpl map[hir.NodeId]selfPending
}

type selfPending struct {
	unit *Unit
	sym  *symtab.Symbol
}

// NewBinder creates a Binder over units, which must already have HIR
// built (internal/hir.Build).
func NewBinder(in *interner.Interner, table *symtab.Table, units []*Unit) *Binder {
	return &Binder{Interner: in, Table: table, Units: units, selfByImpl: make(map[hir.NodeId]selfPending)}
}

// Bind runs all four phases in order. It never returns a hard error:
// unresolved identifiers and type references are left empty per the
// failure policy, recorded only through internal/diag.
func (b *Binder) Bind() {
	for i, u := range b.Units {
		u.Index = i
		u.scope = b.Table.FileScope(u.Path)
		u.Exports = make(map[interner.SymId]*symtab.Symbol)
		u.scopesByNode = make(map[hir.NodeId]*symtab.Scope)
	}
	for _, u := range b.Units {
		b.collectDefinitions(u)
	}
	for _, u := range b.Units {
		b.resolveReferences(u)
	}
	for _, u := range b.Units {
		b.resolveTypes(u)
	}
	b.linkCrossFile()
}
