// Package symtab defines the Symbol record and the scoped symbol
// table the binder populates across its four phases.
package symtab

import (
	"sync"

	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/interner"
)

// Visibility tags a symbol's scope/visibility within its defining
// unit.
type Visibility uint8

const (
	VisibilityLocal Visibility = iota
	VisibilityModule
	VisibilityExported
)

// Symbol is a single entry in the symbol table, addressed by its own
// ID (distinct from Name, which only identifies the text two
// differently-scoped symbols may share).
type Symbol struct {
	ID   hir.SymbolId
	Name interner.SymId

	// TypeOf is the symbol of this symbol's declared type, resolved
	// during binding's type-resolution phase. Unset (TypeOfSet false)
	// until then, and forever unset for symbols that have no type
	// (functions, modules).
	TypeOf    hir.SymbolId
	TypeOfSet bool

	// DefinedAt is the HIR node that introduces this symbol. Absent
	// for primitive type symbols, which have no declaration site.
	// HIR node ids are dense per compile unit, not globally unique, so
	// DefinedAt only identifies a node together with DefinedUnit.
	DefinedAt    hir.NodeId
	HasDefinedAt bool

	// DefinedUnit is the index (within the binder's unit list, and
	// identically within the block builder's and connect pass's unit
	// lists) of the compile unit DefinedAt belongs to.
	DefinedUnit int

	// BlockID is the block that represents this symbol's definition,
	// filled in during block building. Absent until then.
	BlockID    block.Id
	HasBlockID bool

	Visibility Visibility
}

// Scope is one lexical scope: a named set of symbols plus a link to
// the enclosing scope lookup falls through to. Function scopes shadow
// module scopes; impl scopes inherit their enclosing module's scope
// plus an explicit Self symbol.
type Scope struct {
	Parent  *Scope
	symbols map[interner.SymId]*Symbol
	// rebindings records later same-name definitions in this scope,
	// observable for tests; first-seen-wins, so a rebinding is never
	// surfaced as an error.
	rebindings map[interner.SymId][]*Symbol
	mu         sync.Mutex
}

// NewScope creates a scope chained to parent (nil for a root scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{
		Parent:     parent,
		symbols:    make(map[interner.SymId]*Symbol),
		rebindings: make(map[interner.SymId][]*Symbol),
	}
}

// Define registers sym in this scope under name. If name is already
// defined in this exact scope, the first-seen symbol wins and sym is
// recorded as a rebinding instead of replacing it.
func (s *Scope) Define(name interner.SymId, sym *Symbol) *Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.symbols[name]; ok {
		s.rebindings[name] = append(s.rebindings[name], sym)
		return existing
	}
	s.symbols[name] = sym
	return sym
}

// Rebindings returns every later definition of name in this scope
// that lost to the first-seen symbol Define returned.
func (s *Scope) Rebindings(name interner.SymId) []*Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebindings[name]
}

// Lookup performs lexical resolution starting at this scope and
// walking outward through Parent links, innermost wins.
func (s *Scope) Lookup(name interner.SymId) (*Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		scope.mu.Lock()
		sym, ok := scope.symbols[name]
		scope.mu.Unlock()
		if ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal resolves name only within this exact scope, without
// falling through to Parent.
func (s *Scope) LookupLocal(name interner.SymId) (*Symbol, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sym, ok := s.symbols[name]
	return sym, ok
}

// Table is the symbol table for a whole compile context: one root
// scope per compile unit (its file scope), plus every nested
// module/class/function/block scope the binder creates while walking
// that unit's HIR. It also owns the dense Symbol registry addressed by
// hir.SymbolId, since an HIR node's resolved-symbol slot stores that id
// rather than a pointer.
type Table struct {
	mu         sync.Mutex
	fileScopes map[string]*Scope // keyed by compile unit path
	symbols    []*Symbol         // dense, index 0 reserved
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		fileScopes: make(map[string]*Scope),
		symbols:    []*Symbol{nil},
	}
}

// NewSymbol allocates a fresh Symbol named name and assigns it a
// unique ID within this table. It is not yet registered in any scope;
// callers typically pass the result straight to Scope.Define.
func (t *Table) NewSymbol(name interner.SymId) *Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()

	sym := &Symbol{ID: hir.SymbolId(len(t.symbols)), Name: name}
	t.symbols = append(t.symbols, sym)
	return sym
}

// Get returns the symbol with the given ID, or nil if out of range.
func (t *Table) Get(id hir.SymbolId) *Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) >= len(t.symbols) {
		return nil
	}
	return t.symbols[id]
}

// Len reports how many symbols this table has allocated.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.symbols) - 1
}

// FileScope returns the root scope for the compile unit at path,
// creating it lazily on first request.
func (t *Table) FileScope(path string) *Scope {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sc, ok := t.fileScopes[path]; ok {
		return sc
	}
	sc := NewScope(nil)
	t.fileScopes[path] = sc
	return sc
}
