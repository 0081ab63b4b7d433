package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/interner"
	"github.com/allenanswerzq/llmcc/internal/symtab"
)

func TestInnerScopeShadowsOuter(t *testing.T) {
	in := interner.New()
	name := in.Intern("x")

	outer := symtab.NewScope(nil)
	outerSym := &symtab.Symbol{Name: name}
	outer.Define(name, outerSym)

	inner := symtab.NewScope(outer)
	innerSym := &symtab.Symbol{Name: name}
	inner.Define(name, innerSym)

	resolved, ok := inner.Lookup(name)
	require.True(t, ok)
	require.Same(t, innerSym, resolved)
}

func TestLookupFallsThroughToParent(t *testing.T) {
	in := interner.New()
	name := in.Intern("shared")

	outer := symtab.NewScope(nil)
	outerSym := &symtab.Symbol{Name: name}
	outer.Define(name, outerSym)

	inner := symtab.NewScope(outer)

	resolved, ok := inner.Lookup(name)
	require.True(t, ok)
	require.Same(t, outerSym, resolved)
}

func TestFirstSeenWinsAndLaterIsRebinding(t *testing.T) {
	in := interner.New()
	name := in.Intern("dup")

	scope := symtab.NewScope(nil)
	first := &symtab.Symbol{Name: name}
	second := &symtab.Symbol{Name: name}

	scope.Define(name, first)
	scope.Define(name, second)

	resolved, _ := scope.Lookup(name)
	require.Same(t, first, resolved)
	require.Equal(t, []*symtab.Symbol{second}, scope.Rebindings(name))
}

func TestFileScopeIsLazilyCreatedAndStable(t *testing.T) {
	table := symtab.NewTable()

	a := table.FileScope("main.go")
	b := table.FileScope("main.go")
	require.Same(t, a, b)

	c := table.FileScope("other.go")
	require.NotSame(t, a, c)
}
