package arena

// DefaultSlabElems is the number of values a TypedBump places in one
// slab. HIR and block nodes are small; 4096 keeps a slab in the same
// ballpark as one Bump chunk's working set.
const DefaultSlabElems = 4096

// TypedBump is the typed face of the bump discipline Bump applies to
// raw bytes: values of T are carved out of fixed-size slabs, so an
// allocation is an index bump into the current slab rather than an
// individual heap object. Slabs are never resized, so a returned
// pointer stays valid (and the value never moves) for as long as
// anything references it — which is what lets HIR and block nodes be
// addressed by dense id from any goroutine after their build phase.
//
// A TypedBump has a single writer: each compile unit's HIR builder
// owns its own, and the block graph's is only written by the
// (sequential) block-build stage. Readers after the owning phase's
// barrier need no synchronization.
type TypedBump[T any] struct {
	current []T
	used    int
	count   int
}

// NewTypedBump creates a TypedBump whose slabs hold slabElems values
// each. slabElems <= 0 selects DefaultSlabElems.
func NewTypedBump[T any](slabElems int) *TypedBump[T] {
	if slabElems <= 0 {
		slabElems = DefaultSlabElems
	}
	return &TypedBump[T]{current: make([]T, slabElems)}
}

// Alloc reserves the next slot in the current slab and returns a
// pointer to it, zero-valued. Exhausted slabs are simply dropped from
// the bump's view; outstanding pointers keep them alive.
func (b *TypedBump[T]) Alloc() *T {
	if b.used == len(b.current) {
		b.current = make([]T, len(b.current))
		b.used = 0
	}
	v := &b.current[b.used]
	b.used++
	b.count++
	return v
}

// Len reports how many values this bump has handed out.
func (b *TypedBump[T]) Len() int { return b.count }
