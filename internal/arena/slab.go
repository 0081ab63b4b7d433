package arena

import (
	"sync"
	"sync/atomic"
)

// SlabAllocator recycles small scratch slices through a set of
// capacity-tiered sync.Pools, so per-block walks (the connect pass's
// reference collection, mainly) stop hammering the allocator with
// short-lived []T. Slices whose capacity matches no tier pass through
// to plain make/GC.
type SlabAllocator[T any] struct {
	tiers []*slabTier[T]

	allocs atomic.Int64
	reuses atomic.Int64
}

type slabTier[T any] struct {
	capacity int
	pool     sync.Pool
}

// DefaultSlabTiers covers the capacities block/statement walks
// actually produce: nearly every statement has a handful of
// references, and append's doubling keeps grown slices landing back
// on a tier boundary.
var DefaultSlabTiers = []int{8, 16, 32, 64, 128, 256}

// NewSlabAllocator creates an allocator with one pool per capacity in
// tiers, which must be ascending.
func NewSlabAllocator[T any](tiers []int) *SlabAllocator[T] {
	sa := &SlabAllocator[T]{tiers: make([]*slabTier[T], len(tiers))}
	for i, capacity := range tiers {
		sa.tiers[i] = &slabTier[T]{capacity: capacity}
	}
	return sa
}

// NewSlabAllocatorWithDefaults creates an allocator over
// DefaultSlabTiers.
func NewSlabAllocatorWithDefaults[T any]() *SlabAllocator[T] {
	return NewSlabAllocator[T](DefaultSlabTiers)
}

// Get returns a length-0 slice with capacity >= want, reused from the
// smallest tier that fits when one is pooled.
func (sa *SlabAllocator[T]) Get(want int) []T {
	for _, tier := range sa.tiers {
		if tier.capacity >= want {
			if v := tier.pool.Get(); v != nil {
				sa.reuses.Add(1)
				return v.([]T)
			}
			sa.allocs.Add(1)
			return make([]T, 0, tier.capacity)
		}
	}
	sa.allocs.Add(1)
	return make([]T, 0, want)
}

// Put returns s for reuse. Only slices whose capacity exactly matches
// a tier go back to a pool; anything else is left to the GC. The
// caller must not retain s afterwards.
func (sa *SlabAllocator[T]) Put(s []T) {
	capacity := cap(s)
	if capacity == 0 {
		return
	}
	for _, tier := range sa.tiers {
		if tier.capacity == capacity {
			var zero T
			for i := range s {
				s[i] = zero
			}
			tier.pool.Put(s[:0])
			return
		}
	}
}

// Stats reports how many Get calls allocated fresh backing arrays and
// how many were served from a pool.
func (sa *SlabAllocator[T]) Stats() (allocs, reuses int64) {
	return sa.allocs.Load(), sa.reuses.Load()
}
