// Package arena provides the compiler's allocation recycling: Herd and
// Bump hand out per-goroutine chunks that back each compile unit's
// source buffer, and SlabAllocator pools the small scratch slices the
// later passes churn through.
package arena

import (
	"sync"
	"sync/atomic"
)

// DefaultChunkSize is the default size of a single Bump chunk: 16MB,
// tuned for the node counts a typical source file produces.
const DefaultChunkSize = 16 << 20

// Bump is a single contiguous, thread-confined allocation chunk. It is
// never touched by more than one goroutine at a time; concurrency is
// handled one layer up by Herd handing each caller its own chunk.
type Bump struct {
	buf    []byte
	offset int
}

func newBump(size int) *Bump {
	return &Bump{buf: make([]byte, size)}
}

// Reset reclaims a chunk for reuse without releasing its backing array.
func (b *Bump) Reset() {
	b.offset = 0
}

// Remaining reports the number of unused bytes left in the chunk.
func (b *Bump) Remaining() int {
	return len(b.buf) - b.offset
}

// alloc carves n bytes off the chunk, or reports false if the chunk
// does not have n bytes left.
func (b *Bump) alloc(n int) ([]byte, bool) {
	if b.Remaining() < n {
		return nil, false
	}
	start := b.offset
	b.offset += n
	return b.buf[start:b.offset:b.offset], true
}

// Herd is the process-wide (or compile-context-wide) owner of bump
// chunks. Each goroutine participating in a compile pulls its own Bump
// from the herd via Lease and returns it with Release once its work is
// done; a sync.Pool of exhausted chunks lets later compiles reuse the
// backing memory instead of returning it to the allocator. Chunk
// handout is the only synchronization point — once a goroutine holds a
// Bump, allocation out of it proceeds without locking.
type Herd struct {
	chunkSize int
	pool      sync.Pool
	chunks    int64 // total chunks ever handed out, for diagnostics
}

// NewHerd creates a herd that hands out chunks of the given size. A
// size of 0 selects DefaultChunkSize.
func NewHerd(chunkSize int) *Herd {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	h := &Herd{chunkSize: chunkSize}
	h.pool.New = func() any {
		return newBump(h.chunkSize)
	}
	return h
}

// Lease hands out a Bump chunk, reused from the pool when one is
// available, freshly allocated otherwise.
func (h *Herd) Lease() *Bump {
	atomic.AddInt64(&h.chunks, 1)
	return h.pool.Get().(*Bump)
}

// Release returns an exhausted or no-longer-needed chunk to the herd
// for reuse by a future Lease.
func (h *Herd) Release(b *Bump) {
	b.Reset()
	h.pool.Put(b)
}

// ChunksLeased reports how many Lease calls this herd has served,
// for observability.
func (h *Herd) ChunksLeased() int64 {
	return atomic.LoadInt64(&h.chunks)
}

// Worker is a per-goroutine bump allocator bound to one Herd. It holds
// a single active Bump at a time and asks the herd for a replacement
// once the current one is exhausted, so steady-state allocation never
// takes a lock beyond the chunk handoff.
type Worker struct {
	herd    *Herd
	current *Bump
}

// NewWorker creates a Worker that leases chunks from herd as needed.
func NewWorker(herd *Herd) *Worker {
	return &Worker{herd: herd, current: herd.Lease()}
}

// Alloc reserves n bytes, requesting a fresh chunk from the herd if
// the current one cannot satisfy the request. Requests larger than the
// herd's chunk size get their own dedicated allocation outside the
// pooled chunks.
func (w *Worker) Alloc(n int) []byte {
	if n > w.herd.chunkSize {
		return make([]byte, n)
	}
	if buf, ok := w.current.alloc(n); ok {
		return buf
	}
	w.herd.Release(w.current)
	w.current = w.herd.Lease()
	buf, ok := w.current.alloc(n)
	if !ok {
		// A freshly leased chunk of chunkSize must fit n <= chunkSize.
		panic("arena: fresh chunk cannot satisfy allocation within chunk size")
	}
	return buf
}

// Close returns the worker's current chunk to the herd. Call once the
// worker's goroutine is done allocating.
func (w *Worker) Close() {
	w.herd.Release(w.current)
	w.current = nil
}
