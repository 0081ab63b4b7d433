// Package interner provides the process-wide (per compile context)
// string interner: intern(bytes) -> SymId, resolve(SymId) -> bytes.
// Every identifier, every crate/module name, and every type name seen
// during parsing funnels through here so that downstream phases
// compare dense integers instead of strings.
package interner

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// SymId is a stable, dense identifier for an interned string. Zero is
// never issued and is reserved as an explicit "no symbol" sentinel.
type SymId uint32

// shardCount is the number of shards the interner splits its table
// into. Contention is spread across shards rather than eliminated:
// this is a sharded-mutex table, not a lock-free one.
const shardCount = 16

type shard struct {
	mu     sync.RWMutex
	lookup map[string]SymId
}

// Interner is a sharded, concurrency-safe string interner. The shard
// for a given string is selected by the low bits of its xxhash.
type Interner struct {
	shards  [shardCount]*shard
	strings []atomic.Pointer[string] // dense SymId -> string, grown under growMu
	growMu  sync.Mutex
	nextID  atomic.Uint32
}

// New creates an empty Interner.
func New() *Interner {
	in := &Interner{}
	for i := range in.shards {
		in.shards[i] = &shard{lookup: make(map[string]SymId)}
	}
	// Reserve index 0 for SymId zero's sentinel meaning.
	in.strings = append(in.strings, atomic.Pointer[string]{})
	in.nextID.Store(1)
	return in
}

func (in *Interner) shardFor(s string) *shard {
	h := xxhash.Sum64String(s)
	return in.shards[h&(shardCount-1)]
}

// Intern returns the SymId for s, assigning a new one if s has not
// been seen before. Safe for concurrent use from any number of
// binding goroutines.
func (in *Interner) Intern(s string) SymId {
	sh := in.shardFor(s)

	sh.mu.RLock()
	if id, ok := sh.lookup[s]; ok {
		sh.mu.RUnlock()
		return id
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	if id, ok := sh.lookup[s]; ok {
		return id
	}

	id := SymId(in.nextID.Add(1) - 1)
	sh.lookup[s] = id
	in.store(id, s)
	return id
}

func (in *Interner) store(id SymId, s string) {
	in.growMu.Lock()
	defer in.growMu.Unlock()

	for len(in.strings) <= int(id) {
		in.strings = append(in.strings, atomic.Pointer[string]{})
	}
	in.strings[id].Store(&s)
}

// Resolve returns the string for id, or false if id was never
// interned by this Interner.
func (in *Interner) Resolve(id SymId) (string, bool) {
	in.growMu.Lock()
	if int(id) >= len(in.strings) {
		in.growMu.Unlock()
		return "", false
	}
	p := in.strings[id].Load()
	in.growMu.Unlock()

	if p == nil {
		return "", false
	}
	return *p, true
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	return int(in.nextID.Load()) - 1
}
