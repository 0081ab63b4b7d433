package arena_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/arena"
)

func TestWorkerAllocStaysWithinChunk(t *testing.T) {
	herd := arena.NewHerd(64)
	w := arena.NewWorker(herd)
	defer w.Close()

	a := w.Alloc(16)
	b := w.Alloc(16)
	require.Len(t, a, 16)
	require.Len(t, b, 16)
}

func TestWorkerRequestsFreshChunkWhenExhausted(t *testing.T) {
	herd := arena.NewHerd(32)
	w := arena.NewWorker(herd)
	defer w.Close()

	w.Alloc(20)
	w.Alloc(20) // does not fit in remaining 12 bytes, forces a new chunk

	require.GreaterOrEqual(t, herd.ChunksLeased(), int64(2))
}

func TestWorkerAllocLargerThanChunkSizeBypassesPool(t *testing.T) {
	herd := arena.NewHerd(32)
	w := arena.NewWorker(herd)
	defer w.Close()

	big := w.Alloc(1024)
	require.Len(t, big, 1024)
}

func TestHerdReusesReleasedChunks(t *testing.T) {
	herd := arena.NewHerd(arena.DefaultChunkSize)

	w1 := arena.NewWorker(herd)
	w1.Alloc(128)
	w1.Close()

	before := herd.ChunksLeased()
	w2 := arena.NewWorker(herd)
	defer w2.Close()
	w2.Alloc(128)

	require.Equal(t, before+1, herd.ChunksLeased())
}

func TestHerdConcurrentWorkers(t *testing.T) {
	herd := arena.NewHerd(4096)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := arena.NewWorker(herd)
			defer w.Close()
			for j := 0; j < 50; j++ {
				buf := w.Alloc(32)
				require.Len(t, buf, 32)
			}
		}()
	}
	wg.Wait()
}
