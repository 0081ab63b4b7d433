// Package pagerank implements the standard iterative PageRank
// computation the graph emitter uses to prune a projected graph to its
// top-K most central nodes: a fixed-point iteration driven by
// MaxIterations/ConvergenceThreshold.
package pagerank

import (
	"math"
	"sort"
)

// DefaultDamping is the standard PageRank damping factor.
const DefaultDamping = 0.85

// DefaultConvergence is the L1 score-delta threshold below which the
// iteration is considered converged.
const DefaultConvergence = 1e-6

// DefaultMaxIterations caps the fixed-point iteration so a
// pathological graph (every node its own sink, say) cannot spin
// forever.
const DefaultMaxIterations = 100

// Config tunes one PageRank run. A zero Config is not valid; use
// NewConfig for the default damping/threshold/cap.
type Config struct {
	Damping       float64
	Convergence   float64
	MaxIterations int
}

// NewConfig returns the default damping/convergence/iteration-cap.
func NewConfig() Config {
	return Config{Damping: DefaultDamping, Convergence: DefaultConvergence, MaxIterations: DefaultMaxIterations}
}

// Graph is the minimal view PageRank needs of a projected graph: a
// dense set of node indices and, for each, the indices it points to.
// Callers (internal/graphemit) build this from whichever depth's nodes
// and edges were selected for projection.
type Graph struct {
	// N is the number of nodes, indexed 0..N-1.
	N int
	// Out lists, for each node, the indices of nodes it has an edge to.
	Out [][]int
}

// Rank runs the standard iterative PageRank computation over g and
// returns one score per node index, 0..g.N-1.
func Rank(g Graph, cfg Config) []float64 {
	n := g.N
	if n == 0 {
		return nil
	}

	outDegree := make([]int, n)
	for i, out := range g.Out {
		outDegree[i] = len(out)
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	// in[i] lists every node j with an edge j->i, the reverse of Out,
	// since the iteration below sums incoming contributions.
	in := make([][]int, n)
	for j, out := range g.Out {
		for _, i := range out {
			in[i] = append(in[i], j)
		}
	}

	base := (1 - cfg.Damping) / float64(n)
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		next := make([]float64, n)

		// danglingMass redistributes the rank owned by nodes with no
		// outgoing edges evenly across every node, the conventional fix
		// for PageRank's dangling-node case.
		danglingMass := 0.0
		for i := 0; i < n; i++ {
			if outDegree[i] == 0 {
				danglingMass += scores[i]
			}
		}
		danglingShare := cfg.Damping * danglingMass / float64(n)

		for i := 0; i < n; i++ {
			sum := 0.0
			for _, j := range in[i] {
				sum += scores[j] / float64(outDegree[j])
			}
			next[i] = base + danglingShare + cfg.Damping*sum
		}

		delta := 0.0
		for i := 0; i < n; i++ {
			delta += math.Abs(next[i] - scores[i])
		}
		scores = next
		if delta < cfg.Convergence {
			break
		}
	}

	return scores
}

// TopK returns the indices of the k highest-scoring nodes, ties broken
// by ascending index so output stays deterministic. k >= len(scores)
// returns every index (the full graph); k <= 0 returns nil.
func TopK(scores []float64, k int) []int {
	if k <= 0 || len(scores) == 0 {
		return nil
	}
	if k > len(scores) {
		k = len(scores)
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		return idx[a] < idx[b]
	})

	out := idx[:k]
	sort.Ints(out)
	return out
}
