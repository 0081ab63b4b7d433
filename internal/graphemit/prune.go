package graphemit

import (
	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/pagerank"
)

// Prune reduces p to its top-K most central nodes by PageRank and
// every edge both of whose endpoints survive: an omitted-by-pruning
// node drops its incident edges too, so the result stays
// self-contained. topK <= 0 returns p unchanged.
func Prune(p *Projection, topK int) *Projection {
	if topK <= 0 || len(p.Nodes) == 0 {
		return p
	}

	index := make(map[block.Id]int, len(p.Nodes))
	for i, n := range p.Nodes {
		index[n.ID] = i
	}

	g := pagerank.Graph{N: len(p.Nodes), Out: make([][]int, len(p.Nodes))}
	for _, e := range p.Edges {
		from, ok1 := index[e.From]
		to, ok2 := index[e.To]
		if !ok1 || !ok2 {
			continue
		}
		g.Out[from] = append(g.Out[from], to)
	}

	scores := pagerank.Rank(g, pagerank.NewConfig())
	kept := pagerank.TopK(scores, topK)

	keepSet := make(map[block.Id]bool, len(kept))
	out := &Projection{}
	for _, idx := range kept {
		n := p.Nodes[idx]
		keepSet[n.ID] = true
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range p.Edges {
		if keepSet[e.From] && keepSet[e.To] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}

// Rank scores every node in p by PageRank without pruning, for callers
// that want the raw scores (e.g. diagnostics) rather than a pruned
// Projection.
func Rank(p *Projection) map[block.Id]float64 {
	index := make(map[block.Id]int, len(p.Nodes))
	for i, n := range p.Nodes {
		index[n.ID] = i
	}
	g := pagerank.Graph{N: len(p.Nodes), Out: make([][]int, len(p.Nodes))}
	for _, e := range p.Edges {
		from, ok1 := index[e.From]
		to, ok2 := index[e.To]
		if !ok1 || !ok2 {
			continue
		}
		g.Out[from] = append(g.Out[from], to)
	}
	scores := pagerank.Rank(g, pagerank.NewConfig())

	out := make(map[block.Id]float64, len(p.Nodes))
	for i, n := range p.Nodes {
		out[n.ID] = scores[i]
	}
	return out
}
