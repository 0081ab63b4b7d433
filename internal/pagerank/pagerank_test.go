package pagerank_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/pagerank"
)

// star builds the scenario 5 fixture: n leaves all pointing at a
// central hub, index 0.
func star(n int) pagerank.Graph {
	g := pagerank.Graph{N: n + 1, Out: make([][]int, n+1)}
	for i := 1; i <= n; i++ {
		g.Out[i] = []int{0}
	}
	return g
}

func TestRankHubIsMostCentral(t *testing.T) {
	g := star(100)
	scores := pagerank.Rank(g, pagerank.NewConfig())
	require.Len(t, scores, 101)

	for i := 1; i < len(scores); i++ {
		require.Greater(t, scores[0], scores[i])
	}
}

func TestTopKIncludesHub(t *testing.T) {
	g := star(100)
	scores := pagerank.Rank(g, pagerank.NewConfig())

	top := pagerank.TopK(scores, 5)
	require.Len(t, top, 5)
	require.Contains(t, top, 0)
}

func TestTopKFullGraph(t *testing.T) {
	g := star(10)
	scores := pagerank.Rank(g, pagerank.NewConfig())

	top := pagerank.TopK(scores, len(scores))
	require.Len(t, top, len(scores))
}

func TestTopKSingleNode(t *testing.T) {
	g := star(10)
	scores := pagerank.Rank(g, pagerank.NewConfig())

	top := pagerank.TopK(scores, 1)
	require.Equal(t, []int{0}, top)
}

func TestTopKZeroOrNegative(t *testing.T) {
	scores := []float64{0.5, 0.3, 0.2}
	require.Nil(t, pagerank.TopK(scores, 0))
	require.Nil(t, pagerank.TopK(scores, -1))
}
