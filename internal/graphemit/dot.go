package graphemit

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/allenanswerzq/llmcc/internal/block"
)

// Options controls the config/.llmcc keys that affect rendering:
// cluster_by_crate and short_labels.
type Options struct {
	ClusterByCrate bool
	ShortLabels    bool
}

// RenderDOT turns p into line-oriented DOT text. Node and edge
// iteration order is fixed by Project/Prune (ascending block id, edges
// tie-broken by kind), so two calls over an unchanged Projection
// produce byte-identical output.
func RenderDOT(p *Projection, opts Options) string {
	nodes := append([]Node(nil), p.Nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	var b strings.Builder
	b.WriteString("digraph llmcc {\n")

	if opts.ClusterByCrate {
		writeClustered(&b, nodes, opts)
	} else {
		for _, n := range nodes {
			writeNode(&b, n, opts)
		}
	}

	dotID := make(map[block.Id]string, len(nodes))
	for _, n := range nodes {
		dotID[n.ID] = n.DotID()
	}
	for _, e := range p.Edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", dotID[e.From], dotID[e.To], e.Kind)
	}

	b.WriteString("}\n")
	return b.String()
}

func writeNode(b *strings.Builder, n Node, opts Options) {
	fmt.Fprintf(b, "  %q [label=%q];\n", n.DotID(), displayLabel(n, opts))
}

// writeClustered groups Module nodes into a DOT subgraph per "crate":
// this block model has no dedicated crate block kind, so the crate key is the module
// path's first path segment, and non-module nodes are emitted
// ungrouped exactly as writeNode would.
func writeClustered(b *strings.Builder, nodes []Node, opts Options) {
	clusters := make(map[string][]Node)
	var clusterOrder []string
	var rest []Node

	for _, n := range nodes {
		if n.Kind != block.KindModule {
			rest = append(rest, n)
			continue
		}
		key := crateKey(n.Label)
		if _, ok := clusters[key]; !ok {
			clusterOrder = append(clusterOrder, key)
		}
		clusters[key] = append(clusters[key], n)
	}
	sort.Strings(clusterOrder)

	for i, key := range clusterOrder {
		fmt.Fprintf(b, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(b, "    label=%q;\n", key)
		for _, n := range clusters[key] {
			b.WriteString("  ")
			writeNode(b, n, opts)
		}
		b.WriteString("  }\n")
	}
	for _, n := range rest {
		writeNode(b, n, opts)
	}
}

func crateKey(modulePath string) string {
	if modulePath == "" {
		return "."
	}
	clean := path.Clean(modulePath)
	if i := strings.IndexByte(clean, '/'); i >= 0 {
		return clean[:i]
	}
	return clean
}

func displayLabel(n Node, opts Options) string {
	if !opts.ShortLabels {
		return n.Label
	}
	if i := strings.LastIndexByte(n.Label, '/'); i >= 0 {
		return n.Label[i+1:]
	}
	return n.Label
}

