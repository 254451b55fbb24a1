package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lockrank/pkg/depgraph"
)

// Node fill colors by package type.
const (
	rootColor = "#ce6c47"
	depColor  = "#b8d5b8"
)

// ToDOT converts a dependency graph to Graphviz DOT format.
//
// Nodes are colored by type (root, dependency, unknown), with the root
// drawn bold and enlarged. Edges are styled by how the relation was
// established: installed edges solid, required edges dashed, anything
// else dotted. Labels show the package name with its version on a second
// line when known.
func ToDOT(g *depgraph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph DependencyNetwork {\n")
	buf.WriteString("  graph [\n")
	buf.WriteString("    layout=dot,\n")
	buf.WriteString("    rankdir=LR,\n")
	buf.WriteString("    ranksep=1.0\n")
	buf.WriteString("    pad=0.5\n")
	buf.WriteString("  ];\n")
	buf.WriteString("  node [\n")
	buf.WriteString("    shape=box,\n")
	buf.WriteString("    style=filled,\n")
	buf.WriteString("    fontsize=10\n")
	buf.WriteString("  ];\n")
	buf.WriteString("  edge [\n")
	buf.WriteString("    arrowsize=0.4,\n")
	buf.WriteString("    arrowhead=vee\n")
	buf.WriteString("    color=\"#888888\"\n")
	buf.WriteString("    penwidth=0.5,\n")
	buf.WriteString("    style=bezier\n")
	buf.WriteString("  ];\n")
	buf.WriteString("  concentrate=true;\n")
	buf.WriteString("  mclimit=1.5;\n")

	for _, n := range g.Nodes() {
		id := escapeDOT(n.ID)
		label := n.Name
		if n.Version != "" {
			label = fmt.Sprintf("%s\\n%s", n.Name, n.Version)
		}

		switch n.Type {
		case depgraph.NodeRoot:
			fmt.Fprintf(&buf,
				"  \"%s\" [label=\"%s\", fillcolor=\"%s\", style=\"filled, bold\", fontsize=14, width=1.5, penwidth=2];\n",
				id, label, rootColor)
		case depgraph.NodeDependency:
			fmt.Fprintf(&buf, "  \"%s\" [label=\"%s\", fillcolor=\"%s\"];\n", id, label, depColor)
		default:
			fmt.Fprintf(&buf, "  \"%s\" [label=\"%s\", fillcolor=\"white\"];\n", id, label)
		}
	}

	for _, e := range g.Edges() {
		style := "dotted"
		switch e.Type {
		case depgraph.EdgeInstalled:
			style = "solid"
		case depgraph.EdgeRequired:
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  \"%s\" -> \"%s\" [style=%s];\n", escapeDOT(e.From), escapeDOT(e.To), style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func escapeDOT(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
