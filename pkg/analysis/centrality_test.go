package analysis

import (
	"math"
	"testing"

	"github.com/matzehuels/lockrank/pkg/depgraph"
)

const tol = 1e-9

// buildGraph assembles a graph from node IDs and from→to edge pairs.
func buildGraph(t *testing.T, ids []string, edges [][2]string) *depgraph.Graph {
	t.Helper()
	g := depgraph.New()
	for _, id := range ids {
		if err := g.AddNode(depgraph.Node{ID: id, Type: depgraph.NodeDependency}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(depgraph.Edge{From: e[0], To: e[1], Type: depgraph.EdgeInstalled}); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e[0], e[1], err)
		}
	}
	return g
}

// diamond is the round-trip graph: root→a, root→b, a→c, b→c.
func diamond(t *testing.T) *depgraph.Graph {
	t.Helper()
	return buildGraph(t,
		[]string{"root", "a", "b", "c"},
		[][2]string{{"root", "a"}, {"root", "b"}, {"a", "c"}, {"b", "c"}},
	)
}

// star has one center with k=3 leaves, edges center→leaf.
func star(t *testing.T) *depgraph.Graph {
	t.Helper()
	return buildGraph(t,
		[]string{"center", "l1", "l2", "l3"},
		[][2]string{{"center", "l1"}, {"center", "l2"}, {"center", "l3"}},
	)
}

func scoreOf(t *testing.T, d ScoreDistribution, label string) float64 {
	t.Helper()
	for _, s := range d {
		if s.Label == label {
			return s.Value
		}
	}
	t.Fatalf("label %q not in distribution %v", label, d)
	return 0
}

func TestDegreeCentrality(t *testing.T) {
	g := diamond(t)
	rows := DegreeCentrality(g)

	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	// All totals are 2, so the stable sort keeps insertion order.
	wantOrder := []string{"root", "a", "b", "c"}
	for i, w := range wantOrder {
		if rows[i].Label != w {
			t.Errorf("row %d = %s, want %s (insertion-order tie break)", i, rows[i].Label, w)
		}
	}
	if rows[0].In != 0 || rows[0].Out != 2 || rows[0].Total != 2 {
		t.Errorf("root degrees = %+v, want in=0 out=2 total=2", rows[0])
	}
}

func TestClosenessCentralityDiamond(t *testing.T) {
	g := diamond(t)

	in := ClosenessCentrality(g)
	if in[0].Label != "c" {
		t.Errorf("highest closeness-in = %s, want c", in[0].Label)
	}
	if got := scoreOf(t, in, "c"); math.Abs(got-0.75) > tol {
		t.Errorf("closeness-in(c) = %v, want 0.75", got)
	}
	if got := scoreOf(t, in, "a"); math.Abs(got-1.0/3) > tol {
		t.Errorf("closeness-in(a) = %v, want 1/3", got)
	}
	if got := scoreOf(t, in, "root"); got != 0 {
		t.Errorf("closeness-in(root) = %v, want 0", got)
	}

	out := ClosenessCentrality(g.Reversed())
	if out[0].Label != "root" {
		t.Errorf("highest closeness-out = %s, want root", out[0].Label)
	}
	if got := scoreOf(t, out, "root"); math.Abs(got-0.75) > tol {
		t.Errorf("closeness-out(root) = %v, want 0.75", got)
	}
	if got := scoreOf(t, out, "c"); got != 0 {
		t.Errorf("closeness-out(c) = %v, want 0", got)
	}
}

func TestClosenessStarGraph(t *testing.T) {
	g := star(t)

	out := ClosenessCentrality(g.Reversed())
	for _, leaf := range []string{"l1", "l2", "l3"} {
		if got := scoreOf(t, out, leaf); got != 0 {
			t.Errorf("closeness-out(%s) = %v, want 0 (no outgoing edges)", leaf, got)
		}
	}
	if got := scoreOf(t, out, "center"); math.Abs(got-1) > tol {
		t.Errorf("closeness-out(center) = %v, want 1", got)
	}

	in := ClosenessCentrality(g)
	if got := scoreOf(t, in, "center"); got != 0 {
		t.Errorf("closeness-in(center) = %v, want 0", got)
	}
	if in[0].Value <= in[len(in)-1].Value {
		t.Error("closeness-in should favor the leaves over the center")
	}
}

func TestClosenessSingleNode(t *testing.T) {
	g := buildGraph(t, []string{"only"}, nil)
	d := ClosenessCentrality(g)
	if len(d) != 1 || d[0].Value != 0 {
		t.Errorf("single-node closeness = %v, want one zero score", d)
	}
}

func TestBetweennessDirected(t *testing.T) {
	t.Run("Diamond", func(t *testing.T) {
		g := diamond(t)
		d := BetweennessCentrality(g)

		// Only root→c has intermediaries: two equal paths via a and b.
		want := 0.5 / 6 // pair dependency 0.5, normalized by (n-1)(n-2)
		for _, mid := range []string{"a", "b"} {
			if got := scoreOf(t, d, mid); math.Abs(got-want) > tol {
				t.Errorf("betweenness(%s) = %v, want %v", mid, got, want)
			}
		}
		for _, end := range []string{"root", "c"} {
			if got := scoreOf(t, d, end); got != 0 {
				t.Errorf("betweenness(%s) = %v, want 0", end, got)
			}
		}
	})

	t.Run("Chain", func(t *testing.T) {
		g := buildGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
		d := BetweennessCentrality(g)
		if got := scoreOf(t, d, "b"); math.Abs(got-0.5) > tol {
			t.Errorf("betweenness(b) = %v, want 0.5", got)
		}
	})

	t.Run("StarCenterIsZero", func(t *testing.T) {
		g := star(t)
		d := BetweennessCentrality(g)
		if got := scoreOf(t, d, "center"); got != 0 {
			t.Errorf("betweenness(center) = %v, want 0 (nothing passes through it)", got)
		}
	})
}

func TestBetweennessNonNegative(t *testing.T) {
	g := diamond(t)
	for _, d := range []ScoreDistribution{BetweennessCentrality(g), BetweennessUndirected(g)} {
		for _, s := range d {
			if s.Value < 0 {
				t.Errorf("betweenness(%s) = %v, want >= 0", s.Label, s.Value)
			}
		}
	}
}

func TestBetweennessUndirected(t *testing.T) {
	g := diamond(t)
	d := BetweennessUndirected(g)

	// The projection is a 4-cycle: every node carries one split pair.
	want := 0.5 / 3 // pair dependency 0.5, normalized by (n-1)(n-2)/2
	for _, id := range []string{"root", "a", "b", "c"} {
		if got := scoreOf(t, d, id); math.Abs(got-want) > tol {
			t.Errorf("undirected betweenness(%s) = %v, want %v", id, got, want)
		}
	}
}

func TestBetweennessSmallGraphs(t *testing.T) {
	// n <= 2 has no defined normalization; scores stay raw (all zero).
	for _, ids := range [][]string{{"a"}, {"a", "b"}} {
		g := buildGraph(t, ids, nil)
		for _, s := range BetweennessCentrality(g) {
			if s.Value != 0 {
				t.Errorf("betweenness on %d-node graph: %v, want 0", len(ids), s)
			}
		}
	}
}

func TestPageRankSumsToOne(t *testing.T) {
	graphs := map[string]*depgraph.Graph{
		"diamond":      diamond(t),
		"star":         star(t), // all leaves dangling
		"disconnected": buildGraph(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}}),
		"cycle":        buildGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}),
		"single":       buildGraph(t, []string{"only"}, nil),
	}

	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			d := PageRank(g, DefaultPageRankOptions())
			var sum float64
			for _, s := range d {
				sum += s.Value
			}
			if math.Abs(sum-1) > 1e-6 {
				t.Errorf("PageRank sum = %v, want 1 within 1e-6", sum)
			}
		})
	}
}

func TestPageRankFavorsSharedDependency(t *testing.T) {
	g := diamond(t)
	d := PageRank(g, DefaultPageRankOptions())
	if d[0].Label != "c" {
		t.Errorf("highest PageRank = %s, want c (everything flows into it)", d[0].Label)
	}
	if got := scoreOf(t, d, "root"); got >= scoreOf(t, d, "c") {
		t.Error("root should not outrank the shared dependency")
	}
}

func TestPageRankEmptyGraph(t *testing.T) {
	if d := PageRank(depgraph.New(), DefaultPageRankOptions()); d != nil {
		t.Errorf("PageRank on empty graph = %v, want nil", d)
	}
}
