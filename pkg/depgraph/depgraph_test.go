package depgraph

import (
	"errors"
	"reflect"
	"testing"
)

// buildDiamond creates the canonical four-node graph used across the
// analysis tests: root→a, root→b, a→c, b→c.
func buildDiamond(t *testing.T) *Graph {
	t.Helper()
	g := New()
	nodes := []Node{
		{ID: "root", Type: NodeRoot},
		{ID: "a@1.0.0", Name: "a", Version: "1.0.0", Type: NodeDependency},
		{ID: "b@1.0.0", Name: "b", Version: "1.0.0", Type: NodeDependency},
		{ID: "c@2.0.0", Name: "c", Version: "2.0.0", Type: NodeDependency},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	edges := []Edge{
		{From: "root", To: "a@1.0.0", Type: EdgeInstalled},
		{From: "root", To: "b@1.0.0", Type: EdgeInstalled},
		{From: "a@1.0.0", To: "c@2.0.0", Type: EdgeInstalled},
		{From: "b@1.0.0", To: "c@2.0.0", Type: EdgeInstalled},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e.From, e.To, err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		setup   func(g *Graph)
		wantErr error
	}{
		{
			name:    "EmptyID",
			node:    Node{},
			wantErr: ErrInvalidNodeID,
		},
		{
			name: "Duplicate",
			node: Node{ID: "a"},
			setup: func(g *Graph) {
				if err := g.AddNode(Node{ID: "a"}); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrDuplicateNodeID,
		},
		{
			name: "Valid",
			node: Node{ID: "a@1.0.0", Name: "a", Version: "1.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			if tt.setup != nil {
				tt.setup(g)
			}
			err := g.AddNode(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddNodeDefaults(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: "pkg@1.0.0"}); err != nil {
		t.Fatal(err)
	}
	n, ok := g.Node("pkg@1.0.0")
	if !ok {
		t.Fatal("node not found after AddNode")
	}
	if n.Name != "pkg@1.0.0" {
		t.Errorf("Name = %q, want ID fallback", n.Name)
	}
	if n.Type != NodeUnknown {
		t.Errorf("Type = %q, want %q", n.Type, NodeUnknown)
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{name: "UnknownSource", edge: Edge{From: "nope", To: "a"}, wantErr: ErrUnknownSourceNode},
		{name: "UnknownTarget", edge: Edge{From: "a", To: "nope"}, wantErr: ErrUnknownTargetNode},
		{name: "Valid", edge: Edge{From: "a", To: "b", Type: EdgeRequired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.AddNode(Node{ID: "a"})
			g.AddNode(Node{ID: "b"})
			err := g.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdgeCollapsesParallelEdges(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	for i := 0; i < 3; i++ {
		if err := g.AddEdge(Edge{From: "a", To: "b", Type: EdgeInstalled}); err != nil {
			t.Fatalf("AddEdge #%d: %v", i, err)
		}
	}
	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount() = %d, want 1 logical edge", got)
	}
	if got := g.OutDegree("a"); got != 1 {
		t.Errorf("OutDegree(a) = %d, want 1", got)
	}
}

func TestDegrees(t *testing.T) {
	g := buildDiamond(t)

	tests := []struct {
		id           string
		in, out, tot int
	}{
		{"root", 0, 2, 2},
		{"a@1.0.0", 1, 1, 2},
		{"b@1.0.0", 1, 1, 2},
		{"c@2.0.0", 2, 0, 2},
	}
	for _, tt := range tests {
		if got := g.InDegree(tt.id); got != tt.in {
			t.Errorf("InDegree(%s) = %d, want %d", tt.id, got, tt.in)
		}
		if got := g.OutDegree(tt.id); got != tt.out {
			t.Errorf("OutDegree(%s) = %d, want %d", tt.id, got, tt.out)
		}
		if got := g.Degree(tt.id); got != tt.tot {
			t.Errorf("Degree(%s) = %d, want %d", tt.id, got, tt.tot)
		}
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := buildDiamond(t)
	want := []string{"root", "a@1.0.0", "b@1.0.0", "c@2.0.0"}
	if got := g.NodeIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("NodeIDs() = %v, want insertion order %v", got, want)
	}
}

func TestSources(t *testing.T) {
	g := buildDiamond(t)
	if got := g.Sources(); !reflect.DeepEqual(got, []string{"root"}) {
		t.Errorf("Sources() = %v, want [root]", got)
	}
}

func TestReversed(t *testing.T) {
	g := buildDiamond(t)
	r := g.Reversed()

	if got := r.OutDegree("c@2.0.0"); got != 2 {
		t.Errorf("reversed OutDegree(c) = %d, want 2", got)
	}
	if got := r.InDegree("root"); got != 2 {
		t.Errorf("reversed InDegree(root) = %d, want 2", got)
	}
	if got := r.Sources(); !reflect.DeepEqual(got, []string{"c@2.0.0"}) {
		t.Errorf("reversed Sources() = %v, want [c@2.0.0]", got)
	}
	// Same node set, same iteration order.
	if !reflect.DeepEqual(r.NodeIDs(), g.NodeIDs()) {
		t.Error("reversed view must preserve node iteration order")
	}
	// Edge types survive the flip.
	for _, e := range r.Edges() {
		if e.Type != EdgeInstalled {
			t.Errorf("reversed edge %s→%s lost its type: %q", e.From, e.To, e.Type)
		}
	}
}

func TestUndirected(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(Node{ID: id})
	}
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "b", To: "a"}) // antiparallel pair collapses
	g.AddEdge(Edge{From: "b", To: "c"})
	g.AddEdge(Edge{From: "c", To: "c"}) // self-loop is dropped

	adj := g.Undirected()
	if got := len(adj["b"]); got != 2 {
		t.Errorf("undirected degree of b = %d, want 2", got)
	}
	if got := len(adj["a"]); got != 1 {
		t.Errorf("undirected degree of a = %d, want 1", got)
	}
	if got := g.UndirectedEdgeCount(); got != 2 {
		t.Errorf("UndirectedEdgeCount() = %d, want 2", got)
	}
}

func TestEmptyGraph(t *testing.T) {
	g := New()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Error("empty graph should have zero counts")
	}
	if got := g.Sources(); got != nil {
		t.Errorf("Sources() on empty graph = %v, want nil", got)
	}
	if adj := g.Undirected(); len(adj) != 0 {
		t.Errorf("Undirected() on empty graph = %v, want empty", adj)
	}
}
