package graphio

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/lockrank/pkg/depgraph"
)

// Graph is the canonical serialization format for dependency graphs.
// Used for API responses, graph caching, and cross-tool compatibility.
//
// The format is human-readable and designed for round-trip fidelity:
// load → export → re-import produces an equivalent graph. Node order is
// preserved, since analyses use insertion order as the sorting tie-break.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is the serialized form of a package node.
type Node struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Version string `json:"version,omitempty" bson:"version,omitempty"`
	Type    string `json:"type,omitempty" bson:"type,omitempty"`
}

// Edge is the serialized form of a dependency relation.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Type string `json:"type,omitempty" bson:"type,omitempty"`
}

// FromGraph converts a dependency graph to its serialization format.
// Nodes keep their insertion order so a round trip preserves analysis
// tie-breaking; edges likewise.
func FromGraph(g *depgraph.Graph) Graph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:      n.ID,
			Name:    n.Name,
			Version: n.Version,
			Type:    string(n.Type),
		}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To, Type: string(e.Type)}
	}
	return out
}

// ToGraph converts a serialized Graph back to a dependency graph.
// Returns a validation error for duplicate node IDs or edges referencing
// missing nodes.
func ToGraph(gj Graph) (*depgraph.Graph, error) {
	g := depgraph.New()

	for _, nj := range gj.Nodes {
		n := depgraph.Node{
			ID:      nj.ID,
			Name:    nj.Name,
			Version: nj.Version,
			Type:    depgraph.NodeType(nj.Type),
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.Edges {
		e := depgraph.Edge{From: ej.From, To: ej.To, Type: depgraph.EdgeType(ej.Type)}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	return g, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
