package depgraph

import "errors"

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// NodeType classifies a package node. A well-formed dependency graph has
// exactly one node of type [NodeRoot]; loaders that cannot determine a type
// use [NodeUnknown].
type NodeType string

// Node types.
const (
	NodeRoot       NodeType = "root"
	NodeDependency NodeType = "dependency"
	NodeUnknown    NodeType = "unknown"
)

// EdgeType classifies how a dependency relation was established by the
// loader. Installed edges come from resolved lockfile entries, required
// edges from declared-but-unresolved requirements.
type EdgeType string

// Edge types.
const (
	EdgeInstalled EdgeType = "installed"
	EdgeRequired  EdgeType = "required"
	EdgeUnknown   EdgeType = "unknown"
)

// Node represents a single package identity in the dependency graph.
// The ID is unique across the graph and conventionally has the form
// "name@version". Name carries the logical package name, so two nodes
// with equal Name but different IDs are version variants of one package.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID      string   // Unique identifier, conventionally "name@version"
	Name    string   // Logical package name (defaults to ID if empty)
	Version string   // Resolved version, may be empty
	Type    NodeType // root, dependency, or unknown
}

// Label returns the node's display label: the ID.
func (n Node) Label() string { return n.ID }

// Edge represents a directed dependency relation: From depends on To.
type Edge struct {
	From string   // Source node ID (the dependent)
	To   string   // Target node ID (the dependency)
	Type EdgeType // installed, required, or unknown
}

// Graph is a directed dependency graph with typed nodes and edges.
//
// A Graph is built once by a loader via AddNode/AddEdge and is then treated
// as immutable by every analysis: all other methods are read-only. Node
// iteration order is insertion order, which analyses use as the stable
// tie-break when sorting scores.
//
// Parallel edges between the same ordered pair are collapsed into a single
// logical edge; re-adding an existing edge is a no-op. Graph is not safe
// for concurrent mutation, but any number of goroutines may read it
// concurrently once construction is complete.
type Graph struct {
	nodes    map[string]*Node
	order    []string // insertion order of node IDs
	edges    []Edge
	edgeSet  map[[2]string]bool
	outgoing map[string][]string // nodeID -> successor IDs
	incoming map[string][]string // nodeID -> predecessor IDs
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[[2]string]bool),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the node ID
// is empty, or ErrDuplicateNodeID if a node with the same ID already exists.
// An empty Name defaults to the ID and an empty Type to NodeUnknown.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Name == "" {
		n.Name = n.ID
	}
	if n.Type == "" {
		n.Type = NodeUnknown
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Returns
// ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is missing.
// An empty Type defaults to EdgeUnknown.
//
// Adding an edge that already exists (same From and To) is a no-op: the
// graph keeps a single logical edge per ordered pair, so repeated lockfile
// entries cannot skew traversal or edge counts.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	key := [2]string{e.From, e.To}
	if g.edgeSet[key] {
		return nil
	}
	if e.Type == "" {
		e.Type = EdgeUnknown
	}
	g.edgeSet[key] = true
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID and true, or nil and false if
// not found.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of logical edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Successors returns the IDs of nodes this node depends on.
// The returned slice is a read-only view and must not be modified.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs of nodes that depend on this node.
// The returned slice is a read-only view and must not be modified.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node
// (its dependencies). Returns 0 if the node doesn't exist.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node
// (its dependents). Returns 0 if the node doesn't exist.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Degree returns the total degree of the node (in + out).
func (g *Graph) Degree(id string) int {
	return len(g.incoming[id]) + len(g.outgoing[id])
}

// Sources returns the IDs of nodes with no incoming edges, in insertion
// order. In a well-formed dependency graph this is exactly the root package.
func (g *Graph) Sources() []string {
	var sources []string
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, id)
		}
	}
	return sources
}

// Reversed returns a read-only projection of the graph with every edge
// flipped. Nodes are shared with the original graph, never copied; the
// projection has the same iteration order and must not be mutated.
//
// The reversed view answers "what depends on me" questions: out-degree in
// the reversed graph is in-degree in the original.
func (g *Graph) Reversed() *Graph {
	edges := make([]Edge, len(g.edges))
	edgeSet := make(map[[2]string]bool, len(g.edges))
	for i, e := range g.edges {
		edges[i] = Edge{From: e.To, To: e.From, Type: e.Type}
		edgeSet[[2]string{e.To, e.From}] = true
	}
	return &Graph{
		nodes:    g.nodes,
		order:    g.order,
		edges:    edges,
		edgeSet:  edgeSet,
		outgoing: g.incoming,
		incoming: g.outgoing,
	}
}

// Undirected returns the adjacency lists of the undirected projection:
// for each node, its neighbors across both edge directions, deduplicated.
// Antiparallel edge pairs (a→b and b→a) collapse into a single undirected
// edge, so len(adjacency[a]) is the undirected degree of a.
//
// The projection is recomputed on each call; connectivity and clustering
// analyses build it once and reuse it.
func (g *Graph) Undirected() map[string][]string {
	adj := make(map[string][]string, len(g.nodes))
	seen := make(map[[2]string]bool, len(g.edges))
	for _, e := range g.edges {
		if e.From == e.To {
			continue // self-loops carry no undirected connectivity
		}
		a, b := e.From, e.To
		if a > b {
			a, b = b, a
		}
		key := [2]string{a, b}
		if seen[key] {
			continue
		}
		seen[key] = true
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	return adj
}

// UndirectedEdgeCount returns the number of edges in the undirected
// projection, with antiparallel pairs counted once and self-loops dropped.
func (g *Graph) UndirectedEdgeCount() int {
	seen := make(map[[2]string]bool, len(g.edges))
	for _, e := range g.edges {
		if e.From == e.To {
			continue
		}
		a, b := e.From, e.To
		if a > b {
			a, b = b, a
		}
		seen[[2]string{a, b}] = true
	}
	return len(seen)
}
