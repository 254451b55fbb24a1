package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockrank/pkg/depgraph"
)

var (
	// ErrEmptyGraph is returned by [Summarize] for a graph with no nodes:
	// path-based statistics are undefined on it.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrNoRoot is reported by [FindRoot] when no node has in-degree 0.
	// Every node being depended upon usually means the graph is cyclic at
	// the top or the loader dropped the root package.
	ErrNoRoot = errors.New("no root node")

	// ErrAmbiguousRoot is reported by [FindRoot] when more than one node
	// has in-degree 0, so no single top-level package can be identified.
	ErrAmbiguousRoot = errors.New("multiple root nodes")
)

// RootCountError is the structural error returned by [FindRoot] when the
// graph does not have exactly one node with in-degree 0. It carries the
// offending count and matches ErrNoRoot or ErrAmbiguousRoot under
// [errors.Is].
type RootCountError struct {
	Count int // number of in-degree-0 nodes found
}

func (e *RootCountError) Error() string {
	if e.Count == 0 {
		return "no root node: every node has dependents"
	}
	return fmt.Sprintf("multiple root nodes: found %d nodes without dependents", e.Count)
}

// Unwrap maps the count onto the matching sentinel error.
func (e *RootCountError) Unwrap() error {
	if e.Count == 0 {
		return ErrNoRoot
	}
	return ErrAmbiguousRoot
}

// Statistics is the summary record for a dependency network.
// DirectDependencies is nil when root identification failed; the rest of
// the record is still populated so reports can degrade instead of abort.
type Statistics struct {
	Nodes              int             `json:"nodes" bson:"nodes"`
	Edges              int             `json:"edges" bson:"edges"`
	Root               string          `json:"root,omitempty" bson:"root,omitempty"`
	RootCount          int             `json:"root_count" bson:"root_count"`
	DirectDependencies *int            `json:"direct_dependencies,omitempty" bson:"direct_dependencies,omitempty"`
	MaxPathLength      int             `json:"max_path_length" bson:"max_path_length"`
	AvgPathLength      float64         `json:"avg_path_length" bson:"avg_path_length"`
	Clustering         float64         `json:"clustering" bson:"clustering"`
	Density            float64         `json:"density" bson:"density"`
	DuplicateVersions  int             `json:"duplicate_versions" bson:"duplicate_versions"`
	Components         int             `json:"components" bson:"components"`
	Cycle              []depgraph.Edge `json:"cycle,omitempty" bson:"cycle,omitempty"`
}

// FindRoot identifies the unique root package: the single node with
// in-degree 0. It returns a *RootCountError when zero or multiple such
// nodes exist, so callers can distinguish the two cases via errors.Is
// and decide whether to continue with a degraded result.
func FindRoot(g *depgraph.Graph) (string, error) {
	sources := g.Sources()
	if len(sources) != 1 {
		return "", &RootCountError{Count: len(sources)}
	}
	return sources[0], nil
}

// FindCycle returns the edges of one directed cycle if the graph contains
// any, or nil for an acyclic graph. Detection uses depth-first search with
// the usual white/gray/black coloring; which cycle is reported depends on
// node insertion order.
//
// Cycle presence is diagnostic information, never a failure: dependency
// graphs are expected to be acyclic, but analysis proceeds either way.
func FindCycle(g *depgraph.Graph) []depgraph.Edge {
	const (
		white = iota
		gray
		black
	)

	edgeType := make(map[[2]string]depgraph.EdgeType, g.EdgeCount())
	for _, e := range g.Edges() {
		edgeType[[2]string{e.From, e.To}] = e.Type
	}

	color := make(map[string]int, g.NodeCount())
	parent := make(map[string]string, g.NodeCount())

	var cycle []depgraph.Edge
	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, child := range g.Successors(id) {
			switch color[child] {
			case white:
				parent[child] = id
				if dfs(child) {
					return true
				}
			case gray:
				// Walk the gray chain back from id to child.
				cycle = []depgraph.Edge{{From: id, To: child, Type: edgeType[[2]string{id, child}]}}
				for v := id; v != child; v = parent[v] {
					p := parent[v]
					cycle = append(cycle, depgraph.Edge{From: p, To: v, Type: edgeType[[2]string{p, v}]})
				}
				reverseEdges(cycle)
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.NodeIDs() {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

func reverseEdges(edges []depgraph.Edge) {
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
}

// ConnectedComponents returns the connected components of the undirected
// projection, largest first. Nodes within a component appear in graph
// insertion order.
func ConnectedComponents(g *depgraph.Graph) [][]string {
	adj := g.Undirected()
	seen := make(map[string]bool, g.NodeCount())
	var components [][]string

	for _, start := range g.NodeIDs() {
		if seen[start] {
			continue
		}
		seen[start] = true
		member := map[string]bool{start: true}
		queue := []string{start}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range adj[v] {
				if !seen[w] {
					seen[w] = true
					member[w] = true
					queue = append(queue, w)
				}
			}
		}
		// Re-walk insertion order so component membership is deterministic.
		var comp []string
		for _, id := range g.NodeIDs() {
			if member[id] {
				comp = append(comp, id)
			}
		}
		components = append(components, comp)
	}

	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})
	return components
}

// Summarize computes the aggregate statistics record for the graph.
// It returns ErrEmptyGraph for a zero-node graph.
//
// Two documented degradations apply instead of failing the whole summary:
//
//   - Root identification failure (zero or multiple in-degree-0 nodes)
//     leaves DirectDependencies nil; RootCount carries the offending count.
//   - Diameter and average path length are computed only over the largest
//     connected component, so disconnected graphs never raise. Smaller
//     components are silently excluded from these two metrics.
//
// A detected cycle is attached to the record and logged through the given
// logger; a nil logger falls back to [log.Default].
func Summarize(g *depgraph.Graph, logger *log.Logger) (*Statistics, error) {
	if logger == nil {
		logger = log.Default()
	}
	if g.NodeCount() == 0 {
		return nil, ErrEmptyGraph
	}

	stats := &Statistics{
		Nodes:             g.NodeCount(),
		Edges:             g.EdgeCount(),
		DuplicateVersions: duplicateVersions(g),
		Density:           density(g),
	}

	if cycle := FindCycle(g); cycle != nil {
		stats.Cycle = cycle
		logger.Warn("dependency cycle detected", "length", len(cycle), "start", cycle[0].From)
	}

	root, err := FindRoot(g)
	if err != nil {
		var rcErr *RootCountError
		errors.As(err, &rcErr)
		stats.RootCount = rcErr.Count
		logger.Warn("root identification failed, skipping direct dependency count", "roots", rcErr.Count)
	} else {
		stats.Root = root
		stats.RootCount = 1
		direct := g.OutDegree(root)
		stats.DirectDependencies = &direct
	}

	components := ConnectedComponents(g)
	stats.Components = len(components)
	if len(components) > 0 {
		adj := g.Undirected()
		stats.MaxPathLength, stats.AvgPathLength = pathStats(components[0], adj)
	}

	stats.Clustering = averageClustering(g)
	return stats, nil
}

// duplicateVersions counts logical package names that appear under more
// than one node identity (i.e. installed in multiple versions).
func duplicateVersions(g *depgraph.Graph) int {
	byName := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		byName[n.Name]++
	}
	var dup int
	for _, count := range byName {
		if count > 1 {
			dup++
		}
	}
	return dup
}

// density returns edges / (nodes * (nodes-1)), the directed-graph density.
// Graphs with fewer than two nodes have density 0.
func density(g *depgraph.Graph) float64 {
	n := g.NodeCount()
	if n <= 1 {
		return 0
	}
	return float64(g.EdgeCount()) / float64(n*(n-1))
}

// pathStats computes the diameter and average shortest-path length of a
// single undirected component via BFS from every member node. A component
// of size 1 yields (0, 0).
func pathStats(component []string, adj map[string][]string) (int, float64) {
	if len(component) < 2 {
		return 0, 0
	}

	member := make(map[string]bool, len(component))
	for _, id := range component {
		member[id] = true
	}
	within := func(id string) []string {
		var out []string
		for _, w := range adj[id] {
			if member[w] {
				out = append(out, w)
			}
		}
		return out
	}

	var diameter, totalDist, pairs int
	for _, id := range component {
		for _, d := range bfsDistances(id, within) {
			if d > diameter {
				diameter = d
			}
			totalDist += d
			if d > 0 {
				pairs++
			}
		}
	}
	return diameter, float64(totalDist) / float64(pairs)
}

// averageClustering returns the mean local clustering coefficient over the
// undirected projection. Nodes with fewer than two neighbors contribute 0.
func averageClustering(g *depgraph.Graph) float64 {
	n := g.NodeCount()
	if n == 0 {
		return 0
	}

	adj := g.Undirected()
	neighbors := make(map[string]map[string]bool, n)
	for id, ns := range adj {
		set := make(map[string]bool, len(ns))
		for _, w := range ns {
			set[w] = true
		}
		neighbors[id] = set
	}

	var total float64
	for _, id := range g.NodeIDs() {
		ns := adj[id]
		k := len(ns)
		if k < 2 {
			continue
		}
		var links int
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if neighbors[ns[i]][ns[j]] {
					links++
				}
			}
		}
		total += 2 * float64(links) / float64(k*(k-1))
	}
	return total / float64(n)
}
