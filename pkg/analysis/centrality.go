package analysis

import (
	"sort"

	"github.com/matzehuels/lockrank/pkg/depgraph"
)

// DegreeRow holds the connectivity counts for a single package.
type DegreeRow struct {
	Label string `json:"label" bson:"label"`
	In    int    `json:"in" bson:"in"`
	Out   int    `json:"out" bson:"out"`
	Total int    `json:"total" bson:"total"`
}

// DegreeCentrality returns the in-, out-, and total degree of every node,
// sorted by total degree descending with ties in node insertion order.
func DegreeCentrality(g *depgraph.Graph) []DegreeRow {
	ids := g.NodeIDs()
	rows := make([]DegreeRow, len(ids))
	for i, id := range ids {
		rows[i] = DegreeRow{
			Label: id,
			In:    g.InDegree(id),
			Out:   g.OutDegree(id),
			Total: g.Degree(id),
		}
	}
	// Stable insertion-order tie-break, same contract as ScoreDistribution.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return rows
}

// OutDegreeDistribution returns the out-degree of every node as a score
// distribution in node insertion order, unsorted. This is the input for
// the "degree of connectivity (dependencies)" inequality measure.
func OutDegreeDistribution(g *depgraph.Graph) ScoreDistribution {
	ids := g.NodeIDs()
	d := make(ScoreDistribution, len(ids))
	for i, id := range ids {
		d[i] = Score{Label: id, Value: float64(g.OutDegree(id))}
	}
	return d
}

// ClosenessCentrality computes closeness centrality for every node over
// incoming shortest paths: how near a node is to everything that can reach
// it. On a dependency graph as loaded this is the dependents' view; pass
// [depgraph.Graph.Reversed] for the dependencies' view.
//
// For disconnected graphs the Wasserman-Faust generalization applies: only
// reachable nodes enter the distance sum and the score is scaled by
// (reachable-1)/(total-1). Unreachable and isolated nodes score 0.
// The result is sorted by score descending, ties in node insertion order.
func ClosenessCentrality(g *depgraph.Graph) ScoreDistribution {
	ids := g.NodeIDs()
	n := len(ids)
	d := make(ScoreDistribution, n)

	for i, id := range ids {
		dist := bfsDistances(id, g.Predecessors)
		var total int
		for _, dv := range dist {
			total += dv
		}
		reachable := len(dist) // includes the node itself at distance 0

		var c float64
		if total > 0 && n > 1 {
			c = float64(reachable-1) / float64(total)
			c *= float64(reachable-1) / float64(n-1)
		}
		d[i] = Score{Label: id, Value: c}
	}

	d.SortDesc()
	return d
}

// bfsDistances returns hop distances from start to every node reachable by
// repeatedly following next (an adjacency accessor). The start node is
// included at distance 0.
func bfsDistances(start string, next func(string) []string) map[string]int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range next(v) {
			if _, seen := dist[w]; !seen {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
		}
	}
	return dist
}

// BetweennessCentrality computes betweenness centrality for every node on
// the directed graph using Brandes' accumulation: the fraction of shortest
// paths between other node pairs that pass through the node.
//
// Scores are normalized by (n-1)(n-2) when n > 2 and left as raw pair
// dependencies otherwise. The result is sorted by score descending, ties
// in node insertion order.
func BetweennessCentrality(g *depgraph.Graph) ScoreDistribution {
	return brandes(g.NodeIDs(), g.Successors, false)
}

// BetweennessUndirected computes betweenness centrality on the undirected
// projection of the graph. Each unordered pair contributes once; scores are
// normalized by (n-1)(n-2)/2 when n > 2.
func BetweennessUndirected(g *depgraph.Graph) ScoreDistribution {
	adj := g.Undirected()
	return brandes(g.NodeIDs(), func(id string) []string { return adj[id] }, true)
}

// brandes runs the Brandes single-source accumulation from every node.
// For the undirected case every pair is discovered twice, so the raw
// accumulation is halved before normalization.
func brandes(ids []string, next func(string) []string, undirected bool) ScoreDistribution {
	n := len(ids)
	cb := make(map[string]float64, n)

	for _, s := range ids {
		stack, sigma, pred := brandesBFS(s, ids, next)

		// Dependency accumulation in reverse order of discovery.
		delta := make(map[string]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range pred[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}

	if undirected {
		for id := range cb {
			cb[id] /= 2
		}
	}
	if n > 2 {
		norm := float64((n - 1) * (n - 2))
		if undirected {
			norm /= 2
		}
		for id := range cb {
			cb[id] /= norm
		}
	}

	d := make(ScoreDistribution, n)
	for i, id := range ids {
		d[i] = Score{Label: id, Value: cb[id]}
	}
	d.SortDesc()
	return d
}

// brandesBFS performs the shortest-path counting phase of Brandes'
// algorithm from source s. It returns the visit stack (BFS discovery
// order), shortest-path counts sigma, and predecessor lists.
func brandesBFS(s string, ids []string, next func(string) []string) ([]string, map[string]float64, map[string][]string) {
	n := len(ids)
	stack := make([]string, 0, n)
	pred := make(map[string][]string, n)
	sigma := map[string]float64{s: 1}
	dist := map[string]int{s: 0}

	queue := []string{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		stack = append(stack, v)

		for _, w := range next(v) {
			dw, seen := dist[w]
			if !seen {
				dw = dist[v] + 1
				dist[w] = dw
				queue = append(queue, w)
			}
			if dw == dist[v]+1 {
				sigma[w] += sigma[v]
				pred[w] = append(pred[w], v)
			}
		}
	}

	return stack, sigma, pred
}
