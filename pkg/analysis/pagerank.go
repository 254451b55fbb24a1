package analysis

import (
	"math"

	"github.com/matzehuels/lockrank/pkg/depgraph"
)

// PageRankOptions configures the power-iteration prestige computation.
type PageRankOptions struct {
	// Damping is the probability of following an edge rather than jumping
	// to a random node. Must be in (0, 1).
	Damping float64

	// Tolerance is the L1-norm change between iterations below which the
	// ranks are considered converged.
	Tolerance float64

	// MaxIterations caps the power iteration regardless of convergence.
	MaxIterations int
}

// DefaultPageRankOptions returns the standard settings: damping 0.85,
// tolerance 1e-6, at most 100 iterations.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Damping:       0.85,
		Tolerance:     1e-6,
		MaxIterations: 100,
	}
}

// PageRank computes the prestige of every node via power iteration.
// A package gains prestige when prestigious packages depend on it, so rank
// mass flows along edges from dependents to their dependencies.
//
// Dangling nodes (no outgoing edges) redistribute their mass uniformly
// across all nodes each iteration, so the scores always sum to 1 within
// floating-point tolerance, cycles and disconnected parts included.
// The result is sorted by score descending, ties in node insertion order.
func PageRank(g *depgraph.Graph, opts PageRankOptions) ScoreDistribution {
	ids := g.NodeIDs()
	n := len(ids)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	for _, id := range ids {
		rank[id] = 1 / float64(n)
	}

	var dangling []string
	for _, id := range ids {
		if g.OutDegree(id) == 0 {
			dangling = append(dangling, id)
		}
	}

	base := (1 - opts.Damping) / float64(n)
	for iter := 0; iter < opts.MaxIterations; iter++ {
		next := make(map[string]float64, n)

		var danglingMass float64
		for _, id := range dangling {
			danglingMass += rank[id]
		}
		spread := opts.Damping * danglingMass / float64(n)

		for _, id := range ids {
			next[id] = base + spread
		}
		for _, id := range ids {
			out := g.Successors(id)
			if len(out) == 0 {
				continue
			}
			share := opts.Damping * rank[id] / float64(len(out))
			for _, w := range out {
				next[w] += share
			}
		}

		var change float64
		for _, id := range ids {
			change += math.Abs(next[id] - rank[id])
		}
		rank = next
		if change < opts.Tolerance {
			break
		}
	}

	d := make(ScoreDistribution, n)
	for i, id := range ids {
		d[i] = Score{Label: id, Value: rank[id]}
	}
	d.SortDesc()
	return d
}
