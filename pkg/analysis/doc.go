// Package analysis computes structural metrics over a dependency graph.
//
// # Overview
//
// Given an immutable [depgraph.Graph], this package produces the numbers a
// dependency report is built from:
//
//   - Degree centrality: in-, out-, and total-degree per package
//   - Closeness centrality: dependents' view and dependencies' view
//   - Betweenness centrality (Brandes): directed and undirected
//   - Prestige: PageRank-style power iteration
//   - Network statistics: counts, root, cycles, components, diameter,
//     average path length, clustering, density, duplicate versions
//   - Gini coefficients measuring inequality across score distributions
//
// Every metric returns a [ScoreDistribution] sorted by score descending
// with ties broken by node insertion order, or the [Statistics] record.
// All graph algorithms are self-contained: breadth-first shortest paths,
// Brandes' accumulation, power iteration, and DFS components need no
// external graph library.
//
// # Running Everything
//
// [Run] computes all metrics with per-metric failure isolation: a graph
// that breaks one metric (say, an ambiguous root) still yields the others.
//
//	result, err := analysis.Run(ctx, g, analysis.DefaultOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	for metric, merr := range result.Errors {
//	    logger.Warn("metric failed", "metric", metric, "err", merr)
//	}
//
// Individual metrics are exported for callers that need just one.
//
// # Degraded Inputs
//
// Disconnected graphs are first-class: closeness uses the reachable-share
// scaling, betweenness and PageRank tolerate unreachable parts, and the
// diameter and average path length are computed only over the largest
// connected component. A single-node graph yields zero scores for the
// path-based metrics; only a zero-node graph is rejected ([ErrEmptyGraph]).
// Cycles are reported on the statistics record, never treated as failures.
package analysis
