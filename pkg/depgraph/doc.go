// Package depgraph provides the directed dependency graph that every
// lockrank analysis consumes.
//
// # Overview
//
// Lockrank analyzes a package dependency tree as a directed graph: an edge
// from A to B means "A depends on B". This package provides the graph data
// structure with the typed nodes (root, dependency, unknown) and edges
// (installed, required, unknown) that loaders produce from lockfiles.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode], and edges with
// [Graph.AddEdge]. Nodes must have unique IDs, conventionally "name@version":
//
//	g := depgraph.New()
//	g.AddNode(depgraph.Node{ID: "app", Name: "app", Type: depgraph.NodeRoot})
//	g.AddNode(depgraph.Node{ID: "left-pad@1.3.0", Name: "left-pad", Version: "1.3.0", Type: depgraph.NodeDependency})
//	g.AddEdge(depgraph.Edge{From: "app", To: "left-pad@1.3.0", Type: depgraph.EdgeInstalled})
//
// Query structure with [Graph.Successors], [Graph.Predecessors], the degree
// accessors, and [Graph.Sources].
//
// # Projections
//
// Two read-only projections support the different analysis directions:
//
//   - [Graph.Reversed] flips every edge, turning "what do I depend on" into
//     "what depends on me". Nodes are shared, not copied.
//   - [Graph.Undirected] drops edge direction, which connectivity and
//     clustering measures require.
//
// # Immutability and Concurrency
//
// A graph is mutable only while a loader builds it. Every analysis treats it
// as an immutable snapshot: all query methods are read-only and side-effect
// free, so independent analyses may run concurrently over the same graph
// without synchronization. Graphs with zero edges and graphs with cycles are
// both valid inputs; no query method can loop forever on them.
package depgraph
