// Package pkg provides the core libraries for lockrank dependency-graph analysis.
//
// # Overview
//
// lockrank turns a package manager lockfile into a typed dependency graph and
// computes structural metrics over it: centrality, network statistics, and
// inequality. The pkg directory is organized into four main areas:
//
//  1. [depgraph], [analysis] - Domain logic (graph model, metrics)
//  2. [cache], [httputil], [errors], [observability] - Infrastructure
//  3. [source/npm], [graphio], [report] - Input parsing and output rendering
//  4. [pipeline] - Orchestration (load → analyze → render)
//
// # Architecture
//
// The typical data flow through lockrank:
//
//	package-lock.json (file, URL, or raw bytes)
//	         ↓
//	    [source/npm] package (parse into the typed graph)
//	         ↓
//	    [analysis] package (centrality, statistics, Gini)
//	         ↓
//	    [report] package (Markdown tables, DOT, SVG)
//
// # Quick Start
//
// Parse a lockfile and analyze its dependency graph:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/lockrank/pkg/analysis"
//	    "github.com/matzehuels/lockrank/pkg/report"
//	    "github.com/matzehuels/lockrank/pkg/source/npm"
//	)
//
//	// 1. Load the graph
//	data, _ := os.ReadFile("package-lock.json")
//	g, _ := npm.Load(data, npm.Options{})
//
//	// 2. Compute metrics
//	res, _ := analysis.Run(context.Background(), g, analysis.DefaultOptions(), nil)
//
//	// 3. Render a Markdown report
//	md := report.Markdown(res)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [depgraph] - Immutable directed graph with typed nodes (root, dependency,
// unknown) and edges (installed, required). Provides a reversed view and an
// undirected projection for the metrics that need them.
//
// [analysis] - Centrality metrics (degree, closeness, betweenness, PageRank),
// network statistics (roots, cycles, components, clustering, density), Gini
// inequality, and ranked score selection. All algorithms are self-contained.
//
// ## Infrastructure
//
// [cache] - Cache interface with file, null, Redis, and MongoDB backends,
// content-hash keys, and retry-with-backoff helpers.
//
// [httputil] - Retrying HTTP client used to fetch remote lockfiles.
//
// [errors] - Coded errors for the CLI and API surface, with input validation
// helpers.
//
// [observability] - Hook interfaces for pipeline, cache, and HTTP events with
// no-op defaults.
//
// ## Input and Output
//
// [source/npm] - npm package-lock.json parser (lockfile v2/v3).
//
// [graphio] - JSON serialization of graphs for caching and the HTTP API.
//
// [report] - Markdown report renderer, Graphviz DOT exporter, and SVG
// rendering of the DOT output.
//
// ## Orchestration
//
// [pipeline] - Runner chaining load, analyze, and render with per-stage
// caching and cache-hit reporting.
package pkg
