// Package report turns analysis results into human-readable output.
//
// Two renderers are provided, both pure transforms over the analytics
// output with no state of their own:
//
//   - Markdown: one table per metric, wrapped in BEGIN/END marker comments
//     and Pandoc-style captions so document tooling can splice the tables
//     into a larger report. Ranked tables show the top 20 entries (bottom
//     10 for the "lowest" variants) with scores at 4 decimal places.
//   - DOT: a Graphviz export of the graph itself, nodes colored by package
//     type and edges styled by relation type, with optional SVG rendering
//     through goccy/go-graphviz.
//
// The renderers never fail on degraded analysis results: sections for
// failed metrics are simply omitted, and a missing root becomes a warning
// row in the statistics table.
package report
