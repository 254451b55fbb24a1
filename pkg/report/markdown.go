package report

import (
	"fmt"
	"strings"

	"github.com/matzehuels/lockrank/pkg/analysis"
)

// Row-count limits for ranked tables.
const (
	// TopCount is how many leading entries a ranked table shows.
	TopCount = 20

	// BottomCount is how many trailing entries a "lowest" table shows.
	BottomCount = 10
)

// fullWidthSeparator pads the first header column so Pandoc/LaTeX renders
// the table at full page width.
var fullWidthSeparator = strings.Repeat("-", 80)

// marginMarker emits a LaTeX margin note on every 5th row so long tables
// stay countable in print output.
func marginMarker(row int) string {
	if row%5 != 0 {
		return ""
	}
	return fmt.Sprintf(`\marginnote{\scriptsize{  %d }}`, row)
}

// Table renders a Markdown table for a score distribution, wrapped in
// BEGIN/END marker comments so downstream document tooling can locate and
// replace it. Scores are formatted to 4 decimal places.
func Table(id string, data analysis.ScoreDistribution, caption string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n<!-- BEGIN %s -->\n", id)
	fmt.Fprintf(&b, "table: %s {#tbl:%s}\n\n", caption, id)
	b.WriteString("| Package | Score |\n")
	fmt.Fprintf(&b, "|%s|------:|\n", fullWidthSeparator)
	for i, s := range data {
		fmt.Fprintf(&b, "| %s`%s` | %.4f |\n", marginMarker(i+1), s.Label, s.Value)
	}
	fmt.Fprintf(&b, "\n<!-- END %s -->", id)

	return b.String()
}

// DegreeTable renders the three-column connectivity table, limited to the
// top [TopCount] packages by total degree.
func DegreeTable(rows []analysis.DegreeRow) string {
	const id = "degree_of_connectivity"

	var b strings.Builder
	fmt.Fprintf(&b, "\n<!-- BEGIN %s -->\n", id)
	fmt.Fprintf(&b, "table: Degree of connectivity per package {#tbl:%s}\n\n", id)
	b.WriteString("| Package | In | Out | Tot. |\n")
	fmt.Fprintf(&b, "|%s|-----:|-----:|-----:|\n", fullWidthSeparator)

	limit := TopCount
	if limit > len(rows) {
		limit = len(rows)
	}
	for i, row := range rows[:limit] {
		fmt.Fprintf(&b, "| %s`%s` | %d | %d | %d |\n",
			marginMarker(i+1), row.Label, row.In, row.Out, row.Total)
	}
	fmt.Fprintf(&b, "\n<!-- END %s -->", id)

	return b.String()
}

// ClosenessTables renders the four closeness tables: dependents' view
// highest and lowest, dependencies' view highest and lowest non-zero.
//
// The "lowest non-zero" filter on the dependencies' view is a report-layer
// decision: leaf packages with no dependencies all score exactly zero, and
// listing them adds nothing the degree table doesn't already show.
func ClosenessTables(in, out analysis.ScoreDistribution) string {
	sections := []string{
		Table("closeness_centrality_in", in.Top(TopCount),
			"Closeness centrality -- dependents, highest"),
		Table("closeness_centrality_in_lowest", in.Bottom(BottomCount),
			"Closeness centrality -- dependents, lowest"),
		Table("closeness_centrality_out", out.Top(TopCount),
			"Closeness centrality -- dependencies, highest"),
		Table("closeness_centrality_out_lowest", out.NonZero().Bottom(BottomCount),
			"Closeness centrality -- dependencies, lowest non-zero"),
	}
	return strings.Join(sections, "\n")
}

// BetweennessTables renders the directed and undirected betweenness tables.
func BetweennessTables(directed, undirected analysis.ScoreDistribution) string {
	sections := []string{
		Table("betweenness_centrality_directed", directed.Top(TopCount),
			"Betweenness centrality -- directed"),
		Table("betweenness_centrality_undirected", undirected.Top(TopCount),
			"Betweenness centrality -- undirected"),
	}
	return strings.Join(sections, "\n")
}

// PageRankTable renders the prestige table.
func PageRankTable(d analysis.ScoreDistribution) string {
	return Table("pagerank_centrality", d.Top(TopCount),
		"Prestige centrality (PageRank algorithm)")
}

// GiniTable renders the inequality summary: one Gini coefficient per
// measure, 4 decimal places.
func GiniTable(d analysis.ScoreDistribution) string {
	const id = "gini_coefficients"

	var b strings.Builder
	fmt.Fprintf(&b, "\n<!-- BEGIN %s -->\n", id)
	fmt.Fprintf(&b, "table: Gini coefficients {#tbl:%s}\n\n", id)
	b.WriteString("| Measure | Gini coefficient |\n")
	b.WriteString("|------|------:|\n")
	for _, s := range d {
		fmt.Fprintf(&b, "| %s | %.4f |\n", s.Label, s.Value)
	}
	fmt.Fprintf(&b, "\n<!-- END %s -->", id)

	return b.String()
}

// StatisticsTable renders the basic network statistics. When root
// identification failed the direct-dependency row degrades to a warning
// instead of dropping the whole table.
func StatisticsTable(stats *analysis.Statistics) string {
	const id = "basic_stats"

	var b strings.Builder
	fmt.Fprintf(&b, "\n<!-- BEGIN %s -->\n\n", id)
	fmt.Fprintf(&b, "table: Basic network statistics {#tbl:%s}\n\n", id)
	b.WriteString("| Basic statistics | Value |\n")
	b.WriteString("|-------|-------:|\n")
	fmt.Fprintf(&b, "| Number of packages (nodes) | %d |\n", stats.Nodes)
	fmt.Fprintf(&b, "| Number of dependencies (edges) | %d |\n", stats.Edges)
	if stats.DirectDependencies != nil {
		fmt.Fprintf(&b, "| Number of direct dependencies of `root` | %d |\n", *stats.DirectDependencies)
	} else {
		b.WriteString("| Number of direct dependencies of `root` | Warning: No `root` node found |\n")
	}
	fmt.Fprintf(&b, "| Maximum path length | %d |\n", stats.MaxPathLength)
	fmt.Fprintf(&b, "| Average path length | %.4f |\n", stats.AvgPathLength)
	fmt.Fprintf(&b, "| Clustering coefficient | %.4f |\n", stats.Clustering)
	fmt.Fprintf(&b, "| Density | %.4f |\n", stats.Density)
	fmt.Fprintf(&b, "| Packages with more than one version | %d |\n", stats.DuplicateVersions)
	fmt.Fprintf(&b, "\n<!-- END %s -->\n", id)

	return b.String()
}

// Markdown assembles the complete report document from an analysis result.
// Sections whose metric failed are skipped; the surviving sections still
// render, mirroring the per-metric isolation of the analysis itself.
func Markdown(result *analysis.Result) string {
	var sections []string

	if result.Stats != nil {
		sections = append(sections, StatisticsTable(result.Stats))
	}
	if result.Degree != nil {
		sections = append(sections, DegreeTable(result.Degree))
	}
	if result.ClosenessIn != nil || result.ClosenessOut != nil {
		sections = append(sections, ClosenessTables(result.ClosenessIn, result.ClosenessOut))
	}
	if result.BetweennessDirected != nil || result.BetweennessUndirected != nil {
		sections = append(sections, BetweennessTables(result.BetweennessDirected, result.BetweennessUndirected))
	}
	if result.PageRank != nil {
		sections = append(sections, PageRankTable(result.PageRank))
	}
	if result.Gini != nil {
		sections = append(sections, GiniTable(result.Gini))
	}

	return strings.Join(sections, "\n\n")
}
