package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockrank/pkg/depgraph"
)

// Metric names used as keys in [Result.Errors].
const (
	MetricDegree      = "degree"
	MetricCloseness   = "closeness"
	MetricBetweenness = "betweenness"
	MetricPageRank    = "pagerank"
	MetricStatistics  = "statistics"
	MetricGini        = "gini"
)

// Labels for the Gini summary rows, matching the measures the inequality
// analysis is applied to.
const (
	GiniClosenessOut = "Closeness (dependencies)"
	GiniOutDegree    = "Degree of connectivity (dependencies)"
	GiniPageRank     = "Prestige (PageRank)"
)

// Options configures a full analysis run.
type Options struct {
	// PageRank holds the prestige computation settings.
	PageRank PageRankOptions

	// Parallel computes the independent metric families in separate
	// goroutines. Purely an optimization: every metric reads the same
	// immutable graph and nothing is shared for writing.
	Parallel bool
}

// DefaultOptions returns the standard analysis settings.
func DefaultOptions() Options {
	return Options{
		PageRank: DefaultPageRankOptions(),
		Parallel: true,
	}
}

// Result bundles every metric computed by [Run]. Metrics fail
// independently: a failed metric leaves its field zero and records the
// cause in Errors under its metric name, while the others still complete.
type Result struct {
	Degree                []DegreeRow       `json:"degree" bson:"degree"`
	ClosenessIn           ScoreDistribution `json:"closeness_in" bson:"closeness_in"`
	ClosenessOut          ScoreDistribution `json:"closeness_out" bson:"closeness_out"`
	BetweennessDirected   ScoreDistribution `json:"betweenness_directed" bson:"betweenness_directed"`
	BetweennessUndirected ScoreDistribution `json:"betweenness_undirected" bson:"betweenness_undirected"`
	PageRank              ScoreDistribution `json:"pagerank" bson:"pagerank"`
	Gini                  ScoreDistribution `json:"gini" bson:"gini"`
	Stats                 *Statistics       `json:"stats,omitempty" bson:"stats,omitempty"`

	Errors map[string]error `json:"-" bson:"-"`
}

// Err returns the first recorded metric error in a fixed metric order,
// or nil if every metric completed.
func (r *Result) Err() error {
	for _, name := range []string{
		MetricDegree, MetricCloseness, MetricBetweenness,
		MetricPageRank, MetricStatistics, MetricGini,
	} {
		if err := r.Errors[name]; err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Run computes all centrality metrics, the statistics record, and the Gini
// summary for the graph. The graph is treated as an immutable snapshot;
// nothing in it is mutated or retained past the call.
//
// Metric families run in parallel goroutines when opts.Parallel is set.
// Failures are isolated per metric (see [Result.Errors]); Run itself only
// returns an error when the context is cancelled before work starts.
func Run(ctx context.Context, g *depgraph.Graph, opts Options, logger *log.Logger) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	result := &Result{Errors: make(map[string]error)}
	var mu sync.Mutex
	fail := func(metric string, err error) {
		mu.Lock()
		result.Errors[metric] = err
		mu.Unlock()
	}

	reversed := g.Reversed()
	tasks := []func(){
		func() {
			result.Degree = DegreeCentrality(g)
		},
		func() {
			result.ClosenessIn = ClosenessCentrality(g)
			result.ClosenessOut = ClosenessCentrality(reversed)
		},
		func() {
			result.BetweennessDirected = BetweennessCentrality(g)
			result.BetweennessUndirected = BetweennessUndirected(g)
		},
		func() {
			result.PageRank = PageRank(g, opts.PageRank)
		},
		func() {
			stats, err := Summarize(g, logger)
			if err != nil {
				fail(MetricStatistics, err)
				return
			}
			result.Stats = stats
		},
	}

	if opts.Parallel {
		var wg sync.WaitGroup
		for _, task := range tasks {
			wg.Add(1)
			go func(task func()) {
				defer wg.Done()
				task()
			}(task)
		}
		wg.Wait()
	} else {
		for _, task := range tasks {
			task()
		}
	}

	// Gini consumes the metric outputs, so it always runs last.
	if gini, err := giniSummary(result); err != nil {
		fail(MetricGini, err)
	} else {
		result.Gini = gini
	}

	return result, nil
}

// giniSummary computes the inequality coefficient of the three measures
// the original analysis tracks: closeness toward dependencies, out-degree,
// and PageRank prestige.
func giniSummary(r *Result) (ScoreDistribution, error) {
	var outDegrees []float64
	for _, row := range r.Degree {
		outDegrees = append(outDegrees, float64(row.Out))
	}

	measures := []struct {
		label  string
		values []float64
	}{
		{GiniClosenessOut, r.ClosenessOut.Values()},
		{GiniOutDegree, outDegrees},
		{GiniPageRank, r.PageRank.Values()},
	}

	var summary ScoreDistribution
	for _, m := range measures {
		coeff, err := Gini(m.values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.label, err)
		}
		summary = append(summary, Score{Label: m.label, Value: coeff})
	}
	return summary, nil
}
