package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/lockrank/pkg/analysis"
	"github.com/matzehuels/lockrank/pkg/depgraph"
	"github.com/matzehuels/lockrank/pkg/observability"
)

// analyze runs the metric computation stage with pipeline events.
func (r *Runner) analyze(ctx context.Context, g *depgraph.Graph, opts Options) (*analysis.Result, error) {
	start := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, g.NodeCount())

	result, err := analysis.Run(ctx, g, opts.Analysis, opts.Logger)
	observability.Pipeline().OnAnalyzeComplete(ctx, g.NodeCount(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for metric, merr := range result.Errors {
		r.Logger.Warn("metric failed", "metric", metric, "err", merr)
	}
	return result, nil
}
