package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/lockrank/pkg/analysis"
	"github.com/matzehuels/lockrank/pkg/depgraph"
	"github.com/matzehuels/lockrank/pkg/errors"
	"github.com/matzehuels/lockrank/pkg/graphio"
	"github.com/matzehuels/lockrank/pkg/observability"
	"github.com/matzehuels/lockrank/pkg/report"
)

// jsonReport is the shape of the JSON output format: the serialized graph
// alongside the full analysis results.
type jsonReport struct {
	Graph    json.RawMessage  `json:"graph"`
	Analysis *analysis.Result `json:"analysis"`
}

// RenderFormats generates output artifacts in the requested formats.
func RenderFormats(ctx context.Context, g *depgraph.Graph, res *analysis.Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatMarkdown:
			data = []byte(report.Markdown(res))
		case FormatDOT:
			data = []byte(report.ToDOT(g))
		case FormatSVG:
			data, err = report.RenderSVG(ctx, report.ToDOT(g))
		case FormatJSON:
			data, err = renderJSON(g, res)
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderJSON marshals the graph and analysis into the JSON report format.
func renderJSON(g *depgraph.Graph, res *analysis.Result) ([]byte, error) {
	graphData, err := graphio.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(jsonReport{Graph: graphData, Analysis: res}, "", "  ")
}

// render runs the artifact generation stage with pipeline events.
func (r *Runner) render(ctx context.Context, g *depgraph.Graph, res *analysis.Result, opts Options) (map[string][]byte, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, err := RenderFormats(ctx, g, res, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}
