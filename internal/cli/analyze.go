package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockrank/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	dev        bool   // include devDependencies of the root project
	peer       bool   // include peerDependencies
	refresh    bool   // bypass the cache
	noCache    bool   // disable caching entirely
	sequential bool   // compute metrics sequentially
	formats    string // comma-separated output formats
	output     string // output file or directory (stdout if empty)
}

// analyzeCommand creates the analyze command, which runs the full
// load → analyze → render pipeline on a lockfile.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{}

	cmd := &cobra.Command{
		Use:   "analyze <lockfile-or-url>",
		Short: "Analyze a lockfile's dependency graph",
		Long: `Analyze the dependency graph of a lockfile.

The command parses the lockfile, computes centrality metrics (degree,
closeness, betweenness, PageRank), network statistics, and Gini inequality
coefficients, and renders the results in the requested formats.

Examples:
  lockrank analyze package-lock.json                        # Markdown report to stdout
  lockrank analyze package-lock.json -f markdown,dot -o out # Write out.md and out.dot
  lockrank analyze https://example.com/package-lock.json    # Remote lockfile
  lockrank analyze package-lock.json --dev                  # Include devDependencies`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, &opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.dev, "dev", false, "include devDependencies of the root project")
	cmd.Flags().BoolVar(&opts.peer, "peer", false, "include peerDependencies")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.sequential, "sequential", false, "compute metrics sequentially")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "comma-separated formats: markdown, dot, svg, json (default markdown)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (stdout if empty)")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, opts *analyzeOpts, input string) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions(input)
	popts.Dev = opts.dev
	popts.Peer = opts.peer
	popts.Refresh = opts.refresh
	popts.Formats = parseFormats(opts.formats)
	if opts.sequential {
		popts.Analysis.Parallel = false
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Analyzing dependency graph...")
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	prog.done(fmt.Sprintf("Analyzed %d packages with %d dependencies",
		result.Stats.NodeCount, result.Stats.EdgeCount))

	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.AnalyzeHit)
	c.printMetricWarnings(result)

	return writeArtifacts(result.Artifacts, popts.Formats, opts.output)
}

// printMetricWarnings surfaces degraded metrics without failing the run.
func (c *CLI) printMetricWarnings(result *pipeline.Result) {
	if result.Analysis == nil || len(result.Analysis.Errors) == 0 {
		return
	}
	metrics := make([]string, 0, len(result.Analysis.Errors))
	for metric := range result.Analysis.Errors {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)
	for _, metric := range metrics {
		printWarning("%s: %v", metric, result.Analysis.Errors[metric])
	}
}

// formatExtensions maps output formats to file extensions.
var formatExtensions = map[string]string{
	pipeline.FormatMarkdown: ".md",
	pipeline.FormatDOT:      ".dot",
	pipeline.FormatSVG:      ".svg",
	pipeline.FormatJSON:     ".json",
}

// writeArtifacts writes rendered outputs to files or stdout.
//
// With no output path, the first format goes to stdout. With a single
// format and an output path carrying an extension, the artifact is written
// there directly. Otherwise output is treated as a base path and each
// format gets its own extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) error {
	if output == "" {
		if len(formats) > 0 {
			if _, err := os.Stdout.Write(artifacts[formats[0]]); err != nil {
				return err
			}
		}
		return nil
	}

	if len(formats) == 1 && filepath.Ext(output) != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return err
		}
		printFile(output)
		return nil
	}

	base := strings.TrimSuffix(output, filepath.Ext(output))
	for _, format := range formats {
		path := base + formatExtensions[format]
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}
