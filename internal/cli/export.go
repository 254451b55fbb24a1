package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockrank/pkg/graphio"
	"github.com/matzehuels/lockrank/pkg/pipeline"
	"github.com/matzehuels/lockrank/pkg/report"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	format  string
	output  string
	dev     bool
	peer    bool
	noCache bool
}

// exportCommand creates the export command, which converts a lockfile's
// dependency graph into a single output format without running the
// analysis stage.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: pipeline.FormatDOT}

	cmd := &cobra.Command{
		Use:   "export <lockfile-or-url>",
		Short: "Export a lockfile's dependency graph",
		Long: `Export the dependency graph of a lockfile as DOT, SVG, or JSON.

Examples:
  lockrank export package-lock.json                  # DOT to stdout
  lockrank export package-lock.json -f svg -o g.svg  # Graphviz-rendered SVG
  lockrank export package-lock.json -f json          # Serialized graph`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "include devDependencies of the root project")
	cmd.Flags().BoolVar(&opts.peer, "peer", false, "include peerDependencies")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, opts *exportOpts, input string) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions(input)
	popts.Dev = opts.dev
	popts.Peer = opts.peer

	g, err := runner.Load(ctx, popts)
	if err != nil {
		return err
	}

	var data []byte
	switch opts.format {
	case pipeline.FormatDOT:
		data = []byte(report.ToDOT(g))
	case pipeline.FormatSVG:
		data, err = report.RenderSVG(ctx, report.ToDOT(g))
		if err != nil {
			return err
		}
	case pipeline.FormatJSON:
		data, err = graphio.MarshalGraph(g)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format: %q (must be dot, svg, or json)", opts.format)
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printFile(opts.output)
	if opts.format == pipeline.FormatDOT {
		printNextStep("Render", "lockrank export "+input+" -f svg")
	}
	return nil
}
