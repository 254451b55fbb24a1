package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockrank/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "lockrank",
		Short:        "Lockrank analyzes dependency graphs from lockfiles",
		Long:         `Lockrank is a CLI tool for analyzing the structure of dependency graphs extracted from package manager lockfiles: centrality metrics, network statistics, and inequality measures, rendered as Markdown reports or Graphviz visualizations.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
