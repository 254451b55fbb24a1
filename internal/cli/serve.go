package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockrank/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis server",
		Long: `Run an HTTP server exposing lockfile analysis over a JSON API.

Endpoints:
  GET  /healthz          liveness check
  GET  /version          build information
  POST /api/v1/analyze   analyze a lockfile (raw body or JSON request)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			backend := c.Config.Cache.Backend
			if noCache {
				backend = CacheBackendNone
			}
			printKeyValue("Address", addr)
			printKeyValue("Cache", backend)

			srv := server.New(runner, c.Logger)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Server.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
