package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclograph/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes the generate, count, and render operations as a JSON API
under /api/v1, plus /healthz and Prometheus metrics under /metrics. It shares
the local result cache with the CLI commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			addr := listen
			if addr == "" {
				addr = cfg.Server.Listen
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			server.RegisterMetrics()
			srv := server.New(runner, c.Logger, addr, cfg.MaxNodes)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
