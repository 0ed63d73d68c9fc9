package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgrid/internal/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/layout    pack items, return the layout and viewport state
  POST /v1/visible   return the viewport state only
  POST /v1/render    render artifacts

Request fields left out default to the config file. The server shuts down
gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx).WithPrefix("http")

			defaults, err := c.baseOptions()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sc := c.Config.Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			srv := server.New(runner, logger, server.Options{
				Defaults:       defaults,
				RequestTimeout: sc.RequestTimeout,
			})
			printInfo("Serving on %s", StyleHighlight.Render(sc.Addr))
			return srv.Run(ctx, server.RunOptions{
				Addr:            sc.Addr,
				ReadTimeout:     sc.ReadTimeout,
				WriteTimeout:    sc.WriteTimeout,
				ShutdownTimeout: sc.ShutdownTimeout,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
