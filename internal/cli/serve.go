package cli

import (
	"github.com/spf13/cobra"

	"github.com/usawrapco/wrapdoc/internal/server"
	"github.com/usawrapco/wrapdoc/pkg/observability"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve documents over HTTP",
		Long: `Start an HTTP server that renders posted job records.

  POST /v1/documents/{type}   render a job record (?format=json for the layout)
  POST /v1/financials         compute margins and commission (?revenue=sale-price)
  GET  /healthz               liveness
  GET  /metrics               Prometheus metrics`,
		Example: `  wrapdoc serve
  wrapdoc serve --addr 127.0.0.1:9000
  curl -X POST --data @job.json localhost:8080/v1/documents/invoice > INV.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := observability.NewMetrics()
			metrics.Install()
			defer observability.Reset()

			srv := server.New(runner, server.Options{
				Addr:        addr,
				MaxBodySize: cfg.Server.MaxBodySize,
				Metrics:     metrics,
				Reviews:     c.newReviews(runner),
				Logger:      c.Logger,
			})
			printInfo("Serving on %s", StyleHighlight.Render(addr))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}
