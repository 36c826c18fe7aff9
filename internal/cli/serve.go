package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/multigraph/internal/server"
	"github.com/matzehuels/multigraph/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a graph over HTTP",
		Long: `Serve exposes one graph through a JSON API with checkpoint endpoints,
DOT output and snapshot storage. Prometheus metrics are served on
/metrics; history and store operations are also traced via OpenTelemetry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			metrics := observability.NewMetricsHooks(reg)
			tracing := observability.NewTracingHooks(nil)
			c.hooks = observability.Hooks{
				History: observability.Multi{History: []observability.HistoryHooks{metrics, tracing}},
				Store:   observability.Multi{Store: []observability.StoreHooks{metrics, tracing}},
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			g, err := c.loadGraph(path)
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(g, store,
				server.WithLogger(c.Logger),
				server.WithGatherer(reg),
				server.WithGraphOptions(c.graphOptions()...))
			printInfo(cmd.OutOrStdout(), "Serving %s on http://%s", displayName(path), addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func displayName(path string) string {
	if path == "" {
		return "an empty graph"
	}
	return path
}
