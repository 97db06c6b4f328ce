package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/conceptree/internal/server"
	"github.com/matzehuels/conceptree/pkg/config"
	"github.com/matzehuels/conceptree/pkg/metrics"
	"github.com/matzehuels/conceptree/pkg/pipeline"
	"github.com/matzehuels/conceptree/pkg/viewstate"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Layouts, drawings and saved views are kept in the configured cache (Redis
when cache.redis_addr is set, so several instances can share views).
With --config, the settings file is watched and reloaded on change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Settings.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	ch, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	keyer := c.newKeyer()
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.New(reg).Install()

	srv := server.New(server.Options{
		Runner:   runner,
		Views:    viewstate.NewStore(ch, keyer, c.Settings.Cache.TTL.Duration),
		Settings: c.Settings,
		Gatherer: reg,
		Logger:   c.Logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })

	if c.configPath != "" {
		loader, err := config.NewLoader(c.configPath, c.Logger)
		if err != nil {
			return err
		}
		addr := c.Settings.Server.Addr
		loader.OnChange(func(s *config.Settings) {
			// The listener stays on the address it was started with.
			s.Server.Addr = addr
			srv.SetSettings(s)
		})
		g.Go(func() error { return loader.Watch(gctx) })
	}

	return g.Wait()
}
