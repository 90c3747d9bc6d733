package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/internal/server"
	"github.com/matzehuels/floorplan/pkg/session"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes generation, validation and editing sessions over HTTP.
Sessions are held in memory and expire after the configured TTL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
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

	srv := server.New(server.Options{
		Runner:     runner,
		Sessions:   session.NewMemoryStore(),
		SessionTTL: cfg.Server.SessionTTL,
		Defaults:   cfg.ApplyDefaults,
		Logger:     c.Logger,
	})

	printInfo("Listening on %s", StyleHighlight.Render(addr))
	printDetail("catalog: %s", cfg.Catalog.Source)
	printDetail("cache: %s", cfg.Cache.Backend)
	return srv.ListenAndServe(ctx, addr)
}
