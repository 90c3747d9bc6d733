package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/internal/config"
	"github.com/matzehuels/floorplan/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached layouts and renders",
		Long: `Clear empties the file cache, or drops expired rows from the SQLite cache.
Redis entries expire on their own and are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if cfg.Cache.Backend == config.BackendNone {
		printInfo("Caching is disabled")
		return nil
	}

	store, err := cfg.OpenCache(ctx)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	switch s := store.(type) {
	case *cache.FileCache:
		n, err := s.Clear()
		if err != nil {
			return err
		}
		printSuccess("Cleared %d cached entries", n)
		printDetail("Directory: %s", s.Dir())
	case *cache.SQLiteCache:
		n, err := s.Purge(ctx)
		if err != nil {
			return err
		}
		printSuccess("Purged %d expired entries", n)
	default:
		printInfo("The %s cache expires entries on its own; nothing to clear", cfg.Cache.Backend)
	}
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			loc, err := cacheLocation(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, loc)
			return nil
		},
	}
}

// cacheLocation describes the configured backend's location.
func cacheLocation(cfg config.Config) (string, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return "none", nil
	case config.BackendRedis:
		return "redis://" + cfg.Cache.Addr, nil
	}
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path, nil
	}
	dir, err := config.CacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	if cfg.Cache.Backend == config.BackendSQLite {
		return filepath.Join(dir, "cache.db"), nil
	}
	return dir, nil
}
