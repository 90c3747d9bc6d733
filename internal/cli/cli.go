// Package cli implements the floorplan command-line interface.
//
// # Commands
//
//   - generate: place rooms for one or more request files and write outputs
//   - validate: run the area check only
//   - render: render an existing result file
//   - edit: adjust a generated layout interactively in the terminal
//   - presets: show or export the room preset catalogue
//   - serve: run the HTTP API
//   - cache: manage the result cache
//
// Request files may be JSON, TOML, YAML or .plan.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/internal/config"
	"github.com/matzehuels/floorplan/pkg/buildinfo"
	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/observability"
	"github.com/matzehuels/floorplan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	catalogSrc string

	cfgOnce sync.Once
	cfg     config.Config
	cfgErr  error

	providerOnce sync.Once
	provider     *catalog.Provider
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline and cache
// events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := &loggingHooks{logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		observability.SetSessionHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Floorplan generates single-floor residential layouts",
		Long:          `Floorplan places rooms inside a rectangular floor with a main door, checks that the requested rooms fit, and renders the result as SVG, PDF, PNG, JSON or an adjacency graph.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/floorplan/config.toml)")
	root.PersistentFlags().StringVar(&c.catalogSrc, "catalog", "", "preset catalogue: file, http(s) URL or mongodb URI (overrides config)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Runner Factory
// =============================================================================

// config loads the configuration once, applying --catalog on top.
func (c *CLI) config() (config.Config, error) {
	c.cfgOnce.Do(func() {
		c.cfg, c.cfgErr = config.Load(c.configPath)
		if c.cfgErr == nil && c.catalogSrc != "" {
			c.cfg.Catalog.Source = c.catalogSrc
		}
	})
	return c.cfg, c.cfgErr
}

// catalogProvider returns the provider shared by every runner of this
// process, so batch generation loads the catalogue once.
func (c *CLI) catalogProvider(cfg config.Config) *catalog.Provider {
	c.providerOnce.Do(func() {
		c.provider = catalog.NewProvider(cfg.CatalogSource(), c.Logger)
	})
	return c.provider
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		if store, err = cfg.OpenCache(ctx); err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}
	return pipeline.NewRunner(c.catalogProvider(cfg), store, cfg.Keyer(), c.Logger), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// renderFlags are the output flags shared by generate, render and edit.
type renderFlags struct {
	formats  string
	scale    float64
	noLabels bool
	noDoors  bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), pdf, png, json, dot, graph (comma-separated)")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "pixels per meter")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "omit room labels")
	cmd.Flags().BoolVar(&f.noDoors, "no-doors", false, "omit room door openings")
}

func (f *renderFlags) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats:    parseFormats(f.formats),
		Scale:      f.scale,
		ShowLabels: !f.noLabels,
		ShowDoors:  !f.noDoors,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}
