package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/engine"
	"github.com/matzehuels/floorplan/pkg/observability"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// Runner encapsulates pipeline execution with caching.
// CLI, HTTP server and editing sessions all use it so that caching and
// catalogue resolution behave the same everywhere.
//
// The Runner is stateless except for the catalogue provider, cache and
// logger - it doesn't store pipeline results. Multiple goroutines can safely
// use the same Runner with different options; concurrent first calls share
// one catalogue load.
type Runner struct {
	Catalog *catalog.Provider
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner with the given catalogue provider, cache and keyer.
// If provider is nil, the embedded catalogue is used.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(provider *catalog.Provider, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if provider == nil {
		provider = catalog.NewProvider(catalog.EmbeddedSource{}, logger)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{
		Catalog: provider,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, req plan.Request, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate
	genStart := time.Now()
	layout, layoutHit, err := r.GenerateWithCacheInfo(ctx, req, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Layout = layout
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Requested = len(req.Rooms)
	result.Stats.Placed = len(layout.Rooms)
	result.Stats.Dropped = len(req.Rooms) - len(layout.Rooms)
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := plan.MarshalResult(layout); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("generated layout",
		"rooms", len(layout.Rooms),
		"dropped", result.Stats.Dropped,
		"template", layout.Template,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo generates a layout with caching and returns cache hit info.
// Generation itself never fails; errors come only from a cancelled context.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, req plan.Request, opts Options) (*plan.Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	cat := r.Catalog.Get(ctx)

	// Compute cache key
	cacheKey, keyErr := r.layoutKey(req, cat, opts)

	// Try cache first (unless refresh requested)
	if keyErr == nil && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := plan.UnmarshalResult(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to regenerate
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	// Generate
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, len(req.Rooms))
	start := time.Now()

	eng := engine.New(cat)
	eng.DisableTemplates = opts.NoTemplates
	layout := eng.Generate(req)

	hooks.OnGenerateComplete(ctx, len(layout.Rooms), len(req.Rooms)-len(layout.Rooms), layout.Template, time.Since(start))
	r.Logger.Debug("placed rooms",
		"catalog", cat.Source(),
		"catalog_version", cat.Version(),
		"placed", len(layout.Rooms),
		"warnings", len(layout.Warnings))

	// Cache the result
	if keyErr == nil {
		if data, err := plan.MarshalResult(layout); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err == nil {
				observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
			}
		}
	}

	return layout, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, req plan.Request, opts Options) (*plan.Result, error) {
	layout, _, err := r.GenerateWithCacheInfo(ctx, req, opts)
	return layout, err
}

// Validate runs only the area check against the current catalogue.
func (r *Runner) Validate(ctx context.Context, req plan.Request) plan.Verdict {
	return engine.New(r.Catalog.Get(ctx)).Validate(req)
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout *plan.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if layout == nil {
		return nil, false, fmt.Errorf("no layout to render")
	}

	// Compute cache key from layout data
	layoutData, err := plan.MarshalResult(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	cacheKeyHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, artifactKeyOpts(format, opts))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cacheKey)
				break
			}
			observability.Cache().OnCacheHit(ctx, cacheKey)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(layout, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, artifactKeyOpts(format, opts))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout *plan.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) layoutKey(req plan.Request, cat *catalog.Catalog, opts Options) (string, error) {
	requestHash, err := cache.HashJSON(req)
	if err != nil {
		return "", err
	}
	version := engine.Version
	if opts.NoTemplates {
		version += "+heuristic"
	}
	return r.Keyer.LayoutKey(requestHash, cache.LayoutKeyOpts{
		CatalogVersion: cat.Version(),
		CatalogSource:  cat.Source(),
		CatalogDigest:  cat.Digest(),
		VoidRatio:      cat.VoidRatio(),
		EngineVersion:  version,
	}), nil
}

func artifactKeyOpts(format string, opts Options) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Scale:      opts.Scale,
		ShowLabels: opts.ShowLabels,
		ShowDoors:  opts.ShowDoors,
	}
}
