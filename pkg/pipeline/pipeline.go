// Package pipeline provides the generate → render pipeline for floor plans.
//
// This package is the single entry point used by the CLI, the HTTP server and
// editing sessions. By centralizing this logic, every surface resolves the
// preset catalogue, caches results and fires observability hooks the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: resolve the catalogue snapshot and run the placement engine
//  2. Render: produce output artifacts (SVG, PDF, PNG, JSON, DOT, adjacency SVG)
//
// Each stage can be run independently or as part of [Runner.Execute].
// Generation is deterministic for a given request, catalogue version and
// engine version, which is what makes its result cacheable.
//
// # Usage
//
//	runner := pipeline.NewRunner(provider, cache, nil, logger)
//	result, err := runner.Execute(ctx, req, pipeline.Options{
//	    Formats:    []string{"svg", "png"},
//	    ShowLabels: true,
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Generate only
//	layout, err := runner.Generate(ctx, req, opts)
//
//	// Area check only
//	verdict := runner.Validate(ctx, req)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the default number of pixels per meter.
	DefaultScale = render.DefaultScale
)

// =============================================================================
// Output Formats
// =============================================================================

const (
	FormatSVG   = "svg"   // plan drawing
	FormatPDF   = "pdf"   // plan drawing, single page
	FormatPNG   = "png"   // plan drawing, rasterized
	FormatJSON  = "json"  // the layout result itself
	FormatDOT   = "dot"   // room adjacency graph, Graphviz source
	FormatGraph = "graph" // room adjacency graph, rendered SVG
)

// ValidFormats lists all supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPDF:   true,
	FormatPNG:   true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatGraph: true,
}

// FormatOrder is the canonical listing order for help text.
var FormatOrder = []string{FormatSVG, FormatPDF, FormatPNG, FormatJSON, FormatDOT, FormatGraph}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatGraph {
		return "graph.svg"
	}
	return format
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatGraph:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// =============================================================================
// Pipeline Types
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	ShowLabels bool     `json:"show_labels,omitempty"`
	ShowDoors  bool     `json:"show_doors,omitempty"`

	// Generate options
	NoTemplates bool `json:"no_templates,omitempty"`

	// Refresh bypasses cache reads. Fresh results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the generated plan.
	Layout *plan.Result

	// LayoutHash is the content hash of the layout JSON.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Requested    int
	Placed       int
	Dropped      int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, pdf, png, json, dot, graph)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks formats and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return fmt.Errorf("scale must be positive, got %g", o.Scale)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.validated = true
	return nil
}

// RenderOptions converts pipeline options into renderer options.
func (o Options) RenderOptions() render.Options {
	return render.Options{
		Scale:      o.Scale,
		ShowLabels: o.ShowLabels,
		ShowDoors:  o.ShowDoors,
	}
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
