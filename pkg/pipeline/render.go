package pipeline

import (
	"fmt"

	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/render/adjacency"
	"github.com/matzehuels/floorplan/pkg/render/canvas"
	"github.com/matzehuels/floorplan/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
func Render(res *plan.Result, opts Options) (map[string][]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("no layout to render")
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(res, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact.
func RenderFormat(res *plan.Result, format string, opts Options) ([]byte, error) {
	ropts := opts.RenderOptions()
	switch format {
	case FormatSVG:
		return svg.RenderSVG(res, ropts), nil
	case FormatPDF:
		return canvas.RenderPDF(res, ropts)
	case FormatPNG:
		return canvas.RenderPNG(res, ropts)
	case FormatJSON:
		return plan.MarshalResult(res)
	case FormatDOT:
		return []byte(adjacencyDOT(res)), nil
	case FormatGraph:
		return adjacency.RenderSVG(adjacencyDOT(res))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func adjacencyDOT(res *plan.Result) string {
	return adjacency.ToDOT(adjacency.Build(res), adjacency.Options{
		Detailed: true,
		Pinned:   true,
		Colors:   adjacency.ColorsOf(res),
	})
}
