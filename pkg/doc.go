// Package pkg provides the core libraries for floorplan, a generator of
// single-floor residential layouts.
//
// # Overview
//
// Given a rectangular floor envelope, a main door on its perimeter and an
// unordered list of rooms, floorplan places axis-aligned room rectangles so
// that they stay inside the usable interior, never overlap and sit near the
// catalogue's target sizes. The pkg directory is organized into four areas:
//
//  1. Domain - [plan], [geometry], [area], [template], [engine]
//  2. Configuration - [catalog] (per-kind room presets and the void ratio)
//  3. Output - [render] and its svg, canvas and adjacency subpackages
//  4. Orchestration - [pipeline], [cache], [session], [dsl]
//
// # Architecture
//
// The typical data flow:
//
//	Request (.json / .toml / .yaml / .plan)
//	         ↓
//	    [plan] validators (reject malformed input)
//	         ↓
//	    [area] check against the [catalog] snapshot
//	         ↓
//	    [template] match, else [engine] heuristic placement
//	         ↓
//	    [render] SVG/PDF/PNG/JSON/DOT output
//
// Generation is pure: the same request and catalogue always produce the same
// result, which is what lets [pipeline.Runner] cache results by request hash.
//
// # Quick Start
//
//	req, _ := dsl.ParseString("", "floor 10 x 8\nentry S offset 4 width 0.9\nroom living\nroom bed")
//	if err := req.Validate(); err != nil {
//	    return err
//	}
//	res := engine.New(catalog.Fallback()).Generate(req)
//	svg := svg.RenderSVG(res, render.Options{ShowLabels: true})
//
// With caching and a remote catalogue:
//
//	provider := catalog.NewProvider(catalog.NewSource(catalog.Options{Location: url}), logger)
//	runner := pipeline.NewRunner(provider, cache.NewNullCache(), nil, logger)
//	out, err := runner.Execute(ctx, req, pipeline.Options{Formats: []string{"svg", "png"}})
//
// [plan]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/plan
// [geometry]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/geometry
// [area]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/area
// [template]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/template
// [engine]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/engine
// [catalog]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/catalog
// [render]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/session
// [dsl]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/dsl
package pkg
