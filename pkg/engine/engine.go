// Package engine turns a floor envelope and an unordered room list into
// non-overlapping room rectangles.
//
// # Overview
//
// Generation is a pure function of the request, the catalogue snapshot and
// the void ratio:
//
//  1. Exact-match fixed templates are tried first ([template.Match]).
//  2. Otherwise room sizes are scaled to the usable area ([ComputeSizes]),
//     the first living room is seeded against the main door, and the rest
//     are placed by priority with corner, wall and grid strategies.
//
// Rooms that cannot be placed are dropped with a warning; generation itself
// never fails.
package engine

import (
	"fmt"

	"github.com/matzehuels/floorplan/pkg/area"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/geometry"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/template"
)

// Version identifies the placement algorithm. It participates in result
// cache keys; bump it whenever placement output can change.
const Version = "1"

// Placement constants.
const (
	MinSide            = 1.0  // minimum room side, meters
	ShrinkFactor       = 0.95 // per-attempt shrink at a corner
	MaxShrinkAttempts  = 25   // attempts per corner
	GridStep           = 1.0  // grid scan step, meters
	ThickWallThreshold = 0.3  // exterior thickness that triggers a warning
	TightAreaRatio     = 0.7  // usable/target ratio below which we warn
)

// Engine generates layouts against one catalogue snapshot. The void ratio is
// carried explicitly so engines built from different catalogues never share
// state; use [New] to take it from the catalogue.
type Engine struct {
	Catalog   *catalog.Catalog
	VoidRatio float64

	// DisableTemplates forces the heuristic path.
	DisableTemplates bool
}

// New returns an engine bound to cat, taking the void ratio from it.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{Catalog: cat, VoidRatio: cat.VoidRatio()}
}

// Generate produces a layout for req.
func (e *Engine) Generate(req plan.Request) *plan.Result {
	thickness := req.Thickness()
	f := req.Floor
	d := f.MainDoor

	res := &plan.Result{
		Floor: plan.FloorEcho{
			Width:                 f.Width,
			Height:                f.Height,
			MainDoorEdge:          d.Edge,
			MainDoor:              geometry.MainDoorToLine(f.Width, f.Height, d.Edge, d.Offset, d.Width),
			WallThickness:         thickness,
			InteriorWallThickness: plan.InteriorWallThickness,
		},
		Rooms:    []plan.PlacedRoom{},
		Warnings: []string{},
	}

	if thickness > ThickWallThreshold {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Exterior walls are %.2f m thick (above %.2f m); usable area is reduced", thickness, ThickWallThreshold))
	}

	if !req.SkipValidation {
		v := area.Validate(f.Width, f.Height, req.Counts(), e.VoidRatio, thickness, e.Catalog)
		res.Validation = &v
		res.Warnings = append(res.Warnings, area.Advisories(v)...)
	}

	if !e.DisableTemplates {
		if tpl, ok := template.Match(req); ok {
			res.Template = tpl.Name
			res.Rooms = tpl.Apply(req, e.Catalog)
			return res
		}
	}

	p := e.place(req, thickness)
	res.Rooms = p.rooms
	res.Warnings = append(res.Warnings, p.warnings...)
	return res
}

// Validate returns only the area verdict for req.
func (e *Engine) Validate(req plan.Request) plan.Verdict {
	return area.Validate(req.Floor.Width, req.Floor.Height, req.Counts(), e.VoidRatio, req.Thickness(), e.Catalog)
}
