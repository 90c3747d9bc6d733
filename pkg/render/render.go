// Package render draws generated floor plans.
//
// # Overview
//
// Renderers consume only what a [plan.Result] carries: the floor echo
// (dimensions, main-door segment, wall thicknesses) and the placed rooms with
// their raw door specs. Nothing here feeds back into placement.
//
// This package holds the pieces shared by every output format:
//
//   - [Options]: scale, padding and which overlays to draw
//   - [Frame]: maps floor coordinates (meters, y-up, floor-centered) onto a
//     drawing surface (y-down, origin top-left)
//   - [Walls], [DoorGap], [RoomDoors]: the wall geometry derived from the result
//
// Format-specific renderers live in subpackages:
//
//   - [svg]: SVG via ajstarks/svgo
//   - [canvas]: PDF and PNG via tdewolff/canvas
//   - [adjacency]: room adjacency graph as DOT or Graphviz SVG
//
// [svg]: github.com/matzehuels/floorplan/pkg/render/svg
// [canvas]: github.com/matzehuels/floorplan/pkg/render/canvas
// [adjacency]: github.com/matzehuels/floorplan/pkg/render/adjacency
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/floorplan/pkg/geometry"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// =============================================================================
// Options
// =============================================================================

// Default rendering values.
const (
	DefaultScale   = 40.0 // pixels per meter
	DefaultPadding = 0.5  // meters around the floor
	MaxScale       = 400.0

	// NeutralFill is used for rooms without a usable color.
	NeutralFill = "#DDDDDD"
)

// Options configures rendering.
type Options struct {
	// Scale is the number of output pixels per meter.
	Scale float64

	// Padding is the margin around the floor in meters.
	Padding float64

	// ShowLabels draws room labels and areas.
	ShowLabels bool

	// ShowDoors cuts room door openings into interior walls.
	ShowDoors bool
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if !(o.Scale > 0) {
		o.Scale = DefaultScale
	}
	if o.Scale > MaxScale {
		o.Scale = MaxScale
	}
	if !(o.Padding > 0) {
		o.Padding = DefaultPadding
	}
	return o
}

// =============================================================================
// Frame
// =============================================================================

// Frame maps floor coordinates onto a drawing surface.
type Frame struct {
	Scale   float64
	Padding float64
	FloorW  float64
	FloorH  float64
}

// NewFrame builds a frame for the result's floor.
func NewFrame(f plan.FloorEcho, opts Options) Frame {
	opts = opts.WithDefaults()
	return Frame{
		Scale:   opts.Scale,
		Padding: opts.Padding,
		FloorW:  math.Max(f.Width, 0),
		FloorH:  math.Max(f.Height, 0),
	}
}

// Width is the surface width in output units.
func (f Frame) Width() float64 { return (f.FloorW + 2*f.Padding) * f.Scale }

// Height is the surface height in output units.
func (f Frame) Height() float64 { return (f.FloorH + 2*f.Padding) * f.Scale }

// Point maps a floor point to surface coordinates.
func (f Frame) Point(p plan.Point) (x, y float64) {
	x = (p.X + f.FloorW/2 + f.Padding) * f.Scale
	y = (f.FloorH/2 - p.Y + f.Padding) * f.Scale
	return x, y
}

// Rect maps a floor rectangle to its surface top-left corner and size.
func (f Frame) Rect(r geometry.Rect) (x, y, w, h float64) {
	x, y = f.Point(plan.Point{X: r.MinX(), Y: r.MaxY()})
	return x, y, r.W * f.Scale, r.H * f.Scale
}

// Length scales a floor length.
func (f Frame) Length(v float64) float64 { return v * f.Scale }

// =============================================================================
// Wall geometry
// =============================================================================

// Walls returns the four exterior wall bands, drawn inward from the floor
// outline. The N and S bands span the full width; E and W fill between them.
func Walls(f plan.FloorEcho) []geometry.Rect {
	t := f.WallThickness
	if t <= 0 {
		return nil
	}
	w, h := f.Width, f.Height
	side := math.Max(h-2*t, 0)
	return []geometry.Rect{
		{X: 0, Y: h/2 - t/2, W: w, H: t},  // N
		{X: 0, Y: -h/2 + t/2, W: w, H: t}, // S
		{X: w/2 - t/2, Y: 0, W: t, H: side},
		{X: -w/2 + t/2, Y: 0, W: t, H: side},
	}
}

// DoorGap returns the opening cut into the exterior wall by the main door.
// It spans the door segment and extends inward by the wall thickness.
func DoorGap(f plan.FloorEcho) (geometry.Rect, bool) {
	seg := f.MainDoor
	length := geometry.Length(seg)
	if length <= 0 {
		return geometry.Rect{}, false
	}
	t := math.Max(f.WallThickness, 0)
	mid := geometry.Midpoint(seg)
	switch f.MainDoorEdge {
	case plan.EdgeN:
		return geometry.Rect{X: mid.X, Y: mid.Y - t/2, W: length, H: t}, true
	case plan.EdgeE:
		return geometry.Rect{X: mid.X - t/2, Y: mid.Y, W: t, H: length}, true
	case plan.EdgeW:
		return geometry.Rect{X: mid.X + t/2, Y: mid.Y, W: t, H: length}, true
	default:
		return geometry.Rect{X: mid.X, Y: mid.Y + t/2, W: length, H: t}, true
	}
}

// RoomDoors projects a room's door specs onto its walls in floor coordinates.
func RoomDoors(room plan.PlacedRoom) []geometry.DoorLine {
	if len(room.Doors) == 0 {
		return nil
	}
	out := make([]geometry.DoorLine, 0, len(room.Doors))
	for _, spec := range room.Doors {
		d := geometry.RoomDoor(room.W/2, room.H/2, spec)
		if d.Length <= 0 {
			continue
		}
		d.Segment = geometry.Translate(d.Segment, room.X, room.Y)
		d.Mid = plan.Point{X: d.Mid.X + room.X, Y: d.Mid.Y + room.Y}
		out = append(out, d)
	}
	return out
}

// =============================================================================
// Styling
// =============================================================================

// Fill returns the room's fill color as "#RRGGBB".
func Fill(room plan.PlacedRoom) string {
	c := strings.TrimSpace(room.Color)
	if c == "" {
		return NeutralFill
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	return c
}

// Label returns the text drawn inside a room.
func Label(room plan.PlacedRoom) string {
	if room.Label != "" {
		return room.Label
	}
	if room.ID != "" {
		return room.ID
	}
	return string(room.Type)
}

// AreaLabel formats a room's area.
func AreaLabel(room plan.PlacedRoom) string {
	return fmt.Sprintf("%.1f m²", room.Area())
}
