// Package geometry provides the axis-aligned primitives used by placement
// and rendering: centered rectangles, the strict overlap test, and the
// projection of door specs onto floor and room walls.
package geometry

import (
	"math"

	"github.com/matzehuels/floorplan/pkg/plan"
)

// Door sizing constants, in meters.
const (
	MinDoorWidth   = 0.6
	DoorWallMargin = 0.05
)

// Epsilon absorbs floating-point noise when comparing shared edges.
const Epsilon = 1e-9

// Rect is an axis-aligned rectangle given by its center and full extents.
type Rect struct {
	X, Y, W, H float64
}

// RectOf returns the rectangle occupied by a placed room.
func RectOf(r plan.PlacedRoom) Rect {
	return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X - r.W/2 }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W/2 }

// MinY returns the bottom edge.
func (r Rect) MinY() float64 { return r.Y - r.H/2 }

// MaxY returns the top edge.
func (r Rect) MaxY() float64 { return r.Y + r.H/2 }

// RectsOverlap reports whether a and b share interior area. Rectangles that
// only touch along an edge or at a corner do not overlap.
func RectsOverlap(a, b Rect) bool {
	return !(a.MaxX() <= b.MinX()+Epsilon ||
		a.MinX() >= b.MaxX()-Epsilon ||
		a.MaxY() <= b.MinY()+Epsilon ||
		a.MinY() >= b.MaxY()-Epsilon)
}

// Contains reports whether r lies inside the origin-centered box with the
// given half extents.
func Contains(halfW, halfH float64, r Rect) bool {
	return r.MinX() >= -halfW-Epsilon && r.MaxX() <= halfW+Epsilon &&
		r.MinY() >= -halfH-Epsilon && r.MaxY() <= halfH+Epsilon
}

// Clamp limits v to [lo, hi]. When lo > hi, hi wins.
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// finite replaces NaN and infinities with def.
func finite(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// =============================================================================
// Main door
// =============================================================================

// MainDoorToLine resolves the entry door to a segment on the floor boundary.
//
// Width is clamped to [MinDoorWidth, edge length], or the whole edge when it
// is shorter than MinDoorWidth. Offset is clamped to [0, edge length - width]
// and measured left-to-right on N/S and bottom-to-top on E/W. An unknown edge
// is treated as S.
func MainDoorToLine(floorW, floorH float64, edge plan.Edge, offset, width float64) plan.Segment {
	hw, hh := floorW/2, floorH/2
	edgeLen := floorW
	if edge == plan.EdgeE || edge == plan.EdgeW {
		edgeLen = floorH
	}

	w := finite(width, MinDoorWidth)
	if w < MinDoorWidth {
		w = MinDoorWidth
	}
	if w > edgeLen {
		w = edgeLen
	}
	off := Clamp(finite(offset, 0), 0, edgeLen-w)

	switch edge {
	case plan.EdgeN:
		return plan.Segment{A: plan.Point{X: -hw + off, Y: hh}, B: plan.Point{X: -hw + off + w, Y: hh}}
	case plan.EdgeE:
		return plan.Segment{A: plan.Point{X: hw, Y: -hh + off}, B: plan.Point{X: hw, Y: -hh + off + w}}
	case plan.EdgeW:
		return plan.Segment{A: plan.Point{X: -hw, Y: -hh + off}, B: plan.Point{X: -hw, Y: -hh + off + w}}
	default:
		return plan.Segment{A: plan.Point{X: -hw + off, Y: -hh}, B: plan.Point{X: -hw + off + w, Y: -hh}}
	}
}

// Midpoint returns the center of s.
func Midpoint(s plan.Segment) plan.Point {
	return plan.Point{X: (s.A.X + s.B.X) / 2, Y: (s.A.Y + s.B.Y) / 2}
}

// Length returns the length of s.
func Length(s plan.Segment) float64 {
	return math.Hypot(s.B.X-s.A.X, s.B.Y-s.A.Y)
}

// =============================================================================
// Room doors
// =============================================================================

// DoorLine is a room door projected onto the room's wall, in coordinates
// relative to the room center.
type DoorLine struct {
	Segment plan.Segment
	Mid     plan.Point
	Angle   float64 // 0 along N/S walls, pi/2 along E/W walls
	Length  float64
}

// RoomDoor projects a door spec onto a room with the given half extents.
//
// Width is clamped to [MinDoorWidth, wall length - DoorWallMargin], the upper
// bound winning on short walls. The offset ratio is clamped to [0,1] and
// scaled by the wall's remaining slack. This is a rendering projection only.
func RoomDoor(halfW, halfH float64, spec plan.DoorSpec) DoorLine {
	horizontal := spec.Side != plan.EdgeE && spec.Side != plan.EdgeW
	wallLen := 2 * halfW
	if !horizontal {
		wallLen = 2 * halfH
	}

	w := math.Max(finite(spec.Width, MinDoorWidth), MinDoorWidth)
	w = math.Max(0, math.Min(w, wallLen-DoorWallMargin))
	off := Clamp(finite(spec.OffsetRatio, 0), 0, 1) * math.Max(0, wallLen-w)

	var seg plan.Segment
	switch spec.Side {
	case plan.EdgeN:
		seg = plan.Segment{A: plan.Point{X: -halfW + off, Y: halfH}, B: plan.Point{X: -halfW + off + w, Y: halfH}}
	case plan.EdgeE:
		seg = plan.Segment{A: plan.Point{X: halfW, Y: -halfH + off}, B: plan.Point{X: halfW, Y: -halfH + off + w}}
	case plan.EdgeW:
		seg = plan.Segment{A: plan.Point{X: -halfW, Y: -halfH + off}, B: plan.Point{X: -halfW, Y: -halfH + off + w}}
	default:
		seg = plan.Segment{A: plan.Point{X: -halfW + off, Y: -halfH}, B: plan.Point{X: -halfW + off + w, Y: -halfH}}
	}

	angle := 0.0
	if !horizontal {
		angle = math.Pi / 2
	}
	return DoorLine{Segment: seg, Mid: Midpoint(seg), Angle: angle, Length: w}
}

// Translate shifts a segment by (dx, dy).
func Translate(s plan.Segment, dx, dy float64) plan.Segment {
	return plan.Segment{
		A: plan.Point{X: s.A.X + dx, Y: s.A.Y + dy},
		B: plan.Point{X: s.B.X + dx, Y: s.B.Y + dy},
	}
}
