// Package plan defines the data model shared by every stage of floor-plan
// generation: the request (floor envelope plus unordered room list), the
// placed rooms, the layout result handed to renderers, and the area verdict.
//
// Coordinates are in meters, centered on the floor, with y pointing up: the
// north wall sits at +Height/2 and the east wall at +Width/2.
//
// # Room kinds
//
// [Kind] is a closed set. Every concern that dispatches on kind (catalogue
// fallback, placement priority, fixed templates) switches over [Kinds], and
// unknown kinds get a defined fallback instead of failing.
package plan

import "math"

// =============================================================================
// Room kinds
// =============================================================================

// Kind identifies a room type.
type Kind string

// Room kinds understood by the engine.
const (
	KindLiving  Kind = "living"
	KindKitchen Kind = "kitchen"
	KindBed     Kind = "bed"
	KindWC      Kind = "wc"
)

// Kinds lists the built-in kinds in placement-priority order.
var Kinds = []Kind{KindBed, KindKitchen, KindWC, KindLiving}

// Known reports whether k is one of the built-in kinds.
func (k Kind) Known() bool {
	switch k {
	case KindLiving, KindKitchen, KindBed, KindWC:
		return true
	}
	return false
}

// Priority orders kinds for placement: bed < kitchen < wc < living.
// Unknown kinds are placed last.
func (k Kind) Priority() int {
	switch k {
	case KindBed:
		return 0
	case KindKitchen:
		return 1
	case KindWC:
		return 2
	case KindLiving:
		return 3
	}
	return 4
}

// =============================================================================
// Edges
// =============================================================================

// Edge names a side of the floor or of a room.
type Edge string

// Floor and room sides.
const (
	EdgeN Edge = "N"
	EdgeE Edge = "E"
	EdgeS Edge = "S"
	EdgeW Edge = "W"
)

// Edges lists all sides.
var Edges = []Edge{EdgeN, EdgeE, EdgeS, EdgeW}

// Valid reports whether e is one of N, E, S, W.
func (e Edge) Valid() bool {
	switch e {
	case EdgeN, EdgeE, EdgeS, EdgeW:
		return true
	}
	return false
}

// Horizontal reports whether the edge runs along the x axis (N or S).
func (e Edge) Horizontal() bool { return e == EdgeN || e == EdgeS }

// =============================================================================
// Request
// =============================================================================

// Wall thickness defaults, in meters.
const (
	DefaultWallThickness  = 0.2
	InteriorWallThickness = 0.1
)

// MainDoor is the single entry door on the floor perimeter.
// Offset runs left-to-right along N/S and bottom-to-top along E/W.
type MainDoor struct {
	Edge   Edge    `json:"edge" toml:"edge" yaml:"edge" bson:"edge"`
	Offset float64 `json:"offset" toml:"offset" yaml:"offset" bson:"offset"`
	Width  float64 `json:"width" toml:"width" yaml:"width" bson:"width"`
}

// Floor is the rectangular envelope for one generation run.
type Floor struct {
	Width    float64  `json:"width" toml:"width" yaml:"width" bson:"width"`
	Height   float64  `json:"height" toml:"height" yaml:"height" bson:"height"`
	MainDoor MainDoor `json:"main_door" toml:"main_door" yaml:"main_door" bson:"main_door"`
}

// DoorSpec is a door on one wall of a room. OffsetRatio in [0,1] positions
// the door within the wall's slack.
type DoorSpec struct {
	Side        Edge    `json:"side" toml:"side" yaml:"side" bson:"side"`
	Width       float64 `json:"width" toml:"width" yaml:"width" bson:"width"`
	OffsetRatio float64 `json:"offset_ratio" toml:"offset_ratio" yaml:"offset_ratio" bson:"offset_ratio"`
}

// RoomRequest is one requested room. IDs are caller-assigned and unique.
type RoomRequest struct {
	ID    string     `json:"id" toml:"id" yaml:"id" bson:"id"`
	Type  Kind       `json:"type" toml:"type" yaml:"type" bson:"type"`
	Doors []DoorSpec `json:"doors,omitempty" toml:"doors,omitempty" yaml:"doors,omitempty" bson:"doors,omitempty"`
}

// Request is the input to generation.
type Request struct {
	Floor          Floor         `json:"floor" toml:"floor" yaml:"floor" bson:"floor"`
	Rooms          []RoomRequest `json:"rooms" toml:"rooms" yaml:"rooms" bson:"rooms"`
	WallThickness  *float64      `json:"wall_thickness,omitempty" toml:"wall_thickness,omitempty" yaml:"wall_thickness,omitempty" bson:"wall_thickness,omitempty"`
	SkipValidation bool          `json:"skip_validation,omitempty" toml:"skip_validation,omitempty" yaml:"skip_validation,omitempty" bson:"skip_validation,omitempty"`
}

// Thickness returns the exterior wall thickness, applying the default when
// no override is set. Negative or non-finite overrides are treated as zero.
func (r Request) Thickness() float64 {
	if r.WallThickness == nil {
		return DefaultWallThickness
	}
	t := *r.WallThickness
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	return t
}

// Counts returns the number of requested rooms per kind.
func (r Request) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, room := range r.Rooms {
		counts[room.Type]++
	}
	return counts
}

// Usable returns the interior width and height after subtracting the
// exterior wall on both sides, floored at zero.
func (f Floor) Usable(thickness float64) (w, h float64) {
	return math.Max(0, f.Width-2*thickness), math.Max(0, f.Height-2*thickness)
}
