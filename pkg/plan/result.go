package plan

// =============================================================================
// Output
// =============================================================================

// PlacedRoom is a room rectangle in floor-centered coordinates.
// X and Y are the center; W and H the full extents.
type PlacedRoom struct {
	ID    string     `json:"id" bson:"id"`
	Type  Kind       `json:"type" bson:"type"`
	X     float64    `json:"x" bson:"x"`
	Y     float64    `json:"y" bson:"y"`
	W     float64    `json:"w" bson:"w"`
	H     float64    `json:"h" bson:"h"`
	Color string     `json:"color" bson:"color"`
	Label string     `json:"label" bson:"label"`
	Doors []DoorSpec `json:"doors,omitempty" bson:"doors,omitempty"`
}

// Bounds returns the room's min and max corners.
func (r PlacedRoom) Bounds() (minX, minY, maxX, maxY float64) {
	return r.X - r.W/2, r.Y - r.H/2, r.X + r.W/2, r.Y + r.H/2
}

// Area returns W*H.
func (r PlacedRoom) Area() float64 { return r.W * r.H }

// Point is a 2D coordinate in meters.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Segment is a straight line between two points.
type Segment struct {
	A Point `json:"a" bson:"a"`
	B Point `json:"b" bson:"b"`
}

// FloorEcho describes the floor as the renderer needs it: dimensions, the
// resolved main-door segment, and wall thicknesses for drawing walls.
type FloorEcho struct {
	Width                 float64 `json:"width" bson:"width"`
	Height                float64 `json:"height" bson:"height"`
	MainDoorEdge          Edge    `json:"main_door_edge" bson:"main_door_edge"`
	MainDoor              Segment `json:"main_door" bson:"main_door"`
	WallThickness         float64 `json:"wall_thickness" bson:"wall_thickness"`
	InteriorWallThickness float64 `json:"interior_wall_thickness" bson:"interior_wall_thickness"`
}

// Result is a generated layout.
type Result struct {
	Floor      FloorEcho    `json:"floor" bson:"floor"`
	Rooms      []PlacedRoom `json:"rooms" bson:"rooms"`
	Warnings   []string     `json:"warnings" bson:"warnings"`
	Validation *Verdict     `json:"validation,omitempty" bson:"validation,omitempty"`

	// Template names the fixed template used, empty for heuristic layouts.
	Template string `json:"template,omitempty" bson:"template,omitempty"`
}

// Room returns the placed room with the given id.
func (r *Result) Room(id string) (*PlacedRoom, bool) {
	for i := range r.Rooms {
		if r.Rooms[i].ID == id {
			return &r.Rooms[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.Rooms = make([]PlacedRoom, len(r.Rooms))
	for i, room := range r.Rooms {
		room.Doors = append([]DoorSpec(nil), room.Doors...)
		out.Rooms[i] = room
	}
	out.Warnings = append([]string(nil), r.Warnings...)
	if r.Validation != nil {
		v := *r.Validation
		v.Breakdown = append([]TypeBreakdown(nil), r.Validation.Breakdown...)
		out.Validation = &v
	}
	return &out
}

// =============================================================================
// Validation verdict
// =============================================================================

// TypeBreakdown is the per-kind contribution to the required area.
type TypeBreakdown struct {
	Type           Kind    `json:"type" bson:"type"`
	Label          string  `json:"label" bson:"label"`
	Count          int     `json:"count" bson:"count"`
	MinAreaPerRoom float64 `json:"min_area_per_room" bson:"min_area_per_room"`
	TotalMinArea   float64 `json:"total_min_area" bson:"total_min_area"`
}

// Verdict compares usable floor area against the summed room minima.
// It is advisory: generation proceeds regardless of IsValid.
type Verdict struct {
	UsableArea   float64         `json:"usable_area" bson:"usable_area"`
	RequiredArea float64         `json:"required_area" bson:"required_area"`
	Shortage     float64         `json:"shortage" bson:"shortage"`
	Efficiency   float64         `json:"efficiency" bson:"efficiency"`
	IsValid      bool            `json:"is_valid" bson:"is_valid"`
	Breakdown    []TypeBreakdown `json:"breakdown" bson:"breakdown"`
}
