// Package template holds hand-authored layouts for common floors. A template
// applies only on an exact match of floor size, main-door edge and room-kind
// counts; anything else falls through to the heuristic engine.
package template

import (
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// Slot is one pre-placed room position.
type Slot struct {
	Kind       plan.Kind
	X, Y, W, H float64
}

// Template is an exact-match layout.
type Template struct {
	Name   string
	Width  float64
	Height float64
	Door   plan.Edge
	Slots  []Slot
}

// Builtin is the template catalogue, tried in order.
var Builtin = []Template{
	{
		Name:   "corridor-2bed-20x5-W",
		Width:  20,
		Height: 5,
		Door:   plan.EdgeW,
		Slots: []Slot{
			{plan.KindLiving, -7.3, 0, 5, 4.6},
			{plan.KindKitchen, -3.3, 0, 3, 4.6},
			{plan.KindWC, -0.8, 1.3, 2, 2},
			{plan.KindWC, -0.8, -1.3, 2, 2},
			{plan.KindBed, 2.6, 0, 4.8, 4.6},
			{plan.KindBed, 7.4, 0, 4.8, 4.6},
		},
	},
	{
		Name:   "compact-1bed-10x8-S",
		Width:  10,
		Height: 8,
		Door:   plan.EdgeS,
		Slots: []Slot{
			{plan.KindLiving, -1.8, -1.9, 6, 3.8},
			{plan.KindKitchen, 3.0, -1.9, 3.6, 3.8},
			{plan.KindBed, -1.6, 1.9, 6.4, 3.8},
			{plan.KindWC, 3.2, 1.9, 3.2, 3.8},
		},
	},
}

// Counts returns the number of slots per kind.
func (t Template) Counts() map[plan.Kind]int {
	counts := make(map[plan.Kind]int)
	for _, s := range t.Slots {
		counts[s.Kind]++
	}
	return counts
}

// Matches reports whether req has exactly this template's floor size, door
// edge and kind counts. Slots are authored for default walls and fill the
// interior to its edge, so thicker exterior walls never match.
func (t Template) Matches(req plan.Request) bool {
	if req.Floor.Width != t.Width || req.Floor.Height != t.Height || req.Floor.MainDoor.Edge != t.Door {
		return false
	}
	if req.Thickness() > plan.DefaultWallThickness {
		return false
	}
	want := t.Counts()
	got := req.Counts()
	if len(want) != len(got) {
		return false
	}
	for k, n := range want {
		if got[k] != n {
			return false
		}
	}
	return true
}

// Apply places req's rooms into the template slots. The nth room of a kind,
// in request order, takes the nth slot of that kind. Styling comes from cat
// and door specs are carried over. Apply assumes Matches(req).
func (t Template) Apply(req plan.Request, cat *catalog.Catalog) []plan.PlacedRoom {
	queues := make(map[plan.Kind][]plan.RoomRequest)
	for _, r := range req.Rooms {
		queues[r.Type] = append(queues[r.Type], r)
	}

	rooms := make([]plan.PlacedRoom, 0, len(t.Slots))
	for _, s := range t.Slots {
		q := queues[s.Kind]
		if len(q) == 0 {
			continue
		}
		r := q[0]
		queues[s.Kind] = q[1:]

		cfg := cat.Config(s.Kind)
		rooms = append(rooms, plan.PlacedRoom{
			ID:    r.ID,
			Type:  r.Type,
			X:     s.X,
			Y:     s.Y,
			W:     s.W,
			H:     s.H,
			Color: cfg.Color,
			Label: cfg.Label,
			Doors: append([]plan.DoorSpec(nil), r.Doors...),
		})
	}
	return rooms
}

// Match returns the first built-in template matching req.
func Match(req plan.Request) (Template, bool) {
	for _, t := range Builtin {
		if t.Matches(req) {
			return t, true
		}
	}
	return Template{}, false
}
