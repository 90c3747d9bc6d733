package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/geometry"
	"github.com/matzehuels/floorplan/pkg/plan"
)

func corridorRequest() plan.Request {
	return plan.Request{
		Floor: plan.Floor{Width: 20, Height: 5, MainDoor: plan.MainDoor{Edge: plan.EdgeW, Offset: 2, Width: 1}},
		Rooms: []plan.RoomRequest{
			{ID: "b1", Type: plan.KindBed, Doors: []plan.DoorSpec{{Side: plan.EdgeS, Width: 0.9, OffsetRatio: 0.5}}},
			{ID: "w1", Type: plan.KindWC},
			{ID: "k", Type: plan.KindKitchen},
			{ID: "b2", Type: plan.KindBed},
			{ID: "l", Type: plan.KindLiving},
			{ID: "w2", Type: plan.KindWC},
		},
	}
}

func TestMatchCorridor(t *testing.T) {
	req := corridorRequest()
	tpl, ok := Match(req)
	require.True(t, ok)
	assert.Equal(t, "corridor-2bed-20x5-W", tpl.Name)

	rooms := tpl.Apply(req, catalog.Fallback())
	require.Len(t, rooms, 6)

	byID := map[string]plan.PlacedRoom{}
	for _, r := range rooms {
		byID[r.ID] = r
	}
	assert.Equal(t, 2.6, byID["b1"].X, "first bed takes the first bed slot")
	assert.Equal(t, 7.4, byID["b2"].X)
	assert.Equal(t, 1.3, byID["w1"].Y)
	assert.Equal(t, -1.3, byID["w2"].Y)
	assert.Equal(t, -7.3, byID["l"].X)
	assert.Equal(t, "Bedroom", byID["b1"].Label)
	assert.Equal(t, "#B5C7F0", byID["b1"].Color)
	assert.Equal(t, req.Rooms[0].Doors, byID["b1"].Doors)
}

func TestMatchRejectsPartial(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*plan.Request)
	}{
		{"one bed fewer", func(r *plan.Request) { r.Rooms = r.Rooms[1:] }},
		{"extra room", func(r *plan.Request) { r.Rooms = append(r.Rooms, plan.RoomRequest{ID: "x", Type: plan.KindWC}) }},
		{"different door edge", func(r *plan.Request) { r.Floor.MainDoor.Edge = plan.EdgeE }},
		{"different width", func(r *plan.Request) { r.Floor.Width = 20.5 }},
		{"kind swapped", func(r *plan.Request) { r.Rooms[1].Type = plan.KindBed }},
		{"thicker walls", func(r *plan.Request) { v := 0.3; r.WallThickness = &v }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := corridorRequest()
			tt.mutate(&req)
			_, ok := Match(req)
			assert.False(t, ok)
		})
	}
}

func TestMatchWallThickness(t *testing.T) {
	for _, v := range []float64{0.1, plan.DefaultWallThickness} {
		req := corridorRequest()
		req.WallThickness = &v
		_, ok := Match(req)
		assert.True(t, ok, "thickness %g fits the slots", v)
	}

	// A slot authored against 0.2 m walls leaves the usable area once walls
	// thicken, so those requests must go to the heuristic engine.
	thick := 0.35
	for _, tpl := range Builtin {
		hw, hh := tpl.Width/2-thick, tpl.Height/2-thick
		escapes := false
		for _, s := range tpl.Slots {
			if !geometry.Contains(hw, hh, geometry.Rect{X: s.X, Y: s.Y, W: s.W, H: s.H}) {
				escapes = true
			}
		}
		assert.True(t, escapes, "%s: every slot still fits 0.35 m walls", tpl.Name)
	}
}

func TestCatalogStylingOverridesTemplate(t *testing.T) {
	cat := catalog.New(&catalog.Document{Rooms: []catalog.Entry{
		{Type: plan.KindBed, Label: "Sleeping", Color: "ff0000", Area: catalog.AreaRange{Min: 9, Max: 9}},
	}}, "t")
	req := corridorRequest()
	tpl, _ := Match(req)
	for _, r := range tpl.Apply(req, cat) {
		if r.Type == plan.KindBed {
			assert.Equal(t, "Sleeping", r.Label)
			assert.Equal(t, "#ff0000", r.Color)
		}
	}
}

func TestBuiltinTemplatesAreSound(t *testing.T) {
	for _, tpl := range Builtin {
		t.Run(tpl.Name, func(t *testing.T) {
			hw := tpl.Width/2 - plan.DefaultWallThickness
			hh := tpl.Height/2 - plan.DefaultWallThickness
			for i, a := range tpl.Slots {
				ra := geometry.Rect{X: a.X, Y: a.Y, W: a.W, H: a.H}
				assert.True(t, geometry.Contains(hw, hh, ra), "slot %d outside usable area", i)
				for j := i + 1; j < len(tpl.Slots); j++ {
					b := tpl.Slots[j]
					assert.False(t, geometry.RectsOverlap(ra, geometry.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}), "slots %d and %d overlap", i, j)
				}
			}
		})
	}
}

func TestCompactTemplate(t *testing.T) {
	req := plan.Request{
		Floor: plan.Floor{Width: 10, Height: 8, MainDoor: plan.MainDoor{Edge: plan.EdgeS, Offset: 3, Width: 1}},
		Rooms: []plan.RoomRequest{
			{ID: "1", Type: plan.KindWC}, {ID: "2", Type: plan.KindBed},
			{ID: "3", Type: plan.KindKitchen}, {ID: "4", Type: plan.KindLiving},
		},
	}
	tpl, ok := Match(req)
	require.True(t, ok)
	assert.Equal(t, "compact-1bed-10x8-S", tpl.Name)
	assert.Len(t, tpl.Apply(req, nil), 4)
}
