package engine_test

import (
	"fmt"

	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/engine"
	"github.com/matzehuels/floorplan/pkg/plan"
)

func ExampleEngine_Generate() {
	req := plan.Request{
		Floor: plan.Floor{
			Width:    10,
			Height:   8,
			MainDoor: plan.MainDoor{Edge: plan.EdgeS, Offset: 4, Width: 0.9},
		},
		Rooms: []plan.RoomRequest{
			{ID: "living", Type: plan.KindLiving},
			{ID: "kitchen", Type: plan.KindKitchen},
			{ID: "bed", Type: plan.KindBed},
			{ID: "wc", Type: plan.KindWC},
		},
	}

	res := engine.New(catalog.Fallback()).Generate(req)
	fmt.Println("template:", res.Template)
	for _, r := range res.Rooms {
		fmt.Printf("%s %.1f,%.1f %.1fx%.1f\n", r.ID, r.X, r.Y, r.W, r.H)
	}
	// Output:
	// template: compact-1bed-10x8-S
	// living -1.8,-1.9 6.0x3.8
	// kitchen 3.0,-1.9 3.6x3.8
	// bed -1.6,1.9 6.4x3.8
	// wc 3.2,1.9 3.2x3.8
}
