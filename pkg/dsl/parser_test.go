package dsl

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/plan"
)

const corridorPlan = `
# two-bedroom corridor
floor 20 x 5
entry W offset 1.5 width 0.9
wall 0.2

room living id r1
room bed id r2 door N 0.9 at 0.25
room bed id r3 door s 0.8
room WC   // unnamed
`

func TestParse(t *testing.T) {
	req, err := ParseString("corridor.plan", corridorPlan)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if req.Floor.Width != 20 || req.Floor.Height != 5 {
		t.Errorf("floor = %gx%g, want 20x5", req.Floor.Width, req.Floor.Height)
	}
	want := plan.MainDoor{Edge: plan.EdgeW, Offset: 1.5, Width: 0.9}
	if req.Floor.MainDoor != want {
		t.Errorf("main door = %+v, want %+v", req.Floor.MainDoor, want)
	}
	if req.WallThickness == nil || *req.WallThickness != 0.2 {
		t.Errorf("wall thickness = %v, want 0.2", req.WallThickness)
	}
	if req.SkipValidation {
		t.Error("skip validation should default to false")
	}

	if len(req.Rooms) != 4 {
		t.Fatalf("got %d rooms, want 4", len(req.Rooms))
	}
	tests := []struct {
		id    string
		kind  plan.Kind
		doors []plan.DoorSpec
	}{
		{"r1", plan.KindLiving, nil},
		{"r2", plan.KindBed, []plan.DoorSpec{{Side: plan.EdgeN, Width: 0.9, OffsetRatio: 0.25}}},
		{"r3", plan.KindBed, []plan.DoorSpec{{Side: plan.EdgeS, Width: 0.8, OffsetRatio: DefaultDoorRatio}}},
	}
	for i, tt := range tests {
		got := req.Rooms[i]
		if got.ID != tt.id || got.Type != tt.kind {
			t.Errorf("room %d = %s/%s, want %s/%s", i, got.ID, got.Type, tt.id, tt.kind)
		}
		if len(got.Doors) != len(tt.doors) {
			t.Errorf("room %s doors = %+v, want %+v", tt.id, got.Doors, tt.doors)
			continue
		}
		for j := range tt.doors {
			if got.Doors[j] != tt.doors[j] {
				t.Errorf("room %s door %d = %+v, want %+v", tt.id, j, got.Doors[j], tt.doors[j])
			}
		}
	}

	wc := req.Rooms[3]
	if wc.Type != plan.KindWC {
		t.Errorf("kind = %q, want %q", wc.Type, plan.KindWC)
	}
	if wc.ID != "wc-1" {
		t.Errorf("generated id = %q, want wc-1", wc.ID)
	}
}

func TestGeneratedIDsAreStable(t *testing.T) {
	const src = `
floor 10 x 8
entry S offset 4 width 1
room bed
room bed id bed-2
room bed
room kitchen
room living id ""
`
	first, err := ParseString("house.plan", src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var ids []string
	for _, r := range first.Rooms {
		ids = append(ids, r.ID)
	}
	want := []string{"bed-1", "bed-2", "bed-3", "kitchen-1", "living-1"}
	if !slices.Equal(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if err := first.Validate(); err != nil {
		t.Errorf("generated ids should validate: %v", err)
	}

	second, err := ParseString("house.plan", src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same document twice gave different requests")
	}
}

func TestParseOptionalStatements(t *testing.T) {
	req, err := ParseString("", "floor 10 x 8\nentry s offset 4 width 1\nskip validation\nroom bed id \"master bed\"")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if req.WallThickness != nil {
		t.Errorf("wall thickness = %v, want nil", *req.WallThickness)
	}
	if !req.SkipValidation {
		t.Error("skip validation not set")
	}
	if req.Floor.MainDoor.Edge != plan.EdgeS {
		t.Errorf("edge = %q, want S", req.Floor.MainDoor.Edge)
	}
	if len(req.Rooms) != 1 || req.Rooms[0].ID != "master bed" {
		t.Errorf("rooms = %+v", req.Rooms)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
		want  string
	}{
		{"missing floor", "entry N offset 1 width 1\nroom bed", errors.ErrCodeInvalidFloor, "missing floor"},
		{"missing entry", "floor 5 x 5\nroom bed", errors.ErrCodeInvalidDoor, "missing entry"},
		{"duplicate floor", "floor 5 x 5\nfloor 6 x 6\nentry N offset 1 width 1", errors.ErrCodeInvalidInput, ":2: floor declared twice"},
		{"duplicate entry", "floor 5 x 5\nentry N offset 1 width 1\nentry S offset 1 width 1", errors.ErrCodeInvalidInput, "entry declared twice"},
		{"duplicate wall", "floor 5 x 5\nentry N offset 1 width 1\nwall 0.2\nwall 0.3", errors.ErrCodeInvalidInput, "wall declared twice"},
		{"syntax", "floor 5 by 5", errors.ErrCodeInvalidInput, "parse"},
		{"unknown statement", "floor 5 x 5\nbalcony 3", errors.ErrCodeInvalidInput, "parse"},
		{"bad character", "floor 5 x 5 @", errors.ErrCodeInvalidInput, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString("test.plan", tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseDoesNotValidate(t *testing.T) {
	req, err := ParseString("", "floor -3 x 5\nentry Q offset 99 width 0\nroom castle id r1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if req.Floor.Width != -3 || req.Floor.MainDoor.Edge != "Q" || req.Rooms[0].Type != "castle" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	thick := 0.25
	req := plan.Request{
		Floor: plan.Floor{Width: 12.5, Height: 9, MainDoor: plan.MainDoor{Edge: plan.EdgeE, Offset: 3, Width: 1.2}},
		Rooms: []plan.RoomRequest{
			{ID: "r1", Type: plan.KindLiving},
			{ID: "door", Type: plan.KindBed, Doors: []plan.DoorSpec{{Side: plan.EdgeW, Width: 0.9, OffsetRatio: 0}}},
			{ID: "7f1c-a", Type: plan.KindKitchen},
		},
		WallThickness:  &thick,
		SkipValidation: true,
	}

	out := Format(req)
	got, err := ParseString("", string(out))
	if err != nil {
		t.Fatalf("reparse failed: %v\n%s", err, out)
	}
	if got.Floor != req.Floor {
		t.Errorf("floor = %+v, want %+v", got.Floor, req.Floor)
	}
	if got.WallThickness == nil || *got.WallThickness != thick {
		t.Errorf("wall = %v", got.WallThickness)
	}
	if !got.SkipValidation {
		t.Error("skip validation lost")
	}
	if len(got.Rooms) != len(req.Rooms) {
		t.Fatalf("rooms = %+v", got.Rooms)
	}
	for i := range req.Rooms {
		if got.Rooms[i].ID != req.Rooms[i].ID || got.Rooms[i].Type != req.Rooms[i].Type {
			t.Errorf("room %d = %+v, want %+v", i, got.Rooms[i], req.Rooms[i])
		}
	}
	if d := got.Rooms[1].Doors; len(d) != 1 || d[0] != req.Rooms[1].Doors[0] {
		t.Errorf("doors = %+v", d)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "home.plan")
	if err := os.WriteFile(planPath, []byte(corridorPlan), 0o644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "home.json")
	if err := os.WriteFile(jsonPath, []byte(`{"floor":{"width":20,"height":5,"main_door":{"edge":"W","offset":1.5,"width":0.9}},"rooms":[{"id":"r1","type":"living"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	fromPlan, err := ReadFile(planPath)
	if err != nil {
		t.Fatalf("ReadFile(plan): %v", err)
	}
	fromJSON, err := ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("ReadFile(json): %v", err)
	}
	if fromPlan.Floor != fromJSON.Floor {
		t.Errorf("floors differ: %+v vs %+v", fromPlan.Floor, fromJSON.Floor)
	}

	if _, err := ReadFile(filepath.Join(dir, "home.txt")); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"a.plan":  FormatPlan,
		"A.PLAN":  FormatPlan,
		"a.json":  plan.FormatJSON,
		"a.yml":   plan.FormatYAML,
		"a.toml":  plan.FormatTOML,
		"a.floor": "",
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDecode(t *testing.T) {
	req, err := Decode([]byte("floor 4 x 4\nentry N offset 1 width 1\n"), FormatPlan)
	if err != nil {
		t.Fatal(err)
	}
	if req.Floor.Width != 4 {
		t.Errorf("width = %g", req.Floor.Width)
	}
}
