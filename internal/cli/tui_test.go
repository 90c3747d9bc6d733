package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/session"
)

// editFixture is a 10x8 floor with two rooms; "a" fills the west half and
// "b" the north-east quarter.
func editFixture() *plan.Result {
	return &plan.Result{
		Floor: plan.FloorEcho{Width: 10, Height: 8, WallThickness: 0.2, InteriorWallThickness: 0.1, MainDoorEdge: plan.EdgeS},
		Rooms: []plan.PlacedRoom{
			{ID: "a", Type: plan.KindLiving, X: -2.4, Y: 0, W: 4.8, H: 7.6},
			{ID: "b", Type: plan.KindBed, X: 2.4, Y: 1.9, W: 4.8, H: 3.8},
		},
	}
}

func newTestEditor(t *testing.T, gen session.Generator, save func(*plan.Result) (string, error)) EditModel {
	t.Helper()
	ctx := context.Background()
	store := session.NewMemoryStore()
	sess := session.New(plan.Request{}, editFixture(), 0)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}
	return NewEditModel(ctx, store, sess, gen, save)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m EditModel, keys ...string) (EditModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(EditModel)
	}
	return m, cmd
}

func TestEditSelect(t *testing.T) {
	m := newTestEditor(t, nil, nil)
	m, _ = press(m, "tab")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}
	m, _ = press(m, "tab")
	if m.Cursor != 0 {
		t.Errorf("cursor should wrap to 0, got %d", m.Cursor)
	}
	m, _ = press(m, "shift+tab")
	if m.Cursor != 1 {
		t.Errorf("shift+tab should wrap to 1, got %d", m.Cursor)
	}
}

func TestEditMove(t *testing.T) {
	m := newTestEditor(t, nil, nil)
	m, _ = press(m, "tab", "j")

	b, _ := m.Session.Result.Room("b")
	if b.Y != 1.65 {
		t.Errorf("b.Y = %g, want 1.65", b.Y)
	}
	if m.Failed {
		t.Errorf("unexpected failure: %s", m.Status)
	}
	if m.Session.Revision != 1 {
		t.Errorf("revision = %d, want 1", m.Session.Revision)
	}

	// Stored session follows the model.
	stored, err := m.store.Get(context.Background(), m.id)
	if err != nil {
		t.Fatal(err)
	}
	if sb, _ := stored.Result.Room("b"); sb.Y != 1.65 {
		t.Errorf("stored b.Y = %g, want 1.65", sb.Y)
	}
}

func TestEditOverlapRejected(t *testing.T) {
	m := newTestEditor(t, nil, nil)
	m, _ = press(m, "tab", "h")

	if !m.Failed || !strings.Contains(m.Status, "OVERLAP") {
		t.Errorf("status = %q, want an OVERLAP failure", m.Status)
	}
	b, _ := m.Session.Result.Room("b")
	if b.X != 2.4 {
		t.Errorf("b.X = %g, rejected edit should leave it at 2.4", b.X)
	}
	if m.Session.Revision != 0 {
		t.Errorf("revision = %d, want 0", m.Session.Revision)
	}
}

func TestEditResizeAndStep(t *testing.T) {
	m := newTestEditor(t, nil, nil)
	m, _ = press(m, "tab", "+", "J")
	if m.Step != 0.5 {
		t.Fatalf("step = %g, want 0.5", m.Step)
	}
	b, _ := m.Session.Result.Room("b")
	if b.H != 3.3 {
		t.Errorf("b.H = %g, want 3.3", b.H)
	}

	m, _ = press(m, "-", "-", "-", "-", "-", "-")
	if m.Step != minEditStep {
		t.Errorf("step = %g, want floor %g", m.Step, minEditStep)
	}
}

func TestEditRegenerate(t *testing.T) {
	regenerated := editFixture()
	regenerated.Rooms = regenerated.Rooms[:1]
	gen := func(context.Context, plan.Request) (*plan.Result, error) {
		return regenerated, nil
	}

	m := newTestEditor(t, gen, nil)
	m, _ = press(m, "tab", "j")
	m, cmd := press(m, "r")
	if cmd == nil || !m.Busy {
		t.Fatal("r should start a regeneration")
	}

	next, _ := m.Update(cmd())
	m = next.(EditModel)
	if m.Busy || m.Failed {
		t.Fatalf("busy=%v status=%q", m.Busy, m.Status)
	}
	if len(m.Session.Result.Rooms) != 1 {
		t.Errorf("rooms = %d, want 1", len(m.Session.Result.Rooms))
	}
	if len(m.Session.Overridden) != 0 {
		t.Errorf("overrides should be cleared, got %v", m.Session.Overridden)
	}
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, should clamp to the remaining room", m.Cursor)
	}
}

func TestEditRegenerateError(t *testing.T) {
	gen := func(context.Context, plan.Request) (*plan.Result, error) {
		return nil, fmt.Errorf("catalog offline")
	}
	m := newTestEditor(t, gen, nil)
	m, cmd := press(m, "r")
	next, _ := m.Update(cmd())
	m = next.(EditModel)
	if !m.Failed || !strings.Contains(m.Status, "catalog offline") {
		t.Errorf("status = %q", m.Status)
	}
	if len(m.Session.Result.Rooms) != 2 {
		t.Error("failed regeneration should keep the layout")
	}
}

func TestEditSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edited.json")
	save := func(res *plan.Result) (string, error) {
		return path, plan.WriteResultFile(res, path)
	}
	m := newTestEditor(t, nil, save)
	m, _ = press(m, "tab", "j", "s")
	if m.Saved != path {
		t.Fatalf("saved = %q, want %q", m.Saved, path)
	}
	res, err := plan.ReadResultFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := res.Room("b"); b.Y != 1.65 {
		t.Errorf("saved b.Y = %g, want 1.65", b.Y)
	}
}

func TestEditQuit(t *testing.T) {
	m := newTestEditor(t, nil, nil)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestEditView(t *testing.T) {
	m := newTestEditor(t, nil, nil)
	view := m.View()
	for _, want := range []string{"Edit Layout", "a", "b", "4.80×7.60"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
