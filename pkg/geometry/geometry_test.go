package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorplan/pkg/plan"
)

func TestRectsOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"identical", Rect{0, 0, 2, 2}, Rect{0, 0, 2, 2}, true},
		{"partial", Rect{0, 0, 2, 2}, Rect{1, 1, 2, 2}, true},
		{"contained", Rect{0, 0, 4, 4}, Rect{0.5, 0.5, 1, 1}, true},
		{"touching x", Rect{0, 0, 2, 2}, Rect{2, 0, 2, 2}, false},
		{"touching y", Rect{0, 0, 2, 2}, Rect{0, -2, 2, 2}, false},
		{"touching corner", Rect{0, 0, 2, 2}, Rect{2, 2, 2, 2}, false},
		{"apart", Rect{0, 0, 1, 1}, Rect{5, 5, 1, 1}, false},
		{"cross", Rect{0, 0, 6, 1}, Rect{0, 0, 1, 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RectsOverlap(tt.a, tt.b))
			assert.Equal(t, tt.want, RectsOverlap(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestRectsOverlapFloatNoise(t *testing.T) {
	// 0.1+0.2 != 0.3 in binary; shared edges must still count as touching.
	a := Rect{X: 0.15, Y: 0, W: 0.3, H: 1}
	b := Rect{X: 0.1 + 0.2 + 0.5, Y: 0, W: 1, H: 1}
	assert.False(t, RectsOverlap(a, b))
}

func TestMainDoorToLine(t *testing.T) {
	tests := []struct {
		name   string
		edge   plan.Edge
		offset float64
		width  float64
		want   plan.Segment
	}{
		{"north", plan.EdgeN, 2, 1, plan.Segment{A: plan.Point{X: -3, Y: 2}, B: plan.Point{X: -2, Y: 2}}},
		{"south", plan.EdgeS, 0, 1, plan.Segment{A: plan.Point{X: -5, Y: -2}, B: plan.Point{X: -4, Y: -2}}},
		{"east", plan.EdgeE, 1, 1, plan.Segment{A: plan.Point{X: 5, Y: -1}, B: plan.Point{X: 5, Y: 0}}},
		{"west", plan.EdgeW, 3, 1, plan.Segment{A: plan.Point{X: -5, Y: 1}, B: plan.Point{X: -5, Y: 2}}},
		{"narrow widened", plan.EdgeS, 1, 0.2, plan.Segment{A: plan.Point{X: -4, Y: -2}, B: plan.Point{X: -3.4, Y: -2}}},
		{"offset clamped", plan.EdgeN, 50, 1, plan.Segment{A: plan.Point{X: 4, Y: 2}, B: plan.Point{X: 5, Y: 2}}},
		{"negative offset", plan.EdgeW, -2, 1, plan.Segment{A: plan.Point{X: -5, Y: -2}, B: plan.Point{X: -5, Y: -1}}},
		{"too wide", plan.EdgeE, 0, 9, plan.Segment{A: plan.Point{X: 5, Y: -2}, B: plan.Point{X: 5, Y: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MainDoorToLine(10, 4, tt.edge, tt.offset, tt.width)
			assert.InDelta(t, tt.want.A.X, got.A.X, 1e-9)
			assert.InDelta(t, tt.want.A.Y, got.A.Y, 1e-9)
			assert.InDelta(t, tt.want.B.X, got.B.X, 1e-9)
			assert.InDelta(t, tt.want.B.Y, got.B.Y, 1e-9)
		})
	}
}

func TestMainDoorToLineClampingProperty(t *testing.T) {
	const w, h = 6.0, 3.0
	for _, edge := range plan.Edges {
		for _, offset := range []float64{-5, 0, 1.7, 2.9, 100} {
			for _, width := range []float64{0, 0.3, 0.9, 2.5, 50} {
				seg := MainDoorToLine(w, h, edge, offset, width)
				for _, p := range []plan.Point{seg.A, seg.B} {
					require.GreaterOrEqual(t, p.X, -w/2-Epsilon)
					require.LessOrEqual(t, p.X, w/2+Epsilon)
					require.GreaterOrEqual(t, p.Y, -h/2-Epsilon)
					require.LessOrEqual(t, p.Y, h/2+Epsilon)
				}
				switch edge {
				case plan.EdgeN:
					assert.Equal(t, h/2, seg.A.Y)
				case plan.EdgeS:
					assert.Equal(t, -h/2, seg.A.Y)
				case plan.EdgeE:
					assert.Equal(t, w/2, seg.A.X)
				case plan.EdgeW:
					assert.Equal(t, -w/2, seg.A.X)
				}
				assert.GreaterOrEqual(t, Length(seg), MinDoorWidth-Epsilon)
			}
		}
	}
}

func TestMainDoorToLineShortEdge(t *testing.T) {
	seg := MainDoorToLine(0.4, 5, plan.EdgeN, 0, 1)
	assert.InDelta(t, 0.4, Length(seg), 1e-9, "door spans the whole edge when it is shorter than the minimum")
}

func TestRoomDoor(t *testing.T) {
	t.Run("north centered", func(t *testing.T) {
		d := RoomDoor(2, 1.5, plan.DoorSpec{Side: plan.EdgeN, Width: 1, OffsetRatio: 0.5})
		assert.InDelta(t, 0, d.Mid.X, 1e-9)
		assert.InDelta(t, 1.5, d.Mid.Y, 1e-9)
		assert.InDelta(t, 1, d.Length, 1e-9)
		assert.Equal(t, 0.0, d.Angle)
	})
	t.Run("east start", func(t *testing.T) {
		d := RoomDoor(2, 1.5, plan.DoorSpec{Side: plan.EdgeE, Width: 1, OffsetRatio: 0})
		assert.InDelta(t, 2, d.Segment.A.X, 1e-9)
		assert.InDelta(t, -1.5, d.Segment.A.Y, 1e-9)
		assert.InDelta(t, math.Pi/2, d.Angle, 1e-12)
	})
	t.Run("ratio clamped", func(t *testing.T) {
		d := RoomDoor(2, 1.5, plan.DoorSpec{Side: plan.EdgeS, Width: 1, OffsetRatio: 3})
		assert.InDelta(t, 2, d.Segment.B.X, 1e-9)
	})
	t.Run("narrow widened", func(t *testing.T) {
		d := RoomDoor(2, 1.5, plan.DoorSpec{Side: plan.EdgeW, Width: 0.1})
		assert.InDelta(t, MinDoorWidth, d.Length, 1e-9)
	})
	t.Run("short wall caps width", func(t *testing.T) {
		d := RoomDoor(0.25, 2, plan.DoorSpec{Side: plan.EdgeN, Width: 0.9})
		assert.InDelta(t, 0.5-DoorWallMargin, d.Length, 1e-9)
	})
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(5, 2, Rect{X: 4, Y: 1, W: 2, H: 2}))
	assert.False(t, Contains(5, 2, Rect{X: 4.5, Y: 0, W: 2, H: 2}))
	assert.True(t, Contains(5, 2, Rect{X: 0, Y: 0, W: 10, H: 4}))
}
