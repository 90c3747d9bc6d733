package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/floorplan/pkg/geometry"
	"github.com/matzehuels/floorplan/pkg/plan"
)

type corner int

const (
	cornerNE corner = iota
	cornerSE
	cornerNW
	cornerSW
)

// cornerOrder returns the corners to try for a main-door edge, starting
// away from the entrance.
func cornerOrder(e plan.Edge) []corner {
	switch e {
	case plan.EdgeW:
		return []corner{cornerNE, cornerSE, cornerNW, cornerSW}
	case plan.EdgeE:
		return []corner{cornerNW, cornerSW, cornerNE, cornerSE}
	case plan.EdgeN:
		return []corner{cornerSW, cornerSE, cornerNW, cornerNE}
	default:
		return []corner{cornerNW, cornerNE, cornerSW, cornerSE}
	}
}

// wallOrder is the wall-midpoint fallback order.
var wallOrder = []plan.Edge{plan.EdgeW, plan.EdgeE, plan.EdgeS, plan.EdgeN}

type placement struct {
	rooms    []plan.PlacedRoom
	warnings []string
}

// layout tracks the usable rectangle and the rooms placed so far.
type layout struct {
	hw, hh float64 // usable half extents
	placed []geometry.Rect
}

func (l *layout) free(r geometry.Rect) bool {
	for _, p := range l.placed {
		if geometry.RectsOverlap(r, p) {
			return false
		}
	}
	return true
}

func (l *layout) atCorner(c corner, w, h float64) geometry.Rect {
	x, y := l.hw-w/2, l.hh-h/2
	if c == cornerNW || c == cornerSW {
		x = -x
	}
	if c == cornerSE || c == cornerSW {
		y = -y
	}
	return geometry.Rect{X: x, Y: y, W: w, H: h}
}

func (l *layout) atWall(e plan.Edge, w, h float64) geometry.Rect {
	switch e {
	case plan.EdgeW:
		return geometry.Rect{X: -l.hw + w/2, Y: 0, W: w, H: h}
	case plan.EdgeE:
		return geometry.Rect{X: l.hw - w/2, Y: 0, W: w, H: h}
	case plan.EdgeS:
		return geometry.Rect{X: 0, Y: -l.hh + h/2, W: w, H: h}
	default:
		return geometry.Rect{X: 0, Y: l.hh - h/2, W: w, H: h}
	}
}

func (l *layout) tryCorners(order []corner, w0, h0 float64) (geometry.Rect, bool) {
	minW, minH := math.Min(MinSide, w0), math.Min(MinSide, h0)
	for _, c := range order {
		w, h := w0, h0
		for range MaxShrinkAttempts {
			r := l.atCorner(c, w, h)
			if l.free(r) {
				return r, true
			}
			nw, nh := math.Max(w*ShrinkFactor, minW), math.Max(h*ShrinkFactor, minH)
			if nw == w && nh == h {
				break
			}
			w, h = nw, nh
		}
	}
	return geometry.Rect{}, false
}

func (l *layout) tryWalls(w, h float64) (geometry.Rect, bool) {
	for _, e := range wallOrder {
		if r := l.atWall(e, w, h); l.free(r) {
			return r, true
		}
	}
	return geometry.Rect{}, false
}

func (l *layout) tryGrid(w, h float64) (geometry.Rect, bool) {
	maxY := l.hh - h/2 + geometry.Epsilon
	maxX := l.hw - w/2 + geometry.Epsilon
	for y := -l.hh + h/2; y <= maxY; y += GridStep {
		for x := -l.hw + w/2; x <= maxX; x += GridStep {
			if r := (geometry.Rect{X: x, Y: y, W: w, H: h}); l.free(r) {
				return r, true
			}
		}
	}
	return geometry.Rect{}, false
}

// seedLiving puts the living room flush against the wall the main door
// opens onto, centered on the door and clamped inside.
func (l *layout) seedLiving(door plan.Segment, edge plan.Edge, w, h float64) geometry.Rect {
	mid := geometry.Midpoint(door)
	cx := geometry.Clamp(mid.X, -l.hw+w/2, l.hw-w/2)
	cy := geometry.Clamp(mid.Y, -l.hh+h/2, l.hh-h/2)
	switch edge {
	case plan.EdgeN:
		cy = l.hh - h/2
	case plan.EdgeE:
		cx = l.hw - w/2
	case plan.EdgeW:
		cx = -l.hw + w/2
	default:
		cy = -l.hh + h/2
	}
	return geometry.Rect{X: cx, Y: cy, W: w, H: h}
}

func (e *Engine) place(req plan.Request, thickness float64) placement {
	var out placement
	uw, uh := req.Floor.Usable(thickness)
	l := &layout{hw: uw / 2, hh: uh / 2}

	cantPlace := func(r plan.RoomRequest) {
		out.warnings = append(out.warnings, fmt.Sprintf("Could not place %s (%s): not enough free space", e.Catalog.Label(r.Type), r.ID))
	}

	if uw < MinSide || uh < MinSide {
		for _, r := range req.Rooms {
			cantPlace(r)
		}
		return out
	}

	sizes, _ := ComputeSizes(req.Rooms, uw, uh, e.VoidRatio, e.Catalog)
	usable := uw * uh * (1 - e.VoidRatio)
	if target := TargetSum(req.Rooms, e.Catalog); target > 0 && usable < TightAreaRatio*target {
		out.warnings = append(out.warnings, fmt.Sprintf("Usable area %.1f m² is under %.0f%% of the rooms' target %.1f m²; some rooms may not fit", usable, TightAreaRatio*100, target))
	}

	rects := make([]*geometry.Rect, len(req.Rooms))
	commit := func(i int, r geometry.Rect) {
		rects[i] = &r
		l.placed = append(l.placed, r)
	}

	living := slices.IndexFunc(req.Rooms, func(r plan.RoomRequest) bool { return r.Type == plan.KindLiving })
	if living >= 0 {
		s := sizes[living]
		commit(living, l.seedLiving(geometry.MainDoorToLine(req.Floor.Width, req.Floor.Height,
			req.Floor.MainDoor.Edge, req.Floor.MainDoor.Offset, req.Floor.MainDoor.Width),
			req.Floor.MainDoor.Edge, s.W, s.H))
	}

	order := make([]int, 0, len(req.Rooms))
	for i := range req.Rooms {
		if i != living {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return req.Rooms[a].Type.Priority() - req.Rooms[b].Type.Priority()
	})

	corners := cornerOrder(req.Floor.MainDoor.Edge)
	for _, i := range order {
		s := sizes[i]
		r, ok := l.tryCorners(corners, s.W, s.H)
		if !ok {
			r, ok = l.tryWalls(s.W, s.H)
		}
		if !ok {
			r, ok = l.tryGrid(s.W, s.H)
		}
		if !ok {
			cantPlace(req.Rooms[i])
			continue
		}
		commit(i, r)
	}

	for i, rr := range req.Rooms {
		r := rects[i]
		if r == nil {
			continue
		}
		cfg := e.Catalog.Config(rr.Type)
		out.rooms = append(out.rooms, plan.PlacedRoom{
			ID:    rr.ID,
			Type:  rr.Type,
			X:     r.X,
			Y:     r.Y,
			W:     r.W,
			H:     r.H,
			Color: cfg.Color,
			Label: cfg.Label,
			Doors: append([]plan.DoorSpec(nil), rr.Doors...),
		})
	}
	if out.rooms == nil {
		out.rooms = []plan.PlacedRoom{}
	}
	return out
}
