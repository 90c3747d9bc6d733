package adjacency

import (
	"cmp"
	"math"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/floorplan/pkg/geometry"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/render"
)

// EntryNode is the node id standing for the main door. The leading '@'
// keeps it apart from room ids.
const EntryNode = "@entry"

// Graph is the undirected room adjacency graph of a result.
type Graph struct {
	// Rooms lists room ids in result order.
	Rooms []string

	// Labels maps room ids to display labels.
	Labels map[string]string

	// Kinds maps room ids to their type.
	Kinds map[string]plan.Kind

	// Centers maps room ids, and EntryNode when present, to floor
	// coordinates.
	Centers map[string]plan.Point

	neighbors map[string]mapset.Set[string]
}

// Build derives the adjacency graph from a result.
func Build(res *plan.Result) *Graph {
	g := &Graph{
		Labels:    make(map[string]string),
		Kinds:     make(map[string]plan.Kind),
		Centers:   make(map[string]plan.Point),
		neighbors: make(map[string]mapset.Set[string]),
	}
	if res == nil {
		return g
	}

	tol := math.Max(res.Floor.InteriorWallThickness, 0) + geometry.Epsilon
	rects := make([]geometry.Rect, len(res.Rooms))
	for i, room := range res.Rooms {
		g.Rooms = append(g.Rooms, room.ID)
		g.Labels[room.ID] = render.Label(room)
		g.Kinds[room.ID] = room.Type
		g.Centers[room.ID] = plan.Point{X: room.X, Y: room.Y}
		g.neighbors[room.ID] = mapset.New[string]()
		rects[i] = geometry.RectOf(room)
	}

	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if touching(rects[i], rects[j], tol, geometry.MinDoorWidth) {
				g.connect(res.Rooms[i].ID, res.Rooms[j].ID)
			}
		}
	}

	if gap, ok := render.DoorGap(res.Floor); ok {
		g.Centers[EntryNode] = geometry.Midpoint(res.Floor.MainDoor)
		for i, r := range rects {
			if touching(gap, r, tol, 0) {
				g.connect(EntryNode, res.Rooms[i].ID)
			}
		}
	}
	return g
}

func (g *Graph) connect(a, b string) {
	if a == b {
		return
	}
	for _, id := range []string{a, b} {
		if _, ok := g.neighbors[id]; !ok {
			g.neighbors[id] = mapset.New[string]()
		}
	}
	g.neighbors[a].Put(b)
	g.neighbors[b].Put(a)
}

// HasEntry reports whether any room touches the main door.
func (g *Graph) HasEntry() bool {
	s, ok := g.neighbors[EntryNode]
	return ok && s.Size() > 0
}

// Adjacent reports whether a and b share a wall.
func (g *Graph) Adjacent(a, b string) bool {
	s, ok := g.neighbors[a]
	return ok && s.Has(b)
}

// Neighbors returns the sorted neighbours of id.
func (g *Graph) Neighbors(id string) []string {
	s, ok := g.neighbors[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, s.Size())
	s.Each(func(n string) { out = append(out, n) })
	slices.Sort(out)
	return out
}

// Edges returns every adjacent pair once, with the smaller id first.
func (g *Graph) Edges() [][2]string {
	var out [][2]string
	for id, s := range g.neighbors {
		s.Each(func(n string) {
			if id < n {
				out = append(out, [2]string{id, n})
			}
		})
	}
	slices.SortFunc(out, func(a, b [2]string) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	return out
}

// touching reports whether a and b are separated by at most tol along one axis
// while overlapping by at least minRun along the other.
func touching(a, b geometry.Rect, tol, minRun float64) bool {
	gapX := math.Max(b.MinX()-a.MaxX(), a.MinX()-b.MaxX())
	gapY := math.Max(b.MinY()-a.MaxY(), a.MinY()-b.MaxY())
	runX := math.Min(a.MaxX(), b.MaxX()) - math.Max(a.MinX(), b.MinX())
	runY := math.Min(a.MaxY(), b.MaxY()) - math.Max(a.MinY(), b.MinY())

	sideBySide := gapX >= -geometry.Epsilon && gapX <= tol && runY > geometry.Epsilon && runY >= minRun-geometry.Epsilon
	stacked := gapY >= -geometry.Epsilon && gapY <= tol && runX > geometry.Epsilon && runX >= minRun-geometry.Epsilon
	return sideBySide || stacked
}
