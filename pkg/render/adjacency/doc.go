// Package adjacency derives and renders the room adjacency graph of a plan.
//
// # Overview
//
// Two rooms are adjacent when their rectangles share a wall: the gap between
// them is at most one interior wall thickness and the shared run is long
// enough for a door ([geometry.MinDoorWidth]). Rooms touching the main-door
// opening are also connected to a synthetic [EntryNode].
//
// # Usage
//
//	g := adjacency.Build(result)
//	dot := adjacency.ToDOT(g, adjacency.Options{})
//	svg, err := adjacency.RenderSVG(dot)
//
// The graph is undirected. [Graph.Edges] returns each pair once, ordered
// lexicographically, so DOT output is deterministic for a given result.
package adjacency
