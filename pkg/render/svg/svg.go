// Package svg renders a floor plan as SVG.
//
// The document has one group per layer, drawn in this order: room fills,
// exterior walls, the main-door opening, room door openings, labels. Room
// rectangles carry id="room-<id>" and a data-type attribute so the output can
// be styled or scripted by an interactive viewer.
package svg

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"github.com/matzehuels/floorplan/pkg/fonts"
	"github.com/matzehuels/floorplan/pkg/geometry"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/render"
)

const (
	backgroundColor = "#FFFFFF"
	wallColor       = "#2F2F2F"
	roomStroke      = "#5A5A5A"
	mainDoorColor   = "#C0392B"
	doorColor       = "#8E6E53"
	labelColor      = "#222222"
)

// RenderSVG renders the result. A nil result yields an empty document.
func RenderSVG(res *plan.Result, opts render.Options) []byte {
	opts = opts.WithDefaults()
	var buf bytes.Buffer
	canvas := svgo.New(&buf)

	if res == nil {
		canvas.Start(0, 0)
		canvas.End()
		return buf.Bytes()
	}

	frame := render.NewFrame(res.Floor, opts)
	width, height := px(frame.Width()), px(frame.Height())
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height))
	canvas.Title(fmt.Sprintf("Floor plan %gm x %gm", res.Floor.Width, res.Floor.Height))
	canvas.Rect(0, 0, width, height, "fill:"+backgroundColor)

	drawRooms(canvas, frame, res)
	drawWalls(canvas, frame, res.Floor)
	drawMainDoor(canvas, frame, res.Floor)
	if opts.ShowDoors {
		drawRoomDoors(canvas, frame, res)
	}
	if opts.ShowLabels {
		drawLabels(canvas, frame, res)
	}

	canvas.End()
	return buf.Bytes()
}

func drawRooms(canvas *svgo.SVG, frame render.Frame, res *plan.Result) {
	stroke := math.Max(frame.Length(res.Floor.InteriorWallThickness), 1)
	canvas.Gid("rooms")
	for _, room := range res.Rooms {
		x, y, w, h := frame.Rect(geometry.RectOf(room))
		canvas.Rect(px(x), px(y), px(w), px(h),
			fmt.Sprintf(`id="room-%s"`, attrID(room.ID)),
			fmt.Sprintf(`data-type="%s"`, attrID(string(room.Type))),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", render.Fill(room), roomStroke, stroke))
	}
	canvas.Gend()
}

func drawWalls(canvas *svgo.SVG, frame render.Frame, floor plan.FloorEcho) {
	canvas.Gid("walls")
	for _, wall := range render.Walls(floor) {
		x, y, w, h := frame.Rect(wall)
		canvas.Rect(px(x), px(y), px(w), px(h), "fill:"+wallColor)
	}
	canvas.Gend()
}

func drawMainDoor(canvas *svgo.SVG, frame render.Frame, floor plan.FloorEcho) {
	gap, ok := render.DoorGap(floor)
	if !ok {
		return
	}
	canvas.Gid("main-door")
	x, y, w, h := frame.Rect(gap)
	canvas.Rect(px(x), px(y), px(w), px(h), "fill:"+backgroundColor)
	x1, y1 := frame.Point(floor.MainDoor.A)
	x2, y2 := frame.Point(floor.MainDoor.B)
	canvas.Line(px(x1), px(y1), px(x2), px(y2),
		fmt.Sprintf("stroke:%s;stroke-width:%d", mainDoorColor, max(px(frame.Length(0.08)), 2)))
	canvas.Gend()
}

func drawRoomDoors(canvas *svgo.SVG, frame render.Frame, res *plan.Result) {
	gap := math.Max(frame.Length(res.Floor.InteriorWallThickness), 1) + 2
	canvas.Gid("doors")
	for _, room := range res.Rooms {
		fill := render.Fill(room)
		for _, d := range render.RoomDoors(room) {
			x1, y1 := frame.Point(d.Segment.A)
			x2, y2 := frame.Point(d.Segment.B)
			canvas.Line(px(x1), px(y1), px(x2), px(y2),
				fmt.Sprintf(`data-room="%s"`, attrID(room.ID)),
				fmt.Sprintf("stroke:%s;stroke-width:%.1f", fill, gap))
			canvas.Line(px(x1), px(y1), px(x2), px(y2),
				fmt.Sprintf("stroke:%s;stroke-width:1;stroke-dasharray:3,2", doorColor))
		}
	}
	canvas.Gend()
}

func drawLabels(canvas *svgo.SVG, frame render.Frame, res *plan.Result) {
	size := max(px(frame.Length(0.35)), 8)
	canvas.Gid("labels")
	for _, room := range res.Rooms {
		x, y := frame.Point(plan.Point{X: room.X, Y: room.Y})
		style := fmt.Sprintf("text-anchor:middle;font-family:%s;fill:%s", fonts.FontFamily, labelColor)
		canvas.Text(px(x), px(y), render.Label(room), fmt.Sprintf("%s;font-size:%dpx", style, size))
		canvas.Text(px(x), px(y)+size, render.AreaLabel(room), fmt.Sprintf("%s;font-size:%dpx", style, size*3/4))
	}
	canvas.Gend()
}

func px(v float64) int { return int(math.Round(v)) }

// attrID restricts a value to characters safe inside an XML attribute.
func attrID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
