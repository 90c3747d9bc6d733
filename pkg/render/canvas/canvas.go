// Package canvas renders a floor plan to PDF and PNG via tdewolff/canvas.
//
// Drawing happens in millimeters at a fixed 1:100 scale (one meter of floor
// is ten millimeters of page). PNG output rasterizes that page so that one
// meter spans [render.Options.Scale] pixels.
package canvas

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/matzehuels/floorplan/pkg/fonts"
	"github.com/matzehuels/floorplan/pkg/geometry"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/render"
)

const (
	// MMPerMeter is the page scale.
	MMPerMeter = 10.0

	ptPerMM     = 72 / 25.4
	labelHeight = 0.35 // meters
)

var (
	backgroundColor = canvas.White
	wallColor       = canvas.Hex("#2F2F2F")
	roomStroke      = canvas.Hex("#5A5A5A")
	mainDoorColor   = canvas.Hex("#C0392B")
	doorColor       = canvas.Hex("#8E6E53")
	labelColor      = canvas.Hex("#222222")
)

// RenderPDF renders the result as a single-page PDF.
func RenderPDF(res *plan.Result, opts render.Options) ([]byte, error) {
	c, err := draw(res, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writer := pdf.New(&buf, c.W, c.H, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG renders the result as a PNG image.
func RenderPNG(res *plan.Result, opts render.Options) ([]byte, error) {
	opts = opts.WithDefaults()
	c, err := draw(res, opts)
	if err != nil {
		return nil, err
	}
	img := rasterizer.Draw(c, canvas.DPMM(opts.Scale/MMPerMeter), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// draw builds the page. Labels are skipped when the embedded font is unusable.
func draw(res *plan.Result, opts render.Options) (*canvas.Canvas, error) {
	if res == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	if res.Floor.Width <= 0 || res.Floor.Height <= 0 {
		return nil, fmt.Errorf("floor has no area: %gx%g", res.Floor.Width, res.Floor.Height)
	}
	opts = opts.WithDefaults()
	frame := render.NewFrame(res.Floor, opts)
	frame.Scale = MMPerMeter

	c := canvas.New(frame.Width(), frame.Height())
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(backgroundColor)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(frame.Width(), frame.Height()))

	drawRooms(ctx, frame, res)
	drawWalls(ctx, frame, res.Floor)
	drawMainDoor(ctx, frame, res.Floor)
	if opts.ShowDoors {
		drawRoomDoors(ctx, frame, res)
	}
	if opts.ShowLabels {
		if family, err := fonts.Sans(); err == nil {
			drawLabels(ctx, frame, family, res)
		}
	}
	return c, nil
}

func drawRect(ctx *canvas.Context, frame render.Frame, r geometry.Rect) {
	x, y, w, h := frame.Rect(r)
	ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

func drawLine(ctx *canvas.Context, frame render.Frame, seg plan.Segment) {
	x1, y1 := frame.Point(seg.A)
	x2, y2 := frame.Point(seg.B)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(x2-x1, y2-y1)
	ctx.DrawPath(x1, y1, p)
}

func drawRooms(ctx *canvas.Context, frame render.Frame, res *plan.Result) {
	ctx.SetStrokeColor(roomStroke)
	ctx.SetStrokeWidth(math.Max(frame.Length(res.Floor.InteriorWallThickness), 0.2))
	for _, room := range res.Rooms {
		ctx.SetFillColor(canvas.Hex(render.Fill(room)))
		drawRect(ctx, frame, geometry.RectOf(room))
	}
}

func drawWalls(ctx *canvas.Context, frame render.Frame, floor plan.FloorEcho) {
	ctx.SetFillColor(wallColor)
	ctx.SetStrokeColor(canvas.Transparent)
	for _, wall := range render.Walls(floor) {
		drawRect(ctx, frame, wall)
	}
}

func drawMainDoor(ctx *canvas.Context, frame render.Frame, floor plan.FloorEcho) {
	gap, ok := render.DoorGap(floor)
	if !ok {
		return
	}
	ctx.SetFillColor(backgroundColor)
	ctx.SetStrokeColor(canvas.Transparent)
	drawRect(ctx, frame, gap)

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(mainDoorColor)
	ctx.SetStrokeWidth(frame.Length(0.08))
	drawLine(ctx, frame, floor.MainDoor)
}

func drawRoomDoors(ctx *canvas.Context, frame render.Frame, res *plan.Result) {
	gap := math.Max(frame.Length(res.Floor.InteriorWallThickness), 0.2) + 0.3
	ctx.SetFillColor(canvas.Transparent)
	for _, room := range res.Rooms {
		for _, d := range render.RoomDoors(room) {
			ctx.SetStrokeColor(canvas.Hex(render.Fill(room)))
			ctx.SetStrokeWidth(gap)
			drawLine(ctx, frame, d.Segment)

			ctx.SetStrokeColor(doorColor)
			ctx.SetStrokeWidth(0.15)
			drawLine(ctx, frame, d.Segment)
		}
	}
}

func drawLabels(ctx *canvas.Context, frame render.Frame, family *canvas.FontFamily, res *plan.Result) {
	size := frame.Length(labelHeight)
	title := family.Face(size*ptPerMM, labelColor, canvas.FontRegular, canvas.FontNormal)
	small := family.Face(size*0.75*ptPerMM, labelColor, canvas.FontRegular, canvas.FontNormal)
	for _, room := range res.Rooms {
		x, y := frame.Point(plan.Point{X: room.X, Y: room.Y})
		ctx.DrawText(x, y, canvas.NewTextLine(title, render.Label(room), canvas.Center))
		ctx.DrawText(x, y+size, canvas.NewTextLine(small, render.AreaLabel(room), canvas.Center))
	}
}
