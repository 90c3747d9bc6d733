package dsl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// FormatPlan is the request encoding handled by this package.
const FormatPlan = "plan"

// DefaultDoorRatio is used when a door clause has no `at` part.
const DefaultDoorRatio = 0.5

// =============================================================================
// Reading
// =============================================================================

// Parse reads a .plan document into a request.
func Parse(filename string, r io.Reader) (plan.Request, error) {
	file, err := ParseAST(filename, r)
	if err != nil {
		return plan.Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", displayName(filename))
	}
	return toRequest(filename, file)
}

// ParseString reads a .plan document from a string.
func ParseString(filename, input string) (plan.Request, error) {
	return Parse(filename, strings.NewReader(input))
}

// FormatFromPath extends [plan.FormatFromPath] with the .plan extension.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".plan") {
		return FormatPlan
	}
	return plan.FormatFromPath(path)
}

// Decode parses a request in any supported encoding, .plan included.
func Decode(data []byte, format string) (plan.Request, error) {
	if format == FormatPlan {
		return Parse("", bytes.NewReader(data))
	}
	return plan.DecodeRequest(data, format)
}

// ReadFile reads a request file, choosing the decoder by extension.
func ReadFile(path string) (plan.Request, error) {
	format := FormatFromPath(path)
	if format == "" {
		return plan.Request{}, fmt.Errorf("%s: unrecognized request extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return plan.Request{}, fmt.Errorf("read %s: %w", path, err)
	}
	if format == FormatPlan {
		return Parse(path, bytes.NewReader(data))
	}
	return plan.DecodeRequest(data, format)
}

func toRequest(filename string, file *File) (plan.Request, error) {
	var (
		req      plan.Request
		seenFlr  bool
		seenDoor bool
		seenWall bool
	)
	name := displayName(filename)
	for _, st := range file.Statements {
		line := st.Pos.Line
		switch {
		case st.Floor != nil:
			if seenFlr {
				return plan.Request{}, errors.New(errors.ErrCodeInvalidInput, "%s:%d: floor declared twice", name, line)
			}
			seenFlr = true
			req.Floor.Width, req.Floor.Height = st.Floor.Width, st.Floor.Height

		case st.Entry != nil:
			if seenDoor {
				return plan.Request{}, errors.New(errors.ErrCodeInvalidInput, "%s:%d: entry declared twice", name, line)
			}
			seenDoor = true
			req.Floor.MainDoor = plan.MainDoor{
				Edge:   plan.Edge(strings.ToUpper(st.Entry.Edge)),
				Offset: st.Entry.Offset,
				Width:  st.Entry.Width,
			}

		case st.Wall != nil:
			if seenWall {
				return plan.Request{}, errors.New(errors.ErrCodeInvalidInput, "%s:%d: wall declared twice", name, line)
			}
			seenWall = true
			t := st.Wall.Thickness
			req.WallThickness = &t

		case st.Skip != nil:
			req.SkipValidation = true

		case st.Room != nil:
			req.Rooms = append(req.Rooms, toRoom(st.Room))
		}
	}
	if !seenFlr {
		return plan.Request{}, errors.New(errors.ErrCodeInvalidFloor, "%s: missing floor statement", name)
	}
	if !seenDoor {
		return plan.Request{}, errors.New(errors.ErrCodeInvalidDoor, "%s: missing entry statement", name)
	}
	assignIDs(req.Rooms)
	return req, nil
}

// assignIDs names rooms declared without an id "<kind>-<n>", counting each
// kind in declaration order and skipping ids already taken. The same
// document always yields the same ids.
func assignIDs(rooms []plan.RoomRequest) {
	taken := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		if r.ID != "" {
			taken[r.ID] = true
		}
	}
	next := make(map[plan.Kind]int)
	for i := range rooms {
		if rooms[i].ID != "" {
			continue
		}
		for {
			next[rooms[i].Type]++
			id := fmt.Sprintf("%s-%d", rooms[i].Type, next[rooms[i].Type])
			if !taken[id] {
				rooms[i].ID = id
				taken[id] = true
				break
			}
		}
	}
}

func toRoom(st *RoomStmt) plan.RoomRequest {
	room := plan.RoomRequest{Type: plan.Kind(strings.ToLower(st.Kind))}
	if st.ID != nil {
		room.ID = string(*st.ID)
	}
	for _, d := range st.Doors {
		ratio := DefaultDoorRatio
		if d.At != nil {
			ratio = *d.At
		}
		room.Doors = append(room.Doors, plan.DoorSpec{
			Side:        plan.Edge(strings.ToUpper(d.Side)),
			Width:       d.Width,
			OffsetRatio: ratio,
		})
	}
	return room
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}

// =============================================================================
// Writing
// =============================================================================

// Format writes a request as a .plan document.
func Format(req plan.Request) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "floor %s x %s\n", num(req.Floor.Width), num(req.Floor.Height))
	d := req.Floor.MainDoor
	fmt.Fprintf(&b, "entry %s offset %s width %s\n", d.Edge, num(d.Offset), num(d.Width))
	if req.WallThickness != nil {
		fmt.Fprintf(&b, "wall %s\n", num(*req.WallThickness))
	}
	if req.SkipValidation {
		b.WriteString("skip validation\n")
	}
	for _, room := range req.Rooms {
		fmt.Fprintf(&b, "room %s", room.Type)
		if room.ID != "" {
			fmt.Fprintf(&b, " id %s", ident(room.ID))
		}
		for _, door := range room.Doors {
			fmt.Fprintf(&b, " door %s %s at %s", door.Side, num(door.Width), num(door.OffsetRatio))
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ident writes id bare when the lexer would read it back as one token.
func ident(id string) string {
	if isBareIdent(id) {
		return id
	}
	return strconv.Quote(id)
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return !isKeyword(s)
}

func isKeyword(s string) bool {
	switch strings.ToLower(s) {
	case "floor", "x", "entry", "offset", "width", "wall", "skip", "validation", "room", "id", "door", "at":
		return true
	}
	return false
}
