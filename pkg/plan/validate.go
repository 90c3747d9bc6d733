package plan

import (
	"github.com/matzehuels/floorplan/pkg/errors"
)

// EdgeLength returns the length of the given floor edge.
func (f Floor) EdgeLength(e Edge) float64 {
	if e.Horizontal() {
		return f.Width
	}
	return f.Height
}

// Validate is the form validator run by callers before generation. The
// engine never calls it: it clamps whatever it is given.
func (r Request) Validate() error {
	f := r.Floor
	if err := errors.ValidateDimension("floor width", f.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("floor height", f.Height); err != nil {
		return err
	}
	d := f.MainDoor
	if err := errors.ValidateMainDoor(string(d.Edge), d.Offset, d.Width, f.EdgeLength(d.Edge)); err != nil {
		return err
	}
	if err := errors.ValidateWallThickness(r.Thickness(), f.Width, f.Height); err != nil {
		return err
	}

	seen := make(map[string]bool, len(r.Rooms))
	for i, room := range r.Rooms {
		if err := errors.ValidateRoomID(room.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRoom, err, "room %d", i)
		}
		if seen[room.ID] {
			return errors.New(errors.ErrCodeInvalidRoom, "duplicate room id %q", room.ID)
		}
		seen[room.ID] = true
		if err := errors.ValidateRoomType(string(room.Type)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRoom, err, "room %q", room.ID)
		}
		for _, door := range room.Doors {
			if err := errors.ValidateDoorSpec(string(door.Side), door.Width, door.OffsetRatio); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDoor, err, "room %q", room.ID)
			}
		}
	}
	return nil
}
