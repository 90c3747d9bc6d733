// Package session provides in-memory editing sessions for generated plans.
//
// A session pairs a request with its current layout and accepts two kinds of
// change, kept as separate entry points:
//
//   - [Session.ApplyOverride]: a manual move/resize of one room, keyed by room
//     id. It never re-runs placement and never re-resolves doors.
//   - [Session.Regenerate]: re-runs the generator on the stored request and
//     replaces the whole layout.
//
// Manual overrides are re-checked against the plan geometry: the room size is
// clamped to [MinSide, usable extent], its position is clamped into the usable
// interior, and an edit that would overlap another room is rejected with
// [errors.ErrCodeOverlap], leaving the room unchanged.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(req, result, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	updated, err := store.Update(ctx, sess.ID, func(s *session.Session) error {
//	    _, err := s.ApplyOverride("r2", session.Patch{X: ptr(1.5)})
//	    return err
//	})
//
// Sessions live only in memory and expire after their TTL.
package session

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/floorplan/pkg/engine"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/geometry"
	"github.com/matzehuels/floorplan/pkg/observability"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 2 * time.Hour

// Session is one editing session.
type Session struct {
	ID      string       `json:"id"`
	Request plan.Request `json:"request"`
	Result  *plan.Result `json:"result"`

	// Revision increments on every accepted change.
	Revision int `json:"revision"`

	// Overridden lists room ids whose geometry was edited by hand since the
	// last generation.
	Overridden []string `json:"overridden,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Patch is a geometry edit for one room. Nil fields are left unchanged.
type Patch struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	W *float64 `json:"w,omitempty"`
	H *float64 `json:"h,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.X == nil && p.Y == nil && p.W == nil && p.H == nil
}

func (p Patch) validate() error {
	fields := []struct {
		name string
		v    *float64
	}{{"x", p.X}, {"y", p.Y}, {"w", p.W}, {"h", p.H}}
	for _, f := range fields {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a finite number", f.name)
		}
	}
	return nil
}

// Generator produces a layout for a request.
type Generator func(ctx context.Context, req plan.Request) (*plan.Result, error)

// New creates a session with a fresh id.
func New(req plan.Request, result *plan.Result, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Request:   req,
		Result:    result,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Request.Rooms = append([]plan.RoomRequest(nil), s.Request.Rooms...)
	if s.Request.WallThickness != nil {
		t := *s.Request.WallThickness
		out.Request.WallThickness = &t
	}
	out.Result = s.Result.Clone()
	out.Overridden = append([]string(nil), s.Overridden...)
	return &out
}

// ApplyOverride merges a geometry patch into the room with the given id and
// returns the room as stored. The edit is clamped into the usable interior
// and rejected when it would overlap another room.
func (s *Session) ApplyOverride(roomID string, p Patch) (plan.PlacedRoom, error) {
	if s.Result == nil {
		return plan.PlacedRoom{}, errors.New(errors.ErrCodeRoomNotFound, "session has no layout")
	}
	room, ok := s.Result.Room(roomID)
	if !ok {
		return plan.PlacedRoom{}, errors.New(errors.ErrCodeRoomNotFound, "room %q not found", roomID)
	}
	if err := p.validate(); err != nil {
		return *room, err
	}

	f := s.Result.Floor
	t := math.Max(f.WallThickness, 0)
	usableW, usableH := f.Width-2*t, f.Height-2*t
	if usableW <= 0 || usableH <= 0 {
		return *room, errors.New(errors.ErrCodeOutOfBounds, "floor has no usable interior")
	}

	next := *room
	if p.W != nil {
		next.W = *p.W
	}
	if p.H != nil {
		next.H = *p.H
	}
	if p.X != nil {
		next.X = *p.X
	}
	if p.Y != nil {
		next.Y = *p.Y
	}

	next.W = geometry.Clamp(next.W, math.Min(engine.MinSide, usableW), usableW)
	next.H = geometry.Clamp(next.H, math.Min(engine.MinSide, usableH), usableH)
	next.X = geometry.Clamp(next.X, -usableW/2+next.W/2, usableW/2-next.W/2)
	next.Y = geometry.Clamp(next.Y, -usableH/2+next.H/2, usableH/2-next.H/2)

	candidate := geometry.RectOf(next)
	for _, other := range s.Result.Rooms {
		if other.ID == roomID {
			continue
		}
		if geometry.RectsOverlap(candidate, geometry.RectOf(other)) {
			return *room, errors.New(errors.ErrCodeOverlap, "room %q would overlap room %q", roomID, other.ID)
		}
	}

	*room = next
	s.markOverridden(roomID)
	s.touch()
	return next, nil
}

// Regenerate re-runs gen on the stored request and replaces the layout.
// Manual overrides are discarded.
func (s *Session) Regenerate(ctx context.Context, gen Generator) error {
	start := time.Now()
	res, err := gen(ctx, s.Request)
	if err == nil && res == nil {
		err = errors.New(errors.ErrCodeInternal, "generator returned no layout")
	}
	if err != nil {
		observability.Session().OnRegenerate(ctx, s.ID, 0, time.Since(start), err)
		return err
	}
	observability.Session().OnRegenerate(ctx, s.ID, len(res.Rooms), time.Since(start), nil)
	s.Result = res
	s.Overridden = nil
	s.touch()
	return nil
}

func (s *Session) markOverridden(id string) {
	for _, o := range s.Overridden {
		if o == id {
			return
		}
	}
	s.Overridden = append(s.Overridden, id)
}

func (s *Session) touch() {
	s.Revision++
	s.UpdatedAt = time.Now()
}
