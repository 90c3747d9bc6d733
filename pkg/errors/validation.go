package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// MaxDimension bounds floor sides, in meters.
const MaxDimension = 1000

// ValidateDimension checks that a floor side is positive, finite and sane.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidFloor, "%s must be a finite number", name)
	}
	if v <= 0 {
		return New(ErrCodeInvalidFloor, "%s must be positive, got %g", name, v)
	}
	if v > MaxDimension {
		return New(ErrCodeInvalidFloor, "%s too large (max %d m), got %g", name, MaxDimension, v)
	}
	return nil
}

// ValidateEdge checks that edge is one of N, E, S, W.
func ValidateEdge(edge string) error {
	switch edge {
	case "N", "E", "S", "W":
		return nil
	}
	return New(ErrCodeInvalidDoor, "edge must be one of N, E, S, W, got %q", edge)
}

// ValidateMainDoor checks the entry door against the length of its edge.
// The engine clamps out-of-range values; this rejects them up front so the
// user sees what they typed was wrong.
func ValidateMainDoor(edge string, offset, width, edgeLen float64) error {
	if err := ValidateEdge(edge); err != nil {
		return err
	}
	if math.IsNaN(offset) || offset < 0 {
		return New(ErrCodeInvalidDoor, "main door offset must be non-negative, got %g", offset)
	}
	if math.IsNaN(width) || width <= 0 {
		return New(ErrCodeInvalidDoor, "main door width must be positive, got %g", width)
	}
	if offset+width > edgeLen+1e-9 {
		return New(ErrCodeInvalidDoor, "main door (offset %g + width %g) extends past the %s edge (%g m)", offset, width, edge, edgeLen)
	}
	return nil
}

// ValidateWallThickness checks that the exterior walls leave some interior.
func ValidateWallThickness(t, floorW, floorH float64) error {
	if math.IsNaN(t) || t < 0 {
		return New(ErrCodeInvalidFloor, "wall thickness must be non-negative, got %g", t)
	}
	if 2*t >= math.Min(floorW, floorH) {
		return New(ErrCodeInvalidFloor, "wall thickness %g leaves no interior on a %gx%g floor", t, floorW, floorH)
	}
	return nil
}

// ValidateRoomID validates a caller-assigned room id.
//
// The validation rules:
//   - No empty ids
//   - No control characters
//   - Maximum length of 128 characters
func ValidateRoomID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRoom, "room id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidRoom, "room id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRoom, "room id contains invalid control characters")
		}
	}
	return nil
}

// roomTypeRegex matches room type keys such as "bed" or "home_office".
var roomTypeRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateRoomType validates a room type key. Types outside the built-in set
// are accepted; they resolve to the generic fallback preset.
func ValidateRoomType(t string) error {
	if t == "" {
		return New(ErrCodeInvalidRoom, "room type cannot be empty")
	}
	if !roomTypeRegex.MatchString(t) {
		return New(ErrCodeInvalidRoom, "invalid room type: %q", t)
	}
	return nil
}

// ValidateDoorSpec validates a per-room door.
func ValidateDoorSpec(side string, width, offsetRatio float64) error {
	if err := ValidateEdge(side); err != nil {
		return err
	}
	if math.IsNaN(width) || width <= 0 {
		return New(ErrCodeInvalidDoor, "door width must be positive, got %g", width)
	}
	if math.IsNaN(offsetRatio) || offsetRatio < 0 || offsetRatio > 1 {
		return New(ErrCodeInvalidDoor, "door offset ratio must be within [0,1], got %g", offsetRatio)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
