package engine

import (
	"math"

	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// Size is a room's working size before placement.
type Size struct {
	ID     string
	Type   plan.Kind
	Target float64 // unscaled catalogue target area
	Area   float64 // scaled area, at least MinSide²
	W, H   float64
}

// ComputeSizes scales every room's target area by one common factor so the
// total fits the usable area, then derives width and height from the kind's
// aspect ratio, clamped to the usable rectangle. Rooms only ever shrink: the
// returned scale is at most 1.
func ComputeSizes(rooms []plan.RoomRequest, usableW, usableH, voidRatio float64, cat *catalog.Catalog) ([]Size, float64) {
	usableArea := usableW * usableH * (1 - voidRatio)

	sizes := make([]Size, len(rooms))
	targetSum := 0.0
	for i, r := range rooms {
		cfg := cat.Config(r.Type)
		sizes[i] = Size{ID: r.ID, Type: r.Type, Target: cfg.Area}
		targetSum += cfg.Area
	}
	if targetSum <= 0 {
		targetSum = 1
	}
	scale := math.Min(1, usableArea/targetSum)
	if scale < 0 {
		scale = 0
	}

	for i := range sizes {
		s := &sizes[i]
		aspect := cat.Config(s.Type).AspectRatio
		s.Area = math.Max(MinSide*MinSide, s.Target*scale)
		s.W = math.Sqrt(s.Area * aspect)
		s.H = s.Area / s.W
		if s.W > usableW && usableW > 0 {
			s.W = usableW
			s.H = s.Area / s.W
		}
		if s.H > usableH && usableH > 0 {
			s.H = usableH
			s.W = s.Area / s.H
		}
		s.W = math.Min(s.W, usableW)
		s.H = math.Min(s.H, usableH)
	}
	return sizes, scale
}

// TargetSum returns the unscaled target area of rooms.
func TargetSum(rooms []plan.RoomRequest, cat *catalog.Catalog) float64 {
	sum := 0.0
	for _, r := range rooms {
		sum += cat.Config(r.Type).Area
	}
	return sum
}
