// Package area checks whether a floor can hold the requested rooms: usable
// area (interior after exterior walls, less the void ratio) against the sum
// of per-kind minimum areas. The verdict is advisory.
package area

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// Efficiency thresholds, in percent.
const (
	LowEfficiency  = 60
	HighEfficiency = 90
)

// Usable returns the interior area after walls and circulation.
func Usable(floorW, floorH, voidRatio, thickness float64) float64 {
	w := math.Max(0, floorW-2*thickness)
	h := math.Max(0, floorH-2*thickness)
	return w * h * (1 - voidRatio)
}

// Validate computes the verdict for the given room counts. The breakdown
// lists built-in kinds first, then any other kinds in the catalogue's order.
func Validate(floorW, floorH float64, counts map[plan.Kind]int, voidRatio, thickness float64, cat *catalog.Catalog) plan.Verdict {
	usable := Usable(floorW, floorH, voidRatio, thickness)

	v := plan.Verdict{UsableArea: usable, Breakdown: []plan.TypeBreakdown{}}
	for _, k := range orderedKinds(counts, cat) {
		n := counts[k]
		if n <= 0 {
			continue
		}
		cfg := cat.Config(k)
		total := float64(n) * cfg.MinArea
		v.RequiredArea += total
		v.Breakdown = append(v.Breakdown, plan.TypeBreakdown{
			Type:           k,
			Label:          cfg.Label,
			Count:          n,
			MinAreaPerRoom: cfg.MinArea,
			TotalMinArea:   total,
		})
	}

	v.Shortage = math.Max(0, v.RequiredArea-usable)
	v.IsValid = v.Shortage == 0
	if usable > 0 {
		v.Efficiency = v.RequiredArea / usable * 100
	}
	return v
}

// ValidateRequest runs [Validate] for a request.
func ValidateRequest(req plan.Request, cat *catalog.Catalog) plan.Verdict {
	return Validate(req.Floor.Width, req.Floor.Height, req.Counts(), cat.VoidRatio(), req.Thickness(), cat)
}

// Advisories returns the efficiency warnings for a verdict.
func Advisories(v plan.Verdict) []string {
	if v.UsableArea <= 0 || v.RequiredArea <= 0 {
		return nil
	}
	switch {
	case v.Efficiency < LowEfficiency:
		return []string{fmt.Sprintf("Low utilization: rooms need only %.0f%% of the usable area", v.Efficiency)}
	case v.Efficiency > HighEfficiency:
		return []string{fmt.Sprintf("Rooms need %.0f%% of the usable area; circulation may be too tight", v.Efficiency)}
	}
	return nil
}

// Message summarizes a failing verdict for users, or returns "".
func Message(v plan.Verdict) string {
	if v.IsValid {
		return ""
	}
	return fmt.Sprintf("Rooms need %.1f m² but only %.1f m² is usable (short by %.1f m²)", v.RequiredArea, v.UsableArea, v.Shortage)
}

func orderedKinds(counts map[plan.Kind]int, cat *catalog.Catalog) []plan.Kind {
	kinds := cat.Kinds()
	seen := make(map[plan.Kind]bool, len(kinds))
	for _, k := range kinds {
		seen[k] = true
	}
	var extra []plan.Kind
	for k := range counts {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(kinds, extra...)
}
