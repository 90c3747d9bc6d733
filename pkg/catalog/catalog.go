// Package catalog resolves per-kind room presets (target area, aspect ratio,
// colour, label) from a catalogue resource, falling back to a built-in table
// whenever the resource is unavailable or silent about a kind.
//
// # Overview
//
//   - [Document]: the catalogue resource as stored (JSON, TOML, YAML, BSON)
//   - [Catalog]: an immutable, resolved snapshot handed to the engine
//   - [Provider]: loads a [Source] at most once and shares the in-flight load
//
// A nil *Catalog is valid and behaves as the fallback table, so callers never
// need to branch on whether loading succeeded.
package catalog

import (
	"slices"
	"strings"

	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// DefaultVoidRatio is the share of interior area reserved for circulation
// when the catalogue does not set one.
const DefaultVoidRatio = 0.15

// =============================================================================
// Document - Catalogue Resource Format
// =============================================================================

// Document is the catalogue resource.
type Document struct {
	Version           string      `json:"version" toml:"version" yaml:"version" bson:"version"`
	Unit              string      `json:"unit,omitempty" toml:"unit" yaml:"unit,omitempty" bson:"unit,omitempty"`
	VoidRatio         *float64    `json:"void_ratio,omitempty" toml:"void_ratio" yaml:"void_ratio,omitempty" bson:"void_ratio,omitempty"`
	Rooms             []Entry     `json:"rooms" toml:"rooms" yaml:"rooms" bson:"rooms"`
	DefaultAllocation *Allocation `json:"default_allocation,omitempty" toml:"default_allocation" yaml:"default_allocation,omitempty" bson:"default_allocation,omitempty"`
}

// Entry is the catalogue record for one room kind.
type Entry struct {
	Type    plan.Kind `json:"type" toml:"type" yaml:"type" bson:"type"`
	Label   string    `json:"label" toml:"label" yaml:"label" bson:"label"`
	Area    AreaRange `json:"area" toml:"area" yaml:"area" bson:"area"`
	Color   string    `json:"color" toml:"color" yaml:"color" bson:"color"`
	Aspect  float64   `json:"aspect,omitempty" toml:"aspect" yaml:"aspect,omitempty" bson:"aspect,omitempty"`
	Presets []Preset  `json:"presets,omitempty" toml:"presets" yaml:"presets,omitempty" bson:"presets,omitempty"`
}

// AreaRange bounds a room's floor area in square meters.
type AreaRange struct {
	Min float64 `json:"min" toml:"min" yaml:"min" bson:"min"`
	Max float64 `json:"max" toml:"max" yaml:"max" bson:"max"`
}

// Preset is a canned room size.
type Preset struct {
	W    float64 `json:"w" toml:"w" yaml:"w" bson:"w"`
	H    float64 `json:"h" toml:"h" yaml:"h" bson:"h"`
	Area float64 `json:"area" toml:"area" yaml:"area" bson:"area"`
}

// Allocation is a named default room list.
type Allocation struct {
	Name  string      `json:"name" toml:"name" yaml:"name" bson:"name"`
	Rooms []plan.Kind `json:"rooms" toml:"rooms" yaml:"rooms" bson:"rooms"`
}

// =============================================================================
// Resolved configuration
// =============================================================================

// RoomConfig is the resolved sizing and styling for one kind.
type RoomConfig struct {
	Area        float64 // target area used for sizing (the catalogue minimum)
	AspectRatio float64
	Color       string
	Label       string
	MinArea     float64
	MaxArea     float64
	Presets     []Preset
	Fallback    bool // true when no catalogue entry was used
}

type fallbackEntry struct {
	area   float64
	aspect float64
	color  string
	label  string
}

// fallbackFor is the built-in table. Every kind in plan.Kinds has a case.
func fallbackFor(k plan.Kind) (fallbackEntry, bool) {
	switch k {
	case plan.KindLiving:
		return fallbackEntry{20, 1.4, "#F5D6A1", "Living room"}, true
	case plan.KindKitchen:
		return fallbackEntry{10, 1.3, "#A7D7C5", "Kitchen"}, true
	case plan.KindBed:
		return fallbackEntry{12, 1.2, "#B5C7F0", "Bedroom"}, true
	case plan.KindWC:
		return fallbackEntry{4, 1.0, "#9ED2E6", "WC"}, true
	}
	return fallbackEntry{10, 1.2, "#CCCCCC", string(k)}, false
}

// FallbackConfig returns the built-in configuration for k.
func FallbackConfig(k plan.Kind) RoomConfig {
	f, _ := fallbackFor(k)
	return RoomConfig{
		Area:        f.area,
		AspectRatio: f.aspect,
		Color:       f.color,
		Label:       f.label,
		MinArea:     f.area,
		MaxArea:     f.area,
		Fallback:    true,
	}
}

// =============================================================================
// Catalog - Resolved Snapshot
// =============================================================================

// Catalog is an immutable snapshot of a loaded catalogue.
type Catalog struct {
	version    string
	source     string
	digest     string
	doc        *Document
	voidRatio  float64
	entries    map[plan.Kind]Entry
	allocation *Allocation
}

// New resolves a document into a catalogue snapshot. A nil document yields
// the fallback catalogue.
func New(doc *Document, source string) *Catalog {
	c := &Catalog{source: source, voidRatio: DefaultVoidRatio, entries: map[plan.Kind]Entry{}}
	if doc == nil {
		return c
	}
	c.version = doc.Version
	c.doc = doc
	if h, err := cache.HashJSON(doc); err == nil {
		c.digest = h
	}
	if doc.VoidRatio != nil && *doc.VoidRatio >= 0 && *doc.VoidRatio < 1 {
		c.voidRatio = *doc.VoidRatio
	}
	for _, e := range doc.Rooms {
		if _, dup := c.entries[e.Type]; !dup {
			c.entries[e.Type] = e
		}
	}
	c.allocation = doc.DefaultAllocation
	return c
}

// Fallback returns a catalogue with no entries.
func Fallback() *Catalog {
	return New(nil, "fallback")
}

// FallbackDocument renders the built-in table as a document so that callers
// can publish the presets the fallback catalogue resolves to.
func FallbackDocument() *Document {
	ratio := DefaultVoidRatio
	doc := &Document{Version: "fallback", Unit: "m2", VoidRatio: &ratio}
	for _, k := range plan.Kinds {
		f, _ := fallbackFor(k)
		doc.Rooms = append(doc.Rooms, Entry{
			Type:   k,
			Label:  f.label,
			Area:   AreaRange{Min: f.area, Max: f.area},
			Color:  f.color,
			Aspect: f.aspect,
		})
	}
	return doc
}

// Config resolves the configuration for a kind: the catalogue entry when
// present, otherwise the fallback table.
func (c *Catalog) Config(k plan.Kind) RoomConfig {
	if c == nil {
		return FallbackConfig(k)
	}
	e, ok := c.entries[k]
	if !ok {
		return FallbackConfig(k)
	}

	fb, _ := fallbackFor(k)
	cfg := RoomConfig{
		Area:        e.Area.Min,
		AspectRatio: e.Aspect,
		Color:       normalizeColor(e.Color),
		Label:       e.Label,
		MinArea:     e.Area.Min,
		MaxArea:     e.Area.Max,
		Presets:     append([]Preset(nil), e.Presets...),
	}
	if cfg.Area <= 0 {
		cfg.Area, cfg.MinArea = fb.area, fb.area
	}
	if cfg.MaxArea < cfg.MinArea {
		cfg.MaxArea = cfg.MinArea
	}
	if cfg.AspectRatio <= 0 {
		cfg.AspectRatio = fb.aspect
	}
	if cfg.Color == "" {
		cfg.Color = fb.color
	}
	if cfg.Label == "" {
		cfg.Label = fb.label
	}
	return cfg
}

// normalizeColor prefixes a missing '#'.
func normalizeColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" || strings.HasPrefix(c, "#") {
		return c
	}
	return "#" + c
}

// MinArea returns the minimum area for a kind.
func (c *Catalog) MinArea(k plan.Kind) float64 { return c.Config(k).MinArea }

// Label returns the display name for a kind.
func (c *Catalog) Label(k plan.Kind) string { return c.Config(k).Label }

// VoidRatio returns the circulation share of interior area.
func (c *Catalog) VoidRatio() float64 {
	if c == nil {
		return DefaultVoidRatio
	}
	return c.voidRatio
}

// Digest returns the content hash of the resolved document, or "fallback".
// Two documents with the same version but different presets differ here.
func (c *Catalog) Digest() string {
	if c == nil || c.digest == "" {
		return "fallback"
	}
	return c.digest
}

// Document returns the document the snapshot was built from, or nil for the
// fallback catalogue. Callers must not modify it.
func (c *Catalog) Document() *Document {
	if c == nil {
		return nil
	}
	return c.doc
}

// IsFallback reports whether the catalogue has no entries.
func (c *Catalog) IsFallback() bool { return c == nil || len(c.entries) == 0 }

// Version returns the document version, or "fallback".
func (c *Catalog) Version() string {
	if c == nil || c.version == "" {
		return "fallback"
	}
	return c.version
}

// Source describes where the snapshot came from.
func (c *Catalog) Source() string {
	if c == nil {
		return "fallback"
	}
	return c.source
}

// DefaultAllocation returns the named default room list, if any.
func (c *Catalog) DefaultAllocation() (Allocation, bool) {
	if c == nil || c.allocation == nil || len(c.allocation.Rooms) == 0 {
		return Allocation{}, false
	}
	a := *c.allocation
	a.Rooms = append([]plan.Kind(nil), a.Rooms...)
	return a, true
}

// Kinds returns the built-in kinds followed by any extra catalogue kinds,
// in a stable order.
func (c *Catalog) Kinds() []plan.Kind {
	kinds := append([]plan.Kind(nil), plan.Kinds...)
	if c == nil {
		return kinds
	}
	var extra []plan.Kind
	for k := range c.entries {
		if !k.Known() {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(kinds, extra...)
}
