package vellum

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// NodeID is the opaque identifier of a node. IDs are unique for the lifetime
// of a document and are never reused.
type NodeID string

// NoParent is the parent id of root-level nodes.
const NoParent NodeID = ""

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Color is an RGB color with components in [0, 1]. Transparency is carried
// separately by Appearance.Opacity.
type Color struct {
	R, G, B float64
}

// Common colors.
var (
	ColorBlack = Color{0, 0, 0}
	ColorWhite = Color{1, 1, 1}
)

// ParseColor parses a "#rrggbb" or "#rgb" hex string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}.quantize(), nil
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c Color) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// quantize clamps and rounds each channel to 8 bits, the precision a hex
// string carries, so stored colors survive a snapshot round trip exactly.
func (c Color) quantize() Color {
	q := func(v float64) float64 { return math.Round(clamp01(v)*255) / 255 }
	return Color{q(c.R), q(c.G), q(c.B)}
}

// MarshalText encodes the color as a hex string so snapshots and config
// files stay human readable.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a hex string.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// NodeKind distinguishes the four document node types.
type NodeKind uint8

const (
	KindGroup NodeKind = iota // container compositing its children
	KindShape                 // vector primitive with fill and stroke
	KindImage                 // raster asset placed in a box
	KindText                  // text content laid out in a box
)

var kindNames = [...]string{"group", "shape", "image", "text"}

// String implements fmt.Stringer.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// ParseNodeKind converts a kind name ("group", "shape", "image", "text").
func ParseNodeKind(s string) (NodeKind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return NodeKind(i), nil
		}
	}
	return 0, fmt.Errorf("vellum: unknown node kind %q", s)
}

// IsValid reports whether k is one of the defined kinds.
func (k NodeKind) IsValid() bool { return int(k) < len(kindNames) }

// MarshalText encodes the kind by name.
func (k NodeKind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("vellum: invalid node kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *NodeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
