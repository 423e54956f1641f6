// Package geom defines the small value types shared by the chart engine:
// points, sizes, rectangles in pixel space and data-space bounds.
//
// All pixel coordinates use a top-left origin with Y growing downward, the
// same convention as SVG and the raster sinks.
package geom

import "math"

// Orientation tells which draw-margin dimension an axis spans.
type Orientation int

const (
	// Horizontal axes map data onto the X coordinate.
	Horizontal Orientation = iota
	// Vertical axes map data onto the Y coordinate.
	Vertical
)

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Point is a location in pixel space.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in pixel space.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle in pixel space.
// Width is never negative; Height may be zero for entering or exiting bars.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Padding is the space between the control edge and the draw margin.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns the sum of the left and right padding.
func (p Padding) Horizontal() float64 { return p.Left + p.Right }

// Vertical returns the sum of the top and bottom padding.
func (p Padding) Vertical() float64 { return p.Top + p.Bottom }

// Bounds is a closed data-space interval.
// The zero value is a degenerate interval at 0; use EmptyBounds for an
// interval that absorbs the first value passed to Extend.
type Bounds struct {
	Min, Max float64
}

// EmptyBounds returns an interval that contains nothing.
func EmptyBounds() Bounds {
	return Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
}

// IsEmpty reports whether b contains no value.
func (b Bounds) IsEmpty() bool { return b.Min > b.Max }

// Span returns Max - Min, or 0 for an empty interval.
func (b Bounds) Span() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max - b.Min
}

// Extend returns b grown to include v.
func (b Bounds) Extend(v float64) Bounds {
	if v < b.Min {
		b.Min = v
	}
	if v > b.Max {
		b.Max = v
	}
	return b
}

// Union returns the smallest interval containing both a and b.
func (b Bounds) Union(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// DimensionalBounds pairs the bounds of the two axes a series plots against.
type DimensionalBounds struct {
	Secondary Bounds
	Primary   Bounds
}

// EmptyDimensionalBounds returns bounds that absorb the first union.
func EmptyDimensionalBounds() DimensionalBounds {
	return DimensionalBounds{Secondary: EmptyBounds(), Primary: EmptyBounds()}
}
