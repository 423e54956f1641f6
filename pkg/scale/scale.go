// Package scale maps data-space values onto pixel coordinates along one axis.
//
// A [Scaler] is built once per measurement pass from the axis' current data
// bounds and the chart's draw margin. It is a plain value: copying it is
// cheap and it never changes after construction.
//
//	s := scale.New(origin, size, geom.Vertical, geom.Bounds{Min: 0, Max: 10}, true)
//	y := s.ToPixels(4)
package scale

import "github.com/matzehuels/stackchart/pkg/geom"

// Scaler is a linear data-to-pixel transform.
type Scaler struct {
	origin   float64 // pixel coordinate that min maps to (max when inverted)
	size     float64 // pixel length of the draw margin along the axis
	min, max float64
	inverted bool
}

// New builds a Scaler for an axis with orientation o.
// Horizontal axes use origin.X and size.Width, vertical axes origin.Y and
// size.Height. When inverted is set, b.Max maps to the origin instead of b.Min.
func New(origin geom.Point, size geom.Size, o geom.Orientation, b geom.Bounds, inverted bool) Scaler {
	s := Scaler{min: b.Min, max: b.Max, inverted: inverted}
	if o == geom.Vertical {
		s.origin, s.size = origin.Y, size.Height
	} else {
		s.origin, s.size = origin.X, size.Width
	}
	return s
}

// Degenerate reports whether the bounds have zero span.
func (s Scaler) Degenerate() bool { return s.max == s.min }

// ToPixels maps a data value to a pixel coordinate.
// Values outside the bounds extrapolate linearly. Zero-span bounds map every
// value to the middle of the draw margin.
func (s Scaler) ToPixels(v float64) float64 {
	if s.Degenerate() {
		return s.origin + s.size/2
	}
	t := (v - s.min) / (s.max - s.min)
	if s.inverted {
		t = 1 - t
	}
	return s.origin + t*s.size
}

// ToData is the inverse of ToPixels. Zero-span bounds return the bound value.
func (s Scaler) ToData(px float64) float64 {
	if s.Degenerate() || s.size == 0 {
		return s.min
	}
	t := (px - s.origin) / s.size
	if s.inverted {
		t = 1 - t
	}
	return s.min + t*(s.max-s.min)
}

// UnitWidth returns the pixel length of one data unit; negative when the
// axis runs against the pixel direction.
func (s Scaler) UnitWidth() float64 {
	return s.ToPixels(1) - s.ToPixels(0)
}
