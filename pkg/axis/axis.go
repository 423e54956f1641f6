// Package axis provides the Cartesian axis the layout engine reads from.
//
// During a chart update the bounds phase writes each axis' data bounds once;
// the measurement pass that follows only reads them. Tick steps are "nice"
// numbers (1, 2 or 5 times a power of ten) picked so that the ticks fit the
// control size.
package axis

import (
	"math"

	"github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/stackchart/pkg/geom"
)

const (
	// DefaultHorizontalSpacing is the minimum pixel distance between ticks
	// on a horizontal axis.
	DefaultHorizontalSpacing = 40.0

	// DefaultVerticalSpacing is the minimum pixel distance between ticks
	// on a vertical axis.
	DefaultVerticalSpacing = 30.0
)

// niceSteps are the mantissas of a tick level; level l has step
// niceSteps[l mod 3] * 10^(l div 3).
var niceSteps = [3]float64{1, 2, 5}

// Tick describes the spacing of axis ticks in data units.
type Tick struct {
	Value float64
}

// Axis is one axis of a Cartesian chart.
type Axis struct {
	// Name labels the axis in rendered output.
	Name string

	// Inverted flips the axis so its maximum sits at the draw-margin origin.
	Inverted bool

	// MinLimit and MaxLimit pin the visible range when set.
	MinLimit, MaxLimit *float64

	// TickSpacing overrides the minimum pixel distance between ticks.
	TickSpacing float64

	orientation geom.Orientation
	dataBounds  geom.Bounds
}

// New creates an axis with the given orientation and empty data bounds.
func New(o geom.Orientation) *Axis {
	return &Axis{orientation: o, dataBounds: geom.EmptyBounds()}
}

// Orientation returns whether the axis spans the draw margin horizontally or
// vertically.
func (a *Axis) Orientation() geom.Orientation { return a.orientation }

// IsInverted reports whether the axis is flipped.
func (a *Axis) IsInverted() bool { return a.Inverted }

// SetDataBounds records the bounds computed by the bounds phase.
func (a *Axis) SetDataBounds(b geom.Bounds) { a.dataBounds = b }

// DataBounds returns the visible data range: the recorded bounds with
// MinLimit/MaxLimit applied. An axis without data reports [0, 0].
func (a *Axis) DataBounds() geom.Bounds {
	b := a.dataBounds
	if b.IsEmpty() {
		b = geom.Bounds{}
	}
	if a.MinLimit != nil {
		b.Min = *a.MinLimit
	}
	if a.MaxLimit != nil {
		b.Max = *a.MaxLimit
	}
	return b
}

// Tick returns the tick step for bounds b on a control of the given size.
func (a *Axis) Tick(control geom.Size, b geom.Bounds) Tick {
	length := control.Width
	spacing := DefaultHorizontalSpacing
	if a.orientation == geom.Vertical {
		length = control.Height
		spacing = DefaultVerticalSpacing
	}
	if a.TickSpacing > 0 {
		spacing = a.TickSpacing
	}
	maxTicks := int(math.Floor(length / spacing))
	if maxTicks < 2 {
		maxTicks = 2
	}
	return Tick{Value: niceStep(b, maxTicks)}
}

// Ticks returns the tick values inside the current data bounds.
func (a *Axis) Ticks(control geom.Size) []float64 {
	b := a.DataBounds()
	step := a.Tick(control, b).Value
	if step <= 0 || b.Span() == 0 {
		return []float64{b.Min}
	}
	var out []float64
	for v := math.Ceil(b.Min/step) * step; v <= b.Max+step*1e-9; v += step {
		out = append(out, v)
	}
	return out
}

// niceStep finds the smallest 1/2/5 step whose tick count over b stays
// within maxTicks.
func niceStep(b geom.Bounds, maxTicks int) float64 {
	if b.IsEmpty() {
		return 1
	}
	span := b.Span()
	if span == 0 {
		if b.Max == 0 {
			return 1
		}
		return math.Pow(10, math.Floor(math.Log10(math.Abs(b.Max))))
	}

	guess := 3 * int(math.Floor(math.Log10(span/float64(maxTicks))))
	opts := scale.TickOptions{Max: maxTicks}
	level, ok := opts.FindLevel(ticker{b: b}, guess)
	if !ok {
		return span / float64(maxTicks)
	}
	return levelStep(level)
}

// ticker enumerates the 1/2/5 tick levels over a bounds for
// scale.TickOptions.FindLevel.
type ticker struct{ b geom.Bounds }

func (t ticker) CountTicks(level int) int {
	step := levelStep(level)
	return int(math.Floor(t.b.Max/step)-math.Ceil(t.b.Min/step)) + 1
}

func (t ticker) TicksAtLevel(level int) interface{} {
	step := levelStep(level)
	var out []float64
	for v := math.Ceil(t.b.Min/step) * step; v <= t.b.Max; v += step {
		out = append(out, v)
	}
	return out
}

var _ scale.Ticker = ticker{}

// levelStep returns the tick step of a level.
func levelStep(level int) float64 {
	m := ((level % 3) + 3) % 3
	exp := (level - m) / 3
	return niceSteps[m] * math.Pow(10, float64(exp))
}
