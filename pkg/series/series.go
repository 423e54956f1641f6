// Package series implements the stacked column series: the bounds it
// contributes to its axes and the measurement pass that lays its bars out.
//
// A [StackedColumn] owns one [PointContext] per value index. The context
// outlives a single pass: it holds the bar and label elements created for
// the point (its [State]) and the hover rectangle of the last pass. The
// chart drives every pass through [StackedColumn.Bounds] and then
// [StackedColumn.Measure], handing both a [Pass] that carries the draw
// margin, the canvas and the chart's stacker registry.
package series

import (
	"math"
	"slices"

	"github.com/matzehuels/stackchart/pkg/anim"
	"github.com/matzehuels/stackchart/pkg/axis"
	"github.com/matzehuels/stackchart/pkg/canvas"
	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/geom"
	"github.com/matzehuels/stackchart/pkg/scale"
	"github.com/matzehuels/stackchart/pkg/stack"
	"github.com/matzehuels/stackchart/pkg/visual"
)

const (
	// DefaultMaxBarWidth caps the pixel width of a bar.
	DefaultMaxBarWidth = 50.0

	// yAnimationFactor stretches the duration of the vertical transitions.
	yAnimationFactor = 1.5
)

// Axis is what a series reads from an axis during a pass.
type Axis interface {
	Orientation() geom.Orientation
	IsInverted() bool
	DataBounds() geom.Bounds
	Tick(control geom.Size, b geom.Bounds) axis.Tick
}

var _ Axis = (*axis.Axis)(nil)

// Null marks a missing value in [StackedColumn.Values].
func Null() float64 { return math.NaN() }

// Point is one fetched data point of a pass.
type Point struct {
	Index     int
	Secondary float64
	Primary   float64
	IsNull    bool

	Series  *StackedColumn
	Context *PointContext
}

func (p *Point) SecondaryValue() float64 { return p.Secondary }
func (p *Point) PrimaryValue() float64   { return p.Primary }

var _ stack.Point = (*Point)(nil)

// State is the visual state of a point: at most one bar and one label.
type State struct {
	Shape visual.Sized
	Label visual.TextElement
}

// PointContext is the identity of a value index across passes.
type PointContext struct {
	Index int

	State State

	// HoverArea is the bar geometry of the last pass; Hoverable is false
	// while the point is null.
	HoverArea geom.Rect
	Hoverable bool

	// Value and Interval are the primary value and stack interval of the
	// last pass.
	Value    float64
	Interval stack.Interval
}

// StackedColumn is a vertical bar series whose values stack on top of the
// other series of its stack group.
type StackedColumn struct {
	Name   string
	Values []float64

	// StackGroup selects the series this one stacks with. The empty group
	// is shared by every series that does not name one.
	StackGroup string

	// Fill and Stroke paint the bars; either may be nil.
	Fill, Stroke *canvas.PaintTask

	MaxBarWidth float64
	Pivot       float64

	// ZIndex orders the series' layers. Nil falls back to the order in
	// which the series joined the chart.
	ZIndex *float64

	// Labels enables data labels when non-nil with a paint task.
	Labels *DataLabels

	// ShapeFactory and LabelFactory create the elements of new points.
	ShapeFactory func() visual.Sized
	LabelFactory func() visual.TextElement

	id       int
	contexts map[int]*PointContext
}

// NewStackedColumn creates a series with default settings.
func NewStackedColumn(name string, values ...float64) *StackedColumn {
	return &StackedColumn{
		Name:        name,
		Values:      values,
		MaxBarWidth: DefaultMaxBarWidth,
	}
}

// ID returns the generation id assigned by the chart.
func (s *StackedColumn) ID() int { return s.id }

// SetID assigns the generation id. The chart calls it once, when the
// series joins.
func (s *StackedColumn) SetID(id int) { s.id = id }

// EffectiveZIndex returns ZIndex or, when unset, the generation id.
func (s *StackedColumn) EffectiveZIndex() float64 {
	if s.ZIndex != nil {
		return *s.ZIndex
	}
	return float64(s.id)
}

// Tasks returns the paint tasks the series registers on the canvas.
func (s *StackedColumn) Tasks() []*canvas.PaintTask {
	var out []*canvas.PaintTask
	for _, t := range []*canvas.PaintTask{s.Fill, s.Stroke, s.labelTask()} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Context returns the context of value index i, or nil when the index has
// never been fetched.
func (s *StackedColumn) Context(i int) *PointContext {
	return s.contexts[i]
}

// Contexts returns the live contexts ordered by index.
func (s *StackedColumn) Contexts() []*PointContext {
	out := make([]*PointContext, 0, len(s.contexts))
	for _, c := range s.contexts {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *PointContext) int { return a.Index - b.Index })
	return out
}

// Fetch derives the points of the current pass from Values. Every call
// returns fresh points bound to the persistent contexts.
func (s *StackedColumn) Fetch() []*Point {
	if s.contexts == nil {
		s.contexts = make(map[int]*PointContext)
	}
	points := make([]*Point, len(s.Values))
	for i, v := range s.Values {
		ctx, ok := s.contexts[i]
		if !ok {
			ctx = &PointContext{Index: i}
			s.contexts[i] = ctx
		}
		points[i] = &Point{
			Index:     i,
			Secondary: float64(i),
			Primary:   v,
			IsNull:    math.IsNaN(v),
			Series:    s,
			Context:   ctx,
		}
	}
	return points
}

// Pass is the chart state a series reads during one update.
type Pass struct {
	DrawOrigin  geom.Point
	DrawSize    geom.Size
	ControlSize geom.Size

	Canvas   *canvas.Canvas
	Stackers *stack.Registry

	// Position is the index of the series' stack group among the stacked
	// column groups of the chart; Count is the number of such groups.
	Position, Count int

	// Animation is the chart's transition profile.
	Animation anim.Profile
}

// Scaler builds the scaler of a for the pass' draw margin.
func (p *Pass) Scaler(a Axis) scale.Scaler {
	return NewScaler(a, p.DrawOrigin, p.DrawSize)
}

// NewScaler builds the scaler of a over the draw margin at origin.
// Vertical axes grow upwards on screen unless inverted.
func NewScaler(a Axis, origin geom.Point, size geom.Size) scale.Scaler {
	flip := a.IsInverted() != (a.Orientation() == geom.Vertical)
	return scale.New(origin, size, a.Orientation(), a.DataBounds(), flip)
}

func (p *Pass) validate() error {
	if p == nil {
		return errors.Contract("nil pass")
	}
	if p.Canvas == nil {
		return errors.Contract("pass without canvas")
	}
	if p.Stackers == nil {
		return errors.Contract("pass without stacker registry")
	}
	return nil
}

// stacker resolves and enters the series' stacker.
func (s *StackedColumn) stacker(p *Pass) (*stack.Stacker, error) {
	st, err := p.Stackers.Lookup(s.StackGroup)
	if err != nil {
		return nil, err
	}
	if err := st.Enter(s.Name); err != nil {
		return nil, err
	}
	return st, nil
}
