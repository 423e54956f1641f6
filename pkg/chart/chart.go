// Package chart orchestrates updates of a Cartesian chart of stacked
// column series.
//
// [Chart.Update] runs one pass: the bounds phase collects each series'
// bounds and writes them to the axes, then every series measures itself
// against the new bounds, and finally elements the pass did not produce are
// purged from the canvas. Passes are serialized by a per-chart mutex;
// animation frames ([Chart.Advance]) take the same lock so they never
// interleave with a pass.
package chart

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackchart/pkg/anim"
	"github.com/matzehuels/stackchart/pkg/axis"
	"github.com/matzehuels/stackchart/pkg/canvas"
	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/geom"
	"github.com/matzehuels/stackchart/pkg/observability"
	"github.com/matzehuels/stackchart/pkg/series"
	"github.com/matzehuels/stackchart/pkg/stack"
)

const (
	DefaultWidth  = 800.0
	DefaultHeight = 450.0

	// DefaultAnimationSpeed is the duration of the chart transitions.
	DefaultAnimationSpeed = 800 * time.Millisecond
)

// DefaultPadding leaves room for axis ticks and labels.
var DefaultPadding = geom.Padding{Top: 20, Right: 20, Bottom: 40, Left: 60}

// Chart is a Cartesian chart of stacked column series.
type Chart struct {
	mu sync.Mutex

	size       geom.Size
	padding    geom.Padding
	animation  anim.Profile
	background string

	x, y     *axis.Axis
	series   []*series.StackedColumn
	nextID   int
	canvas   *canvas.Canvas
	stackers *stack.Registry
	logger   *log.Logger

	passes int
}

// Option configures a Chart.
type Option func(*Chart)

// WithSize sets the control size.
func WithSize(width, height float64) Option {
	return func(c *Chart) { c.size = geom.Size{Width: width, Height: height} }
}

// WithPadding sets the space between the control edge and the draw margin.
func WithPadding(p geom.Padding) Option { return func(c *Chart) { c.padding = p } }

// WithAnimation sets the transition profile of the chart.
func WithAnimation(p anim.Profile) Option { return func(c *Chart) { c.animation = p } }

// WithAxes replaces the default axes.
func WithAxes(x, y *axis.Axis) Option {
	return func(c *Chart) {
		if x != nil {
			c.x = x
		}
		if y != nil {
			c.y = y
		}
	}
}

// WithBackground sets the background color written to frames.
func WithBackground(color string) Option { return func(c *Chart) { c.background = color } }

// WithLogger sets the logger for pass diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Chart) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty chart.
func New(opts ...Option) *Chart {
	c := &Chart{
		size:      geom.Size{Width: DefaultWidth, Height: DefaultHeight},
		padding:   DefaultPadding,
		animation: anim.Profile{Duration: DefaultAnimationSpeed, Easing: anim.ExponentialOut},
		x:         axis.New(geom.Horizontal),
		y:         axis.New(geom.Vertical),
		canvas:    canvas.New(),
		stackers:  stack.NewRegistry(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddSeries appends s. Series names must be unique; they identify the
// series inside its stack group.
func (c *Chart) AddSeries(s *series.StackedColumn) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil series")
	}
	if err := errors.ValidateSeriesName(s.Name); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.find(s.Name) != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "duplicate series name %q", s.Name)
	}
	c.nextID++
	s.SetID(c.nextID)
	c.series = append(c.series, s)
	return nil
}

// RemoveSeries drops the series called name. Its elements leave the canvas
// on the next update.
func (c *Chart) RemoveSeries(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.series)
	c.series = slices.DeleteFunc(c.series, func(s *series.StackedColumn) bool { return s.Name == name })
	return len(c.series) != n
}

// Series returns the series in measurement order.
func (c *Chart) Series() []*series.StackedColumn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.series)
}

// Edit runs fn on the series called name while holding the chart lock.
func (c *Chart) Edit(name string, fn func(*series.StackedColumn)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.find(name)
	if s == nil {
		return errors.New(errors.ErrCodeNotFound, "series %q not found", name)
	}
	fn(s)
	return nil
}

func (c *Chart) find(name string) *series.StackedColumn {
	for _, s := range c.series {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Size returns the control size.
func (c *Chart) Size() geom.Size { return c.size }

// XAxis returns the secondary axis.
func (c *Chart) XAxis() *axis.Axis { return c.x }

// YAxis returns the primary axis.
func (c *Chart) YAxis() *axis.Axis { return c.y }

// Canvas returns the chart canvas. Callers must not use it concurrently
// with Update or Advance.
func (c *Chart) Canvas() *canvas.Canvas { return c.canvas }

// DrawMargin returns the plot rectangle: the control minus its padding.
func (c *Chart) DrawMargin() geom.Rect {
	w := max(c.size.Width-c.padding.Horizontal(), 0)
	h := max(c.size.Height-c.padding.Vertical(), 0)
	return geom.Rect{X: c.padding.Left, Y: c.padding.Top, Width: w, Height: h}
}

// Update runs one bounds and measurement pass. The context is only checked
// before the pass starts; a started pass always runs to completion.
func (c *Chart) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	hooks := observability.Chart()
	hooks.OnUpdateStart(ctx, len(c.series), c.pointCount())

	err := c.update()
	measured := len(c.canvas.Measured())
	hooks.OnUpdateComplete(ctx, measured, time.Since(start), err)
	if err != nil {
		c.logger.Error("update failed", "pass", c.passes, "err", err)
		return err
	}
	c.logger.Debug("update complete",
		"pass", c.passes,
		"series", len(c.series),
		"measured", measured,
		"duration", time.Since(start))
	return nil
}

func (c *Chart) update() error {
	c.passes++
	groups, position := c.groups()
	if rebuilt := c.stackers.Begin(groups); rebuilt > 0 {
		c.logger.Debug("stackers rebuilt", "groups", len(groups), "rebuilt", rebuilt)
	}

	margin := c.DrawMargin()
	pass := &series.Pass{
		DrawOrigin:  geom.Point{X: margin.X, Y: margin.Y},
		DrawSize:    geom.Size{Width: margin.Width, Height: margin.Height},
		ControlSize: c.size,
		Canvas:      c.canvas,
		Stackers:    c.stackers,
		Count:       len(groups),
		Animation:   c.animation,
	}

	bounds := geom.EmptyDimensionalBounds()
	for _, s := range c.series {
		pass.Position = position[s.StackGroup]
		b, err := s.Bounds(pass, c.x, c.y)
		if err != nil {
			return fmt.Errorf("bounds phase: %w", err)
		}
		bounds.Secondary = bounds.Secondary.Union(b.Secondary)
		bounds.Primary = bounds.Primary.Union(b.Primary)
	}
	c.x.SetDataBounds(bounds.Secondary)
	c.y.SetDataBounds(bounds.Primary)
	c.stackers.Reset()

	c.canvas.BeginPass()
	for _, s := range c.series {
		pass.Position = position[s.StackGroup]
		if err := s.Measure(pass, c.x, c.y); err != nil {
			return fmt.Errorf("measure phase: %w", err)
		}
	}

	if n := c.canvas.Purge(c.ownsTask); n > 0 {
		c.logger.Debug("purged stale elements", "count", n)
	}
	return nil
}

// groups returns the stack memberships in series order and the position of
// every group among them.
func (c *Chart) groups() ([]stack.Membership, map[string]int) {
	position := make(map[string]int)
	var groups []stack.Membership
	for _, s := range c.series {
		i, ok := position[s.StackGroup]
		if !ok {
			i = len(groups)
			position[s.StackGroup] = i
			groups = append(groups, stack.Membership{Group: s.StackGroup})
		}
		groups[i].Series = append(groups[i].Series, s.Name)
	}
	return groups, position
}

func (c *Chart) ownsTask(t *canvas.PaintTask) bool {
	for _, s := range c.series {
		if slices.Contains(s.Tasks(), t) {
			return true
		}
	}
	return false
}

func (c *Chart) pointCount() int {
	n := 0
	for _, s := range c.series {
		n += len(s.Values)
	}
	return n
}

// Advance runs one animation frame at now and reports whether the canvas
// is at rest.
func (c *Chart) Advance(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canvas.Advance(now)
}

// CompleteAll snaps every running transition to its target.
func (c *Chart) CompleteAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canvas.CompleteAll()
}

// Hit is a point under the cursor.
type Hit struct {
	Series string
	Index  int
	Value  float64
	Area   geom.Rect
}

// HitTest returns the points whose last hover rectangle contains pt, in
// series order.
func (c *Chart) HitTest(pt geom.Point) []Hit {
	c.mu.Lock()
	defer c.mu.Unlock()
	var hits []Hit
	for _, s := range c.series {
		for _, ctx := range s.Contexts() {
			if ctx.Hoverable && ctx.HoverArea.Contains(pt) {
				hits = append(hits, Hit{Series: s.Name, Index: ctx.Index, Value: ctx.Value, Area: ctx.HoverArea})
			}
		}
	}
	return hits
}
