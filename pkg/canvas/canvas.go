// Package canvas keeps the paint tasks of a chart and animates their
// elements.
//
// A [PaintTask] is one paint layer (a fill, a stroke or a text style) with
// a z-index and the ordered elements it paints. The [Canvas] is the set of
// tasks registered by series, plus the "measured" set of the current pass:
// elements that were produced or touched by the last measurement. Elements
// left out of that set are stale and get purged after the pass.
package canvas

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/stackchart/pkg/visual"
)

// TaskKind is what a paint task does with its elements.
type TaskKind string

const (
	TaskFill   TaskKind = "fill"
	TaskStroke TaskKind = "stroke"
	TaskText   TaskKind = "text"
)

// PaintTask is a paint layer and the elements it paints.
type PaintTask struct {
	Kind            TaskKind
	Color           string
	StrokeThickness float64

	// ZIndex orders tasks on the canvas; higher paints later.
	ZIndex float64

	elements []visual.Element
	index    map[string]int
}

// NewPaintTask creates an empty task.
func NewPaintTask(kind TaskKind, color string) *PaintTask {
	return &PaintTask{Kind: kind, Color: color, index: make(map[string]int)}
}

// AddGeometry adds e to the task. Adding the same element twice is a no-op.
func (t *PaintTask) AddGeometry(e visual.Element) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, ok := t.index[e.ID()]; ok {
		return
	}
	t.index[e.ID()] = len(t.elements)
	t.elements = append(t.elements, e)
}

// RemoveGeometry drops e from the task.
func (t *PaintTask) RemoveGeometry(e visual.Element) {
	if _, ok := t.index[e.ID()]; !ok {
		return
	}
	t.elements = slices.DeleteFunc(t.elements, func(x visual.Element) bool { return x.ID() == e.ID() })
	t.reindex()
}

// Elements returns the task's elements in insertion order.
func (t *PaintTask) Elements() []visual.Element { return slices.Clone(t.elements) }

// Len returns the number of elements.
func (t *PaintTask) Len() int { return len(t.elements) }

func (t *PaintTask) reindex() {
	clear(t.index)
	for i, e := range t.elements {
		t.index[e.ID()] = i
	}
}

// Canvas is the drawable state of one chart.
//
// Canvas is not safe for concurrent use; the chart serializes access.
type Canvas struct {
	tasks    []*PaintTask
	measured map[string]visual.Element
}

// New creates an empty canvas.
func New() *Canvas {
	return &Canvas{measured: make(map[string]visual.Element)}
}

// AddDrawableTask registers t. Registering the same task again is a no-op.
func (c *Canvas) AddDrawableTask(t *PaintTask) {
	if t == nil || slices.Contains(c.tasks, t) {
		return
	}
	c.tasks = append(c.tasks, t)
}

// RemoveDrawableTask unregisters t.
func (c *Canvas) RemoveDrawableTask(t *PaintTask) {
	c.tasks = slices.DeleteFunc(c.tasks, func(x *PaintTask) bool { return x == t })
}

// Tasks returns the registered tasks ordered by z-index; ties keep
// registration order.
func (c *Canvas) Tasks() []*PaintTask {
	out := slices.Clone(c.tasks)
	slices.SortStableFunc(out, func(a, b *PaintTask) int { return cmp.Compare(a.ZIndex, b.ZIndex) })
	return out
}

// BeginPass clears the measured set.
func (c *Canvas) BeginPass() {
	clear(c.measured)
}

// AddMeasured records that e was produced by the current pass.
func (c *Canvas) AddMeasured(e visual.Element) {
	c.measured[e.ID()] = e
}

// IsMeasured reports whether e is in the current measured set.
func (c *Canvas) IsMeasured(e visual.Element) bool {
	_, ok := c.measured[e.ID()]
	return ok
}

// Measured returns the measured elements of the current pass.
func (c *Canvas) Measured() []visual.Element {
	out := make([]visual.Element, 0, len(c.measured))
	for _, t := range c.Tasks() {
		for _, e := range t.elements {
			if _, ok := c.measured[e.ID()]; ok && !slices.ContainsFunc(out, func(x visual.Element) bool { return x.ID() == e.ID() }) {
				out = append(out, e)
			}
		}
	}
	return out
}

// Purge drops every element that the current pass did not measure and that
// is not already exiting, then unregisters tasks left empty by series that
// are gone. It returns the number of elements removed.
func (c *Canvas) Purge(live func(*PaintTask) bool) int {
	removed := 0
	for _, t := range c.tasks {
		before := len(t.elements)
		t.elements = slices.DeleteFunc(t.elements, func(e visual.Element) bool {
			return !c.IsMeasured(e) && !e.RemoveOnCompleted()
		})
		if len(t.elements) != before {
			removed += before - len(t.elements)
			t.reindex()
		}
	}
	if live != nil {
		c.tasks = slices.DeleteFunc(c.tasks, func(t *PaintTask) bool { return !live(t) })
	}
	return removed
}

// Advance runs one animation frame at now. Elements flagged
// RemoveOnCompleted leave their tasks once at rest. It reports whether
// every element is at rest.
func (c *Canvas) Advance(now time.Time) bool {
	done := true
	for _, t := range c.tasks {
		changed := false
		for _, e := range t.elements {
			if !e.Advance(now) {
				done = false
			}
		}
		t.elements = slices.DeleteFunc(t.elements, func(e visual.Element) bool {
			if e.RemoveOnCompleted() && e.IsCompleted() {
				changed = true
				return true
			}
			return false
		})
		if changed {
			t.reindex()
		}
	}
	return done
}

// CompleteAll snaps every element to its target and applies pending
// removals.
func (c *Canvas) CompleteAll() {
	for _, t := range c.tasks {
		for _, e := range t.elements {
			e.CompleteAllTransitions()
		}
	}
	c.Advance(time.Time{})
}
