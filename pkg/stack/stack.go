// Package stack accumulates running totals for stacked series.
//
// A [Stacker] belongs to one stack group of one chart. During a measurement
// pass every series of the group feeds its points through the same Stacker,
// in the group's fixed series order, and receives the [Interval] each point
// occupies on top of the points measured before it. Positive and negative
// values grow away from zero independently, so a negative segment never
// eats into the positive column at the same category.
//
// Stackers outlive a single pass: the [Registry] keeps one per group,
// rebuilds it when the group's membership changes and resets its totals at
// the start of every pass.
package stack

import (
	"slices"

	"github.com/matzehuels/stackchart/pkg/errors"
)

// Point is what a Stacker needs from a data point.
type Point interface {
	// SecondaryValue is the category key the point stacks at.
	SecondaryValue() float64
	// PrimaryValue is the amount the point adds to the running total.
	PrimaryValue() float64
}

// Interval is the data-space span a point occupies on the primary axis.
// Start is the edge nearer the baseline; End is Start plus the point's value,
// so End < Start for negative values.
type Interval struct {
	Start, End float64
}

// Length returns the absolute size of the interval.
func (i Interval) Length() float64 {
	if i.End < i.Start {
		return i.Start - i.End
	}
	return i.End - i.Start
}

// totals holds the running sums of one category.
type totals struct {
	positive float64
	negative float64
}

// Stacker holds per-category running totals for one stack group.
type Stacker struct {
	group   string
	members []string
	cursor  int
	totals  map[float64]*totals
}

// New creates a stacker for group whose series measure in members order.
func New(group string, members []string) *Stacker {
	return &Stacker{
		group:   group,
		members: slices.Clone(members),
		totals:  make(map[float64]*totals),
	}
}

// Group returns the stack group key.
func (s *Stacker) Group() string { return s.group }

// Members returns the series ids of the group in stacking order.
func (s *Stacker) Members() []string { return slices.Clone(s.members) }

// Reset clears all running totals and rewinds the series order check.
func (s *Stacker) Reset() {
	clear(s.totals)
	s.cursor = 0
}

// Enter announces that seriesID is about to stack its points. Series must
// enter in membership order once per pass; anything else means the caller
// measured the group out of order and the resulting offsets would be wrong.
func (s *Stacker) Enter(seriesID string) error {
	if s.cursor >= len(s.members) {
		return errors.Contract("series %q entered stack group %q after all %d members", seriesID, s.group, len(s.members))
	}
	if want := s.members[s.cursor]; want != seriesID {
		return errors.Contract("series %q entered stack group %q out of order (expected %q)", seriesID, s.group, want)
	}
	s.cursor++
	return nil
}

// Stack adds p to its category's running total and returns the interval p
// occupies. Zero values stack on the positive side and yield an empty
// interval at the current positive total.
func (s *Stacker) Stack(p Point) Interval {
	key, v := p.SecondaryValue(), p.PrimaryValue()
	t, ok := s.totals[key]
	if !ok {
		t = &totals{}
		s.totals[key] = t
	}

	if v < 0 {
		start := t.negative
		t.negative += v
		return Interval{Start: start, End: t.negative}
	}
	start := t.positive
	t.positive += v
	return Interval{Start: start, End: t.positive}
}

// Totals returns the positive and negative running totals at key.
func (s *Stacker) Totals(key float64) (positive, negative float64) {
	if t, ok := s.totals[key]; ok {
		return t.positive, t.negative
	}
	return 0, 0
}
