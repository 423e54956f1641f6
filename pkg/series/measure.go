package series

import (
	"fmt"
	"math"

	"github.com/matzehuels/stackchart/pkg/anim"
	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/geom"
	"github.com/matzehuels/stackchart/pkg/visual"
)

// Layer offsets above the series' z-index.
const (
	fillZ   = 0.1
	strokeZ = 0.2
	labelZ  = 0.3
)

// Measure lays the series out for the current axis bounds.
//
// New bars enter from a zero-height bar at the pivot, changed bars animate
// to their new geometry and bars of null points shrink to the pivot and are
// removed once their animation completes. Every bar and label the pass
// produces is added to the canvas' measured set.
func (s *StackedColumn) Measure(p *Pass, secondary, primary Axis) error {
	if err := p.validate(); err != nil {
		return err
	}
	st, err := s.stacker(p)
	if err != nil {
		return fmt.Errorf("measure %s: %w", s.Name, err)
	}

	ss, ps := p.Scaler(secondary), p.Scaler(primary)

	uw := math.Abs(ss.UnitWidth())
	uwm := uw / 2
	pivot := ps.ToPixels(s.Pivot)

	cp := 0.0
	if p.Count > 1 {
		n := float64(p.Count)
		uw /= n
		uwm = uw / 2
		cp = (float64(p.Position)-n/2)*uw + uwm
	}

	maxWidth := s.MaxBarWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxBarWidth
	}
	if uw > maxWidth {
		uw = maxWidth
		uwm = uw / 2
	}

	z := s.EffectiveZIndex()
	if s.Fill != nil {
		s.Fill.ZIndex = z + fillZ
		p.Canvas.AddDrawableTask(s.Fill)
	}
	if s.Stroke != nil {
		s.Stroke.ZIndex = z + strokeZ
		p.Canvas.AddDrawableTask(s.Stroke)
	}
	labels := s.Labels
	if labels != nil && labels.Paint == nil {
		labels = nil
	}
	if labels != nil {
		labels.Paint.ZIndex = z + labelZ
		p.Canvas.AddDrawableTask(labels.Paint)
	}

	points := s.Fetch()
	for _, pt := range points {
		ctx := pt.Context
		x := ss.ToPixels(pt.Secondary) - uwm + cp

		if pt.IsNull {
			s.exit(ctx, x, pivot, uw)
			continue
		}

		shape := ctx.State.Shape
		if shape == nil {
			if shape, err = s.enter(p.Animation, x, pivot, uw); err != nil {
				return fmt.Errorf("measure %s point %d: %w", s.Name, pt.Index, err)
			}
			ctx.State.Shape = shape
		}
		// Paint tasks may have been swapped since the shape was created.
		if s.Fill != nil {
			s.Fill.AddGeometry(shape)
		}
		if s.Stroke != nil {
			s.Stroke.AddGeometry(shape)
		}

		iv := st.Stack(pt)
		pi, pj := ps.ToPixels(iv.Start), ps.ToPixels(iv.End)
		bar := geom.Rect{X: x, Y: math.Min(pi, pj), Width: uw, Height: math.Abs(pi - pj)}

		shape.SetX(bar.X)
		shape.SetY(bar.Y)
		shape.SetWidth(bar.Width)
		shape.SetHeight(bar.Height)
		shape.SetRemoveOnCompleted(false)

		ctx.HoverArea = bar
		ctx.Hoverable = true
		ctx.Value = pt.Primary
		ctx.Interval = iv
		p.Canvas.AddMeasured(shape)

		if labels == nil {
			continue
		}
		label := ctx.State.Label
		if label == nil {
			if label, err = s.enterLabel(p.Animation, x, pivot); err != nil {
				return fmt.Errorf("measure %s point %d: %w", s.Name, pt.Index, err)
			}
			ctx.State.Label = label
		}
		labels.Paint.AddGeometry(label)
		label.SetText(labels.format(pt))
		label.SetTextSize(labels.Size)
		label.SetPadding(labels.Padding)
		at := labelPosition(bar, label.Measure(), labels.Position, pt.Primary > s.Pivot)
		label.SetX(at.X)
		label.SetY(at.Y)
		label.SetRemoveOnCompleted(false)
		p.Canvas.AddMeasured(label)
	}

	for i, ctx := range s.contexts {
		if i < len(points) {
			continue
		}
		s.exit(ctx, ctx.HoverArea.X, pivot, uw)
		delete(s.contexts, i)
	}
	return nil
}

// enter creates the bar of a point appearing at x. The entry geometry is a
// zero-height bar on the pivot and is applied without animation.
func (s *StackedColumn) enter(profile anim.Profile, x, pivot, width float64) (visual.Sized, error) {
	factory := s.ShapeFactory
	if factory == nil {
		factory = visual.NewSized
	}
	shape := factory()
	if shape == nil {
		return nil, errors.Contract("shape factory returned nil")
	}
	shape.SetX(x)
	shape.SetY(pivot)
	shape.SetWidth(width)
	shape.SetHeight(0)
	SetDefaultTransitions(shape, profile)
	shape.CompleteAllTransitions()
	return shape, nil
}

func (s *StackedColumn) enterLabel(profile anim.Profile, x, pivot float64) (visual.TextElement, error) {
	var label visual.TextElement
	if s.LabelFactory != nil {
		label = s.LabelFactory()
	} else {
		label = visual.NewLabel(nil)
	}
	if label == nil {
		return nil, errors.Contract("label factory returned nil")
	}
	label.SetX(x)
	label.SetY(pivot)
	label.Transitionate(visual.PropX, visual.PropY).WithAnimation(profile)
	label.CompleteAllTransitions()
	return label, nil
}

// exit shrinks the point's bar onto the pivot, flags its elements for
// removal and clears its state.
func (s *StackedColumn) exit(ctx *PointContext, x, pivot, width float64) {
	if shape := ctx.State.Shape; shape != nil {
		shape.SetX(x)
		shape.SetY(pivot)
		shape.SetWidth(width)
		shape.SetHeight(0)
		shape.SetRemoveOnCompleted(true)
		ctx.State.Shape = nil
	}
	if label := ctx.State.Label; label != nil {
		label.SetY(pivot)
		label.SetRemoveOnCompleted(true)
		ctx.State.Label = nil
	}
	ctx.Hoverable = false
	ctx.HoverArea = geom.Rect{}
}

// SetDefaultTransitions registers the bar transitions: x and width follow
// the chart profile, y and height take half as long again with an elastic
// curve.
func SetDefaultTransitions(shape visual.Sized, profile anim.Profile) {
	shape.Transitionate(visual.PropX, visual.PropWidth).WithAnimation(profile)
	shape.Transitionate(visual.PropY, visual.PropHeight).
		WithAnimation(anim.Profile{Duration: profile.Scaled(yAnimationFactor).Duration, Easing: anim.Elastic})
}
