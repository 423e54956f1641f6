package chart

import (
	"time"

	"github.com/matzehuels/stackchart/pkg/axis"
	"github.com/matzehuels/stackchart/pkg/canvas"
	"github.com/matzehuels/stackchart/pkg/frame"
	"github.com/matzehuels/stackchart/pkg/geom"
	"github.com/matzehuels/stackchart/pkg/series"
	"github.com/matzehuels/stackchart/pkg/visual"
)

// Snapshot captures the displayed state of the canvas. Layers are in
// z-order and carry the current, possibly mid-transition, geometry.
func (c *Chart) Snapshot() *frame.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	margin := c.DrawMargin()
	f := &frame.Frame{
		CreatedAt:  time.Now().UTC(),
		Width:      c.size.Width,
		Height:     c.size.Height,
		DrawMargin: toFrameRect(margin),
		Background: c.background,
		Axes:       []frame.Axis{c.frameAxis(c.x, margin), c.frameAxis(c.y, margin)},
	}

	owner := make(map[*canvas.PaintTask]string)
	for _, s := range c.series {
		for _, t := range s.Tasks() {
			owner[t] = s.Name
		}
	}
	for _, t := range c.canvas.Tasks() {
		layer := frame.Layer{
			Series:          owner[t],
			Kind:            string(t.Kind),
			Color:           t.Color,
			StrokeThickness: t.StrokeThickness,
			ZIndex:          t.ZIndex,
			Elements:        []frame.Element{},
		}
		for _, e := range t.Elements() {
			layer.Elements = append(layer.Elements, toFrameElement(e))
		}
		f.Layers = append(f.Layers, layer)
	}

	for _, s := range c.series {
		for _, ctx := range s.Contexts() {
			if !ctx.Hoverable {
				continue
			}
			f.Points = append(f.Points, frame.Point{
				Series: s.Name,
				Index:  ctx.Index,
				Value:  ctx.Value,
				Start:  ctx.Interval.Start,
				End:    ctx.Interval.End,
				Area:   toFrameRect(ctx.HoverArea),
			})
		}
	}
	return f
}

func (c *Chart) frameAxis(a *axis.Axis, margin geom.Rect) frame.Axis {
	b := a.DataBounds()
	sc := series.NewScaler(a, geom.Point{X: margin.X, Y: margin.Y}, geom.Size{Width: margin.Width, Height: margin.Height})
	out := frame.Axis{
		Name:        a.Name,
		Orientation: a.Orientation().String(),
		Min:         b.Min,
		Max:         b.Max,
	}
	for _, v := range a.Ticks(c.size) {
		out.Ticks = append(out.Ticks, frame.Tick{Value: v, Pixel: sc.ToPixels(v), Label: series.FormatValue(v)})
	}
	return out
}

func toFrameRect(r geom.Rect) frame.Rect {
	return frame.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func toFrameElement(e visual.Element) frame.Element {
	out := frame.Element{ID: e.ID(), Kind: string(e.Kind()), Exiting: e.RemoveOnCompleted()}
	switch v := e.(type) {
	case visual.Sized:
		r := v.Current()
		out.X, out.Y, out.Width, out.Height = r.X, r.Y, r.Width, r.Height
	case visual.TextElement:
		size := v.Measure()
		out.X, out.Y = v.X(), v.Y()
		out.Width, out.Height = size.Width, size.Height
		out.Text = v.Text()
		out.TextSize = v.TextSize()
	case visual.Positioned:
		out.X, out.Y = v.X(), v.Y()
	}
	return out
}
