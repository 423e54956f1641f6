package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/stackchart/pkg/frame"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
	axes  bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGAxes draws axis lines and tick labels.
func WithPNGAxes() PNGOption { return func(r *pngRenderer) { r.axes = true } }

// RenderPNG rasterizes the frame.
func RenderPNG(f *frame.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("render png: empty frame %vx%v", f.Width, f.Height)
	}

	dc := gg.NewContext(int(f.Width*r.scale+0.5), int(f.Height*r.scale+0.5))
	dc.Scale(r.scale, r.scale)
	if f.Background != "" {
		dc.SetHexColor(f.Background)
		dc.Clear()
	}
	dc.SetFontFace(basicfont.Face7x13)

	for _, l := range f.Layers {
		drawLayer(dc, l)
	}
	if r.axes {
		drawAxes(dc, f)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLayer(dc *gg.Context, l frame.Layer) {
	if l.Color == "" {
		return
	}
	dc.SetHexColor(l.Color)
	for _, e := range l.Elements {
		switch l.Kind {
		case "fill":
			dc.DrawRectangle(e.X, e.Y, e.Width, e.Height)
			dc.Fill()
		case "stroke":
			dc.SetLineWidth(l.StrokeThickness)
			dc.DrawRectangle(e.X, e.Y, e.Width, e.Height)
			dc.Stroke()
		case "text":
			dc.DrawStringAnchored(e.Text, e.X, e.Y, 0.5, 0.5)
		}
	}
}

func drawAxes(dc *gg.Context, f *frame.Frame) {
	m := f.DrawMargin
	dc.SetHexColor("#666666")
	dc.SetLineWidth(1)
	dc.DrawLine(m.X, m.Y+m.Height, m.X+m.Width, m.Y+m.Height)
	dc.DrawLine(m.X, m.Y, m.X, m.Y+m.Height)
	dc.Stroke()
	for _, a := range f.Axes {
		for _, t := range a.Ticks {
			if a.Orientation == "vertical" {
				dc.DrawStringAnchored(t.Label, m.X-6, t.Pixel, 1, 0.5)
			} else {
				dc.DrawStringAnchored(t.Label, t.Pixel, m.Y+m.Height+6, 0.5, 1)
			}
		}
	}
}
