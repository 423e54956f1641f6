package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/stackchart/pkg/frame"
)

const fontFamily = `-apple-system, "Segoe UI", Helvetica, Arial, sans-serif`

const barInteractionCSS = `
    .bar { transition: opacity 0.2s ease; }
    .chart:hover .bar { opacity: 0.6; }
    .chart .bar:hover { opacity: 1; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	axes     bool
	tooltips bool
	grid     bool
}

// WithAxes draws the axis lines, ticks and tick labels.
func WithAxes() SVGOption { return func(r *svgRenderer) { r.axes = true } }

// WithGrid draws horizontal grid lines at the primary ticks.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

// WithTooltips adds a tooltip with series, index and value to every bar.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// RenderSVG renders the frame as an SVG document.
func RenderSVG(f *frame.Frame, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", barInteractionCSS)
	if f.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", f.Background)
	}

	if r.grid {
		renderGrid(&buf, f)
	}

	buf.WriteString(`  <g class="chart">` + "\n")
	tips := tooltipIndex(f, r.tooltips)
	for _, l := range f.Layers {
		renderLayer(&buf, l, tips)
	}
	buf.WriteString("  </g>\n")

	if r.axes {
		renderAxes(&buf, f)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// tooltipIndex maps bar geometry to its point. Bars and points are matched
// by series and rectangle since a frame stores them separately.
func tooltipIndex(f *frame.Frame, enabled bool) map[tipKey]frame.Point {
	if !enabled {
		return nil
	}
	idx := make(map[tipKey]frame.Point, len(f.Points))
	for _, p := range f.Points {
		idx[tipKey{p.Series, p.Area}] = p
	}
	return idx
}

type tipKey struct {
	series string
	area   frame.Rect
}

func renderLayer(buf *bytes.Buffer, l frame.Layer, tips map[tipKey]frame.Point) {
	fmt.Fprintf(buf, `    <g class="layer %s" data-series="%s">`+"\n", l.Kind, escapeXML(l.Series))
	for _, e := range l.Elements {
		switch l.Kind {
		case "fill":
			fmt.Fprintf(buf, `      <rect id="bar-%s" class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"`,
				e.ID, e.X, e.Y, e.Width, e.Height, l.Color)
			renderTooltip(buf, l.Series, e, tips)
		case "stroke":
			fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.1f"/>`+"\n",
				e.X, e.Y, e.Width, e.Height, l.Color, l.StrokeThickness)
		case "text":
			fmt.Fprintf(buf, `      <text id="label-%s" x="%.2f" y="%.2f" font-family='%s' font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
				e.ID, e.X, e.Y, fontFamily, e.TextSize, l.Color, escapeXML(e.Text))
		}
	}
	buf.WriteString("    </g>\n")
}

func renderTooltip(buf *bytes.Buffer, series string, e frame.Element, tips map[tipKey]frame.Point) {
	p, ok := tips[tipKey{series, frame.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}}]
	if !ok {
		buf.WriteString("/>\n")
		return
	}
	fmt.Fprintf(buf, "><title>%s[%d] = %g</title></rect>\n", escapeXML(series), p.Index, p.Value)
}

func renderGrid(buf *bytes.Buffer, f *frame.Frame) {
	m := f.DrawMargin
	for _, a := range f.Axes {
		if a.Orientation != "vertical" {
			continue
		}
		for _, t := range a.Ticks {
			fmt.Fprintf(buf, `  <line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#e5e5e5" stroke-width="1"/>`+"\n",
				m.X, t.Pixel, m.X+m.Width, t.Pixel)
		}
	}
}

func renderAxes(buf *bytes.Buffer, f *frame.Frame) {
	m := f.DrawMargin
	buf.WriteString(`  <g class="axes" stroke="#666666" stroke-width="1">` + "\n")
	fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", m.X, m.Y+m.Height, m.X+m.Width, m.Y+m.Height)
	fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", m.X, m.Y, m.X, m.Y+m.Height)
	buf.WriteString("  </g>\n")

	for _, a := range f.Axes {
		vertical := a.Orientation == "vertical"
		for _, t := range a.Ticks {
			if vertical {
				fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family='%s' font-size="11" fill="#666666" text-anchor="end" dominant-baseline="central">%s</text>`+"\n",
					m.X-6, t.Pixel, fontFamily, escapeXML(t.Label))
				continue
			}
			fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family='%s' font-size="11" fill="#666666" text-anchor="middle" dominant-baseline="hanging">%s</text>`+"\n",
				t.Pixel, m.Y+m.Height+6, fontFamily, escapeXML(t.Label))
		}
		if a.Name == "" {
			continue
		}
		if vertical {
			cx, cy := m.X-44, m.Y+m.Height/2
			fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family='%s' font-size="12" fill="#333333" text-anchor="middle" transform="rotate(-90 %.2f %.2f)">%s</text>`+"\n",
				cx, cy, fontFamily, cx, cy, escapeXML(a.Name))
			continue
		}
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family='%s' font-size="12" fill="#333333" text-anchor="middle">%s</text>`+"\n",
			m.X+m.Width/2, f.Height-6, fontFamily, escapeXML(a.Name))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
