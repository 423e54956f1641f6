// Package sink renders measured frames.
//
// A "sink" turns a [frame.Frame] into an output format:
//
//   - SVG: vector output with hover highlighting and point tooltips
//   - PNG: raster output drawn with fogleman/gg
//   - JSON: the frame itself, for external tools and round trips
//
// Sinks draw the displayed geometry of the frame. Snapshot a chart after
// [chart.Chart.CompleteAll] to render final geometry, or between animation
// frames to render a transition in progress.
//
//	svg := sink.RenderSVG(f, sink.WithAxes(), sink.WithTooltips())
//	png, err := sink.RenderPNG(f, sink.WithScale(2))
package sink
