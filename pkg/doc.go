// Package pkg provides the core libraries for stackchart stacked column charts.
//
// # Overview
//
// Stackchart lays out column series that share a stack group on top of each
// other: positive values stack upwards from the pivot, negative values
// downwards, and each group gets its own slot inside a category. Every
// update is a two-phase pass over the chart:
//
//	chart description (TOML)
//	         ↓
//	    [config] package (parse, validate, build)
//	         ↓
//	    [chart] package (bounds phase → axes → measure phase)
//	         ↓
//	    [canvas] package (paint tasks, animated elements)
//	         ↓
//	    [frame] snapshot → [sink] SVG/PNG/JSON
//
// # Quick Start
//
//	north := series.NewStackedColumn("north", 3, 5, 2)
//	north.Fill = canvas.NewPaintTask(canvas.TaskFill, "#4e79a7")
//	south := series.NewStackedColumn("south", 1, series.Null(), 4)
//	south.Fill = canvas.NewPaintTask(canvas.TaskFill, "#f28e2b")
//
//	c := chart.New(chart.WithSize(600, 400))
//	_ = c.AddSeries(north)
//	_ = c.AddSeries(south)
//	if err := c.Update(ctx); err != nil {
//	    return err
//	}
//	c.CompleteAll()
//	svg := sink.RenderSVG(c.Snapshot(), sink.WithAxes())
//
// # Main Packages
//
// ## Layout Engine
//
// [series] - The stacked column series: bounds calculation, per-point
// measurement, hover areas and data labels.
//
// [stack] - Stackers that accumulate positive and negative running totals
// per stack group and index.
//
// [scale] - Linear mapping from data values to pixels along an axis.
//
// [axis] - Axes with data bounds, visible limits and nice tick steps.
//
// [anim] - Property transitions and easing functions.
//
// [visual], [canvas] - Drawable elements and the paint tasks that own them.
//
// [chart] - Ties series, axes and canvas together and runs update passes.
//
// ## Pipeline
//
// [pipeline] - parse → measure → render with caching, used by every CLI
// command and the chart server.
//
// [cache] - File and Redis caches for frames and rendered artifacts.
//
// [store] - MongoDB archive of measured frames.
//
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
//	go test ./pkg/...
package pkg
