package pipeline

import (
	"fmt"

	"github.com/matzehuels/stackchart/pkg/frame"
	"github.com/matzehuels/stackchart/pkg/sink"
)

// Render generates output artifacts for f in the requested formats.
func Render(f *frame.Frame, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(f, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders f in a single format.
func RenderFormat(f *frame.Frame, format string, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = sink.RenderSVG(f, svgOptions(opts)...)
	case FormatPNG:
		data, err = sink.RenderPNG(f, pngOptions(opts)...)
	case FormatJSON:
		data, err = sink.RenderJSON(f)
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Axes {
		out = append(out, sink.WithAxes())
	}
	if opts.Grid {
		out = append(out, sink.WithGrid())
	}
	if opts.Tooltips {
		out = append(out, sink.WithTooltips())
	}
	return out
}

func pngOptions(opts Options) []sink.PNGOption {
	out := []sink.PNGOption{}
	if opts.Scale > 0 {
		out = append(out, sink.WithScale(opts.Scale))
	}
	if opts.Axes {
		out = append(out, sink.WithPNGAxes())
	}
	return out
}
