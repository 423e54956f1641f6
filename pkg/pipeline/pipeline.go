// Package pipeline provides the render pipeline for stackchart.
//
// This package implements the complete parse → measure → render pipeline
// used by the CLI commands and the chart server, so every entry point
// caches, measures and renders the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode and validate the TOML chart description
//  2. Measure: Build the chart, run an update pass and snapshot the frame
//  3. Render: Generate output in the requested formats (SVG, PNG, JSON)
//
// Frames and artifacts are cached by the content hash of the description;
// frames can also be archived in a [store.Store].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "chart.toml",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackchart/pkg/cache"
	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/frame"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// DefaultScale is the default PNG scale factor.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Parse options. Data takes precedence over Path.
	Path string `json:"path,omitempty"`
	Data []byte `json:"-"`

	// Measure options
	Live    bool `json:"live,omitempty"`    // snapshot before transitions complete
	Refresh bool `json:"refresh,omitempty"` // bypass cached frames and artifacts

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Axes     bool     `json:"axes,omitempty"`
	Grid     bool     `json:"grid,omitempty"`
	Tooltips bool     `json:"tooltips,omitempty"`

	// Archive saves the frame to the runner's store.
	Archive bool `json:"archive,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ConfigHash is the content hash of the chart description.
	ConfigHash string

	// Frame is the measured chart; Frame.Key is its cache and archive key.
	Frame *frame.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Archived reports whether the frame was saved to the store.
	Archived bool

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SeriesCount int
	PointCount  int
	Elements    int
	ParseTime   time.Duration
	MeasureTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FrameHit  bool // Whether the frame came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" && len(o.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "path or data is required")
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering an
// already measured frame.
func (o *Options) ValidateForRender() error {
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Source names the description for logs and hooks.
func (o *Options) Source() string {
	if o.Path != "" {
		return o.Path
	}
	return "<inline>"
}

// FrameKeyOpts returns cache key options for the measured frame.
func (o *Options) FrameKeyOpts(width, height float64) cache.FrameKeyOpts {
	return cache.FrameKeyOpts{Width: width, Height: height, Settled: !o.Live}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Axes: o.Axes}
	switch format {
	case FormatSVG:
		k.Grid = o.Grid
		k.Tooltip = o.Tooltips
	case FormatPNG:
		k.Scale = o.Scale
	case FormatJSON:
		k.Axes = false
	}
	return k
}
