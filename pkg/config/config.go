// Package config loads chart descriptions from TOML.
//
// A description names the control size, the animation and the axes, then
// lists the series in measurement order:
//
//	width = 800
//	height = 450
//	easing = "exponential-out"
//	animation_speed = "800ms"
//
//	[y_axis]
//	name = "Revenue"
//
//	[[series]]
//	name = "north"
//	values = [3, 5, 2]
//	fill = "#4e79a7"
//
//	[[series]]
//	name = "south"
//	values = [1, 0, 4]
//	nulls = [1]
//	fill = "#f28e2b"
//	[series.labels]
//	position = "end"
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/stackchart/pkg/anim"
	"github.com/matzehuels/stackchart/pkg/axis"
	"github.com/matzehuels/stackchart/pkg/canvas"
	"github.com/matzehuels/stackchart/pkg/chart"
	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/geom"
	"github.com/matzehuels/stackchart/pkg/series"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultEasing     = "exponential-out"
	DefaultLabelColor = "#333333"
	DefaultBackground = "#ffffff"
)

// DefaultPalette colors series that do not set a fill.
var DefaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// =============================================================================
// Config Types
// =============================================================================

// Config describes one chart.
type Config struct {
	Width          float64   `toml:"width"`
	Height         float64   `toml:"height"`
	Padding        *Padding  `toml:"padding"`
	Background     string    `toml:"background"`
	AnimationSpeed Duration  `toml:"animation_speed"`
	Easing         string    `toml:"easing"`
	XAxis          AxisSpec  `toml:"x_axis"`
	YAxis          AxisSpec  `toml:"y_axis"`
	Series         []*Series `toml:"series"`
}

// Padding is the space around the draw margin in pixels.
type Padding struct {
	Top    float64 `toml:"top"`
	Right  float64 `toml:"right"`
	Bottom float64 `toml:"bottom"`
	Left   float64 `toml:"left"`
}

// AxisSpec configures one axis.
type AxisSpec struct {
	Name        string   `toml:"name"`
	Inverted    bool     `toml:"inverted"`
	Min         *float64 `toml:"min"`
	Max         *float64 `toml:"max"`
	TickSpacing float64  `toml:"tick_spacing"`
}

// Series configures one stacked column series.
type Series struct {
	Name            string    `toml:"name"`
	Values          []float64 `toml:"values"`
	Nulls           []int     `toml:"nulls"`
	StackGroup      string    `toml:"stack_group"`
	Fill            string    `toml:"fill"`
	Stroke          string    `toml:"stroke"`
	StrokeThickness float64   `toml:"stroke_thickness"`
	MaxBarWidth     float64   `toml:"max_bar_width"`
	Pivot           float64   `toml:"pivot"`
	ZIndex          *float64  `toml:"z_index"`
	Labels          *Labels   `toml:"labels"`
}

// Labels configures the data labels of a series.
type Labels struct {
	Enabled  *bool   `toml:"enabled"`
	Size     float64 `toml:"size"`
	Padding  float64 `toml:"padding"`
	Position string  `toml:"position"`
	Color    string  `toml:"color"`
	// Format is a printf verb applied to the value, e.g. "%.1f%%".
	Format string `toml:"format"`
}

// IsEnabled reports whether labels are switched on. A [series.labels]
// table without an explicit enabled key enables them.
func (l *Labels) IsEnabled() bool {
	return l != nil && (l.Enabled == nil || *l.Enabled)
}

// Duration is a time.Duration read from a string such as "800ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads and parses a chart description file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a chart description, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse chart description")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode chart description: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Defaults and Validation
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (c *Config) SetDefaults() {
	if c.Width == 0 {
		c.Width = chart.DefaultWidth
	}
	if c.Height == 0 {
		c.Height = chart.DefaultHeight
	}
	if c.Padding == nil {
		p := chart.DefaultPadding
		c.Padding = &Padding{Top: p.Top, Right: p.Right, Bottom: p.Bottom, Left: p.Left}
	}
	if c.Background == "" {
		c.Background = DefaultBackground
	}
	if c.AnimationSpeed.Duration == 0 {
		c.AnimationSpeed.Duration = chart.DefaultAnimationSpeed
	}
	if c.Easing == "" {
		c.Easing = DefaultEasing
	}
	for i, s := range c.Series {
		if s.Fill == "" {
			s.Fill = DefaultPalette[i%len(DefaultPalette)]
		}
		if s.MaxBarWidth == 0 {
			s.MaxBarWidth = series.DefaultMaxBarWidth
		}
		if s.Stroke != "" && s.StrokeThickness == 0 {
			s.StrokeThickness = 1
		}
		if l := s.Labels; l != nil {
			if l.Size == 0 {
				l.Size = series.DefaultLabelSize
			}
			if l.Padding == 0 {
				l.Padding = series.DefaultLabelPadding
			}
			if l.Position == "" {
				l.Position = string(series.LabelMiddle)
			}
			if l.Color == "" {
				l.Color = DefaultLabelColor
			}
		}
	}
}

// Validate checks the description for errors a chart cannot recover from.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart size must be positive, got %vx%v", c.Width, c.Height)
	}
	if c.AnimationSpeed.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation_speed cannot be negative")
	}
	if _, err := anim.EasingByName(c.Easing); err != nil {
		return err
	}
	if err := errors.ValidateColor(c.Background); err != nil {
		return err
	}
	for _, a := range []AxisSpec{c.XAxis, c.YAxis} {
		if a.Min != nil && a.Max != nil && *a.Min >= *a.Max {
			return errors.New(errors.ErrCodeInvalidConfig, "axis %q: min %v must be below max %v", a.Name, *a.Min, *a.Max)
		}
	}
	if len(c.Series) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one [[series]] is required")
	}
	seen := make(map[string]bool, len(c.Series))
	for _, s := range c.Series {
		if err := s.validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate series name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

func (s *Series) validate() error {
	if err := errors.ValidateSeriesName(s.Name); err != nil {
		return err
	}
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "series %q: values must be finite; list missing points in nulls", s.Name)
		}
	}
	for _, i := range s.Nulls {
		if i < 0 || i >= len(s.Values) {
			return errors.New(errors.ErrCodeInvalidConfig, "series %q: null index %d out of range [0, %d)", s.Name, i, len(s.Values))
		}
	}
	for _, color := range []string{s.Fill, s.Stroke} {
		if err := errors.ValidateColor(color); err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
	}
	if s.StrokeThickness < 0 || s.MaxBarWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "series %q: widths cannot be negative", s.Name)
	}
	if l := s.Labels; l != nil {
		if _, err := series.ParseLabelPosition(l.Position); err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		if err := errors.ValidateColor(l.Color); err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		if l.Size < 0 || l.Padding < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "series %q: label size and padding cannot be negative", s.Name)
		}
	}
	return nil
}

// =============================================================================
// Building
// =============================================================================

// Build creates a chart from the description. The chart logs to logger,
// which may be nil.
func (c *Config) Build(logger *log.Logger) (*chart.Chart, error) {
	c.SetDefaults()
	easing, err := anim.EasingByName(c.Easing)
	if err != nil {
		return nil, err
	}
	x := c.XAxis.build(geom.Horizontal)
	y := c.YAxis.build(geom.Vertical)

	ch := chart.New(
		chart.WithSize(c.Width, c.Height),
		chart.WithPadding(geom.Padding{Top: c.Padding.Top, Right: c.Padding.Right, Bottom: c.Padding.Bottom, Left: c.Padding.Left}),
		chart.WithAnimation(anim.Profile{Duration: c.AnimationSpeed.Duration, Easing: easing}),
		chart.WithAxes(x, y),
		chart.WithBackground(c.Background),
		chart.WithLogger(logger),
	)
	for _, s := range c.Series {
		col, err := s.Build()
		if err != nil {
			return nil, err
		}
		if err := ch.AddSeries(col); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

func (a AxisSpec) build(o geom.Orientation) *axis.Axis {
	ax := axis.New(o)
	ax.Name = a.Name
	ax.Inverted = a.Inverted
	ax.MinLimit, ax.MaxLimit = a.Min, a.Max
	ax.TickSpacing = a.TickSpacing
	return ax
}

// Build creates the series. Indexes listed in Nulls become null points.
func (s *Series) Build() (*series.StackedColumn, error) {
	values := slices.Clone(s.Values)
	for _, i := range s.Nulls {
		if i < 0 || i >= len(values) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "series %q: null index %d out of range", s.Name, i)
		}
		values[i] = series.Null()
	}

	col := series.NewStackedColumn(s.Name, values...)
	col.StackGroup = s.StackGroup
	col.MaxBarWidth = s.MaxBarWidth
	col.Pivot = s.Pivot
	col.ZIndex = s.ZIndex
	if s.Fill != "" {
		col.Fill = canvas.NewPaintTask(canvas.TaskFill, s.Fill)
	}
	if s.Stroke != "" {
		col.Stroke = canvas.NewPaintTask(canvas.TaskStroke, s.Stroke)
		col.Stroke.StrokeThickness = s.StrokeThickness
	}
	if l := s.Labels; l.IsEnabled() {
		pos, err := series.ParseLabelPosition(l.Position)
		if err != nil {
			return nil, err
		}
		labels := series.NewDataLabels(canvas.NewPaintTask(canvas.TaskText, l.Color))
		labels.Size = l.Size
		labels.Padding = geom.Padding{Top: l.Padding, Right: l.Padding, Bottom: l.Padding, Left: l.Padding}
		labels.Position = pos
		if l.Format != "" {
			labels.Formatter = printfFormatter(l.Format)
		}
		col.Labels = labels
	}
	return col, nil
}

func printfFormatter(format string) func(*series.Point) string {
	p := message.NewPrinter(language.English)
	return func(pt *series.Point) string { return p.Sprintf(format, pt.Primary) }
}
