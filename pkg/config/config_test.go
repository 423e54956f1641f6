package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/series"
)

const sample = `
width = 600
height = 400
animation_speed = "250ms"
easing = "cubic-out"

[x_axis]
name = "Quarter"

[y_axis]
name = "Revenue"
min = -10.0

[[series]]
name = "north"
values = [3, 5, 2]
fill = "#4e79a7"
stroke = "#000"

[[series]]
name = "south"
values = [1, 0, 4]
nulls = [1]
stack_group = "b"
z_index = 0.0
[series.labels]
position = "end"
format = "%.1f"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Width != 600 || cfg.Height != 400 {
		t.Errorf("size = %vx%v, want 600x400", cfg.Width, cfg.Height)
	}
	if cfg.AnimationSpeed.Duration != 250*time.Millisecond {
		t.Errorf("AnimationSpeed = %v, want 250ms", cfg.AnimationSpeed)
	}
	if got := len(cfg.Series); got != 2 {
		t.Fatalf("len(Series) = %d, want 2", got)
	}
	north, south := cfg.Series[0], cfg.Series[1]
	if north.StrokeThickness != 1 {
		t.Errorf("north StrokeThickness = %v, want default 1", north.StrokeThickness)
	}
	if south.Fill != DefaultPalette[1] {
		t.Errorf("south Fill = %q, want palette color %q", south.Fill, DefaultPalette[1])
	}
	if south.ZIndex == nil || *south.ZIndex != 0 {
		t.Errorf("south ZIndex = %v, want explicit 0", south.ZIndex)
	}
	if !south.Labels.IsEnabled() || south.Labels.Size != series.DefaultLabelSize {
		t.Errorf("south labels = %+v, want enabled with default size", south.Labels)
	}
	if cfg.YAxis.Min == nil || *cfg.YAxis.Min != -10 {
		t.Errorf("y_axis.min = %v, want -10", cfg.YAxis.Min)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		code errors.Code
	}{
		{"syntax", `width = `, errors.ErrCodeInvalidConfig},
		{"unknown key", "colour = 1\n[[series]]\nname = \"a\"\nvalues = [1]", errors.ErrCodeInvalidConfig},
		{"no series", `width = 10`, errors.ErrCodeInvalidConfig},
		{"bad easing", "easing = \"wobble\"\n[[series]]\nname = \"a\"\nvalues = [1]", errors.ErrCodeInvalidEasing},
		{"bad duration", "animation_speed = \"soon\"\n[[series]]\nname = \"a\"\nvalues = [1]", errors.ErrCodeInvalidConfig},
		{"duplicate", "[[series]]\nname = \"a\"\nvalues = [1]\n[[series]]\nname = \"a\"\nvalues = [2]", errors.ErrCodeInvalidConfig},
		{"null out of range", "[[series]]\nname = \"a\"\nvalues = [1]\nnulls = [3]", errors.ErrCodeInvalidConfig},
		{"bad color", "[[series]]\nname = \"a\"\nvalues = [1]\nfill = \"blue\"", errors.ErrCodeInvalidConfig},
		{"bad label position", "[[series]]\nname = \"a\"\nvalues = [1]\n[series.labels]\nposition = \"above\"", errors.ErrCodeInvalidLabelPosition},
		{"axis limits", "[y_axis]\nmin = 5.0\nmax = 1.0\n[[series]]\nname = \"a\"\nvalues = [1]", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLabelsDisabled(t *testing.T) {
	cfg, err := Parse([]byte("[[series]]\nname = \"a\"\nvalues = [1]\n[series.labels]\nenabled = false"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	s, err := cfg.Series[0].Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s.Labels != nil {
		t.Errorf("Labels = %+v, want nil", s.Labels)
	}
}

func TestBuild(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	ch, err := cfg.Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	ss := ch.Series()
	if len(ss) != 2 {
		t.Fatalf("len(Series()) = %d, want 2", len(ss))
	}
	south := ss[1]
	if !math.IsNaN(south.Values[1]) {
		t.Errorf("south.Values[1] = %v, want null", south.Values[1])
	}
	if south.Fill == nil || south.Stroke != nil || south.Labels == nil {
		t.Errorf("south paints: fill=%v stroke=%v labels=%v", south.Fill, south.Stroke, south.Labels)
	}
	if got := south.Labels.Formatter(&series.Point{Primary: 4}); got != "4.0" {
		t.Errorf("label format = %q, want %q", got, "4.0")
	}
	if ch.YAxis().Name != "Revenue" || ch.YAxis().MinLimit == nil {
		t.Errorf("y axis = %+v", ch.YAxis())
	}

	if err := ch.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := ch.YAxis().DataBounds().Min; got != -10 {
		t.Errorf("y min = %v, want pinned -10", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.toml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "missing.toml") {
		t.Errorf("Load(missing) error = %v, want path in message", err)
	}
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "quarterly.toml"))
	if err != nil {
		t.Fatalf("Load(example) error = %v", err)
	}
	ch, err := cfg.Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := len(ch.Series()); got != 4 {
		t.Errorf("len(Series()) = %d, want 4", got)
	}
	if err := ch.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := ch.YAxis().DataBounds().Min; got >= -4 {
		t.Errorf("y min = %v, want below the deepest return", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()) error = %v\n%s", err, data)
	}
	if again.AnimationSpeed != cfg.AnimationSpeed || len(again.Series) != 2 || again.Series[1].StackGroup != "b" {
		t.Errorf("round trip lost content:\n%s", data)
	}
}
