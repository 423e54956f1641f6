// Package frame is the serialization format of a measured chart.
//
// A [Frame] is a snapshot of the canvas after a chart update: the paint
// layers in z-order with the geometry of their elements, the axes with
// their visible bounds and ticks, and the hover rectangles of every
// hoverable point. Sinks render frames; the store archives them.
package frame

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Frame is a measured chart.
type Frame struct {
	Key       string    `json:"key,omitempty" bson:"_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Control size and draw margin
	Width      float64 `json:"width" bson:"width"`
	Height     float64 `json:"height" bson:"height"`
	DrawMargin Rect    `json:"draw_margin" bson:"draw_margin"`
	Background string  `json:"background,omitempty" bson:"background,omitempty"`

	Axes   []Axis  `json:"axes" bson:"axes"`
	Layers []Layer `json:"layers" bson:"layers"`
	Points []Point `json:"points,omitempty" bson:"points,omitempty"`
}

// Rect is a pixel rectangle.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Contains reports whether (x, y) lies in r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Axis is an axis with its visible bounds.
type Axis struct {
	Name        string  `json:"name,omitempty" bson:"name,omitempty"`
	Orientation string  `json:"orientation" bson:"orientation"`
	Min         float64 `json:"min" bson:"min"`
	Max         float64 `json:"max" bson:"max"`
	Ticks       []Tick  `json:"ticks,omitempty" bson:"ticks,omitempty"`
}

// Tick is an axis tick at a data value and its pixel coordinate.
type Tick struct {
	Value float64 `json:"value" bson:"value"`
	Pixel float64 `json:"pixel" bson:"pixel"`
	Label string  `json:"label" bson:"label"`
}

// Layer is one paint task.
type Layer struct {
	Series          string    `json:"series" bson:"series"`
	Kind            string    `json:"kind" bson:"kind"`
	Color           string    `json:"color,omitempty" bson:"color,omitempty"`
	StrokeThickness float64   `json:"stroke_thickness,omitempty" bson:"stroke_thickness,omitempty"`
	ZIndex          float64   `json:"z_index" bson:"z_index"`
	Elements        []Element `json:"elements" bson:"elements"`
}

// Element is the displayed state of a bar or label.
type Element struct {
	ID     string  `json:"id" bson:"id"`
	Kind   string  `json:"kind" bson:"kind"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`

	// Labels only
	Text     string  `json:"text,omitempty" bson:"text,omitempty"`
	TextSize float64 `json:"text_size,omitempty" bson:"text_size,omitempty"`

	Exiting bool `json:"exiting,omitempty" bson:"exiting,omitempty"`
}

// Point is the hover rectangle of a non-null point.
type Point struct {
	Series string  `json:"series" bson:"series"`
	Index  int     `json:"index" bson:"index"`
	Value  float64 `json:"value" bson:"value"`
	Start  float64 `json:"start" bson:"start"`
	End    float64 `json:"end" bson:"end"`
	Area   Rect    `json:"area" bson:"area"`
}

// ElementCount returns the number of elements across all layers.
func (f *Frame) ElementCount() int {
	n := 0
	for _, l := range f.Layers {
		n += len(l.Elements)
	}
	return n
}

// Hit returns the points whose hover rectangle contains (x, y).
func (f *Frame) Hit(x, y float64) []Point {
	var out []Point
	for _, p := range f.Points {
		if p.Area.Contains(x, y) {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a frame to pretty-printed JSON.
func Marshal(f *Frame) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// Unmarshal deserializes a frame and checks its dimensions.
func Unmarshal(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("frame must have a positive size, got %vx%v", f.Width, f.Height)
	}
	return &f, nil
}

// WriteFile writes f to path as JSON.
func WriteFile(f *Frame, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a frame written by WriteFile.
func ReadFile(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
