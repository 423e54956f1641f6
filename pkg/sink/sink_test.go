package sink

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/stackchart/pkg/frame"
)

func sampleFrame() *frame.Frame {
	bar := frame.Rect{X: 60, Y: 100, Width: 40, Height: 200}
	return &frame.Frame{
		Width:      200,
		Height:     340,
		DrawMargin: frame.Rect{X: 40, Y: 20, Width: 140, Height: 300},
		Background: "#ffffff",
		Axes: []frame.Axis{
			{Orientation: "horizontal", Min: -0.5, Max: 0.5, Ticks: []frame.Tick{{Value: 0, Pixel: 110, Label: "0"}}},
			{Name: "Sales & Co", Orientation: "vertical", Min: 0, Max: 10, Ticks: []frame.Tick{{Value: 0, Pixel: 320, Label: "0"}, {Value: 10, Pixel: 20, Label: "10"}}},
		},
		Layers: []frame.Layer{
			{Series: "north", Kind: "fill", Color: "#4e79a7", ZIndex: 1.1, Elements: []frame.Element{
				{ID: "b1", Kind: "shape", X: bar.X, Y: bar.Y, Width: bar.Width, Height: bar.Height},
			}},
			{Series: "north", Kind: "stroke", Color: "#000", StrokeThickness: 1, ZIndex: 1.2, Elements: []frame.Element{
				{ID: "b1", Kind: "shape", X: bar.X, Y: bar.Y, Width: bar.Width, Height: bar.Height},
			}},
			{Series: "north", Kind: "text", Color: "#333", ZIndex: 1.3, Elements: []frame.Element{
				{ID: "l1", Kind: "label", X: 80, Y: 200, Text: "<6>", TextSize: 12},
			}},
		},
		Points: []frame.Point{{Series: "north", Index: 0, Value: 6, End: 6, Area: bar}},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleFrame()))
	for _, want := range []string{
		`viewBox="0 0 200.0 340.0"`,
		`id="bar-b1"`,
		`fill="#4e79a7"`,
		`stroke="#000"`,
		`&lt;6&gt;`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if strings.Contains(svg, "<title>") {
		t.Error("RenderSVG() without WithTooltips() rendered a tooltip")
	}
	if strings.Contains(svg, `class="axes"`) {
		t.Error("RenderSVG() without WithAxes() rendered axes")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("RenderSVG() output not terminated")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(sampleFrame(), WithAxes(), WithGrid(), WithTooltips()))
	for _, want := range []string{
		`<title>north[0] = 6</title>`,
		`class="axes"`,
		`class="grid"`,
		`Sales &amp; Co`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(sampleFrame(), WithScale(1.5), WithPNGAxes())
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 510 {
		t.Errorf("image size = %dx%d, want 300x510", b.Dx(), b.Dy())
	}
	// Bar center is painted with the fill color.
	r, g, b, _ := img.At(120, 200).RGBA()
	if r>>8 != 0x4e || g>>8 != 0x79 || b>>8 != 0xa7 {
		t.Errorf("bar pixel = #%02x%02x%02x, want #4e79a7", r>>8, g>>8, b>>8)
	}
}

func TestRenderPNGEmptyFrame(t *testing.T) {
	if _, err := RenderPNG(&frame.Frame{}); err == nil {
		t.Error("RenderPNG(empty) succeeded")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleFrame())
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	f, err := frame.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if f.ElementCount() != 3 || f.Points[0].Value != 6 {
		t.Errorf("RenderJSON() lost content: %+v", f)
	}
}
