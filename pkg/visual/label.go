package visual

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/stackchart/pkg/geom"
)

// Measurer sizes a line of text at a given font size.
type Measurer interface {
	Measure(text string, size float64) geom.Size
}

// BasicMeasurer measures text with the fixed 7x13 bitmap face, scaled to
// the requested size. It is exact for monospace output and a fair estimate
// for proportional fonts.
type BasicMeasurer struct{}

// Measure returns the advance width and line height of text at size.
func (BasicMeasurer) Measure(text string, size float64) geom.Size {
	face := basicfont.Face7x13
	adv := font.MeasureString(face, text)
	h := float64(face.Metrics().Height.Ceil())
	k := size / h
	return geom.Size{Width: math.Ceil(float64(adv.Ceil()) * k), Height: size}
}

// TextElement is a positioned element that carries text.
type TextElement interface {
	Positioned
	Text() string
	SetText(string)
	TextSize() float64
	SetTextSize(float64)
	Padding() geom.Padding
	SetPadding(geom.Padding)
	// Measure returns the padded size of the text.
	Measure() geom.Size
}

// Label is a centered line of text: the data label of a point.
// X and Y address the center of the padded text box.
type Label struct {
	base
	text     string
	size     float64
	padding  geom.Padding
	measurer Measurer
}

// NewLabel creates a label measured with m (BasicMeasurer when nil).
func NewLabel(m Measurer) *Label {
	if m == nil {
		m = BasicMeasurer{}
	}
	return &Label{base: newBase(), size: 12, measurer: m}
}

func (l *Label) Kind() Kind { return KindLabel }

func (l *Label) Text() string              { return l.text }
func (l *Label) SetText(s string)          { l.text = s }
func (l *Label) TextSize() float64         { return l.size }
func (l *Label) SetTextSize(v float64)     { l.size = v }
func (l *Label) Padding() geom.Padding     { return l.padding }
func (l *Label) SetPadding(p geom.Padding) { l.padding = p }

func (l *Label) Measure() geom.Size {
	s := l.measurer.Measure(l.text, l.size)
	return geom.Size{
		Width:  s.Width + l.padding.Horizontal(),
		Height: s.Height + l.padding.Vertical(),
	}
}

// Position returns the displayed center.
func (l *Label) Position() geom.Point { return geom.Point{X: l.X(), Y: l.Y()} }

var _ TextElement = (*Label)(nil)
