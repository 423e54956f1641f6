package series

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/stackchart/pkg/canvas"
	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/geom"
)

// LabelPosition places a data label relative to its bar.
type LabelPosition string

const (
	LabelTop    LabelPosition = "top"
	LabelBottom LabelPosition = "bottom"
	LabelLeft   LabelPosition = "left"
	LabelRight  LabelPosition = "right"
	LabelMiddle LabelPosition = "middle"
	// LabelStart and LabelEnd follow the bar direction: End is the edge
	// away from the pivot, Start the edge at the pivot.
	LabelStart LabelPosition = "start"
	LabelEnd   LabelPosition = "end"
)

var labelPositions = map[string]bool{
	string(LabelTop): true, string(LabelBottom): true, string(LabelLeft): true,
	string(LabelRight): true, string(LabelMiddle): true, string(LabelStart): true,
	string(LabelEnd): true,
}

// ParseLabelPosition parses a position name, case-insensitively.
func ParseLabelPosition(s string) (LabelPosition, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if err := errors.ValidateFormat(name, labelPositions); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidLabelPosition, err, "invalid label position %q", s)
	}
	return LabelPosition(name), nil
}

const (
	DefaultLabelSize    = 16.0
	DefaultLabelPadding = 6.0
)

// DataLabels configures the value labels of a series.
type DataLabels struct {
	// Paint is the text task the labels are drawn with. Labels are
	// disabled while it is nil.
	Paint *canvas.PaintTask

	Size     float64
	Padding  geom.Padding
	Position LabelPosition

	// Formatter renders a point; FormatValue when nil.
	Formatter func(*Point) string
}

// NewDataLabels creates label settings with default size, padding and a
// middle placement.
func NewDataLabels(paint *canvas.PaintTask) *DataLabels {
	return &DataLabels{
		Paint:    paint,
		Size:     DefaultLabelSize,
		Padding:  geom.Padding{Top: DefaultLabelPadding, Right: DefaultLabelPadding, Bottom: DefaultLabelPadding, Left: DefaultLabelPadding},
		Position: LabelMiddle,
	}
}

func (s *StackedColumn) labelTask() *canvas.PaintTask {
	if s.Labels == nil {
		return nil
	}
	return s.Labels.Paint
}

func (d *DataLabels) format(p *Point) string {
	if d.Formatter != nil {
		return d.Formatter(p)
	}
	return FormatValue(p.Primary)
}

var printer = message.NewPrinter(language.English)

// FormatValue renders v with digit grouping; whole numbers carry no
// decimals, others two.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// labelPosition returns the center of a label of the given size placed at
// pos around bar. above tells whether the value lies above the pivot.
func labelPosition(bar geom.Rect, size geom.Size, pos LabelPosition, above bool) geom.Point {
	mid := bar.Center()
	switch pos {
	case LabelEnd:
		pos = LabelBottom
		if above {
			pos = LabelTop
		}
	case LabelStart:
		pos = LabelTop
		if above {
			pos = LabelBottom
		}
	}
	switch pos {
	case LabelTop:
		return geom.Point{X: mid.X, Y: bar.Y - size.Height/2}
	case LabelBottom:
		return geom.Point{X: mid.X, Y: bar.Bottom() + size.Height/2}
	case LabelLeft:
		return geom.Point{X: bar.X - size.Width/2, Y: mid.Y}
	case LabelRight:
		return geom.Point{X: bar.Right() + size.Width/2, Y: mid.Y}
	default:
		return mid
	}
}
