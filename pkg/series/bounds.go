package series

import (
	"fmt"

	"github.com/matzehuels/stackchart/pkg/geom"
)

// Bounds returns the data bounds the series needs on its axes.
//
// The primary extent is taken from the stacked intervals, so the stacker of
// the series' group is entered and fed just as in a measurement pass; the
// chart resets the registry before measuring. A series without non-null
// points returns empty bounds.
func (s *StackedColumn) Bounds(p *Pass, secondary, primary Axis) (geom.DimensionalBounds, error) {
	if err := p.validate(); err != nil {
		return geom.DimensionalBounds{}, err
	}
	st, err := s.stacker(p)
	if err != nil {
		return geom.DimensionalBounds{}, fmt.Errorf("bounds of %s: %w", s.Name, err)
	}

	base := geom.EmptyDimensionalBounds()
	for _, pt := range s.Fetch() {
		if pt.IsNull {
			continue
		}
		iv := st.Stack(pt)
		base.Secondary = base.Secondary.Extend(pt.Secondary)
		base.Primary = base.Primary.Extend(iv.Start).Extend(iv.End)
	}
	if base.Secondary.IsEmpty() {
		return base, nil
	}

	tick := primary.Tick(p.ControlSize, base.Primary)
	return ExpandBounds(base, tick.Value), nil
}

// ExpandBounds pads base for column drawing: half a category on both
// secondary sides, one tick above the primary maximum, and one tick below
// a negative primary minimum. A non-negative minimum is pinned to zero.
func ExpandBounds(base geom.DimensionalBounds, tick float64) geom.DimensionalBounds {
	out := geom.DimensionalBounds{
		Secondary: geom.Bounds{Min: base.Secondary.Min - 0.5, Max: base.Secondary.Max + 0.5},
		Primary:   geom.Bounds{Max: base.Primary.Max + tick},
	}
	if base.Primary.Min < 0 {
		out.Primary.Min = base.Primary.Min - tick
	}
	return out
}
