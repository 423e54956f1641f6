package visual

import (
	"testing"
	"time"

	"github.com/matzehuels/stackchart/pkg/anim"
	"github.com/matzehuels/stackchart/pkg/geom"
)

func TestRectSnapsUntilTransitionated(t *testing.T) {
	r := NewRect()
	r.SetX(10)
	r.SetY(20)
	r.SetWidth(30)
	r.SetHeight(40)

	want := geom.Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if got := r.Current(); got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
	if got := r.Target(); got != want {
		t.Errorf("Target() = %+v, want %+v", got, want)
	}
}

func TestRectAnimatesAfterTransitionate(t *testing.T) {
	r := NewRect()
	r.SetHeight(0)
	r.Transitionate(PropHeight).WithAnimation(anim.Profile{Duration: time.Second, Easing: anim.Linear})

	r.SetHeight(80)
	if r.Height() != 0 {
		t.Errorf("Height() = %v before any frame, want 0", r.Height())
	}
	now := time.Now()
	r.Advance(now)
	r.Advance(now.Add(time.Second))
	if r.Height() != 80 {
		t.Errorf("Height() = %v after duration, want 80", r.Height())
	}
}

func TestRectClampsNegativeSize(t *testing.T) {
	r := NewRect()
	r.SetWidth(-5)
	r.SetHeight(-1)
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("size = %vx%v, want 0x0", r.Width(), r.Height())
	}
}

func TestElementIDsUnique(t *testing.T) {
	a, b := NewRect(), NewLabel(nil)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("ids %q and %q are not unique", a.ID(), b.ID())
	}
}

func TestBasicMeasurer(t *testing.T) {
	m := BasicMeasurer{}
	got := m.Measure("12", 13)
	if got.Width != 14 || got.Height != 13 {
		t.Errorf("Measure(12, 13) = %+v, want {14 13}", got)
	}
	double := m.Measure("12", 26)
	if double.Width != 28 {
		t.Errorf("Measure(12, 26).Width = %v, want 28", double.Width)
	}
}

func TestLabelMeasureIncludesPadding(t *testing.T) {
	l := NewLabel(nil)
	l.SetText("abc")
	l.SetTextSize(13)
	l.SetPadding(geom.Padding{Top: 2, Right: 3, Bottom: 2, Left: 3})

	got := l.Measure()
	if got.Width != 21+6 || got.Height != 13+4 {
		t.Errorf("Measure() = %+v, want {27 17}", got)
	}
}
