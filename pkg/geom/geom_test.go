package geom

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{X: 25, Y: 40}, true},
		{"top-left corner", Point{X: 10, Y: 20}, true},
		{"bottom-right corner", Point{X: 40, Y: 60}, true},
		{"left of", Point{X: 9.9, Y: 40}, false},
		{"below", Point{X: 25, Y: 60.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
	if c := r.Center(); c != (Point{X: 25, Y: 40}) {
		t.Errorf("Center() = %v, want {25 40}", c)
	}
}

func TestBounds(t *testing.T) {
	e := EmptyBounds()
	if !e.IsEmpty() || e.Span() != 0 {
		t.Errorf("EmptyBounds() = %+v, want empty with zero span", e)
	}

	b := e.Extend(3).Extend(-2).Extend(1)
	if b != (Bounds{Min: -2, Max: 3}) {
		t.Errorf("Extend() = %+v, want {-2 3}", b)
	}
	if got := b.Span(); got != 5 {
		t.Errorf("Span() = %v, want 5", got)
	}

	tests := []struct {
		name string
		a, b Bounds
		want Bounds
	}{
		{"empty left", EmptyBounds(), Bounds{Min: 1, Max: 2}, Bounds{Min: 1, Max: 2}},
		{"empty right", Bounds{Min: 1, Max: 2}, EmptyBounds(), Bounds{Min: 1, Max: 2}},
		{"overlap", Bounds{Min: 0, Max: 4}, Bounds{Min: -1, Max: 2}, Bounds{Min: -1, Max: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union() = %+v, want %+v", got, tt.want)
			}
		})
	}
	if got := EmptyBounds().Union(EmptyBounds()); !got.IsEmpty() {
		t.Errorf("Union(empty, empty) = %+v, want empty", got)
	}
}

func TestPadding(t *testing.T) {
	p := Padding{Top: 1, Right: 2, Bottom: 3, Left: 4}
	if p.Horizontal() != 6 || p.Vertical() != 4 {
		t.Errorf("Horizontal(), Vertical() = %v, %v, want 6, 4", p.Horizontal(), p.Vertical())
	}
	if Vertical.String() != "vertical" || Horizontal.String() != "horizontal" {
		t.Errorf("Orientation.String() = %q, %q", Horizontal, Vertical)
	}
}
