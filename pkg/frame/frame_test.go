package frame

import (
	"path/filepath"
	"testing"
)

func sample() *Frame {
	return &Frame{
		Width:  400,
		Height: 300,
		Layers: []Layer{
			{Series: "a", Kind: "fill", Elements: []Element{{ID: "1", Kind: "shape"}, {ID: "2", Kind: "shape"}}},
			{Series: "a", Kind: "text", Elements: []Element{{ID: "3", Kind: "label", Text: "5"}}},
		},
		Points: []Point{
			{Series: "a", Index: 0, Area: Rect{X: 0, Y: 100, Width: 50, Height: 200}},
			{Series: "a", Index: 1, Area: Rect{X: 60, Y: 200, Width: 50, Height: 100}},
		},
	}
}

func TestElementCount(t *testing.T) {
	if got := sample().ElementCount(); got != 3 {
		t.Errorf("ElementCount() = %d, want 3", got)
	}
}

func TestHit(t *testing.T) {
	f := sample()
	tests := []struct {
		x, y float64
		want []int
	}{
		{25, 150, []int{0}},
		{50, 100, []int{0}},
		{80, 250, []int{1}},
		{55, 250, nil},
		{80, 150, nil},
	}
	for _, tt := range tests {
		got := f.Hit(tt.x, tt.y)
		if len(got) != len(tt.want) {
			t.Errorf("Hit(%v, %v) = %d points, want %d", tt.x, tt.y, len(got), len(tt.want))
			continue
		}
		for i, p := range got {
			if p.Index != tt.want[i] {
				t.Errorf("Hit(%v, %v)[%d].Index = %d, want %d", tt.x, tt.y, i, p.Index, tt.want[i])
			}
		}
	}
}

func TestUnmarshalRejectsEmptySize(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"width": 0, "height": 10}`)); err == nil {
		t.Error("Unmarshal() accepted a zero-width frame")
	}
	if _, err := Unmarshal([]byte(`{`)); err == nil {
		t.Error("Unmarshal() accepted invalid JSON")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.json")
	if err := WriteFile(sample(), path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.ElementCount() != 3 || len(got.Points) != 2 || got.Layers[1].Elements[0].Text != "5" {
		t.Errorf("ReadFile() = %+v, lost content", got)
	}
}
