package sink

import "github.com/matzehuels/stackchart/pkg/frame"

// RenderJSON renders the frame as pretty-printed JSON.
func RenderJSON(f *frame.Frame) ([]byte, error) {
	return frame.Marshal(f)
}
