package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackchart/pkg/observability"
)

func TestSpinnerBasic(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Testing...")
	s.w = &buf
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop() should not count as cancellation")
	}
	if !strings.Contains(buf.String(), "Testing...") {
		t.Errorf("spinner output = %q, want message", buf.String())
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner("never started")
	s.Stop()
	s.Stop()
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()

	// Cancel the context
	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.Start()

	// Wait for timeout
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled due to timeout
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Testing error...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed!")
}

func TestNewSpinnerWithContextNilParent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Test")
	s.Start()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Measuring chart...")
	s.w = &buf

	// Shorter messages blank the tail of the previous one
	s.SetMessage("Rendering")
	if s.message != "Rendering" {
		t.Errorf("message = %q, want Rendering", s.message)
	}
	if !strings.HasPrefix(buf.String(), "\r") {
		t.Errorf("SetMessage() output = %q, want carriage return", buf.String())
	}

	buf.Reset()
	s.SetMessage("Rendering outputs")
	if buf.Len() != 0 {
		t.Errorf("longer message should not write, got %q", buf.String())
	}
}

func TestSpinnerTrack(t *testing.T) {
	t.Cleanup(observability.Reset)
	rec := &stageRecorder{}
	observability.SetChartHooks(rec)

	s := newSpinner("Starting")
	s.w = io.Discard
	restore := s.Track()

	ctx := context.Background()
	hooks := observability.Chart()
	hooks.OnParseStart(ctx, "/tmp/charts/sales.toml")
	if s.message != "Parsing sales.toml..." {
		t.Errorf("message = %q, want parse stage", s.message)
	}
	hooks.OnUpdateStart(ctx, 2, 6)
	if s.message != "Measuring 2 series, 6 points..." {
		t.Errorf("message = %q, want measure stage", s.message)
	}
	hooks.OnRenderStart(ctx, []string{"svg", "png"})
	if s.message != "Rendering svg, png..." {
		t.Errorf("message = %q, want render stage", s.message)
	}
	if rec.events != 3 {
		t.Errorf("forwarded events = %d, want 3", rec.events)
	}

	restore()
	if observability.Chart() != observability.ChartHooks(rec) {
		t.Error("restore() should reinstate the previous hooks")
	}
}

type stageRecorder struct {
	observability.NoopChartHooks
	events int
}

func (r *stageRecorder) OnParseStart(context.Context, string)    { r.events++ }
func (r *stageRecorder) OnUpdateStart(context.Context, int, int) { r.events++ }
func (r *stageRecorder) OnRenderStart(context.Context, []string) { r.events++ }
