package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/stackchart/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner draws a progress line on stderr until stopped. Its message may
// change while it runs; [Spinner.Track] points it at the current pipeline
// stage.
type Spinner struct {
	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far
	running bool
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that stops when ctx ends.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       os.Stderr,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		exited:  make(chan struct{}),
		message: message,
	}
}

// Start begins drawing. Calling it twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.message) + 2
	pad := ""
	if s.width > n {
		pad = strings.Repeat(" ", s.width-n)
	}
	s.width = max(s.width, n)
	fmt.Fprintf(s.w, "\r%s %s%s", styleIconSpinner.Render(frame), StyleDim.Render(s.message), pad)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// SetMessage replaces the message. A shorter message blanks the tail of the
// longer one at once so no stale characters linger until the next frame.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(message) < len(s.message) {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", len(s.message)+2))
	}
	s.message = message
}

// Stop ends the spinner and clears its line. It is safe to call repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if running {
			<-s.exited
		} else {
			s.clear()
		}
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's parent context ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// Track installs chart hooks that update the message as a pipeline run
// moves through its stages, forwarding every event to the hooks that were
// registered before. The returned func restores them.
func (s *Spinner) Track() (restore func()) {
	prev := observability.Chart()
	observability.SetChartHooks(stageHooks{s: s, next: prev})
	return func() { observability.SetChartHooks(prev) }
}

// stageHooks mirrors pipeline stages onto a spinner.
type stageHooks struct {
	s    *Spinner
	next observability.ChartHooks
}

func (h stageHooks) OnParseStart(ctx context.Context, source string) {
	h.s.SetMessage("Parsing " + filepath.Base(source) + "...")
	h.next.OnParseStart(ctx, source)
}

func (h stageHooks) OnParseComplete(ctx context.Context, source string, n int, d time.Duration, err error) {
	h.next.OnParseComplete(ctx, source, n, d, err)
}

func (h stageHooks) OnUpdateStart(ctx context.Context, seriesCount, pointCount int) {
	h.s.SetMessage(fmt.Sprintf("Measuring %d series, %d points...", seriesCount, pointCount))
	h.next.OnUpdateStart(ctx, seriesCount, pointCount)
}

func (h stageHooks) OnUpdateComplete(ctx context.Context, measured int, d time.Duration, err error) {
	h.next.OnUpdateComplete(ctx, measured, d, err)
}

func (h stageHooks) OnRenderStart(ctx context.Context, formats []string) {
	h.s.SetMessage("Rendering " + strings.Join(formats, ", ") + "...")
	h.next.OnRenderStart(ctx, formats)
}

func (h stageHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	h.next.OnRenderComplete(ctx, formats, d, err)
}

var _ observability.ChartHooks = stageHooks{}
