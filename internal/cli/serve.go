package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/frame"
	"github.com/matzehuels/stackchart/pkg/observability"
	"github.com/matzehuels/stackchart/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command for the chart server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend backendOpts
	)

	cmd := &cobra.Command{
		Use:   "serve [chart.toml]",
		Short: "Serve a chart over HTTP",
		Long: `Serve a chart over HTTP.

The description is re-read on every request, so edits show up on reload.
Measured frames and artifacts are cached by content hash.

Endpoints:
  GET /chart.svg    SVG (query: axes, grid, tooltips, live, refresh)
  GET /chart.png    PNG (query: axes, scale, live, refresh)
  GET /frame.json   measured frame
  GET /hit?x=&y=    points under a pixel position
  GET /healthz      liveness`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, backend)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	backend.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path, addr string, backend backendOpts) error {
	runner, err := c.newRunner(ctx, backend)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newChartServer(runner, path, c.Logger, backend.mongoURI != "").routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printKeyValue("Chart", path)
	printKeyValue("Listening", "http://"+displayAddr(addr))

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// chartServer serves one chart description.
type chartServer struct {
	runner  *pipeline.Runner
	path    string
	logger  *log.Logger
	archive bool
}

func newChartServer(runner *pipeline.Runner, path string, logger *log.Logger, archive bool) *chartServer {
	return &chartServer{runner: runner, path: path, logger: logger, archive: archive}
}

func (s *chartServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/chart.svg", s.artifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/chart.png", s.artifact(pipeline.FormatPNG, "image/png"))
	r.Get("/frame.json", s.artifact(pipeline.FormatJSON, "application/json"))
	r.Get("/hit", s.hit)
	return r
}

// observe attaches the logger to the request and reports it to the HTTP
// hooks.
func (s *chartServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		ctx := withLogger(r.Context(), s.logger.With("request_id", middleware.GetReqID(r.Context())))
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *chartServer) artifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.options(r, format)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Frame-Key", result.Frame.Key)
		if result.CacheInfo.RenderHit {
			w.Header().Set("X-Cache", "hit")
		} else {
			w.Header().Set("X-Cache", "miss")
		}
		_, _ = w.Write(result.Artifacts[format])
	}
}

func (s *chartServer) hit(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}
	opts, err := s.options(r, pipeline.FormatJSON)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	hits := result.Frame.Hit(x, y)
	if hits == nil {
		hits = []frame.Point{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(hits)
}

// options reads render options from the query string.
func (s *chartServer) options(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Path:     s.path,
		Formats:  []string{format},
		Axes:     true,
		Tooltips: true,
		Archive:  s.archive,
		Logger:   loggerFromContext(r.Context()),
	}
	flags := []struct {
		name string
		dst  *bool
	}{
		{"axes", &opts.Axes},
		{"grid", &opts.Grid},
		{"tooltips", &opts.Tooltips},
		{"live", &opts.Live},
		{"refresh", &opts.Refresh},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a boolean", f.name, v)
		}
		*f.dst = b
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale: %q is not a positive number", v)
		}
		opts.Scale = scale
	}
	return opts, nil
}

func (s *chartServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

// httpStatus maps error codes to HTTP status codes.
func httpStatus(err error) int {
	if stderrors.Is(err, fs.ErrNotExist) {
		return http.StatusNotFound
	}
	switch code := errors.GetCode(err); {
	case code.IsInvalid():
		return http.StatusBadRequest
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
