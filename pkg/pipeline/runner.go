package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackchart/pkg/cache"
	"github.com/matzehuels/stackchart/pkg/config"
	"github.com/matzehuels/stackchart/pkg/frame"
	"github.com/matzehuels/stackchart/pkg/observability"
	"github.com/matzehuels/stackchart/pkg/store"
)

// Runner encapsulates pipeline execution with caching and archiving.
//
// The Runner is stateless except for its cache, store and logger, so
// multiple goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // nil disables archiving
	Logger *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute runs the complete parse → measure → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Parse
	parseStart := time.Now()
	cfg, data, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.ConfigHash = cache.Hash(data)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.SeriesCount = len(cfg.Series)
	for _, s := range cfg.Series {
		result.Stats.PointCount += len(s.Values)
	}

	r.Logger.Info("parsed chart",
		"source", opts.Source(),
		"series", result.Stats.SeriesCount,
		"points", result.Stats.PointCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Measure
	measureStart := time.Now()
	f, frameHit, err := r.MeasureWithCacheInfo(ctx, cfg, result.ConfigHash, opts)
	if err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}
	result.Frame = f
	result.Stats.MeasureTime = time.Since(measureStart)
	result.Stats.Elements = f.ElementCount()
	result.CacheInfo.FrameHit = frameHit

	r.Logger.Info("measured chart",
		"elements", result.Stats.Elements,
		"cached", frameHit,
		"duration", result.Stats.MeasureTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	// Stage 4: Archive
	if opts.Archive && r.Store != nil {
		if err := r.Store.Save(ctx, f); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		result.Archived = true
		r.Logger.Debug("archived frame", "key", f.Key)
	}

	return result, nil
}

// Parse reads and decodes the chart description named by opts. It returns
// the raw bytes alongside the config for content hashing.
func (r *Runner) Parse(ctx context.Context, opts Options) (*config.Config, []byte, error) {
	hooks := observability.Chart()
	source := opts.Source()
	start := time.Now()
	hooks.OnParseStart(ctx, source)

	data := opts.Data
	var err error
	if len(data) == 0 {
		data, err = os.ReadFile(opts.Path)
		if err != nil {
			err = fmt.Errorf("read %s: %w", opts.Path, err)
		}
	}
	var cfg *config.Config
	if err == nil {
		cfg, err = config.Parse(data)
	}

	count := 0
	if cfg != nil {
		count = len(cfg.Series)
	}
	hooks.OnParseComplete(ctx, source, count, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return cfg, data, nil
}

// MeasureWithCacheInfo returns the frame for cfg, from cache when possible,
// and reports whether it was a cache hit. The frame's Key is its cache key.
func (r *Runner) MeasureWithCacheInfo(ctx context.Context, cfg *config.Config, configHash string, opts Options) (*frame.Frame, bool, error) {
	r.applyLogger(&opts)
	cacheKey := r.Keyer.FrameKey(configHash, opts.FrameKeyOpts(cfg.Width, cfg.Height))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if f, err := frame.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, "frame")
				return f, true, nil
			}
			// If deserialization fails, fall through to re-measure
		}
		hooks.OnCacheMiss(ctx, "frame")
	}

	_, f, err := Measure(ctx, cfg, opts.Live, opts.Logger)
	if err != nil {
		return nil, false, err
	}
	f.Key = cacheKey

	if data, err := frame.Marshal(f); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.FrameTTL); err != nil {
			r.Logger.Warn("cache frame", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "frame", len(data))
		}
	}
	return f, false, nil
}

// RenderWithCacheInfo renders f in every requested format, serving each
// format from cache when possible. It reports whether all formats hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *frame.Frame, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	chartHooks := observability.Chart()
	cacheHooks := observability.Cache()
	start := time.Now()
	chartHooks.OnRenderStart(ctx, opts.Formats)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	var err error
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(f.Key, opts.ArtifactKeyOpts(format))
		if !opts.Refresh && f.Key != "" {
			if data, hit, gerr := r.Cache.Get(ctx, key); gerr == nil && hit {
				cacheHooks.OnCacheHit(ctx, "artifact:"+format)
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, "artifact:"+format)
		}
		allHit = false

		var data []byte
		data, err = RenderFormat(f, format, opts)
		if err != nil {
			break
		}
		artifacts[format] = data
		if f.Key != "" {
			if serr := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); serr == nil {
				cacheHooks.OnCacheSet(ctx, "artifact:"+format, len(data))
			}
		}
	}

	chartHooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, allHit, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
