package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackchart/pkg/observability"
)

// logHooks reports pipeline, cache and server events as debug logs.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks for every hook kind.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetChartHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnParseStart(_ context.Context, source string) {
	h.logger.Debug("parse start", "source", source)
}

func (h logHooks) OnParseComplete(_ context.Context, source string, seriesCount int, d time.Duration, err error) {
	h.logger.Debug("parse complete", "source", source, "series", seriesCount, "duration", d, "err", err)
}

func (h logHooks) OnUpdateStart(_ context.Context, seriesCount, pointCount int) {
	h.logger.Debug("update start", "series", seriesCount, "points", pointCount)
}

func (h logHooks) OnUpdateComplete(_ context.Context, measured int, d time.Duration, err error) {
	h.logger.Debug("update complete", "measured", measured, "duration", d, "err", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ observability.ChartHooks = logHooks{}
	_ observability.CacheHooks = logHooks{}
	_ observability.HTTPHooks  = logHooks{}
)
