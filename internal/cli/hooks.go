package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/itfstack/pkg/observability"
)

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnParseStart(_ context.Context, source string, size int) {
	h.logger.Debug("Parsing", "source", source, "bytes", size)
}

func (h logHooks) OnParseComplete(_ context.Context, source string, layers, problems int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Parse failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("Parsed", "source", source, "layers", layers, "problems", problems, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("Rendering", "format", format)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("Rendered", "format", format, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("Cache hit", "key", key)
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("Cache miss", "key", key)
}

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("Cache set", "key", key, "bytes", size)
}
