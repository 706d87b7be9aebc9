package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline, cache and server events at debug level, so
// --verbose shows what the pipeline did without a metrics backend.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnMaterializeStart(_ context.Context, scene string, dim, points int) {
	h.logger.Debug("materialize", "scene", scene, "dim", dim, "points", points)
}

func (h *logHooks) OnMaterializeComplete(_ context.Context, scene string, points int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("materialize failed", "scene", scene, "error", err, "duration", d)
		return
	}
	h.logger.Debug("materialized", "scene", scene, "points", points, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "error", err, "duration", d)
		return
	}
	h.logger.Debug("rendered", "formats", formats, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Debug("request error", "method", method, "path", path, "error", err)
}
