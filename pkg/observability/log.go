package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger. Failures log at Warn, HTTP
// traffic and lifecycle events at Info, and cache traffic at Debug.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to log.Default() when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	SetSessionHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, instrument string, scales int) {
	h.Logger.Debug("building instrument", "instrument", instrument, "scales", scales)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, instrument string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("instrument build failed", "instrument", instrument, "err", err)
		return
	}
	h.Logger.Debug("built instrument", "instrument", instrument, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("rendering", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.Logger.Info("rendered", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.Logger.Warn("response", "method", method, "route", route, "status", status, "duration", d)
		return
	}
	h.Logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnSessionCreated(_ context.Context, id string) {
	h.Logger.Info("session created", "id", id)
}

func (h *LogHooks) OnSessionDeleted(_ context.Context, id string) {
	h.Logger.Info("session deleted", "id", id)
}

func (h *LogHooks) OnSessionsExpired(_ context.Context, count int) {
	if count > 0 {
		h.Logger.Info("sessions expired", "count", count)
	}
}

var (
	_ RenderHooks  = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
	_ SessionHooks = (*LogHooks)(nil)
)
