package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level. It implements
// all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

// Register installs h for pipeline, cache and server events.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
}

func (h *LogHooks) OnSimulateStart(_ context.Context, model string) {
	h.logger.Debug("simulate start", "model", model)
}

func (h *LogHooks) OnSimulateComplete(_ context.Context, model string, spans int, d time.Duration, err error) {
	h.done("simulate", d, err, "model", model, "spans", spans)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, vizType string, spans int) {
	h.logger.Debug("layout start", "type", vizType, "spans", spans)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	h.done("layout", d, err, "type", vizType)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, stage string) {
	h.logger.Debug("cache hit", "stage", stage)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, stage string) {
	h.logger.Debug("cache miss", "stage", stage)
}

func (h *LogHooks) OnCacheSet(_ context.Context, stage string, size int) {
	h.logger.Debug("cache set", "stage", stage, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "elapsed", d.Round(time.Microsecond))
}

func (h *LogHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "elapsed", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(stage+" done", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
