package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat renders timestamps as "14:32:01.45".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress is a stopwatch for one command. step logs the time since the
// previous step at debug level; done logs the total at info level. Not safe
// for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

func (p *progress) step(msg string, keyvals ...any) {
	now := time.Now()
	p.logger.Debug(msg, append(keyvals, "took", now.Sub(p.last).Round(time.Millisecond))...)
	p.last = now
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Logging Hooks
// =============================================================================

// loggingHooks reports pipeline, cache, session and outgoing HTTP events at debug
// level. It is installed by SetLogLevel when --verbose is given.
type loggingHooks struct {
	logger *log.Logger
}

func (h *loggingHooks) OnCatalogLoad(_ context.Context, source string, fallback bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("catalog unavailable", "source", source, "fallback", fallback, "err", err)
		return
	}
	h.logger.Debug("catalog loaded", "source", source, "fallback", fallback, "duration", d.Round(time.Millisecond))
}

func (h *loggingHooks) OnGenerateStart(_ context.Context, rooms int) {
	h.logger.Debug("generate start", "rooms", rooms)
}

func (h *loggingHooks) OnGenerateComplete(_ context.Context, placed, dropped int, template string, d time.Duration) {
	if template == "" {
		template = "heuristic"
	}
	h.logger.Debug("generate done", "placed", placed, "dropped", dropped, "layout", template, "duration", d)
}

func (h *loggingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *loggingHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *loggingHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *loggingHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *loggingHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *loggingHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *loggingHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *loggingHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h *loggingHooks) OnRegenerate(_ context.Context, id string, rooms int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("session regenerate failed", "session", id, "err", err)
		return
	}
	h.logger.Debug("session regenerated", "session", id, "rooms", rooms, "duration", d)
}

func (h *loggingHooks) OnExpire(_ context.Context, removed int) {
	h.logger.Debug("sessions expired", "removed", removed)
}
