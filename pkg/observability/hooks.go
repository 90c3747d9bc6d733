// Package observability lets callers observe what the planner does without the
// planner depending on any particular metrics or tracing backend.
//
// Four event families are exposed, each behind an interface with a no-op
// default:
//
//   - [PipelineHooks]: catalogue loads, layout generation, rendering
//   - [CacheHooks]: result and artifact cache traffic
//   - [HTTPHooks]: outgoing requests (remote catalogue fetches)
//   - [SessionHooks]: editing-session regeneration and expiry
//
// The CLI registers a logging implementation when run with --verbose; a
// server embedding the packages can register its own at startup:
//
//	observability.SetPipelineHooks(myMetrics{})
//	observability.SetSessionHooks(myMetrics{})
//
// Library code fetches the current implementation at the call site:
//
//	observability.Pipeline().OnGenerateStart(ctx, len(req.Rooms))
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the generation pipeline.
type PipelineHooks interface {
	// OnCatalogLoad fires once per provider when the catalogue settles.
	// fallback is true when the built-in table is in use.
	OnCatalogLoad(ctx context.Context, source string, fallback bool, duration time.Duration, err error)

	// OnGenerateStart and OnGenerateComplete bracket one placement run.
	// template is empty for heuristic layouts.
	OnGenerateStart(ctx context.Context, roomCount int)
	OnGenerateComplete(ctx context.Context, placed, dropped int, template string, duration time.Duration)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups and writes. key is the full
// cache key.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// HTTPHooks receives events from outgoing HTTP calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError fires for transport failures, not for non-2xx responses.
	OnError(ctx context.Context, method, host, path string, err error)
}

// SessionHooks receives events from editing sessions.
type SessionHooks interface {
	// OnRegenerate fires after a session re-ran placement, whether or not it
	// succeeded. rooms is the placed count of the new layout.
	OnRegenerate(ctx context.Context, sessionID string, rooms int, duration time.Duration, err error)

	// OnExpire fires when a cleanup pass removed expired sessions.
	OnExpire(ctx context.Context, removed int)
}

// Nop implements every hook interface and does nothing. Embed it to
// implement only the events you care about.
type Nop struct{}

func (Nop) OnCatalogLoad(context.Context, string, bool, time.Duration, error)      {}
func (Nop) OnGenerateStart(context.Context, int)                                   {}
func (Nop) OnGenerateComplete(context.Context, int, int, string, time.Duration)    {}
func (Nop) OnRenderStart(context.Context, []string)                                {}
func (Nop) OnRenderComplete(context.Context, []string, time.Duration, error)       {}
func (Nop) OnCacheHit(context.Context, string)                                     {}
func (Nop) OnCacheMiss(context.Context, string)                                    {}
func (Nop) OnCacheSet(context.Context, string, int)                                {}
func (Nop) OnRequest(context.Context, string, string, string)                      {}
func (Nop) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (Nop) OnError(context.Context, string, string, string, error)                 {}
func (Nop) OnRegenerate(context.Context, string, int, time.Duration, error)        {}
func (Nop) OnExpire(context.Context, int)                                          {}

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
	session  SessionHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{pipeline: Nop{}, cache: Nop{}, http: Nop{}, session: Nop{}}
}

// set swaps one slot under the lock. A nil value leaves the slot unchanged.
func set[T any](slot *T, v T, isNil bool) {
	if isNil {
		return
	}
	hooks.mu.Lock()
	*slot = v
	hooks.mu.Unlock()
}

func get[T any](slot *T) T {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return *slot
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { set(&hooks.pipeline, h, h == nil) }

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { set(&hooks.cache, h, h == nil) }

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { set(&hooks.http, h, h == nil) }

// SetSessionHooks registers session hooks. Nil is ignored.
func SetSessionHooks(h SessionHooks) { set(&hooks.session, h, h == nil) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return get(&hooks.pipeline) }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return get(&hooks.cache) }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return get(&hooks.http) }

// Session returns the registered session hooks.
func Session() SessionHooks { return get(&hooks.session) }

// Reset restores every hook to [Nop]. Tests use it to undo registrations.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	hooks.pipeline, hooks.cache, hooks.http, hooks.session = fresh.pipeline, fresh.cache, fresh.http, fresh.session
	hooks.mu.Unlock()
}
