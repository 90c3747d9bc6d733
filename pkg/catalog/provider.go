package catalog

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/floorplan/pkg/observability"
)

// State is the provider's load state.
type State int

// Provider states.
const (
	StateNotLoaded State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "not-loaded"
}

// Provider loads a catalogue at most once and hands the same snapshot to
// every caller. Concurrent callers arriving before the first load completes
// share that load. A failed load settles on the fallback catalogue and is
// not retried.
//
// Provider is safe for concurrent use.
type Provider struct {
	source Source
	logger *log.Logger

	mu    sync.Mutex
	state State
	cat   *Catalog
	group singleflight.Group
}

// NewProvider creates a provider for src. A nil logger discards output.
func NewProvider(src Source, logger *log.Logger) *Provider {
	if src == nil {
		src = EmbeddedSource{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Provider{source: src, logger: logger}
}

// NewStaticProvider returns a provider that is already ready with cat.
// Tests use it to inject a fixed catalogue.
func NewStaticProvider(cat *Catalog) *Provider {
	if cat == nil {
		cat = Fallback()
	}
	return &Provider{
		source: StaticSource{},
		logger: log.New(io.Discard),
		state:  StateReady,
		cat:    cat,
	}
}

// State returns the current load state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Get returns the catalogue, loading it on first use. It never fails: load
// errors are logged and yield the fallback catalogue. If ctx ends while
// waiting, Get returns the fallback without recording it, and the shared
// load carries on for later callers.
func (p *Provider) Get(ctx context.Context) *Catalog {
	p.mu.Lock()
	if p.state == StateReady {
		cat := p.cat
		p.mu.Unlock()
		return cat
	}
	p.mu.Unlock()

	ch := p.group.DoChan("catalog", func() (any, error) {
		return p.load(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		return res.Val.(*Catalog)
	case <-ctx.Done():
		return Fallback()
	}
}

func (p *Provider) load(ctx context.Context) *Catalog {
	p.mu.Lock()
	if p.state == StateReady {
		cat := p.cat
		p.mu.Unlock()
		return cat
	}
	p.state = StateLoading
	p.mu.Unlock()

	start := time.Now()
	doc, err := p.source.Load(ctx)
	var cat *Catalog
	if err != nil {
		p.logger.Warn("catalogue unavailable, using built-in presets", "source", p.source.Name(), "error", err)
		cat = Fallback()
	} else {
		cat = New(doc, p.source.Name())
		p.logger.Debug("catalogue loaded", "source", p.source.Name(), "version", cat.Version(), "void_ratio", cat.VoidRatio())
	}
	observability.Pipeline().OnCatalogLoad(ctx, p.source.Name(), cat.IsFallback(), time.Since(start), err)

	p.mu.Lock()
	p.cat = cat
	p.state = StateReady
	p.mu.Unlock()
	return cat
}
