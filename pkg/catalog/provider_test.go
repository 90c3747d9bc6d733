package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorplan/pkg/plan"
)

type countingSource struct {
	calls   atomic.Int32
	release chan struct{}
	doc     *Document
	err     error
}

func (s *countingSource) Load(ctx context.Context) (*Document, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	return s.doc, s.err
}

func (s *countingSource) Name() string { return "counting" }

func testDoc() *Document {
	return &Document{Version: "t", Rooms: []Entry{{Type: plan.KindBed, Label: "Bed", Area: AreaRange{Min: 11, Max: 14}, Color: "#000000"}}}
}

func TestProviderSharesInFlightLoad(t *testing.T) {
	src := &countingSource{release: make(chan struct{}), doc: testDoc()}
	p := NewProvider(src, nil)

	const callers = 16
	results := make([]*Catalog, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.Get(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return p.State() == StateLoading }, time.Second, time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
	assert.Equal(t, 11.0, results[0].Config(plan.KindBed).Area)
	assert.Equal(t, StateReady, p.State())

	p.Get(context.Background())
	assert.Equal(t, int32(1), src.calls.Load(), "ready provider must not reload")
}

func TestProviderFailureSettlesOnFallback(t *testing.T) {
	src := &countingSource{err: errors.New("boom")}
	p := NewProvider(src, nil)

	c := p.Get(context.Background())
	assert.True(t, c.IsFallback())
	assert.Equal(t, FallbackConfig(plan.KindLiving), c.Config(plan.KindLiving))

	p.Get(context.Background())
	assert.Equal(t, int32(1), src.calls.Load(), "failed load is not retried")
}

func TestProviderCancelledWaitDoesNotCacheFallback(t *testing.T) {
	src := &countingSource{release: make(chan struct{}), doc: testDoc()}
	p := NewProvider(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *Catalog)
	go func() { done <- p.Get(ctx) }()

	require.Eventually(t, func() bool { return p.State() == StateLoading }, time.Second, time.Millisecond)
	cancel()
	assert.True(t, (<-done).IsFallback())

	close(src.release)
	c := p.Get(context.Background())
	assert.False(t, c.IsFallback())
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestStaticProvider(t *testing.T) {
	cat := New(testDoc(), "static")
	p := NewStaticProvider(cat)
	assert.Same(t, cat, p.Get(context.Background()))
	assert.Equal(t, StateReady, p.State())
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, EmbeddedSource{}, NewSource(Options{}))
	assert.IsType(t, &HTTPSource{}, NewSource(Options{Location: "https://example.com/presets.json"}))
	assert.IsType(t, &MongoSource{}, NewSource(Options{Location: "mongodb://localhost:27017"}))
	assert.IsType(t, &FileSource{}, NewSource(Options{Location: "./presets.toml"}))
}

func TestFileSourceFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"c.json": `{"version":"j","rooms":[{"type":"bed","label":"B","area":{"min":9,"max":12},"color":"#111111"}]}`,
		"c.toml": "version = \"t\"\n[[rooms]]\ntype = \"bed\"\nlabel = \"B\"\ncolor = \"#111111\"\n[rooms.area]\nmin = 9.0\nmax = 12.0\n",
		"c.yaml": "version: y\nrooms:\n  - type: bed\n    label: B\n    color: '#111111'\n    area: {min: 9, max: 12}\n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			doc, err := (&FileSource{Path: path}).Load(context.Background())
			require.NoError(t, err)
			require.Len(t, doc.Rooms, 1)
			assert.Equal(t, 9.0, doc.Rooms[0].Area.Min)
			assert.Equal(t, "#111111", doc.Rooms[0].Color)
		})
	}
}

func TestFileSourceMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rooms": [`), 0o644))

	p := NewProvider(&FileSource{Path: path}, nil)
	assert.True(t, p.Get(context.Background()).IsFallback())

	p = NewProvider(&FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, nil)
	assert.True(t, p.Get(context.Background()).IsFallback())
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/presets.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(DefaultResource)
	}))
	defer srv.Close()

	doc, err := (&HTTPSource{URL: srv.URL + "/presets.json", Client: srv.Client()}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", doc.Version)

	_, err = (&HTTPSource{URL: srv.URL + "/nope.json", Client: srv.Client()}).Load(context.Background())
	assert.Error(t, err)
}
