package cli

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/floorplan/internal/config"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/pipeline"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// isolate points the XDG directories at a temp dir and disables the cache so
// tests never touch the developer's own config or cache.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, key := range []string{
		"FLOORPLAN_CATALOG", "FLOORPLAN_MONGO_DATABASE", "FLOORPLAN_MONGO_COLLECTION",
		"FLOORPLAN_CACHE_PATH", "FLOORPLAN_REDIS_ADDR", "FLOORPLAN_REDIS_PASSWORD",
		"FLOORPLAN_REDIS_DB", "FLOORPLAN_CACHE_PREFIX", "FLOORPLAN_WALL_THICKNESS",
		"FLOORPLAN_ADDR", "FLOORPLAN_SESSION_TTL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("FLOORPLAN_CACHE", config.BackendNone)
	return dir
}

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,pdf", []string{"svg", "pdf"}},
		{" png , json ,", []string{"png", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderFlagsOptions(t *testing.T) {
	f := renderFlags{formats: "svg,svg,dot", noDoors: true}
	opts, err := f.options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if !slices.Equal(opts.Formats, []string{"svg", "dot"}) {
		t.Errorf("formats = %v, want deduplicated [svg dot]", opts.Formats)
	}
	if !opts.ShowLabels || opts.ShowDoors {
		t.Errorf("labels=%v doors=%v, want true/false", opts.ShowLabels, opts.ShowDoors)
	}
	if opts.Scale != pipeline.DefaultScale {
		t.Errorf("scale = %g, want default %g", opts.Scale, pipeline.DefaultScale)
	}

	if _, err := (&renderFlags{formats: "gif"}).options(); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := (&renderFlags{scale: -1}).options(); err == nil {
		t.Error("expected error for negative scale")
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		batch  bool
		want   string
	}{
		{"next to input", "plans/house.plan", "", false, filepath.Join("plans", "house-plan")},
		{"explicit base", "house.plan", "out/villa", false, "out/villa"},
		{"explicit file", "house.plan", "out/villa.svg", false, "out/villa"},
		{"graph extension", "house.plan", "out/villa.graph.svg", false, "out/villa"},
		{"batch directory", "plans/house.json", "out", true, filepath.Join("out", "house")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.input, tt.output, tt.batch); got != tt.want {
				t.Errorf("outputBase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"svg":   []byte("<svg/>"),
		"graph": []byte("<svg/>"),
		"json":  []byte("{}"),
	}

	base := filepath.Join(dir, "nested", "house")
	paths, err := writeArtifacts(artifacts, []string{"svg", "graph", "json"}, base, "", false)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{base + ".svg", base + ".graph.svg", base + ".json"}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	for _, p := range want {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}

	exact := filepath.Join(dir, "plan.image")
	paths, err = writeArtifacts(artifacts, []string{"svg"}, trimFormatExt(exact), exact, false)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 1 || paths[0] != exact {
		t.Errorf("single format should keep the explicit name, got %v", paths)
	}
}

func TestApplyProfile(t *testing.T) {
	doc, err := catalog.DecodeDocument(catalog.DefaultResource, "json")
	if err != nil {
		t.Fatal(err)
	}
	var req plan.Request
	if !applyProfile(&req, catalog.New(doc, "builtin")) {
		t.Fatal("built-in catalogue should carry a default allocation")
	}
	var ids []string
	for _, r := range req.Rooms {
		ids = append(ids, r.ID)
	}
	want := []string{"living-1", "kitchen-1", "bed-1", "bed-2", "wc-1"}
	if !slices.Equal(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	var empty plan.Request
	if applyProfile(&empty, catalog.Fallback()) {
		t.Error("fallback catalogue has no allocation")
	}
	if len(empty.Rooms) != 0 {
		t.Errorf("rooms = %v, want none", empty.Rooms)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()
	for _, name := range []string{"generate", "validate", "render", "edit", "presets", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestCatalogFlagOverridesConfig(t *testing.T) {
	isolate(t)
	t.Setenv("FLOORPLAN_CATALOG", "from-env.json")

	c := newTestCLI()
	c.catalogSrc = "from-flag.json"
	cfg, err := c.config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Catalog.Source != "from-flag.json" {
		t.Errorf("source = %q, want the flag value", cfg.Catalog.Source)
	}
}

func TestCacheLocation(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name string
		cfg  config.CacheConfig
		want string
	}{
		{"none", config.CacheConfig{Backend: config.BackendNone}, "none"},
		{"redis", config.CacheConfig{Backend: config.BackendRedis, Addr: "cache:6379"}, "redis://cache:6379"},
		{"file default", config.CacheConfig{Backend: config.BackendFile}, filepath.Join(dir, "cache", "floorplan")},
		{"sqlite default", config.CacheConfig{Backend: config.BackendSQLite}, filepath.Join(dir, "cache", "floorplan", "cache.db")},
		{"explicit path", config.CacheConfig{Backend: config.BackendFile, Path: "/tmp/fp"}, "/tmp/fp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cacheLocation(config.Config{Cache: tt.cfg})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("cacheLocation = %q, want %q", got, tt.want)
			}
		})
	}
}
