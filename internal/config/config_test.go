package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/plan"
)

// isolate points the XDG directories at a temp dir so the developer's own
// config never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, key := range []string{
		"FLOORPLAN_CATALOG", "FLOORPLAN_MONGO_DATABASE", "FLOORPLAN_MONGO_COLLECTION",
		"FLOORPLAN_CACHE", "FLOORPLAN_CACHE_PATH", "FLOORPLAN_REDIS_ADDR", "FLOORPLAN_REDIS_PASSWORD",
		"FLOORPLAN_REDIS_DB", "FLOORPLAN_CACHE_PREFIX", "FLOORPLAN_WALL_THICKNESS",
		"FLOORPLAN_ADDR", "FLOORPLAN_SESSION_TTL",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Engine.WallThickness != nil {
		t.Errorf("wall thickness = %v, want nil", *cfg.Engine.WallThickness)
	}
	if _, ok := cfg.CatalogSource().(catalog.EmbeddedSource); !ok {
		t.Errorf("source = %T, want EmbeddedSource", cfg.CatalogSource())
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", AppName, "config.toml"), `
[catalog]
source = "presets.yaml"

[cache]
backend = "none"
prefix = "staging"

[engine]
wall_thickness = 0.25

[server]
addr = ":9000"
session_ttl = "30m"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Source != "presets.yaml" {
		t.Errorf("source = %q", cfg.Catalog.Source)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("backend = %q", cfg.Cache.Backend)
	}
	if cfg.Engine.WallThickness == nil || *cfg.Engine.WallThickness != 0.25 {
		t.Errorf("wall thickness = %v", cfg.Engine.WallThickness)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.SessionTTL != 30*time.Minute {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Cache.Addr != "localhost:6379" {
		t.Errorf("unset keys should keep defaults, addr = %q", cfg.Cache.Addr)
	}
	if _, ok := cfg.Keyer().(*cache.ScopedKeyer); !ok {
		t.Errorf("keyer = %T, want scoped", cfg.Keyer())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, "[cache]\nbackend = \"redis\"\naddr = \"redis:6379\"\n[server]\naddr = \":9000\"\n")

	t.Setenv("FLOORPLAN_ADDR", ":7000")
	t.Setenv("FLOORPLAN_REDIS_DB", "3")
	t.Setenv("FLOORPLAN_WALL_THICKNESS", "0.3")
	t.Setenv("FLOORPLAN_SESSION_TTL", "1h")
	t.Setenv("FLOORPLAN_CATALOG", "mongodb://db:27017")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q, want env value", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.Addr != "redis:6379" || cfg.Cache.DB != 3 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Engine.WallThickness == nil || *cfg.Engine.WallThickness != 0.3 {
		t.Errorf("wall thickness = %v", cfg.Engine.WallThickness)
	}
	if cfg.Server.SessionTTL != time.Hour {
		t.Errorf("ttl = %s", cfg.Server.SessionTTL)
	}
	if _, ok := cfg.CatalogSource().(*catalog.MongoSource); !ok {
		t.Errorf("source = %T, want MongoSource", cfg.CatalogSource())
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing explicit config")
	}

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "[cache\nbackend=")
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed config")
	}

	t.Setenv("FLOORPLAN_CACHE", "memcached")
	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "memcached") {
		t.Errorf("err = %v, want backend error", err)
	}
}

func TestValidate(t *testing.T) {
	neg := -0.1
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"sqlite", func(c *Config) { c.Cache.Backend = BackendSQLite }, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "s3" }, true},
		{"negative wall", func(c *Config) { c.Engine.WallThickness = &neg }, true},
		{"negative ttl", func(c *Config) { c.Server.SessionTTL = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenCache(t *testing.T) {
	dir := isolate(t)
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = BackendNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("cache = %T, want NullCache", c)
	}

	cfg.Cache.Backend = BackendFile
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("cache = %T, want FileCache", c)
	}
	if want := filepath.Join(dir, "cache", AppName); fc.Dir() != want {
		t.Errorf("dir = %q, want %q", fc.Dir(), want)
	}

	cfg.Cache.Backend = BackendSQLite
	cfg.Cache.Path = filepath.Join(dir, "db", "cache.db")
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok := c.(*cache.SQLiteCache); !ok {
		t.Errorf("cache = %T, want SQLiteCache", c)
	}
}

func TestApplyDefaults(t *testing.T) {
	thick := 0.3
	cfg := Default()
	cfg.Engine.WallThickness = &thick

	var req plan.Request
	cfg.ApplyDefaults(&req)
	if req.WallThickness == nil || *req.WallThickness != 0.3 {
		t.Fatalf("wall = %v", req.WallThickness)
	}
	*cfg.Engine.WallThickness = 0.5
	if *req.WallThickness != 0.3 {
		t.Error("request shares the config pointer")
	}

	own := 0.1
	req = plan.Request{WallThickness: &own}
	cfg.ApplyDefaults(&req)
	if *req.WallThickness != 0.1 {
		t.Errorf("request override replaced: %v", *req.WallThickness)
	}
}
