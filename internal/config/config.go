// Package config loads floorplan settings.
//
// Settings come from three layers, later ones winning:
//
//  1. A TOML file ($XDG_CONFIG_HOME/floorplan/config.toml, or --config)
//  2. FLOORPLAN_* environment variables
//  3. Command-line flags (applied by the CLI)
//
// Example file:
//
//	[catalog]
//	source = "https://example.com/presets.json"
//
//	[cache]
//	backend = "redis"
//	addr = "localhost:6379"
//
//	[engine]
//	wall_thickness = 0.25
//
//	[server]
//	addr = ":8080"
//	session_ttl = "4h"
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/session"
)

// AppName names the config and cache directories.
const AppName = "floorplan"

// Cache backends.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// ============================================================
// Configuration
// ============================================================

// Config is the full application configuration.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Cache   CacheConfig   `toml:"cache"`
	Engine  EngineConfig  `toml:"engine"`
	Server  ServerConfig  `toml:"server"`
}

// CatalogConfig selects the room preset source.
type CatalogConfig struct {
	// Source is a file path, an http(s) URL, a mongodb URI, or empty for the
	// built-in presets.
	Source          string `toml:"source"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`

	// Path is the directory for the file backend or the database file for
	// sqlite. Empty means the XDG cache directory.
	Path string `toml:"path"`

	// Redis connection.
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// Prefix scopes keys when several deployments share one store.
	Prefix string `toml:"prefix"`
}

// EngineConfig holds generation defaults.
type EngineConfig struct {
	// WallThickness applies to requests that carry no override.
	WallThickness *float64 `toml:"wall_thickness"`
}

// ServerConfig configures `floorplan serve`.
type ServerConfig struct {
	Addr       string        `toml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend: BackendFile,
			Addr:    "localhost:6379",
		},
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: session.DefaultTTL,
		},
	}
}

// ============================================================
// Loading
// ============================================================

// Load reads the configuration. An explicit path must exist; with an empty
// path the default location is used when present. Environment overrides are
// applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Catalog.Source = getEnv("FLOORPLAN_CATALOG", c.Catalog.Source)
	c.Catalog.MongoDatabase = getEnv("FLOORPLAN_MONGO_DATABASE", c.Catalog.MongoDatabase)
	c.Catalog.MongoCollection = getEnv("FLOORPLAN_MONGO_COLLECTION", c.Catalog.MongoCollection)

	c.Cache.Backend = getEnv("FLOORPLAN_CACHE", c.Cache.Backend)
	c.Cache.Path = getEnv("FLOORPLAN_CACHE_PATH", c.Cache.Path)
	c.Cache.Addr = getEnv("FLOORPLAN_REDIS_ADDR", c.Cache.Addr)
	c.Cache.Password = getEnv("FLOORPLAN_REDIS_PASSWORD", c.Cache.Password)
	c.Cache.DB = getEnvAsInt("FLOORPLAN_REDIS_DB", c.Cache.DB)
	c.Cache.Prefix = getEnv("FLOORPLAN_CACHE_PREFIX", c.Cache.Prefix)

	if v := os.Getenv("FLOORPLAN_WALL_THICKNESS"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Engine.WallThickness = &t
		}
	}

	c.Server.Addr = getEnv("FLOORPLAN_ADDR", c.Server.Addr)
	if v := os.Getenv("FLOORPLAN_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.SessionTTL = d
		}
	}
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("cache backend must be one of none, file, redis, sqlite, got %q", c.Cache.Backend)
	}
	if t := c.Engine.WallThickness; t != nil && *t < 0 {
		return fmt.Errorf("engine wall_thickness must not be negative, got %g", *t)
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("server session_ttl must not be negative, got %s", c.Server.SessionTTL)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// ============================================================
// Wiring
// ============================================================

// CatalogSource builds the preset source.
func (c Config) CatalogSource() catalog.Source {
	return catalog.NewSource(catalog.Options{
		Location:        c.Catalog.Source,
		MongoDatabase:   c.Catalog.MongoDatabase,
		MongoCollection: c.Catalog.MongoCollection,
	})
}

// OpenCache opens the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.Addr,
			Password: c.Cache.Password,
			DB:       c.Cache.DB,
		})
	case BackendSQLite:
		path := c.Cache.Path
		if path == "" {
			dir, err := CacheDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "cache.db")
		}
		return cache.NewSQLiteCache(path)
	default:
		dir := c.Cache.Path
		if dir == "" {
			var err error
			if dir, err = CacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c Config) Keyer() cache.Keyer {
	k := cache.NewDefaultKeyer()
	if c.Cache.Prefix != "" {
		return cache.NewScopedKeyer(k, c.Cache.Prefix)
	}
	return k
}

// ApplyDefaults fills request fields the file configures.
func (c Config) ApplyDefaults(req *plan.Request) {
	if req.WallThickness == nil && c.Engine.WallThickness != nil {
		t := *c.Engine.WallThickness
		req.WallThickness = &t
	}
}

// ============================================================
// Paths
// ============================================================

// DefaultPath returns $XDG_CONFIG_HOME/floorplan/config.toml, or "" when no
// home directory is known.
func DefaultPath() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// CacheDir returns the cache directory using XDG standard (~/.cache/floorplan/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
