// Package config loads the optional intertext.toml project file.
//
// The file lives next to the edges CSV and pins per-corpus defaults so the
// bare `intertext build` invocation needs no flags. Flags override config
// values; config values override built-in defaults. A missing file is not
// an error.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/calloway/intertext/pkg/errors"
)

// DefaultPath is the config filename looked up in the working directory.
const DefaultPath = "intertext.toml"

// Cache backends selectable in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config holds the project-level settings.
type Config struct {
	Input       string `toml:"input"`
	OutputDir   string `toml:"output_dir"`
	Title       string `toml:"title"`
	Subtitle    string `toml:"subtitle"`
	SkipBadRows bool   `toml:"skip_bad_rows"`

	// Palette maps normalized theme tags to CSS colors for the interactive
	// HTML rendering.
	Palette map[string]string `toml:"palette"`

	Frame   Frame   `toml:"frame"`
	Cache   Cache   `toml:"cache"`
	Archive Archive `toml:"archive"`
}

// Frame pins the rendering frame dimensions.
type Frame struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend   string `toml:"backend"` // file (default), redis, none
	RedisAddr string `toml:"redis_addr"`
}

// Archive configures the MongoDB snapshot store.
type Archive struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: Cache{Backend: CacheBackendFile},
		Archive: Archive{
			Database:   "intertext",
			Collection: "snapshots",
		},
	}
}

// Load reads the config file at path, layered over [Default].
// A missing file returns the defaults without error; a malformed file is an
// INVALID_CONFIG error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Cache.Backend {
	case "", CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be file, redis, or none)", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == CacheBackendRedis && cfg.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
	}
	if cfg.Frame.Width < 0 || cfg.Frame.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "frame dimensions must be positive")
	}
	return nil
}
