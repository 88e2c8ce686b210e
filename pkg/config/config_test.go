package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calloway/intertext/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intertext.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("default backend = %q, want %q", cfg.Cache.Backend, CacheBackendFile)
	}
	if cfg.Archive.Database != "intertext" || cfg.Archive.Collection != "snapshots" {
		t.Errorf("default archive = %+v", cfg.Archive)
	}
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
input = "data/edges.csv"
output_dir = "public"
title = "Modernist Influences"
subtitle = "A reading map"
skip_bad_rows = true

[palette]
memory = "#b8552f"
myth = "#2a6f77"

[frame]
width = 1200
height = 800

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[archive]
uri = "mongodb://localhost:27017"
database = "corpora"
collection = "runs"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Input != "data/edges.csv" {
		t.Errorf("Input = %q", cfg.Input)
	}
	if cfg.OutputDir != "public" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Title != "Modernist Influences" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if !cfg.SkipBadRows {
		t.Error("SkipBadRows = false, want true")
	}
	if cfg.Frame.Width != 1200 || cfg.Frame.Height != 800 {
		t.Errorf("Frame = %+v", cfg.Frame)
	}
	if cfg.Palette["memory"] != "#b8552f" || cfg.Palette["myth"] != "#2a6f77" {
		t.Errorf("Palette = %v", cfg.Palette)
	}
	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Archive.URI != "mongodb://localhost:27017" || cfg.Archive.Database != "corpora" {
		t.Errorf("Archive = %+v", cfg.Archive)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `title = "Just a title"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Title != "Just a title" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("backend = %q, want default %q", cfg.Cache.Backend, CacheBackendFile)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", `title = "unterminated`},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"negative frame", "[frame]\nwidth = -10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want INVALID_CONFIG (err: %v)", errors.GetCode(err), err)
			}
		})
	}
}
