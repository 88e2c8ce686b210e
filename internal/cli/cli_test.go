package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	pkgerrors "github.com/calloway/intertext/pkg/errors"
	"github.com/calloway/intertext/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"html"}},
		{"svg", []string{"svg"}},
		{"html,svg,png", []string{"html", "svg", "png"}},
	}

	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"empty output strips input ext", "", "graph.json", "graph"},
		{"output with format ext", "out.svg", "graph.json", "out"},
		{"output without format ext", "out/network", "graph.json", "out/network"},
		{"output with unrelated ext", "report.csv", "graph.json", "report.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input, pipeline.ValidFormats); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, expected under home %q", dir, home)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, expected %q suffix", dir, appName)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"build", "load", "layout", "render", "stats", "explore", "serve", "archive", "cache", "completion"}
	have := make(map[string]bool)
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestMergeOptions(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Input = "from-config.csv"
	c.Config.Title = "Config Title"
	c.Config.Frame.Width = 1200

	opts := c.mergeOptions(pipeline.Options{Title: "Flag Title"}, true)

	if opts.Input != "from-config.csv" {
		t.Errorf("Input = %q, want config value", opts.Input)
	}
	if opts.Title != "Flag Title" {
		t.Errorf("Title = %q, flag should win", opts.Title)
	}
	if opts.Width != 1200 {
		t.Errorf("Width = %g, want config value", opts.Width)
	}
	if !opts.SkipBadRows {
		t.Error("SkipBadRows not applied")
	}
}

func TestMergeOptionsDefaults(t *testing.T) {
	c := New(io.Discard, LogInfo)

	opts := c.mergeOptions(pipeline.Options{}, false)
	if opts.Input != pipeline.DefaultInput {
		t.Errorf("Input = %q, want default %q", opts.Input, pipeline.DefaultInput)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"html": []byte("<html>"),
		"svg":  []byte("<svg/>"),
	}

	paths, err := writeArtifacts(artifacts, []string{"html", "svg"}, filepath.Join(dir, "graph.json"), "")
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("artifact %q not written: %v", p, err)
		}
	}
}

func TestWriteArtifactsExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "custom.html")

	paths, err := writeArtifacts(map[string][]byte{"html": []byte("x")}, []string{"html"}, "graph.json", out)
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Errorf("paths = %v, want [%s]", paths, out)
	}
}

func TestWriteArtifactDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assets")
	artifacts := map[string][]byte{
		"html": []byte("<html>"),
		"json": []byte("{}"),
	}

	paths, err := writeArtifactDir(artifacts, dir, "network")
	if err != nil {
		t.Fatalf("writeArtifactDir() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	// html sorts before json in the fixed format order
	if filepath.Base(paths[0]) != "network.html" {
		t.Errorf("paths[0] = %q, want network.html first", paths[0])
	}
}

func TestRunLoadRejectsTraversalOutput(t *testing.T) {
	c := New(io.Discard, LogInfo)

	err := c.runLoad(context.Background(), "edges.csv", "../escape/graph.json", false, true)
	if err == nil {
		t.Fatal("expected error for traversal output path")
	}
	if !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidPath) {
		t.Errorf("error code = %v, want INVALID_PATH", pkgerrors.GetCode(err))
	}
}

func TestRunBuildRejectsTraversalOutputDir(t *testing.T) {
	c := New(io.Discard, LogInfo)

	err := c.runBuild(context.Background(), pipeline.Options{
		Input:   "edges.csv",
		Formats: []string{"html"},
	}, "../escape", false, true)
	if err == nil {
		t.Fatal("expected error for traversal output directory")
	}
	if !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidPath) {
		t.Errorf("error code = %v, want INVALID_PATH", pkgerrors.GetCode(err))
	}
}
