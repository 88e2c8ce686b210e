package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/calloway/intertext/pkg/cache"
	"github.com/calloway/intertext/pkg/corpus"
	"github.com/calloway/intertext/pkg/errors"
	"github.com/calloway/intertext/pkg/graph"
	"github.com/calloway/intertext/pkg/layout"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	g, skipped, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.SkippedRows = skipped
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.LoadHit = loadHit

	if graphData, err := graph.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("loaded influence network",
		"works", g.NodeCount(),
		"edges", g.EdgeCount(),
		"skipped", skipped,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed timeline layout",
		"points", len(l.Points),
		"years", fmt.Sprintf("%d-%d", l.MinYear, l.MaxYear),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo reads and validates the CSV with caching.
// Returns the graph, the skipped-row count (0 on cache hits), and hit info.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*graph.Graph, int, bool, error) {
	if opts.Input == "" {
		opts.Input = DefaultInput
	}
	r.applyLogger(&opts)

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, false, errors.New(errors.ErrCodeFileNotFound, "input file not found: %s", opts.Input)
		}
		return nil, 0, false, err
	}

	cacheKey := r.Keyer.GraphKey(cache.Hash(data), opts.GraphKeyOpts())
	if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if g, err := graph.Read(bytes.NewReader(cached)); err == nil {
			return g, 0, true, nil
		}
		// Corrupt entry - recompute
	}

	policy := corpus.PolicyStrict
	if opts.SkipBadRows {
		policy = corpus.PolicySkip
	}
	loaded, err := corpus.Load(bytes.NewReader(data), corpus.LoadOptions{
		Policy: policy,
		Logger: opts.Logger,
	})
	if err != nil {
		return nil, 0, false, err
	}

	g, err := graph.FromInfluences(loaded.Influences)
	if err != nil {
		return nil, 0, false, errors.Wrap(errors.ErrCodeGraph, err, "build graph")
	}

	if serialized, err := graph.Marshal(g); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, serialized, cache.TTLGraph)
	}

	return g, loaded.Skipped, false, nil
}

// Load is a convenience wrapper that discards cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Graph, error) {
	g, _, _, err := r.LoadWithCacheInfo(ctx, opts)
	return g, err
}

// ComputeLayoutWithCacheInfo computes timeline positions with caching.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (layout.Layout, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	graphData, err := graph.Marshal(g)
	if err != nil {
		return layout.Layout{}, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := layout.Unmarshal(data); err == nil {
			return cached, true, nil
		}
		// Corrupt entry - recompute
	}

	l := layout.Build(g, layout.Options{Width: opts.Width, Height: opts.Height})

	if data, err := layout.Marshal(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return l, false, nil
}

// ComputeLayout is a convenience wrapper that discards cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching.
// Returns true for the hit flag only when every requested format was cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, g *graph.Graph, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Rendering consumes edge weights, themes, and notes in addition to
	// the positions, so the key covers the full graph, not just the layout.
	graphData, err := graph.Marshal(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format, l))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(l, g, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format, l))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
