// Package cache provides content-addressed caching for pipeline stages.
//
// Each pipeline stage (load, layout, render) is keyed by a hash of its input
// plus the options that shape its output, so unchanged inputs re-rendered
// with unchanged options never recompute. Backends: a file cache for CLI
// use, a Redis cache for shared deployments, and a null cache for tests and
// --no-cache runs.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Graphs and layouts are cheap to recompute, artifacts
// less so; none of them need to outlive a week of editing the CSV.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get returns the cached data and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry if present.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts are the options that shape a parsed graph.
type GraphKeyOpts struct {
	SkipBadRows bool
}

// LayoutKeyOpts are the options that shape a computed layout.
type LayoutKeyOpts struct {
	Width  float64
	Height float64
}

// ArtifactKeyOpts are the options that shape a rendered artifact.
// Every input the renderers consume beyond the graph itself must appear
// here, otherwise an edit that leaves the graph bytes unchanged could be
// served a stale artifact.
type ArtifactKeyOpts struct {
	Format   string
	Title    string
	Subtitle string
	Width    float64
	Height   float64
	Palette  map[string]string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	GraphKey(csvHash string, opts GraphKeyOpts) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the stage inputs and options into prefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// GraphKey generates a key for a parsed graph.
func (k *DefaultKeyer) GraphKey(csvHash string, opts GraphKeyOpts) string {
	return hashKey("graph", csvHash, opts)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact. Artifacts are keyed
// on the graph hash rather than the layout hash: rendering reads edge
// weights, themes, and notes that never reach the layout bytes.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
