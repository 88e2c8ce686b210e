// Package layout computes timeline positions for the influence network.
//
// The layout places each work at x proportional to its publication year and
// y by its rank in year order, which keeps labels readable for the small,
// hand-curated corpora this tool is built for. Positions are scaled into a
// fixed frame so every renderer shares the same coordinates.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/calloway/intertext/pkg/graph"
)

// Default frame dimensions in pixels.
const (
	DefaultWidth  = 960.0
	DefaultHeight = 600.0

	// marginFrac is the fraction of the frame kept clear on each side.
	marginFrac = 0.06
)

// Point is the computed position of a single work.
type Point struct {
	ID   string  `json:"id" bson:"id"`
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	Size float64 `json:"size" bson:"size"` // marker radius from degree centrality
	Year int     `json:"year" bson:"year"`
}

// Layout holds the positioned network, ready for rendering.
type Layout struct {
	FrameWidth  float64          `json:"frame_width" bson:"frame_width"`
	FrameHeight float64          `json:"frame_height" bson:"frame_height"`
	Points      map[string]Point `json:"points" bson:"points"`
	MinYear     int              `json:"min_year" bson:"min_year"`
	MaxYear     int              `json:"max_year" bson:"max_year"`
}

// Options configures layout computation.
type Options struct {
	Width  float64
	Height float64
}

// Build computes timeline positions for every node in the graph.
// Node marker sizes come from degree centrality: base 9px plus up to 20px.
func Build(g *graph.Graph, opts Options) Layout {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	nodes := g.Nodes() // year order, the timeline rank
	l := Layout{
		FrameWidth:  opts.Width,
		FrameHeight: opts.Height,
		Points:      make(map[string]Point, len(nodes)),
	}
	if len(nodes) == 0 {
		return l
	}

	l.MinYear = nodes[0].Year
	l.MaxYear = nodes[len(nodes)-1].Year

	cent := g.DegreeCentrality()

	marginX := opts.Width * marginFrac
	marginY := opts.Height * marginFrac
	spanX := opts.Width - 2*marginX
	spanY := opts.Height - 2*marginY

	yearSpan := float64(l.MaxYear - l.MinYear)
	rankSpan := float64(len(nodes) - 1)

	for rank, n := range nodes {
		fx, fy := 0.5, 0.5
		if yearSpan > 0 {
			fx = float64(n.Year-l.MinYear) / yearSpan
		}
		if rankSpan > 0 {
			fy = float64(rank) / rankSpan
		}
		l.Points[n.ID] = Point{
			ID:   n.ID,
			X:    marginX + fx*spanX,
			Y:    marginY + fy*spanY,
			Size: 9 + 20*cent[n.ID],
			Year: n.Year,
		}
	}
	return l
}

// =============================================================================
// Layout Serialization
// =============================================================================

// Marshal converts a layout to indented JSON bytes.
// Map iteration order does not leak into the output: encoding/json sorts
// map keys, so identical layouts marshal to identical bytes.
func Marshal(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a layout from JSON bytes.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	if l.Points == nil {
		l.Points = make(map[string]Point)
	}
	return l, nil
}

// WriteFile writes a layout to a JSON file with 0644 permissions.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	return Unmarshal(data)
}

// Read decodes a layout from an io.Reader.
func Read(r io.Reader) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, err
	}
	return Unmarshal(data)
}
