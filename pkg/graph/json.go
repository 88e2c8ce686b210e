package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/calloway/intertext/pkg/corpus"
)

// =============================================================================
// Serialization Types
// =============================================================================

// Document is the canonical serialization format for influence graphs.
// Used for the graph.json interchange file, caching, the preview API, and
// archive storage (hence the bson tags).
//
// The format is deterministic: nodes sorted by year then ID, edges by
// (from, to). Re-serializing an unchanged graph produces identical bytes.
type Document struct {
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Edges []EdgeDoc `json:"edges" bson:"edges"`
}

// NodeDoc is the serialized form of a work node.
type NodeDoc struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
	Year  int    `json:"year" bson:"year"`
}

// EdgeDoc is the serialized form of an influence edge.
type EdgeDoc struct {
	From   string   `json:"from" bson:"from"`
	To     string   `json:"to" bson:"to"`
	Weight int      `json:"weight" bson:"weight"`
	Themes []string `json:"themes,omitempty" bson:"themes,omitempty"`
	Note   string   `json:"note,omitempty" bson:"note,omitempty"`
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// ToDocument converts a graph to its serialization format.
func ToDocument(g *Graph) Document {
	nodes := g.Nodes() // already year-then-ID sorted

	out := Document{
		Nodes: make([]NodeDoc, len(nodes)),
		Edges: make([]EdgeDoc, g.EdgeCount()),
	}
	for i, n := range nodes {
		out.Nodes[i] = NodeDoc{ID: n.ID, Title: n.Title, Year: n.Year}
	}
	for i, e := range g.Edges() {
		out.Edges[i] = EdgeDoc{
			From:   e.From,
			To:     e.To,
			Weight: int(e.Weight),
			Themes: e.Themes,
			Note:   e.Note,
		}
	}
	slices.SortFunc(out.Edges, func(a, b EdgeDoc) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return out
}

// FromDocument converts a serialized document back to a graph.
// Returns an error if an edge references a missing node or carries an
// invalid weight.
func FromDocument(doc Document) (*Graph, error) {
	g := New()
	for _, nd := range doc.Nodes {
		if _, err := g.AddWork(corpus.Work{Title: nd.Title, Year: nd.Year}); err != nil {
			return nil, fmt.Errorf("node %q: %w", nd.ID, err)
		}
	}
	for _, ed := range doc.Edges {
		w := corpus.Weight(ed.Weight)
		if !w.Valid() {
			return nil, fmt.Errorf("edge %s -> %s: invalid weight %d", ed.From, ed.To, ed.Weight)
		}
		err := g.AddInfluence(Edge{
			From:   ed.From,
			To:     ed.To,
			Weight: w,
			Themes: ed.Themes,
			Note:   ed.Note,
		})
		if err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", ed.From, ed.To, err)
		}
	}
	return g, nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a graph as JSON to an io.Writer.
func Write(g *Graph, w io.Writer) error {
	return writeTo(g, w)
}

// WriteFile writes a graph to a JSON file with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(g, f)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// ReadFile reads a JSON file and returns the decoded graph.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func writeTo(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
