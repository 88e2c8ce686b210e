package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calloway/intertext/pkg/corpus"
)

func TestDocumentRoundTrip(t *testing.T) {
	g := testGraph(t)

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	g2, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if g2.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount = %d, want %d", g2.NodeCount(), g.NodeCount())
	}
	if g2.EdgeCount() != g.EdgeCount() {
		t.Errorf("EdgeCount = %d, want %d", g2.EdgeCount(), g.EdgeCount())
	}

	data2, err := Marshal(g2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, data2) {
		t.Error("round-trip changed the serialized bytes")
	}
}

func TestMarshalDeterministic(t *testing.T) {
	a, err := Marshal(testGraph(t))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Marshal(testGraph(t))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical graphs serialized differently")
	}
}

func TestDocumentEdgesSorted(t *testing.T) {
	g := testGraph(t)
	doc := ToDocument(g)

	for i := 1; i < len(doc.Edges); i++ {
		prev, cur := doc.Edges[i-1], doc.Edges[i]
		if prev.From > cur.From || (prev.From == cur.From && prev.To > cur.To) {
			t.Errorf("edges not sorted at %d: (%s,%s) before (%s,%s)",
				i, prev.From, prev.To, cur.From, cur.To)
		}
	}
}

func TestFromDocumentInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{
			name: "missing endpoint",
			doc: Document{
				Nodes: []NodeDoc{{ID: "A (1900)", Title: "A", Year: 1900}},
				Edges: []EdgeDoc{{From: "A (1900)", To: "B (1950)", Weight: 1}},
			},
		},
		{
			name: "invalid weight",
			doc: Document{
				Nodes: []NodeDoc{
					{ID: "A (1900)", Title: "A", Year: 1900},
					{ID: "B (1950)", Title: "B", Year: 1950},
				},
				Edges: []EdgeDoc{{From: "A (1900)", To: "B (1950)", Weight: 9}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromDocument(tt.doc); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWriteReadFile(t *testing.T) {
	g := testGraph(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	g2, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if g2.NodeCount() != 4 || g2.EdgeCount() != 3 {
		t.Errorf("got %d nodes, %d edges", g2.NodeCount(), g2.EdgeCount())
	}
}

func TestReadBadJSON(t *testing.T) {
	if _, err := Read(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error, got nil")
	}
}

func TestDocumentOmitsEmptyThemes(t *testing.T) {
	g := New()
	a, _ := g.AddWork(corpus.Work{Title: "A", Year: 1900})
	b, _ := g.AddWork(corpus.Work{Title: "B", Year: 1950})
	if err := g.AddInfluence(Edge{From: a, To: b, Weight: corpus.WeightResonance}); err != nil {
		t.Fatal(err)
	}

	data, err := Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte(`"themes"`)) {
		t.Error("expected themes key to be omitted when empty")
	}
}
