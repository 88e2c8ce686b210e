package dot

import (
	"strings"
	"testing"

	"github.com/calloway/intertext/pkg/corpus"
	"github.com/calloway/intertext/pkg/graph"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	influences := []corpus.Influence{
		{
			Source: corpus.Work{Title: "The Odyssey", Year: -700},
			Target: corpus.Work{Title: "Ulysses", Year: 1922},
			Weight: corpus.WeightReuse,
			Themes: []string{"homecoming", "wandering"},
			Note:   "structural retelling",
		},
		{
			Source: corpus.Work{Title: "Mrs Dalloway", Year: 1925},
			Target: corpus.Work{Title: "The Hours", Year: 1998},
			Weight: corpus.WeightEcho,
			Themes: []string{"time"},
		},
	}
	g, err := graph.FromInfluences(influences)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := buildGraph(t)
	dot := ToDOT(g, Options{})

	wantFragments := []string{
		"digraph influence {",
		"rankdir=LR;",
		`"The Odyssey (-700)" [label="The Odyssey\n-700"];`,
		`"Ulysses (1922)" [label="Ulysses\n1922"];`,
		`"The Odyssey (-700)" -> "Ulysses (1922)"`,
		"penwidth=3.0",
		"penwidth=2.0",
		`tooltip="homecoming, wandering (3/3)"`,
	}
	for _, frag := range wantFragments {
		if !strings.Contains(dot, frag) {
			t.Errorf("DOT output missing %q\n%s", frag, dot)
		}
	}

	if strings.Contains(dot, "structural retelling") {
		t.Error("note should not appear without Detailed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := buildGraph(t)
	dot := ToDOT(g, Options{Detailed: true})

	if !strings.Contains(dot, "structural retelling") {
		t.Error("Detailed output should include the note")
	}
}

func TestToDOTEmptyGraph(t *testing.T) {
	dot := ToDOT(graph.New(), Options{})
	if !strings.Contains(dot, "digraph influence {") || !strings.Contains(dot, "}") {
		t.Errorf("empty graph DOT malformed:\n%s", dot)
	}
}

func TestEdgeTooltipNoThemes(t *testing.T) {
	e := graph.Edge{Weight: corpus.WeightResonance}
	if got := edgeTooltip(e, false); got != "1/3" {
		t.Errorf("edgeTooltip = %q, want %q", got, "1/3")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 120.50 60.25" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 120.50 60.25"`) {
		t.Errorf("viewBox not normalized:\n%s", out)
	}
	if !strings.Contains(out, `width="121"`) && !strings.Contains(out, `width="120"`) {
		t.Errorf("pixel width missing:\n%s", out)
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg>plain</svg>")
	if got := normalizeViewBox(in); string(got) != string(in) {
		t.Error("input without viewBox should pass through unchanged")
	}
}
