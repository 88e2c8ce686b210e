package graph

import (
	"math"
	"testing"

	"github.com/calloway/intertext/pkg/corpus"
)

func TestDegreeCentrality(t *testing.T) {
	g := testGraph(t)

	cent := g.DegreeCentrality()

	// 4 nodes, so the denominator is 3.
	tests := []struct {
		id   string
		want float64
	}{
		{"Ulysses (1922)", 1.0},
		{"The Odyssey (-700)", 1.0 / 3.0},
		{"Hamlet (1603)", 1.0 / 3.0},
		{"Mrs Dalloway (1925)", 1.0 / 3.0},
	}
	for _, tt := range tests {
		if got := cent[tt.id]; math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("centrality[%q] = %f, want %f", tt.id, got, tt.want)
		}
	}
}

func TestDegreeCentralitySingleNode(t *testing.T) {
	g := New()
	id, _ := g.AddWork(corpus.Work{Title: "Beowulf", Year: 1000})

	cent := g.DegreeCentrality()
	if cent[id] != 0 {
		t.Errorf("single-node centrality = %f, want 0", cent[id])
	}
}

func TestDegreeCentralityEmpty(t *testing.T) {
	g := New()
	if cent := g.DegreeCentrality(); len(cent) != 0 {
		t.Errorf("empty graph centrality = %v, want empty", cent)
	}
}

func TestWeightedDegree(t *testing.T) {
	g := testGraph(t)

	// Ulysses: in 3 + in 2 + out 1 = 6.
	if got := g.WeightedDegree("Ulysses (1922)"); got != 6 {
		t.Errorf("WeightedDegree = %d, want 6", got)
	}
	if got := g.WeightedDegree("missing"); got != 0 {
		t.Errorf("WeightedDegree of missing node = %d, want 0", got)
	}
}
