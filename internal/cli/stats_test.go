package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	pkgerrors "github.com/calloway/intertext/pkg/errors"
)

func TestCentralityTableThemeFilter(t *testing.T) {
	g := exploreGraph(t)

	out := centralityTable(g, 10, "time")
	for _, want := range []string{"Mrs Dalloway", "The Hours"} {
		if !strings.Contains(out, want) {
			t.Errorf("filtered table missing %q", want)
		}
	}
	if strings.Contains(out, "Ulysses") {
		t.Error("works outside the theme should be excluded")
	}

	out = centralityTable(g, 10, "")
	if !strings.Contains(out, "Ulysses") {
		t.Error("unfiltered table should rank every work")
	}
}

func TestRunStatsRejectsBadTheme(t *testing.T) {
	c := New(io.Discard, LogInfo)

	err := c.runStats(context.Background(), "graph.json", 10, false, "ghost;story")
	if err == nil {
		t.Fatal("expected error for a tag containing the separator")
	}
	if !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", pkgerrors.GetCode(err))
	}
}
