// Package corpus defines the domain model for the influence network:
// literary works and the weighted, theme-tagged influence edges between them.
//
// A [Work] is identified by its title and approximate publication year.
// An [Influence] connects two works with a strength level ([Weight]) and a
// set of normalized theme tags. The corpus is the validated intermediate
// form between the raw CSV rows and the in-memory graph.
package corpus

import (
	"fmt"
	"strings"
)

// Weight is the strength of an intertextual connection.
// Only the three defined levels are valid; anything else is rejected at load.
type Weight int

const (
	// WeightResonance marks a stylistic resonance between works.
	WeightResonance Weight = 1
	// WeightEcho marks a thematic echo.
	WeightEcho Weight = 2
	// WeightReuse marks direct reuse (quotation, retelling, reply).
	WeightReuse Weight = 3
)

// Valid reports whether the weight is one of the three defined levels.
func (w Weight) Valid() bool {
	return w >= WeightResonance && w <= WeightReuse
}

// String returns the human-readable name of the weight level.
func (w Weight) String() string {
	switch w {
	case WeightResonance:
		return "stylistic resonance"
	case WeightEcho:
		return "thematic echo"
	case WeightReuse:
		return "direct reuse"
	default:
		return fmt.Sprintf("invalid(%d)", int(w))
	}
}

// Work is a single literary work, identified by title and year.
type Work struct {
	Title string
	Year  int
}

// ID returns the canonical node identifier for the work.
// Title and year together disambiguate works with reused titles.
func (w Work) ID() string {
	return fmt.Sprintf("%s (%d)", w.Title, w.Year)
}

// Influence is a validated influence edge between two works.
type Influence struct {
	Source Work
	Target Work
	Weight Weight
	Themes []string // normalized, sorted, deduplicated
	Note   string
}

// HasTheme reports whether the influence carries the given theme tag.
// The tag is normalized before comparison.
func (i Influence) HasTheme(theme string) bool {
	theme = NormalizeTheme(theme)
	for _, t := range i.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// NormalizeTheme canonicalizes a theme tag: trimmed and lowercased.
// Tags like "Memory" and " memory " collapse to "memory".
func NormalizeTheme(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// SplitThemes splits a semicolon-separated theme column into normalized,
// deduplicated tags. Empty fragments are dropped, order of first appearance
// is preserved.
func SplitThemes(s string) []string {
	if s == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var themes []string
	for _, raw := range strings.Split(s, ";") {
		t := NormalizeTheme(raw)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		themes = append(themes, t)
	}
	return themes
}
