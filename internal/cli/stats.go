package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/calloway/intertext/pkg/corpus"
	pkgerrors "github.com/calloway/intertext/pkg/errors"
	"github.com/calloway/intertext/pkg/graph"
	"github.com/calloway/intertext/pkg/pipeline"
)

// statsCommand creates the stats command for summarizing an influence network.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		top     int
		skipBad bool
		theme   string
	)

	cmd := &cobra.Command{
		Use:   "stats [edges.csv|graph.json]",
		Short: "Summarize an influence network",
		Long: `Summarize an influence network.

The stats command prints counts, the publication-year span, the theme
vocabulary, and the most central works. It accepts either the edge list CSV
or a graph.json produced by 'load'. With --theme the ranking is restricted
to works touching at least one edge carrying that theme.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runStats(cmd.Context(), input, top, skipBad, theme)
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "number of works to rank by centrality")
	cmd.Flags().BoolVar(&skipBad, "skip-bad", false, "skip malformed rows instead of failing")
	cmd.Flags().StringVar(&theme, "theme", "", "restrict the ranking to one theme tag")

	return cmd
}

// runStats loads the graph from CSV or JSON and prints the summary.
func (c *CLI) runStats(ctx context.Context, input string, top int, skipBad bool, theme string) error {
	if theme != "" {
		if err := pkgerrors.ValidateThemeTag(theme); err != nil {
			return err
		}
		theme = corpus.NormalizeTheme(theme)
	}

	g, err := c.loadAny(ctx, input, skipBad)
	if err != nil {
		return err
	}

	themes := g.Themes()
	minYear, maxYear := yearSpan(g)

	fmt.Println(StyleTitle.Render("Influence Network"))
	printDetail("Works: %d", g.NodeCount())
	printDetail("Influences: %d", g.EdgeCount())
	printDetail("Themes: %d (%s)", len(themes), strings.Join(themes, ", "))
	printDetail("Span: %d to %d", minYear, maxYear)
	if theme != "" {
		printDetail("Filter: theme %q", theme)
	}
	printNewline()

	fmt.Println(centralityTable(g, top, theme))

	return nil
}

// loadAny reads a graph from a JSON file or builds one from a CSV edge list.
func (c *CLI) loadAny(ctx context.Context, input string, skipBad bool) (*graph.Graph, error) {
	if filepath.Ext(input) == ".json" {
		g, err := graph.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("load graph %s: %w", input, err)
		}
		return g, nil
	}

	opts := c.mergeOptions(pipeline.Options{Input: input}, skipBad)
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// yearSpan returns the earliest and latest publication years in the graph.
func yearSpan(g *graph.Graph) (int, int) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0, 0
	}
	// Nodes are sorted by year.
	return nodes[0].Year, nodes[len(nodes)-1].Year
}

// centralityTable renders the top works ranked by degree centrality.
// A non-empty theme restricts the ranking to works touching that theme;
// centrality is still computed over the whole graph.
func centralityTable(g *graph.Graph, top int, theme string) string {
	cent := g.DegreeCentrality()
	nodes := g.Nodes()
	if theme != "" {
		nodes = worksWithTheme(g, theme)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return cent[nodes[i].ID] > cent[nodes[j].ID]
	})
	if top > 0 && len(nodes) > top {
		nodes = nodes[:top]
	}

	rows := make([][]string, 0, len(nodes))
	for i, n := range nodes {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			n.Title,
			fmt.Sprintf("%d", n.Year),
			fmt.Sprintf("%d", len(g.Influencers(n.ID))),
			fmt.Sprintf("%d", len(g.Influenced(n.ID))),
			fmt.Sprintf("%.3f", cent[n.ID]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Work", "Year", "In", "Out", "Centrality").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 || col == 2 {
				return StyleDim
			}
			return StyleValue
		}).
		String()
}
