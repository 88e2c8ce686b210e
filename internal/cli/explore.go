package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/calloway/intertext/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command for interactive browsing.
func (c *CLI) exploreCommand() *cobra.Command {
	var skipBad bool

	cmd := &cobra.Command{
		Use:   "explore [edges.csv|graph.json]",
		Short: "Browse the influence network interactively",
		Long: `Browse the influence network interactively.

The explore command opens a terminal browser over the network. Works are
listed in publication order; the detail pane shows each work's influences,
influencers, and themes. Press 'f' to cycle the theme filter.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runExplore(cmd.Context(), input, skipBad)
		},
	}

	cmd.Flags().BoolVar(&skipBad, "skip-bad", false, "skip malformed rows instead of failing")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, skipBad bool) error {
	g, err := c.loadAny(ctx, input, skipBad)
	if err != nil {
		return err
	}

	model := NewWorkListModel(g)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}

// =============================================================================
// WorkListModel - Interactive network browsing
// =============================================================================

// WorkListModel is the bubbletea model for browsing works on the timeline.
type WorkListModel struct {
	Graph      *graph.Graph
	Works      []*graph.Node
	Themes     []string
	Centrality map[string]float64
	Cursor     int
	Height     int
	Offset     int

	// themeIdx selects the active theme filter. -1 means all themes.
	themeIdx int
}

// NewWorkListModel creates a browsing model over the full network.
func NewWorkListModel(g *graph.Graph) WorkListModel {
	return WorkListModel{
		Graph:      g,
		Works:      g.Nodes(),
		Themes:     g.Themes(),
		Centrality: g.DegreeCentrality(),
		Height:     15,
		themeIdx:   -1,
	}
}

func (m WorkListModel) Init() tea.Cmd {
	return nil
}

func (m WorkListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Works)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "f":
			m.themeIdx++
			if m.themeIdx >= len(m.Themes) {
				m.themeIdx = -1
			}
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// applyFilter rebuilds the work list for the active theme and resets the cursor.
func (m *WorkListModel) applyFilter() {
	if m.themeIdx < 0 {
		m.Works = m.Graph.Nodes()
	} else {
		theme := m.Themes[m.themeIdx]
		m.Works = worksWithTheme(m.Graph, theme)
	}
	m.Cursor = 0
	m.Offset = 0
}

// worksWithTheme returns works touching at least one edge tagged with theme,
// in timeline order.
func worksWithTheme(g *graph.Graph, theme string) []*graph.Node {
	keep := make(map[string]bool)
	for _, e := range g.Edges() {
		for _, t := range e.Themes {
			if t == theme {
				keep[e.From] = true
				keep[e.To] = true
			}
		}
	}
	var works []*graph.Node
	for _, n := range g.Nodes() {
		if keep[n.ID] {
			works = append(works, n)
		}
	}
	return works
}

func (m WorkListModel) View() string {
	var b strings.Builder

	filter := "all themes"
	if m.themeIdx >= 0 {
		filter = m.Themes[m.themeIdx]
	}

	b.WriteString(StyleTitle.Render("Influence Network"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("filter: " + filter))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  f filter theme  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Works) {
		end = len(m.Works)
	}

	for i := m.Offset; i < end; i++ {
		n := m.Works[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%d  %-40s %s", cursor, n.Year, truncate(n.Title, 40),
			listDimStyle.Render(fmt.Sprintf("deg %d", m.Graph.Degree(n.ID))))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.Works) == 0 {
		b.WriteString(listDimStyle.Render("  no works match this filter"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())

	return b.String()
}

// detailView renders the influence detail pane for the work under the cursor.
func (m WorkListModel) detailView() string {
	if m.Cursor >= len(m.Works) {
		return ""
	}
	n := m.Works[m.Cursor]

	var b strings.Builder
	b.WriteString(listDimStyle.Render(strings.Repeat("─", 60)))
	b.WriteString("\n")
	b.WriteString(listSelectedStyle.Render(n.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("centrality %.3f", m.Centrality[n.ID])))
	b.WriteString("\n")

	if influencers := m.Graph.Influencers(n.ID); len(influencers) > 0 {
		b.WriteString(listNormalStyle.Render("influenced by: "))
		b.WriteString(listDimStyle.Render(strings.Join(influencers, ", ")))
		b.WriteString("\n")
	}
	if influenced := m.Graph.Influenced(n.ID); len(influenced) > 0 {
		b.WriteString(listNormalStyle.Render("influences: "))
		b.WriteString(listDimStyle.Render(strings.Join(influenced, ", ")))
		b.WriteString("\n")
	}

	return b.String()
}

// truncate shortens s to n runes, never splitting a multi-byte character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
