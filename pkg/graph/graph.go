// Package graph provides the in-memory influence network: works as nodes,
// directed influence edges carrying a weight and a theme set.
//
// The graph is rebuilt from scratch on every run; there is no incremental
// mutation beyond construction. It is not safe for concurrent modification.
package graph

import (
	"errors"
	"slices"
	"strings"

	"github.com/calloway/intertext/pkg/corpus"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddWork] when the work produces
	// an empty node ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownSourceNode is returned by [Graph.AddInfluence] when the
	// source work has not been added.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddInfluence] when the
	// target work has not been added.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddInfluence] when both endpoints
	// are the same work.
	ErrSelfLoop = errors.New("self-loop edges are not allowed")
)

// Node is a literary work in the network.
type Node struct {
	ID    string // canonical "Title (Year)" identifier
	Title string
	Year  int
}

// Edge is a directed influence between two works.
type Edge struct {
	From   string // source node ID
	To     string // target node ID
	Weight corpus.Weight
	Themes []string // normalized, sorted
	Note   string
}

// Graph is the influence network.
// The zero value is not usable - use New.
type Graph struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> influenced IDs
	incoming map[string][]string // nodeID -> influencer IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddWork inserts the work as a node if not already present and returns its
// node ID. If a node with the same ID exists, the existing node is kept
// unchanged (first year wins on conflicting metadata).
func (g *Graph) AddWork(w corpus.Work) (string, error) {
	if strings.TrimSpace(w.Title) == "" {
		return "", ErrInvalidNodeID
	}
	id := w.ID()
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = &Node{ID: id, Title: w.Title, Year: w.Year}
	}
	return id, nil
}

// AddInfluence attaches a directed edge between two existing nodes.
// Duplicate (from, to) pairs merge: the stronger weight wins, theme sets
// union, and notes are joined. Both endpoints must already exist.
func (g *Graph) AddInfluence(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}

	for i := range g.edges {
		if g.edges[i].From == e.From && g.edges[i].To == e.To {
			g.edges[i] = mergeEdges(g.edges[i], e)
			return nil
		}
	}

	e.Themes = slices.Clone(e.Themes)
	slices.Sort(e.Themes)
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// mergeEdges combines a duplicate edge into the existing one:
// max weight, union of themes, notes joined with "; ".
func mergeEdges(a, b Edge) Edge {
	if b.Weight > a.Weight {
		a.Weight = b.Weight
	}
	for _, t := range b.Themes {
		if !slices.Contains(a.Themes, t) {
			a.Themes = append(a.Themes, t)
		}
	}
	slices.Sort(a.Themes)
	if b.Note != "" && b.Note != a.Note {
		if a.Note == "" {
			a.Note = b.Note
		} else {
			a.Note = a.Note + "; " + b.Note
		}
	}
	return a
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by year, then ID.
// The order is the timeline order used by the layout.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return strings.Compare(a.ID, b.ID)
	})
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Influenced returns the IDs of works this work influences.
func (g *Graph) Influenced(id string) []string { return g.outgoing[id] }

// Influencers returns the IDs of works that influence this work.
func (g *Graph) Influencers(id string) []string { return g.incoming[id] }

// Degree returns the number of edges incident to the node, in either
// direction. Returns 0 if the node doesn't exist.
func (g *Graph) Degree(id string) int {
	return len(g.outgoing[id]) + len(g.incoming[id])
}

// Themes returns the sorted union of theme tags across all edges.
func (g *Graph) Themes() []string {
	seen := make(map[string]struct{})
	for _, e := range g.edges {
		for _, t := range e.Themes {
			seen[t] = struct{}{}
		}
	}
	themes := make([]string, 0, len(seen))
	for t := range seen {
		themes = append(themes, t)
	}
	slices.Sort(themes)
	return themes
}

// FromInfluences builds a graph from validated influences.
// Endpoints are added as nodes on first sight; duplicate source/target pairs
// merge per [Graph.AddInfluence].
func FromInfluences(influences []corpus.Influence) (*Graph, error) {
	g := New()
	for _, inf := range influences {
		src, err := g.AddWork(inf.Source)
		if err != nil {
			return nil, err
		}
		tgt, err := g.AddWork(inf.Target)
		if err != nil {
			return nil, err
		}
		err = g.AddInfluence(Edge{
			From:   src,
			To:     tgt,
			Weight: inf.Weight,
			Themes: inf.Themes,
			Note:   inf.Note,
		})
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}
