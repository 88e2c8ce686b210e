package graph

// DegreeCentrality returns each node's degree divided by (n-1), the number
// of other nodes. For a single-node graph, every centrality is 0.
// Used to size nodes visually; derived, never stored.
func (g *Graph) DegreeCentrality() map[string]float64 {
	n := g.NodeCount()
	cent := make(map[string]float64, n)
	if n <= 1 {
		for id := range g.nodes {
			cent[id] = 0
		}
		return cent
	}
	denom := float64(n - 1)
	for id := range g.nodes {
		cent[id] = float64(g.Degree(id)) / denom
	}
	return cent
}

// WeightedDegree returns the sum of edge weights incident to the node,
// in either direction. Returns 0 if the node doesn't exist.
func (g *Graph) WeightedDegree(id string) int {
	total := 0
	for _, e := range g.edges {
		if e.From == id || e.To == id {
			total += int(e.Weight)
		}
	}
	return total
}
