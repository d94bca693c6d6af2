package graph

// Generation-tagged reconciliation. A sync pass calls BeginGeneration, marks
// every entity it wants to keep with TouchNode/TouchEdge (or creates it, which
// marks it), then sweeps away everything that was not marked.

// BeginGeneration opens a new marking pass and returns its number.
func (g *Graph) BeginGeneration() uint64 {
	g.generation++
	return g.generation
}

// Generation returns the number of the current marking pass.
func (g *Graph) Generation() uint64 {
	return g.generation
}

// TouchNode marks a node as live in the current generation.
func (g *Graph) TouchNode(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.gen = g.generation
	return true
}

// TouchEdge marks an edge as live in the current generation.
func (g *Graph) TouchEdge(key EdgeKey) bool {
	e, ok := g.edges[key]
	if !ok {
		return false
	}
	e.gen = g.generation
	return true
}

// SweepNodes removes every node not touched in the current generation,
// cascading to their edges. It returns the number of nodes removed.
func (g *Graph) SweepNodes() int {
	removed := 0
	for id, n := range g.nodes {
		if n.gen != g.generation {
			g.RemoveNode(id)
			removed++
		}
	}
	return removed
}

// SweepEdges removes every edge not touched in the current generation and
// returns how many were removed.
func (g *Graph) SweepEdges() int {
	removed := 0
	for key, e := range g.edges {
		if e.gen != g.generation {
			delete(g.edges, key)
			removed++
		}
	}
	return removed
}
