package graph

// Pin fixes a node in place for dragging and zeroes its velocity.
func (g *Graph) Pin(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.Fixed = true
	n.VX, n.VY = 0, 0
	return true
}

// MoveTo places a node directly at (x, y) and zeroes its velocity.
func (g *Graph) MoveTo(id string, x, y float64) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	return true
}

// Release hands a pinned node back to the simulation.
func (g *Graph) Release(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.Fixed = false
	return true
}
