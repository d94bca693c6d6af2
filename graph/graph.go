// Package graph is the authoritative store for simulated nodes and edges.
//
// The node and edge sets are unexported maps. Structural changes go through
// Graph methods, so only the sync pass and the drag operations can add, remove
// or pin entities; the physics step mutates kinematic fields in place.
package graph

import (
	"math"
	"sort"
	"unicode/utf8"
)

const (
	// MaxDisplayLabel is the number of characters of an id shown on a node.
	MaxDisplayLabel = 6
	// MinRadius is the smallest node radius regardless of label length.
	MinRadius = 20.0
	// IdealLengthFactor scales the sum of endpoint radii into an edge's ideal length.
	IdealLengthFactor = 3.0
)

type Node struct {
	ID     string
	Label  string  // display label, at most MaxDisplayLabel characters
	X, Y   float64 // position in world space
	VX, VY float64 // velocity
	FX, FY float64 // force accumulated during the current sub-step
	Radius float64
	Mass   float64
	Fixed  bool // held by a drag; exempt from forces and integration

	gen uint64
}

// EdgeKey identifies an edge. Two edges with the same endpoints but different
// labels are distinct.
type EdgeKey struct {
	Source string
	Target string
	Label  string
}

type Edge struct {
	Key         EdgeKey
	RestLength  float64
	IdealLength float64

	gen uint64
}

// Source returns the id of the edge's source node
func (e *Edge) Source() string { return e.Key.Source }

// Target returns the id of the edge's target node
func (e *Edge) Target() string { return e.Key.Target }

// Label returns the edge's text label, empty if none
func (e *Edge) Label() string { return e.Key.Label }

type Graph struct {
	nodes map[string]*Node
	edges map[EdgeKey]*Edge

	generation uint64
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[EdgeKey]*Edge),
	}
}

// DisplayLabel truncates an id to at most MaxDisplayLabel characters.
func DisplayLabel(id string) string {
	if utf8.RuneCountInString(id) <= MaxDisplayLabel {
		return id
	}
	runes := []rune(id)
	return string(runes[:MaxDisplayLabel])
}

// RadiusFor returns the node radius for a display label.
func RadiusFor(label string) float64 {
	return math.Max(MinRadius, float64(utf8.RuneCountInString(label))*6+10)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether a node with id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether an edge with key exists.
func (g *Graph) HasEdge(key EdgeKey) bool {
	_, ok := g.edges[key]
	return ok
}

// Node returns a copy of the node with id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the edge with key.
func (g *Graph) Edge(key EdgeKey) (Edge, bool) {
	e, ok := g.edges[key]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// AddNode inserts a node at (x, y) with zero velocity. The display label and
// radius are derived from id. An existing node with the same id is left alone
// and false is returned.
func (g *Graph) AddNode(id string, x, y float64) bool {
	if _, ok := g.nodes[id]; ok {
		return false
	}
	label := DisplayLabel(id)
	g.nodes[id] = &Node{
		ID:     id,
		Label:  label,
		X:      x,
		Y:      y,
		Radius: RadiusFor(label),
		Mass:   1.0,
		gen:    g.generation,
	}
	return true
}

// SetLabel updates a node's display label and radius from source. Position,
// velocity and the fixed flag are untouched.
func (g *Graph) SetLabel(id, source string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.Label = DisplayLabel(source)
	n.Radius = RadiusFor(n.Label)
	return true
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id string) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	delete(g.nodes, id)
	for key := range g.edges {
		if key.Source == id || key.Target == id {
			delete(g.edges, key)
		}
	}
	return true
}

// AddEdge inserts an edge whose rest length starts at the current distance
// between its endpoints, so it does not snap on creation. It returns false if
// either endpoint is missing or the edge already exists.
func (g *Graph) AddEdge(key EdgeKey) bool {
	if _, ok := g.edges[key]; ok {
		return false
	}
	src, ok := g.nodes[key.Source]
	if !ok {
		return false
	}
	dst, ok := g.nodes[key.Target]
	if !ok {
		return false
	}
	g.edges[key] = &Edge{
		Key:         key,
		RestLength:  math.Hypot(dst.X-src.X, dst.Y-src.Y),
		IdealLength: IdealLengthFactor * (src.Radius + dst.Radius),
		gen:         g.generation,
	}
	return true
}

// RemoveEdge deletes the edge with key.
func (g *Graph) RemoveEdge(key EdgeKey) bool {
	if _, ok := g.edges[key]; !ok {
		return false
	}
	delete(g.edges, key)
	return true
}

// ReconfigureEdges recomputes every edge's ideal length from the current
// endpoint radii. It must run after radii change and before the next step.
func (g *Graph) ReconfigureEdges() {
	for _, e := range g.edges {
		src, ok1 := g.nodes[e.Key.Source]
		dst, ok2 := g.nodes[e.Key.Target]
		if !ok1 || !ok2 {
			continue
		}
		e.IdealLength = IdealLengthFactor * (src.Radius + dst.Radius)
	}
}

// Clear removes all nodes and edges.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.edges = make(map[EdgeKey]*Edge)
}

// Nodes returns the live nodes ordered by id. The pointers are for in-place
// kinematic updates; callers must not retain them across structural changes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// Edges returns the live edges ordered by key.
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Key.Less(edges[j].Key) })
	return edges
}

// Lookup returns the live node with id for in-place kinematic updates.
func (g *Graph) Lookup(id string) *Node {
	return g.nodes[id]
}

// Less orders edge keys by source, target, then label.
func (k EdgeKey) Less(other EdgeKey) bool {
	if k.Source != other.Source {
		return k.Source < other.Source
	}
	if k.Target != other.Target {
		return k.Target < other.Target
	}
	return k.Label < other.Label
}
