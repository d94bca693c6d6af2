package models

import "fmt"

// EdgeFilter is a function type used to filter edges in queries
type EdgeFilter func(edge *EdgeState) bool

// FindNodeByID returns a node by its ID
func (s *Scene) FindNodeByID(id string) (*NodeState, error) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], nil
		}
	}
	return nil, fmt.Errorf("node with ID %s not found", id)
}

// Touches reports whether the edge has nodeID at either end
func (e *EdgeState) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// FindEdgesTouching returns all edges with nodeID as source or target
func (s *Scene) FindEdgesTouching(nodeID string) []EdgeState {
	return s.FilterEdges(func(e *EdgeState) bool {
		return e.Touches(nodeID)
	})
}

// FilterEdges returns edges that match the provided filter function
func (s *Scene) FilterEdges(filter EdgeFilter) []EdgeState {
	var result []EdgeState
	for i := range s.Edges {
		if filter(&s.Edges[i]) {
			result = append(result, s.Edges[i])
		}
	}
	return result
}

// WarningCount returns the number of warning diagnostics
func (s *Scene) WarningCount() int {
	n := 0
	for _, d := range s.Diagnostics {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}
