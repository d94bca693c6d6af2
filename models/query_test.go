package models

import "testing"

func queryScene() *Scene {
	return &Scene{
		Nodes: []NodeState{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []EdgeState{
			{Source: "a", Target: "b", Label: "x"},
			{Source: "b", Target: "c"},
			{Source: "c", Target: "c"},
		},
		Diagnostics: []Diagnostic{
			{Line: 1, Severity: SeverityWarning, Message: "long"},
			{Line: 2, Severity: SeverityWarning, Message: "long"},
		},
	}
}

func TestFindNodeByID(t *testing.T) {
	s := queryScene()
	n, err := s.FindNodeByID("b")
	if err != nil || n.ID != "b" {
		t.Fatalf("FindNodeByID(b) = %+v, %v", n, err)
	}
	n.X = 5
	if s.Nodes[1].X != 5 {
		t.Error("FindNodeByID should return a pointer into the scene")
	}
	if _, err := s.FindNodeByID("z"); err == nil {
		t.Error("expected an error for a missing node")
	}
}

func TestFindEdgesTouching(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"a", 1},
		{"b", 2},
		{"c", 2},
		{"z", 0},
	}
	s := queryScene()
	for _, tt := range tests {
		if got := len(s.FindEdgesTouching(tt.id)); got != tt.want {
			t.Errorf("FindEdgesTouching(%q) = %d edges, want %d", tt.id, got, tt.want)
		}
	}
}

func TestFilterEdges(t *testing.T) {
	labelled := queryScene().FilterEdges(func(e *EdgeState) bool { return e.Label != "" })
	if len(labelled) != 1 || labelled[0].Source != "a" {
		t.Errorf("labelled edges = %+v", labelled)
	}
}

func TestWarningCount(t *testing.T) {
	s := queryScene()
	if got := s.WarningCount(); got != 2 {
		t.Errorf("WarningCount = %d, want 2", got)
	}
	if got := (&Scene{}).WarningCount(); got != 0 {
		t.Errorf("empty WarningCount = %d", got)
	}
}
