package graph

import (
	"math"
	"testing"
)

func TestDisplayLabelAndRadius(t *testing.T) {
	tests := []struct {
		id     string
		label  string
		radius float64
	}{
		{"1", "1", 20},
		{"abc", "abc", 28},
		{"abcdef", "abcdef", 46},
		{"abcdefgh", "abcdef", 46},
		{"", "", 20},
		{"ünïcödé!", "ünïcöd", 46},
	}

	for _, tt := range tests {
		label := DisplayLabel(tt.id)
		if label != tt.label {
			t.Errorf("DisplayLabel(%q) = %q, want %q", tt.id, label, tt.label)
		}
		if r := RadiusFor(label); r != tt.radius {
			t.Errorf("RadiusFor(%q) = %.1f, want %.1f", label, r, tt.radius)
		}
	}
}

func TestAddEdgeInitialLengths(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", 0, 0)
	g.AddNode("b", 30, 40)

	key := EdgeKey{Source: "a", Target: "b"}
	if !g.AddEdge(key) {
		t.Fatal("AddEdge returned false for valid endpoints")
	}

	e, _ := g.Edge(key)
	if math.Abs(e.RestLength-50) > 1e-9 {
		t.Errorf("RestLength = %.3f, want 50 (current distance)", e.RestLength)
	}
	if e.IdealLength != 3*(20+20) {
		t.Errorf("IdealLength = %.3f, want 120", e.IdealLength)
	}

	if g.AddEdge(key) {
		t.Error("AddEdge should refuse an existing key")
	}
}

func TestAddEdgeRejectsDangling(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", 0, 0)

	if g.AddEdge(EdgeKey{Source: "a", Target: "missing"}) {
		t.Error("AddEdge created a dangling edge")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
}

func TestParallelEdgesWithDifferentLabels(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", 0, 0)
	g.AddNode("b", 100, 0)

	g.AddEdge(EdgeKey{"a", "b", "x"})
	g.AddEdge(EdgeKey{"a", "b", "y"})
	g.AddEdge(EdgeKey{"a", "b", "x"})

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"1", "2", "3"} {
		g.AddNode(id, 0, 0)
	}
	g.AddEdge(EdgeKey{"1", "2", ""})
	g.AddEdge(EdgeKey{"2", "3", ""})
	g.AddEdge(EdgeKey{"1", "3", ""})

	g.RemoveNode("2")

	if g.HasNode("2") {
		t.Error("node 2 still present")
	}
	if g.EdgeCount() != 1 || !g.HasEdge(EdgeKey{"1", "3", ""}) {
		t.Errorf("expected only edge 1->3 to survive, have %d edges", g.EdgeCount())
	}
}

func TestSetLabelPreservesKinematics(t *testing.T) {
	g := NewGraph()
	g.AddNode("n", 12, 34)
	live := g.Lookup("n")
	live.VX, live.VY = 1.5, -2.5
	g.Pin("n")
	live.VX = 7

	g.SetLabel("n", "longer-name")

	n, _ := g.Node("n")
	if n.X != 12 || n.Y != 34 || n.VX != 7 || !n.Fixed {
		t.Errorf("kinematics changed: %+v", n)
	}
	if n.Label != "longer" {
		t.Errorf("Label = %q, want %q", n.Label, "longer")
	}
	if n.Radius != 46 {
		t.Errorf("Radius = %.1f, want 46", n.Radius)
	}
}

func TestReconfigureEdges(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", 0, 0)
	g.AddNode("b", 10, 0)
	key := EdgeKey{Source: "a", Target: "b"}
	g.AddEdge(key)

	g.SetLabel("a", "abcdef")
	if e, _ := g.Edge(key); e.IdealLength != 120 {
		t.Fatalf("ideal length changed before reconfigure: %.1f", e.IdealLength)
	}

	g.ReconfigureEdges()
	e, _ := g.Edge(key)
	if e.IdealLength != 3*(46+20) {
		t.Errorf("IdealLength = %.1f, want %.1f", e.IdealLength, 3*(46.0+20.0))
	}
	if e.RestLength != 10 {
		t.Errorf("RestLength = %.1f, reconfigure must not reset it", e.RestLength)
	}
}

func TestGenerationSweep(t *testing.T) {
	g := NewGraph()
	g.BeginGeneration()
	g.AddNode("a", 0, 0)
	g.AddNode("b", 0, 0)
	g.AddNode("c", 0, 0)
	g.AddEdge(EdgeKey{"a", "b", ""})
	g.AddEdge(EdgeKey{"b", "c", ""})

	g.BeginGeneration()
	g.TouchNode("a")
	g.TouchNode("b")
	g.TouchEdge(EdgeKey{"a", "b", ""})

	if removed := g.SweepNodes(); removed != 1 {
		t.Errorf("SweepNodes removed %d, want 1", removed)
	}
	if g.HasEdge(EdgeKey{"b", "c", ""}) {
		t.Error("edge to swept node survived")
	}
	if removed := g.SweepEdges(); removed != 0 {
		t.Errorf("SweepEdges removed %d, want 0", removed)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("have %d nodes / %d edges, want 2 / 1", g.NodeCount(), g.EdgeCount())
	}
}

func TestNodesAreSortedByID(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(id, 0, 0)
	}
	nodes := g.Nodes()
	for i, want := range []string{"a", "b", "c"} {
		if nodes[i].ID != want {
			t.Errorf("Nodes()[%d] = %s, want %s", i, nodes[i].ID, want)
		}
	}
}

func TestDragOperations(t *testing.T) {
	g := NewGraph()
	g.AddNode("n", 0, 0)
	g.Lookup("n").VX = 3

	g.Pin("n")
	g.MoveTo("n", 5, 6)
	n, _ := g.Node("n")
	if !n.Fixed || n.X != 5 || n.Y != 6 || n.VX != 0 {
		t.Errorf("after pin+move: %+v", n)
	}

	g.Release("n")
	if n, _ := g.Node("n"); n.Fixed {
		t.Error("Release left node fixed")
	}

	if g.Pin("missing") || g.MoveTo("missing", 1, 1) || g.Release("missing") {
		t.Error("drag operations on a missing node should report false")
	}
}
