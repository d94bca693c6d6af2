package ingest

import (
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/TFMV/edgesketch/graph"
	"github.com/TFMV/edgesketch/models"
)

// PlacementMargin keeps newly created nodes away from the viewport edges.
const PlacementMargin = 50.0

// Options controls how an edge list is materialised
type Options struct {
	FixedCountMode bool    // nodes are exactly "1".."FixedCount", ignoring ids in the text
	FixedCount     int     // only meaningful with FixedCountMode
	Width          float64 // viewport size, used only to place new nodes
	Height         float64
}

// Result summarises one reconciliation pass
type Result struct {
	Diagnostics  []models.Diagnostic
	NodesAdded   int
	NodesRemoved int
	EdgesAdded   int
	EdgesRemoved int
}

// Changed reports whether the pass altered the graph structure
func (r Result) Changed() bool {
	return r.NodesAdded+r.NodesRemoved+r.EdgesAdded+r.EdgesRemoved > 0
}

// Reconciler brings a graph.Graph in line with an edge list while leaving
// untouched every node and edge that is still described by the text.
type Reconciler struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// NewReconciler creates a reconciler that places new nodes using rng.
// A nil rng is a PCG seeded with 0 and a nil logger uses slog.Default().
func NewReconciler(rng *rand.Rand, logger *slog.Logger) *Reconciler {
	if rng == nil {
		rng = seededRand(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{rng: rng, logger: logger}
}

// NewSeededReconciler creates a reconciler with a PCG source seeded by seed
func NewSeededReconciler(seed uint64, logger *slog.Logger) *Reconciler {
	return NewReconciler(seededRand(seed), logger)
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Reconcile parses text and mutates g to match it:
//
//  1. every candidate node that exists keeps its position, velocity and
//     fixed state and only has its label and radius refreshed;
//  2. missing candidates are created at random positions inside the viewport;
//  3. nodes no longer referenced are removed along with their edges;
//  4. edges whose endpoints both exist are created if new and kept as-is
//     otherwise; all others are removed;
//  5. ideal edge lengths are recomputed from the current radii.
//
// Calling Reconcile twice with the same text makes no change the second time.
func (r *Reconciler) Reconcile(text string, opts Options, g *graph.Graph) Result {
	directives, diagnostics := Parse(text)
	result := Result{Diagnostics: diagnostics}

	g.BeginGeneration()

	for _, id := range candidateIDs(directives, opts) {
		if g.TouchNode(id) {
			g.SetLabel(id, id)
			continue
		}
		x, y := r.place(opts.Width, opts.Height)
		g.AddNode(id, x, y)
		result.NodesAdded++
	}

	edgesBefore := g.EdgeCount()
	result.NodesRemoved = g.SweepNodes()
	result.EdgesRemoved = edgesBefore - g.EdgeCount()

	for _, d := range directives {
		if !g.HasNode(d.Source) || !g.HasNode(d.Target) {
			continue
		}
		key := d.Key()
		if g.TouchEdge(key) {
			continue
		}
		if g.AddEdge(key) {
			result.EdgesAdded++
		}
	}

	result.EdgesRemoved += g.SweepEdges()
	g.ReconfigureEdges()

	r.logger.Debug("reconciled edge list",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"nodes_added", result.NodesAdded,
		"nodes_removed", result.NodesRemoved,
		"edges_added", result.EdgesAdded,
		"edges_removed", result.EdgesRemoved,
		"diagnostics", len(result.Diagnostics),
	)

	return result
}

// candidateIDs returns the node ids the graph should contain, in a stable order
func candidateIDs(directives []Directive, opts Options) []string {
	if opts.FixedCountMode {
		ids := make([]string, 0, max(opts.FixedCount, 0))
		for i := 1; i <= opts.FixedCount; i++ {
			ids = append(ids, strconv.Itoa(i))
		}
		return ids
	}

	seen := make(map[string]bool)
	var ids []string
	for _, d := range directives {
		for _, id := range []string{d.Source, d.Target} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// place picks a uniform position in [margin, size-margin] on each axis,
// collapsing to the centre when the viewport is too small for the margin.
func (r *Reconciler) place(width, height float64) (float64, float64) {
	return r.axis(width), r.axis(height)
}

func (r *Reconciler) axis(size float64) float64 {
	span := size - 2*PlacementMargin
	if span <= 0 {
		return size / 2
	}
	return PlacementMargin + r.rng.Float64()*span
}
