// Package engine drives one live graph: it owns the simulation state, runs
// frames, applies pointer input and hands out read-only scenes for drawing.
//
// Every exported method takes the same exclusive lock, so a reconcile never
// interleaves with a physics step and pointer mutations land between frames.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/TFMV/edgesketch/graph"
	"github.com/TFMV/edgesketch/ingest"
	"github.com/TFMV/edgesketch/models"
	"github.com/TFMV/edgesketch/physics"
	"github.com/TFMV/edgesketch/view"
)

// ErrInvalidFPS is returned by Run for a non-positive frame rate.
var ErrInvalidFPS = errors.New("frames per second must be positive")

// Options configures a new Loop
type Options struct {
	Width, Height  float64
	Seed           uint64
	FixedCountMode bool
	FixedCount     int
	Params         physics.Params
	Logger         *slog.Logger
}

// Loop is a single interactive graph session
type Loop struct {
	mu sync.Mutex

	graph      *graph.Graph
	sim        *physics.Simulator
	transform  *view.Transform
	reconciler *ingest.Reconciler
	logger     *slog.Logger

	source         string
	fixedCountMode bool
	fixedCount     int
	diagnostics    []models.Diagnostic

	state        models.Interaction
	draggedID    string
	hoveredID    string
	lastX, lastY float64

	frame uint64
}

// New creates an empty Loop
func New(opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Params == (physics.Params{}) {
		opts.Params = physics.DefaultParams()
	}
	return &Loop{
		graph:          graph.NewGraph(),
		sim:            physics.NewSimulator(opts.Params),
		transform:      view.NewTransform(opts.Width, opts.Height),
		reconciler:     ingest.NewSeededReconciler(opts.Seed, logger),
		logger:         logger,
		fixedCountMode: opts.FixedCountMode,
		fixedCount:     opts.FixedCount,
		state:          models.InteractionIdle,
	}
}

// SetSource replaces the edge-list text and reconciles the graph against it
func (l *Loop) SetSource(text string) []models.Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.source = text
	return l.reconcile()
}

// Configure replaces the text and the fixed-count mode together and
// reconciles once
func (l *Loop) Configure(text string, fixedCountMode bool, n int) []models.Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.source = text
	l.fixedCountMode = fixedCountMode
	l.fixedCount = n
	return l.reconcile()
}

// Refresh discards the layout and rebuilds the graph from the current text
func (l *Loop) Refresh() []models.Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.graph.Clear()
	return l.reconcile()
}

func (l *Loop) reconcile() []models.Diagnostic {
	w, h := l.transform.Size()
	res := l.reconciler.Reconcile(l.source, ingest.Options{
		FixedCountMode: l.fixedCountMode,
		FixedCount:     l.fixedCount,
		Width:          w,
		Height:         h,
	}, l.graph)

	l.diagnostics = res.Diagnostics
	if l.state == models.InteractionDragging {
		if l.graph.HasNode(l.draggedID) {
			// a rebuilt node comes back unpinned and away from the pointer
			wx, wy := l.transform.ScreenToWorld(l.lastX, l.lastY)
			l.graph.Pin(l.draggedID)
			l.graph.MoveTo(l.draggedID, wx, wy)
		} else {
			l.logger.Debug("dragged node removed by reconcile", "node", l.draggedID)
			l.state = models.InteractionIdle
			l.draggedID = ""
		}
	}
	if l.hoveredID != "" && !l.graph.HasNode(l.hoveredID) {
		l.hoveredID = ""
	}
	return append([]models.Diagnostic(nil), l.diagnostics...)
}

// Frame advances the simulation by one frame and eases the zoom
func (l *Loop) Frame() physics.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.step()
}

func (l *Loop) step() physics.Stats {
	stats := l.sim.Update(l.graph)
	l.transform.Animate()
	l.frame++
	return stats
}

// Frames runs n frames back to back
func (l *Loop) Frames(n int) physics.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	var stats physics.Stats
	for i := 0; i < n; i++ {
		stats = l.step()
	}
	return stats
}

// Settle runs frames until the mean kinetic energy per node drops below
// threshold, maxFrames is reached or ctx is done. It returns the frames run and whether
// the layout came to rest.
func (l *Loop) Settle(ctx context.Context, maxFrames int, threshold float64) (int, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.graph.NodeCount() == 0 {
		return 0, true, nil
	}
	for i := 1; i <= maxFrames; i++ {
		if err := ctx.Err(); err != nil {
			return i - 1, false, err
		}
		if stats := l.step(); stats.Settled(l.graph.NodeCount(), threshold) {
			return i, true, nil
		}
	}
	l.logger.Warn("layout did not fully stabilize", "frames", maxFrames)
	return maxFrames, false, nil
}

// Run calls Frame fps times per second and hands each resulting scene to
// onFrame until ctx is cancelled.
func (l *Loop) Run(ctx context.Context, fps int, onFrame func(models.Scene)) error {
	if fps <= 0 {
		return fmt.Errorf("run loop: %w", ErrInvalidFPS)
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Frame()
			if onFrame != nil {
				onFrame(l.Snapshot())
			}
		}
	}
}

// Resize changes the viewport size used for drawing and new-node placement
func (l *Loop) Resize(width, height float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transform.Resize(width, height)
}

// ZoomIn raises the zoom target by one step
func (l *Loop) ZoomIn() models.ViewState {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transform.ZoomIn()
	return l.transform.State()
}

// ZoomOut lowers the zoom target by one step
func (l *Loop) ZoomOut() models.ViewState {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transform.ZoomOut()
	return l.transform.State()
}

// Wheel applies one wheel notch; positive deltaY zooms out
func (l *Loop) Wheel(deltaY float64) models.ViewState {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transform.Wheel(deltaY)
	return l.transform.State()
}

// ResetView restores the default pan and zoom
func (l *Loop) ResetView() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transform.Reset()
}

// View returns the current world/screen transform parameters
func (l *Loop) View() models.ViewState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transform.State()
}

// Snapshot copies everything a renderer needs for the current frame
func (l *Loop) Snapshot() models.Scene {
	l.mu.Lock()
	defer l.mu.Unlock()

	nodes := l.graph.Nodes()
	scene := models.Scene{
		Nodes:       make([]models.NodeState, 0, len(nodes)),
		View:        l.transform.State(),
		Diagnostics: append([]models.Diagnostic{}, l.diagnostics...),
		Interaction: l.state,
		DraggedID:   l.draggedID,
		HoveredID:   l.hoveredID,
		Frame:       l.frame,
	}

	for _, n := range nodes {
		scene.Nodes = append(scene.Nodes, models.NodeState{
			ID:      n.ID,
			Label:   n.Label,
			X:       n.X,
			Y:       n.Y,
			VX:      n.VX,
			VY:      n.VY,
			Radius:  n.Radius,
			Fixed:   n.Fixed,
			Hovered: n.ID == l.hoveredID,
		})
	}

	edges := l.graph.Edges()
	scene.Edges = make([]models.EdgeState, 0, len(edges))
	for _, e := range edges {
		src, dst := l.graph.Lookup(e.Source()), l.graph.Lookup(e.Target())
		length := 0.0
		if src != nil && dst != nil {
			length = math.Hypot(dst.X-src.X, dst.Y-src.Y)
		}
		scene.Edges = append(scene.Edges, models.EdgeState{
			Source:      e.Source(),
			Target:      e.Target(),
			Label:       e.Label(),
			Length:      length,
			RestLength:  e.RestLength,
			IdealLength: e.IdealLength,
		})
	}
	if l.hoveredID != "" {
		for i := range scene.Edges {
			scene.Edges[i].Highlighted = scene.Edges[i].Touches(l.hoveredID)
		}
	}

	return scene
}
