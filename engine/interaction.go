package engine

import (
	"math"

	"github.com/TFMV/edgesketch/models"
)

// Pointer handling is an explicit state machine:
//
//	Idle --down on node--> Dragging(id) --up/leave--> Idle
//	Idle --down on empty--> Panning     --up/leave--> Idle
//
// While Dragging the node is Fixed, which keeps it out of integration.

// HitTest returns the id of the first node, in id order, whose circle
// contains the screen point.
func (l *Loop) HitTest(x, y float64) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hitTest(x, y)
}

func (l *Loop) hitTest(x, y float64) (string, bool) {
	wx, wy := l.transform.ScreenToWorld(x, y)
	for _, n := range l.graph.Nodes() {
		if math.Hypot(wx-n.X, wy-n.Y) <= n.Radius {
			return n.ID, true
		}
	}
	return "", false
}

// PointerDown starts dragging the node under the pointer, or panning when
// there is none.
func (l *Loop) PointerDown(x, y float64) models.Interaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.release()
	l.lastX, l.lastY = x, y

	if id, ok := l.hitTest(x, y); ok {
		l.graph.Pin(id)
		l.state = models.InteractionDragging
		l.draggedID = id
		l.logger.Debug("drag started", "node", id)
		return l.state
	}

	l.state = models.InteractionPanning
	return l.state
}

// PointerMove moves the dragged node, pans the view, or updates the hover
// target, depending on the current state.
func (l *Loop) PointerMove(x, y float64) models.Interaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case models.InteractionDragging:
		wx, wy := l.transform.ScreenToWorld(x, y)
		l.graph.MoveTo(l.draggedID, wx, wy)
	case models.InteractionPanning:
		l.transform.PanBy(x-l.lastX, y-l.lastY)
	default:
		l.hoveredID, _ = l.hitTest(x, y)
	}

	l.lastX, l.lastY = x, y
	return l.state
}

// PointerUp ends any drag or pan gesture
func (l *Loop) PointerUp() models.Interaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.release()
	return l.state
}

// PointerLeave ends any gesture and clears the hover target
func (l *Loop) PointerLeave() models.Interaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.release()
	l.hoveredID = ""
	return l.state
}

// State returns the interaction state and the dragged node id, if any
func (l *Loop) State() (models.Interaction, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.draggedID
}

func (l *Loop) release() {
	if l.state == models.InteractionDragging {
		l.graph.Release(l.draggedID)
		l.logger.Debug("drag released", "node", l.draggedID)
	}
	l.state = models.InteractionIdle
	l.draggedID = ""
}
