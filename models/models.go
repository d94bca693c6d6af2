// Package models provides the read-only data structures that leave the simulation core.
// Renderers, the HTTP API and the terminal viewer only ever see these copies.
package models

// Severity classifies a diagnostic produced while reading an edge list
type Severity string

const (
	SeverityWarning Severity = "warning"
	// SeverityError is reserved; current validation rules only emit warnings.
	SeverityError Severity = "error"
)

// Diagnostic is one validation message tied to a 1-based input line
type Diagnostic struct {
	Line     int      `json:"line"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// NodeState is a snapshot of a simulated node
type NodeState struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Radius  float64 `json:"radius"`
	Fixed   bool    `json:"fixed"`
	Hovered bool    `json:"hovered,omitempty"`
}

// EdgeState is a snapshot of a simulated edge
type EdgeState struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Label       string  `json:"label,omitempty"`
	Length      float64 `json:"length"`       // current distance between endpoint centres
	RestLength  float64 `json:"rest_length"`  // spring target this frame
	IdealLength float64 `json:"ideal_length"` // long-run target derived from radii
	Highlighted bool    `json:"highlighted,omitempty"`
}

// ViewState captures the parameters of a world/screen transform
type ViewState struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Scale       float64 `json:"scale"`
	TargetScale float64 `json:"target_scale"`
	PanX        float64 `json:"pan_x"`
	PanY        float64 `json:"pan_y"`
}

// Interaction names the state of the pointer state machine
type Interaction string

const (
	InteractionIdle     Interaction = "idle"
	InteractionPanning  Interaction = "panning"
	InteractionDragging Interaction = "dragging"
)

// Scene is everything a renderer needs to draw one frame
type Scene struct {
	Nodes       []NodeState  `json:"nodes"`
	Edges       []EdgeState  `json:"edges"`
	View        ViewState    `json:"view"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Interaction Interaction  `json:"interaction"`
	DraggedID   string       `json:"dragged_id,omitempty"`
	HoveredID   string       `json:"hovered_id,omitempty"`
	Frame       uint64       `json:"frame"`
}
