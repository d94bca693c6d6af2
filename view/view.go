// Package view maps between world and screen coordinates.
//
// The forward mapping scales about the viewport centre after applying the pan
// offset:
//
//	screen = (world + pan - center) * scale + center
//	world  = (screen - center) / scale + center - pan
//
// Zoom is driven by a target scale that changes immediately on input while
// the displayed scale eases toward it once per frame. Panning is immediate.
package view

import (
	"math"

	"github.com/TFMV/edgesketch/models"
)

const (
	MinScale = 0.1
	MaxScale = 5.0

	// ZoomInFactor and ZoomOutFactor are applied to the target per wheel notch or button press.
	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9

	// Easing is the fraction of the remaining zoom distance covered each frame.
	Easing = 0.15
	// SnapThreshold is the distance at which the displayed scale snaps to the target.
	SnapThreshold = 0.001
)

// Transform holds pan, zoom and viewport size
type Transform struct {
	width, height float64
	scale         float64
	target        float64
	panX, panY    float64
}

// NewTransform creates an identity transform for a viewport
func NewTransform(width, height float64) *Transform {
	return &Transform{
		width:  width,
		height: height,
		scale:  1,
		target: 1,
	}
}

// FromState rebuilds a transform from a snapshot. A zero scale is read as 1.
func FromState(s models.ViewState) *Transform {
	t := NewTransform(s.Width, s.Height)
	if s.Scale != 0 {
		t.scale = clamp(s.Scale)
	}
	t.target = t.scale
	if s.TargetScale != 0 {
		t.target = clamp(s.TargetScale)
	}
	t.panX, t.panY = s.PanX, s.PanY
	return t
}

// State returns a snapshot of the transform
func (t *Transform) State() models.ViewState {
	return models.ViewState{
		Width:       t.width,
		Height:      t.height,
		Scale:       t.scale,
		TargetScale: t.target,
		PanX:        t.panX,
		PanY:        t.panY,
	}
}

func (t *Transform) center() (float64, float64) {
	return t.width / 2, t.height / 2
}

// WorldToScreen maps a world-space point to the screen
func (t *Transform) WorldToScreen(x, y float64) (float64, float64) {
	cx, cy := t.center()
	return (x+t.panX-cx)*t.scale + cx, (y+t.panY-cy)*t.scale + cy
}

// ScreenToWorld maps a screen point back to world space
func (t *Transform) ScreenToWorld(x, y float64) (float64, float64) {
	cx, cy := t.center()
	return (x-cx)/t.scale + cx - t.panX, (y-cy)/t.scale + cy - t.panY
}

// Scale returns the displayed scale
func (t *Transform) Scale() float64 { return t.scale }

// Target returns the scale the display is easing toward
func (t *Transform) Target() float64 { return t.target }

// Pan returns the current pan offset
func (t *Transform) Pan() (float64, float64) { return t.panX, t.panY }

// Size returns the viewport size
func (t *Transform) Size() (float64, float64) { return t.width, t.height }

// Resize changes the viewport size, keeping pan and zoom
func (t *Transform) Resize(width, height float64) {
	t.width, t.height = width, height
}

// PanBy applies a raw screen-space delta to the pan offset.
func (t *Transform) PanBy(dx, dy float64) {
	t.panX += dx
	t.panY += dy
}

// SetTarget sets the zoom target, clamped to [MinScale, MaxScale]
func (t *Transform) SetTarget(scale float64) {
	t.target = clamp(scale)
}

// ZoomIn multiplies the target by ZoomInFactor
func (t *Transform) ZoomIn() { t.SetTarget(t.target * ZoomInFactor) }

// ZoomOut multiplies the target by ZoomOutFactor
func (t *Transform) ZoomOut() { t.SetTarget(t.target * ZoomOutFactor) }

// Wheel applies one wheel notch; positive deltaY zooms out.
func (t *Transform) Wheel(deltaY float64) {
	switch {
	case deltaY > 0:
		t.ZoomOut()
	case deltaY < 0:
		t.ZoomIn()
	}
}

// Animate eases the displayed scale toward the target and reports whether
// it has arrived.
func (t *Transform) Animate() bool {
	if math.Abs(t.target-t.scale) < SnapThreshold {
		t.scale = t.target
		return true
	}
	t.scale += (t.target - t.scale) * Easing
	return false
}

// Reset restores scale 1 and zero pan
func (t *Transform) Reset() {
	t.scale, t.target = 1, 1
	t.panX, t.panY = 0, 0
}

func clamp(scale float64) float64 {
	if math.IsNaN(scale) || scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
