package view

import (
	"math"
	"testing"

	"github.com/TFMV/edgesketch/models"
)

func TestRoundTrip(t *testing.T) {
	configs := []struct {
		name          string
		width, height float64
		scale         float64
		panX, panY    float64
	}{
		{"identity", 800, 600, 1, 0, 0},
		{"zoomed in", 800, 600, 3.7, 0, 0},
		{"zoomed out panned", 1024, 768, 0.13, -250, 410},
		{"odd viewport", 333, 77, 1.9, 12.5, -3.25},
		{"max zoom", 1920, 1080, 5, 1e4, -1e4},
	}
	points := [][2]float64{{0, 0}, {400, 300}, {-1234.5, 987.25}, {1e5, -1e5}}

	for _, cfg := range configs {
		t.Run(cfg.name, func(t *testing.T) {
			tr := FromState(models.ViewState{
				Width: cfg.width, Height: cfg.height,
				Scale: cfg.scale, TargetScale: cfg.scale,
				PanX: cfg.panX, PanY: cfg.panY,
			})
			for _, p := range points {
				sx, sy := tr.WorldToScreen(p[0], p[1])
				wx, wy := tr.ScreenToWorld(sx, sy)
				tol := 1e-9 * math.Max(1, math.Max(math.Abs(p[0]), math.Abs(p[1])))
				if math.Abs(wx-p[0]) > tol || math.Abs(wy-p[1]) > tol {
					t.Errorf("round trip of (%g,%g) gave (%g,%g)", p[0], p[1], wx, wy)
				}
			}
		})
	}
}

func TestWorldToScreenFormula(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.PanBy(10, -20)
	tr.SetTarget(2)
	for !tr.Animate() {
	}

	// (world + pan - center) * scale + center
	sx, sy := tr.WorldToScreen(100, 100)
	if sx != (100+10-400)*2+400 || sy != (100-20-300)*2+300 {
		t.Errorf("WorldToScreen = (%g,%g)", sx, sy)
	}
}

func TestCentreIsFixedUnderZoom(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.SetTarget(4)
	for !tr.Animate() {
	}
	if x, y := tr.WorldToScreen(400, 300); x != 400 || y != 300 {
		t.Errorf("viewport centre moved to (%g,%g)", x, y)
	}
}

func TestZoomConvergesMonotonically(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.SetTarget(2)

	prev := tr.Scale()
	frames := 0
	for !tr.Animate() {
		frames++
		if tr.Scale() < prev {
			t.Fatalf("frame %d: scale decreased from %g to %g", frames, prev, tr.Scale())
		}
		if tr.Scale() > 2 {
			t.Fatalf("frame %d: scale %g overshot the target", frames, tr.Scale())
		}
		prev = tr.Scale()
		if frames > 100 {
			t.Fatal("zoom did not converge within 100 frames")
		}
	}
	if math.Abs(tr.Scale()-2) > SnapThreshold {
		t.Errorf("final scale %g, want 2", tr.Scale())
	}
}

func TestZoomOutConvergesMonotonically(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.SetTarget(0.5)

	prev := tr.Scale()
	for i := 0; i < 100; i++ {
		done := tr.Animate()
		if tr.Scale() > prev || tr.Scale() < 0.5 {
			t.Fatalf("frame %d: scale %g not monotone toward 0.5", i, tr.Scale())
		}
		prev = tr.Scale()
		if done {
			return
		}
	}
	t.Fatal("zoom out did not converge")
}

func TestTargetIsClamped(t *testing.T) {
	tr := NewTransform(800, 600)
	for i := 0; i < 100; i++ {
		tr.ZoomIn()
	}
	if tr.Target() != MaxScale {
		t.Errorf("target after many zoom-ins = %g, want %g", tr.Target(), MaxScale)
	}
	for i := 0; i < 100; i++ {
		tr.Wheel(1)
	}
	if tr.Target() != MinScale {
		t.Errorf("target after many wheel-downs = %g, want %g", tr.Target(), MinScale)
	}
}

func TestWheelDirection(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.Wheel(-3)
	if math.Abs(tr.Target()-1.1) > 1e-12 {
		t.Errorf("wheel up target = %g, want 1.1", tr.Target())
	}
	tr.Wheel(0)
	if math.Abs(tr.Target()-1.1) > 1e-12 {
		t.Errorf("zero delta changed target to %g", tr.Target())
	}
	tr.Wheel(5)
	if math.Abs(tr.Target()-0.99) > 1e-12 {
		t.Errorf("wheel down target = %g, want 0.99", tr.Target())
	}
	if tr.Scale() != 1 {
		t.Errorf("displayed scale changed before Animate: %g", tr.Scale())
	}
}

func TestPanIsImmediate(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.PanBy(15, 5)
	tr.PanBy(-5, 5)
	if x, y := tr.Pan(); x != 10 || y != 10 {
		t.Errorf("Pan = (%g,%g), want (10,10)", x, y)
	}
}

func TestFromStateZeroScale(t *testing.T) {
	tr := FromState(models.ViewState{Width: 100, Height: 100})
	if tr.Scale() != 1 || tr.Target() != 1 {
		t.Errorf("zero state gave scale %g target %g, want 1/1", tr.Scale(), tr.Target())
	}
}
