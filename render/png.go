package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/TFMV/edgesketch/models"
)

// PNGRenderer rasterises the scene
type PNGRenderer struct{}

// Name returns the name of the renderer
func (r *PNGRenderer) Name() string {
	return "PNG Renderer"
}

// Description returns a description of the renderer
func (r *PNGRenderer) Description() string {
	return "Renders the current frame as a PNG image with Go Mono labels"
}

// ContentType returns the MIME type of PNG images
func (r *PNGRenderer) ContentType() string {
	return "image/png"
}

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func loadMono() (*truetype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
	})
	return monoFont, monoErr
}

func monoFace(size float64, bold bool) (font.Face, error) {
	f, err := loadMono()
	if err != nil {
		return nil, fmt.Errorf("parsing Go Mono: %w", err)
	}
	if bold {
		size *= 1.1
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Render creates a PNG representation of the scene
func (r *PNGRenderer) Render(scene *models.Scene, options *OutputOptions) ([]byte, error) {
	p := newProjection(scene, options)
	pal := PaletteFor(options.ColorScheme)

	w, h := int(p.width), int(p.height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(pal.Background)
	dc.Clear()

	labelFace, err := monoFace(options.fontSize()*pal.EdgeLabelScale*p.scale, false)
	if err != nil {
		return nil, err
	}

	strokeWidth := options.edgeWidth() * p.scale
	for _, e := range p.edges {
		c := pal.Edge
		if e.Highlighted {
			c = pal.EdgeHighlight
		}
		dc.SetHexColor(c)
		dc.SetLineWidth(strokeWidth)

		if e.selfLoop() {
			cx, cy, lr := e.loopCircle()
			dc.DrawCircle(cx, cy, lr)
		} else {
			dc.DrawLine(e.From.SX, e.From.SY, e.To.SX, e.To.SY)
		}
		dc.Stroke()

		if options.Directed {
			if tx, ty, x1, y1, x2, y2, ok := e.arrow(pal.ArrowHeadLen * p.scale); ok {
				dc.MoveTo(tx, ty)
				dc.LineTo(x1, y1)
				dc.MoveTo(tx, ty)
				dc.LineTo(x2, y2)
				dc.Stroke()
			}
		}

		if options.ShowEdgeLabels && e.Label != "" {
			drawEdgeLabel(dc, e, labelFace, pal, p.scale)
		}
	}

	for _, n := range p.nodes {
		dc.DrawCircle(n.SX, n.SY, n.SR)
		dc.SetHexColor(pal.NodeFill)
		dc.FillPreserve()

		stroke, width, text := pal.NodeStroke, pal.NodeStrokeW, pal.NodeText
		if n.Hovered {
			stroke, width, text = pal.Highlight, pal.HoverStrokeW, pal.Highlight
		}
		dc.SetHexColor(stroke)
		dc.SetLineWidth(width * p.scale)
		dc.Stroke()

		if options.ShowLabels && n.Label != "" {
			face, err := monoFace(options.fontSize()*p.scale, n.Hovered)
			if err != nil {
				return nil, err
			}
			dc.SetFontFace(face)
			dc.SetHexColor(text)
			dc.DrawStringAnchored(n.Label, n.SX, n.SY, 0.5, 0.35)
		}
	}

	if options.Timestamp {
		if face, err := monoFace(8, false); err == nil {
			dc.SetFontFace(face)
			dc.SetHexColor(pal.Annotation)
			dc.DrawString(timestamp(), 5, p.height-5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawEdgeLabel draws a label in a rounded dashed box at the edge midpoint
func drawEdgeLabel(dc *gg.Context, e placedEdge, face font.Face, pal Palette, scale float64) {
	dc.SetFontFace(face)
	tw, th := dc.MeasureString(e.Label)
	pad := pal.LabelPadding * scale
	bw, bh := tw+2*pad, th+2*pad
	mx, my := e.midpoint()

	dc.DrawRoundedRectangle(mx-bw/2, my-bh/2, bw, bh, pal.LabelRadius*scale)
	dc.SetHexColor(pal.LabelFill)
	dc.FillPreserve()
	dc.SetHexColor(pal.LabelStroke)
	dc.SetLineWidth(1)
	dc.SetDash(pal.LabelDash, pal.LabelDash)
	dc.Stroke()
	dc.SetDash()

	dc.SetHexColor(pal.LabelText)
	dc.DrawStringAnchored(e.Label, mx, my, 0.5, 0.35)
}
