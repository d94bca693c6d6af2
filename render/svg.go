package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/TFMV/edgesketch/models"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the current frame as Scalable Vector Graphics (SVG)"
}

// ContentType returns the MIME type of SVG documents
func (r *SVGRenderer) ContentType() string {
	return "image/svg+xml"
}

// Render creates an SVG representation of the scene
func (r *SVGRenderer) Render(scene *models.Scene, options *OutputOptions) ([]byte, error) {
	p := newProjection(scene, options)
	pal := PaletteFor(options.ColorScheme)
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, p.width, p.height, p.width, p.height, pal.Background)

	// Draw a border if quality is high
	if options.Quality == "high" {
		fmt.Fprintf(&buf, `<rect x="0" y="0" width="%.0f" height="%.0f" fill="none" stroke="#e0e0e0" stroke-width="1"/>
`, p.width, p.height)
	}

	strokeWidth := options.edgeWidth() * p.scale
	fontSize := options.fontSize() * p.scale
	labelFont := fontSize * pal.EdgeLabelScale

	// Edges first so nodes cover their ends
	for _, e := range p.edges {
		color := pal.Edge
		if e.Highlighted {
			color = pal.EdgeHighlight
		}

		if e.selfLoop() {
			cx, cy, lr := e.loopCircle()
			fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>
`, cx, cy, lr, color, strokeWidth)
		} else {
			fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>
`, e.From.SX, e.From.SY, e.To.SX, e.To.SY, color, strokeWidth)
		}

		if options.Directed {
			if tx, ty, x1, y1, x2, y2, ok := e.arrow(pal.ArrowHeadLen * p.scale); ok {
				fmt.Fprintf(&buf, `<path class="arrow" d="M%.2f,%.2f L%.2f,%.2f M%.2f,%.2f L%.2f,%.2f" stroke="%s" stroke-width="%.2f" fill="none"/>
`, tx, ty, x1, y1, tx, ty, x2, y2, color, strokeWidth)
			}
		}

		if options.ShowEdgeLabels && e.Label != "" {
			mx, my := e.midpoint()
			// estimated monospace width
			w := float64(len([]rune(e.Label)))*labelFont*0.6 + 2*pal.LabelPadding*p.scale
			h := labelFont*1.2 + 2*pal.LabelPadding*p.scale
			fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="%s" stroke-width="1" stroke-dasharray="%.0f,%.0f"/>
<text x="%.2f" y="%.2f" font-family="monospace" font-size="%.2f" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>
`, mx-w/2, my-h/2, w, h, pal.LabelRadius*p.scale, pal.LabelFill, pal.LabelStroke, pal.LabelDash, pal.LabelDash,
				mx, my, labelFont, pal.LabelText, html.EscapeString(e.Label))
		}
	}

	for _, n := range p.nodes {
		stroke, width, text, weight := pal.NodeStroke, pal.NodeStrokeW, pal.NodeText, "normal"
		if n.Hovered {
			stroke, width, text, weight = pal.Highlight, pal.HoverStrokeW, pal.Highlight, "bold"
		}

		fmt.Fprintf(&buf, `<circle id="node-%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>
`, html.EscapeString(n.ID), n.SX, n.SY, n.SR, pal.NodeFill, stroke, width*p.scale)

		if options.ShowLabels && n.Label != "" {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="monospace" font-size="%.2f" font-weight="%s" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>
`, n.SX, n.SY, fontSize, weight, text, html.EscapeString(n.Label))
		}
	}

	// Add timestamp if requested
	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%.0f" font-family="sans-serif" font-size="8" fill="%s">%s</text>
`, p.height-5, pal.Annotation, timestamp())
	}

	// Add graph metadata for high quality rendering
	if options.Quality == "high" {
		fmt.Fprintf(&buf, `<text x="5" y="15" font-family="sans-serif" font-size="10" fill="%s">Nodes: %d | Edges: %d | Warnings: %d</text>
`, pal.Annotation, len(scene.Nodes), len(scene.Edges), scene.WarningCount())
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
