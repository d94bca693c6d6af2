package render

import "strings"

// Palette holds the colors used to draw a scene
type Palette struct {
	Background     string
	NodeFill       string
	NodeStroke     string
	NodeText       string
	Edge           string
	Highlight      string // hovered node stroke and text
	EdgeHighlight  string // edges touching the hovered node
	LabelFill      string
	LabelStroke    string
	LabelText      string
	Annotation     string
	NodeStrokeW    float64
	HoverStrokeW   float64
	LabelDash      float64
	LabelPadding   float64
	LabelRadius    float64
	ArrowHeadLen   float64
	EdgeLabelScale float64
}

// defaultPalette mirrors the interactive canvas: white nodes with black
// outlines, grey edges and blue hover highlights.
var defaultPalette = Palette{
	Background:     "#ffffff",
	NodeFill:       "#ffffff",
	NodeStroke:     "#000000",
	NodeText:       "#000000",
	Edge:           "#666666",
	Highlight:      "#2196f3",
	EdgeHighlight:  "#6FA8DC",
	LabelFill:      "#f5f5f5",
	LabelStroke:    "#999999",
	LabelText:      "#333333",
	Annotation:     "#808080",
	NodeStrokeW:    2,
	HoverStrokeW:   4,
	LabelDash:      5,
	LabelPadding:   4,
	LabelRadius:    4,
	ArrowHeadLen:   10,
	EdgeLabelScale: 12.0 / 14.0,
}

var darkPalette = func() Palette {
	p := defaultPalette
	p.Background = "#1e1e1e"
	p.NodeFill = "#2d2d2d"
	p.NodeStroke = "#e0e0e0"
	p.NodeText = "#e0e0e0"
	p.Edge = "#9e9e9e"
	p.LabelFill = "#333333"
	p.LabelStroke = "#777777"
	p.LabelText = "#dddddd"
	return p
}()

// PaletteFor returns the palette for a color scheme name
func PaletteFor(scheme string) Palette {
	switch strings.ToLower(scheme) {
	case "dark":
		return darkPalette
	default:
		return defaultPalette
	}
}
