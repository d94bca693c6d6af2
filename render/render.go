// Package render draws a models.Scene in several output formats.
package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TFMV/edgesketch/models"
)

// ErrUnsupportedFormat is returned by GetRenderer for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format         string  // Output format (svg, png, ascii, json, dot)
	Width          float64 // Width of the output; zero uses the scene viewport
	Height         float64 // Height of the output; zero uses the scene viewport
	Directed       bool    // Draw arrowheads at the target end of each edge
	NoiseIntensity float64 // Displacement of drawn positions (0.0-1.0); the layout itself is untouched
	NoiseSeed      int64   // Seed for the displacement field
	Timestamp      bool    // Include timestamp in visualization
	EdgeWidth      float64 // Stroke width of edges
	FontSize       float64 // Font size for node labels
	ShowLabels     bool    // Show node labels
	ShowEdgeLabels bool    // Show edge labels
	ColorScheme    string  // Color scheme (default, dark)
	Quality        string  // Rendering quality (low, medium, high)
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws the scene using the provided options
	Render(scene *models.Scene, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string

	// ContentType returns the MIME type of the rendered bytes
	ContentType() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:         format,
		NoiseIntensity: 0.0,
		Timestamp:      false,
		EdgeWidth:      2.0,
		FontSize:       14.0,
		ShowLabels:     true,
		ShowEdgeLabels: true,
		ColorScheme:    "default",
		Quality:        "medium",
	}
}

// Formats lists the names accepted by GetRenderer
func Formats() []string {
	return []string{"svg", "png", "ascii", "json", "dot"}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "png":
		return &PNGRenderer{}, nil
	case "ascii", "txt":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot", "gv":
		return &DOTRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Extension returns the conventional file extension for a format
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "ascii", "txt":
		return "txt"
	case "gv":
		return "dot"
	default:
		return strings.ToLower(format)
	}
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (o *OutputOptions) fontSize() float64 {
	if o.FontSize > 0 {
		return o.FontSize
	}
	return 14
}

func (o *OutputOptions) edgeWidth() float64 {
	if o.EdgeWidth > 0 {
		return o.EdgeWidth
	}
	return 2
}
