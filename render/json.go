package render

import (
	"encoding/json"
	"time"

	"github.com/TFMV/edgesketch/models"
)

// JSONRenderer outputs the scene as JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the scene as JSON data for machine consumption or custom visualizations"
}

// ContentType returns the MIME type of JSON documents
func (r *JSONRenderer) ContentType() string {
	return "application/json"
}

type jsonScene struct {
	*models.Scene
	Metadata map[string]interface{} `json:"metadata"`
}

// Render creates a JSON representation of the scene. Positions are world
// coordinates; the view block says how to map them to the screen.
func (r *JSONRenderer) Render(scene *models.Scene, options *OutputOptions) ([]byte, error) {
	metadata := map[string]interface{}{
		"nodeCount":    len(scene.Nodes),
		"edgeCount":    len(scene.Edges),
		"warningCount": scene.WarningCount(),
		"directed":     options.Directed,
	}
	if options.Timestamp {
		metadata["timestamp"] = time.Now().Format(time.RFC3339)
	}

	return json.MarshalIndent(jsonScene{Scene: scene, Metadata: metadata}, "", "  ")
}
