package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/TFMV/edgesketch/models"
)

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the scene in Graphviz DOT format with node positions pinned"
}

// ContentType returns the MIME type of DOT documents
func (r *DOTRenderer) ContentType() string {
	return "text/vnd.graphviz"
}

// Render creates a DOT representation of the scene. Graphviz keeps one edge
// per endpoint pair, so parallel edges merge their labels.
func (r *DOTRenderer) Render(scene *models.Scene, options *OutputOptions) ([]byte, error) {
	var g graph.Graph[string, string]
	if options.Directed {
		g = graph.New(graph.StringHash, graph.Directed())
	} else {
		g = graph.New(graph.StringHash)
	}

	for _, n := range scene.Nodes {
		// neato reads pos in points; world units are pixels at 72 dpi
		err := g.AddVertex(dotEscape(n.ID),
			graph.VertexAttribute("label", dotEscape(n.Label)),
			graph.VertexAttribute("shape", "circle"),
			graph.VertexAttribute("width", fmt.Sprintf("%.2f", 2*n.Radius/72)),
			graph.VertexAttribute("pos", fmt.Sprintf("%.2f,%.2f!", n.X, -n.Y)),
		)
		if err != nil {
			return nil, fmt.Errorf("adding vertex %s: %w", n.ID, err)
		}
	}

	type pair struct{ a, b string }
	labels := make(map[pair][]string)
	var order []pair
	for _, e := range scene.Edges {
		k := pair{e.Source, e.Target}
		if !options.Directed && k.b < k.a {
			k = pair{e.Target, e.Source}
		}
		if _, seen := labels[k]; !seen {
			order = append(order, k)
			labels[k] = nil
		}
		if e.Label != "" {
			labels[k] = append(labels[k], e.Label)
		}
	}

	for _, k := range order {
		var opts []func(*graph.EdgeProperties)
		if l := labels[k]; len(l) > 0 {
			opts = append(opts, graph.EdgeAttribute("label", dotEscape(strings.Join(l, ", "))))
		}
		if err := g.AddEdge(dotEscape(k.a), dotEscape(k.b), opts...); err != nil {
			return nil, fmt.Errorf("adding edge %s -> %s: %w", k.a, k.b, err)
		}
	}

	var buf bytes.Buffer
	if err := draw.DOT(g, &buf, draw.GraphAttribute("layout", "neato")); err != nil {
		return nil, fmt.Errorf("writing DOT: %w", err)
	}
	return buf.Bytes(), nil
}

var dotReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotEscape makes s safe inside a quoted DOT ID
func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}
