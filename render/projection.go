package render

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/TFMV/edgesketch/models"
	"github.com/TFMV/edgesketch/view"
)

const (
	noiseScale      = 0.01
	noiseAmplitude  = 25.0
	arrowHalfAngle  = math.Pi / 6
	selfLoopPortion = 0.6
)

// placedNode is a node in output coordinates
type placedNode struct {
	models.NodeState
	SX, SY float64 // centre on the canvas
	SR     float64 // radius on the canvas
}

// placedEdge is an edge in output coordinates
type placedEdge struct {
	models.EdgeState
	From, To *placedNode
}

// projection maps a scene onto an output canvas through the scene's view
// transform, optionally displaced by a simplex noise field.
type projection struct {
	width, height float64
	scale         float64
	nodes         []*placedNode
	edges         []placedEdge
}

func newProjection(scene *models.Scene, opts *OutputOptions) *projection {
	tr := view.FromState(scene.View)
	width, height := tr.Size()
	if opts.Width > 0 && opts.Height > 0 {
		width, height = opts.Width, opts.Height
		tr.Resize(width, height)
	}

	var noise opensimplex.Noise
	if opts.NoiseIntensity > 0 {
		noise = opensimplex.New(opts.NoiseSeed)
	}

	p := &projection{width: width, height: height, scale: tr.Scale()}
	index := make(map[string]*placedNode, len(scene.Nodes))
	for _, n := range scene.Nodes {
		sx, sy := tr.WorldToScreen(n.X, n.Y)
		if noise != nil {
			amp := opts.NoiseIntensity * noiseAmplitude
			sx += noise.Eval2(n.X*noiseScale, n.Y*noiseScale) * amp
			sy += noise.Eval2(n.X*noiseScale+100, n.Y*noiseScale+100) * amp
		}
		pn := &placedNode{NodeState: n, SX: sx, SY: sy, SR: n.Radius * tr.Scale()}
		p.nodes = append(p.nodes, pn)
		index[n.ID] = pn
	}

	for _, e := range scene.Edges {
		from, to := index[e.Source], index[e.Target]
		if from == nil || to == nil {
			continue
		}
		p.edges = append(p.edges, placedEdge{EdgeState: e, From: from, To: to})
	}
	return p
}

// selfLoop reports whether the edge starts and ends at the same node
func (e placedEdge) selfLoop() bool {
	return e.From == e.To
}

// midpoint returns where the edge label is drawn
func (e placedEdge) midpoint() (float64, float64) {
	if e.selfLoop() {
		return e.From.SX, e.From.SY - e.From.SR*(1+2*selfLoopPortion)
	}
	return (e.From.SX + e.To.SX) / 2, (e.From.SY + e.To.SY) / 2
}

// arrow returns the tip of an arrowhead touching the target's rim and its two
// barb end points. ok is false when the endpoints coincide.
func (e placedEdge) arrow(headLen float64) (tipX, tipY, x1, y1, x2, y2 float64, ok bool) {
	dx, dy := e.To.SX-e.From.SX, e.To.SY-e.From.SY
	if dx == 0 && dy == 0 {
		return 0, 0, 0, 0, 0, 0, false
	}
	angle := math.Atan2(dy, dx)
	tipX = e.To.SX - math.Cos(angle)*e.To.SR
	tipY = e.To.SY - math.Sin(angle)*e.To.SR
	x1 = tipX - headLen*math.Cos(angle-arrowHalfAngle)
	y1 = tipY - headLen*math.Sin(angle-arrowHalfAngle)
	x2 = tipX - headLen*math.Cos(angle+arrowHalfAngle)
	y2 = tipY - headLen*math.Sin(angle+arrowHalfAngle)
	return tipX, tipY, x1, y1, x2, y2, true
}

// loopCircle returns the circle drawn for a self-loop, sitting on top of the node
func (e placedEdge) loopCircle() (cx, cy, r float64) {
	r = e.From.SR * selfLoopPortion
	return e.From.SX, e.From.SY - e.From.SR - r*0.5, r
}
