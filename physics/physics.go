package physics

import (
	"math"

	"github.com/TFMV/edgesketch/graph"
)

// Params holds the force and integration constants
type Params struct {
	Repulsion        float64 // numerator of the inverse-square node repulsion
	Stiffness        float64 // Hooke's law spring constant
	Damping          float64 // velocity multiplier applied every sub-step
	LengthAdjustRate float64 // max rest-length change per unit time
	SubSteps         int     // sub-steps per frame; dt = 1/SubSteps
}

// DefaultParams returns the tuned constants for interactive layouts
func DefaultParams() Params {
	return Params{
		Repulsion:        1400,
		Stiffness:        0.56,
		Damping:          0.85,
		LengthAdjustRate: 1.0,
		SubSteps:         5,
	}
}

const (
	// RepulsionCutoff is how many contact distances (r1+r2) repulsion reaches.
	RepulsionCutoff = 5.0
	// CollisionVelocityDamping is applied to a node displaced by overlap correction.
	CollisionVelocityDamping = 0.5
)

// Stats describes the motion produced by a step
type Stats struct {
	KineticEnergy float64
	MaxSpeed      float64
}

// Settled reports whether the mean kinetic energy over nodes is below threshold
func (s Stats) Settled(nodes int, threshold float64) bool {
	return nodes == 0 || s.KineticEnergy/float64(nodes) < threshold
}

// Simulator advances a graph.Graph with repulsion, springs and collision
type Simulator struct {
	params Params
}

// NewSimulator creates a simulator; non-positive SubSteps falls back to the default
func NewSimulator(params Params) *Simulator {
	if params.SubSteps <= 0 {
		params.SubSteps = DefaultParams().SubSteps
	}
	return &Simulator{params: params}
}

// Params returns the simulator's constants
func (s *Simulator) Params() Params {
	return s.params
}

// Update runs one frame: SubSteps equal sub-steps of dt = 1/SubSteps.
// The returned stats describe the last sub-step.
func (s *Simulator) Update(g *graph.Graph) Stats {
	dt := 1 / float64(s.params.SubSteps)
	var stats Stats
	for i := 0; i < s.params.SubSteps; i++ {
		stats = s.Step(g, dt)
	}
	return stats
}

// Step performs a single sub-step of length dt. It never fails: edges with a
// missing endpoint are skipped.
func (s *Simulator) Step(g *graph.Graph, dt float64) Stats {
	nodes := g.Nodes()

	// Reset forces
	for _, n := range nodes {
		n.FX, n.FY = 0, 0
	}

	s.applyRepulsion(nodes)
	s.applySprings(g, dt)

	return s.integrate(nodes, dt)
}

// applyRepulsion handles the all-pairs repulsion and hard collision pass
func (s *Simulator) applyRepulsion(nodes []*graph.Node) {
	for i := 0; i < len(nodes); i++ {
		n1 := nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			n2 := nodes[j]

			// Vector from n2 to n1
			dx := n1.X - n2.X
			dy := n1.Y - n2.Y
			distSq := dx*dx + dy*dy
			dist := math.Sqrt(distSq)

			// Coincident centres have no direction; push apart along x
			nx, ny := 1.0, 0.0
			if dist == 0 {
				dist, distSq = 1, 1
			} else {
				nx, ny = dx/dist, dy/dist
			}

			minDist := n1.Radius + n2.Radius

			if dist < RepulsionCutoff*minDist {
				force := s.params.Repulsion / distSq
				fx := nx * force
				fy := ny * force
				if !n1.Fixed {
					n1.FX += fx
					n1.FY += fy
				}
				if !n2.Fixed {
					n2.FX -= fx
					n2.FY -= fy
				}
			}

			// Positional correction, not a force
			if dist < minDist {
				move := (minDist - dist) / 2
				if !n1.Fixed {
					n1.X += nx * move
					n1.Y += ny * move
					n1.VX *= CollisionVelocityDamping
					n1.VY *= CollisionVelocityDamping
				}
				if !n2.Fixed {
					n2.X -= nx * move
					n2.Y -= ny * move
					n2.VX *= CollisionVelocityDamping
					n2.VY *= CollisionVelocityDamping
				}
			}
		}
	}
}

// applySprings eases rest lengths toward their ideal and applies Hooke forces
func (s *Simulator) applySprings(g *graph.Graph, dt float64) {
	adjust := s.params.LengthAdjustRate * dt

	for _, e := range g.Edges() {
		if e.RestLength > e.IdealLength {
			e.RestLength = math.Max(e.IdealLength, e.RestLength-adjust)
		} else if e.RestLength < e.IdealLength {
			e.RestLength = math.Min(e.IdealLength, e.RestLength+adjust)
		}

		source := g.Lookup(e.Source())
		target := g.Lookup(e.Target())
		if source == nil || target == nil {
			continue
		}

		dx := target.X - source.X
		dy := target.Y - source.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			dist = 1
		}

		force := (dist - e.RestLength) * s.params.Stiffness
		fx := dx / dist * force
		fy := dy / dist * force

		if !source.Fixed {
			source.FX += fx
			source.FY += fy
		}
		if !target.Fixed {
			target.FX -= fx
			target.FY -= fy
		}
	}
}

// integrate applies semi-implicit Euler with damping to non-fixed nodes
func (s *Simulator) integrate(nodes []*graph.Node, dt float64) Stats {
	var stats Stats
	for _, n := range nodes {
		if n.Fixed {
			n.VX, n.VY = 0, 0
			continue
		}

		n.VX = (n.VX + (n.FX/n.Mass)*dt) * s.params.Damping
		n.VY = (n.VY + (n.FY/n.Mass)*dt) * s.params.Damping
		n.X += n.VX * dt
		n.Y += n.VY * dt

		speedSq := n.VX*n.VX + n.VY*n.VY
		stats.KineticEnergy += 0.5 * n.Mass * speedSq
		stats.MaxSpeed = math.Max(stats.MaxSpeed, math.Sqrt(speedSq))
	}
	return stats
}

// Settle runs frames until the mean kinetic energy per node drops below
// threshold or maxFrames is reached. It reports the frames run and whether
// the layout settled.
func (s *Simulator) Settle(g *graph.Graph, maxFrames int, threshold float64) (int, bool) {
	if g.NodeCount() == 0 {
		return 0, true
	}
	for frame := 1; frame <= maxFrames; frame++ {
		stats := s.Update(g)
		if stats.Settled(g.NodeCount(), threshold) {
			return frame, true
		}
	}
	return maxFrames, false
}
