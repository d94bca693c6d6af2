package render

import (
	"math"
	"strings"

	"github.com/TFMV/edgesketch/models"
)

const (
	nodeRune      = 'O'
	hoverRune     = '@'
	edgeRune      = '·'
	highlightRune = '*'
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the current frame as ASCII art for terminal or text-based output"
}

// ContentType returns the MIME type of plain text
func (r *ASCIIRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

type cell struct{ x, y int }

// Render creates an ASCII representation of the scene
func (r *ASCIIRenderer) Render(scene *models.Scene, options *OutputOptions) ([]byte, error) {
	p := newProjection(scene, options)

	// Character cells are roughly twice as tall as they are wide
	width := max(int(p.width/10), 40)
	height := max(int(p.height/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	// Draw a border around the graph
	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	toCell := func(x, y float64) cell {
		return cell{
			x: clamp(int(x*float64(width-2)/p.width)+1, 1, width-2),
			y: clamp(int(y*float64(height-2)/p.height)+1, 1, height-2),
		}
	}

	for _, e := range p.edges {
		if e.selfLoop() {
			continue
		}
		from, to := toCell(e.From.SX, e.From.SY), toCell(e.To.SX, e.To.SY)
		line := linePoints(from, to)

		mark := edgeRune
		if e.Highlighted {
			mark = highlightRune
		}
		for _, c := range line {
			if !isNodeRune(grid[c.y][c.x]) {
				grid[c.y][c.x] = mark
			}
		}

		if options.Directed && len(line) >= 2 {
			head := line[len(line)-2]
			grid[head.y][head.x] = arrowRune(e.To.SX-e.From.SX, e.To.SY-e.From.SY)
		}
	}

	for _, n := range p.nodes {
		c := toCell(n.SX, n.SY)
		if n.Hovered {
			grid[c.y][c.x] = hoverRune
		} else {
			grid[c.y][c.x] = nodeRune
		}

		// Add the label to the right of the node if there is room
		if options.ShowLabels && n.Label != "" {
			for i, ch := range []rune(n.Label) {
				x := c.x + 1 + i
				if x >= width-1 {
					break
				}
				grid[c.y][x] = ch
			}
		}
	}

	title := "edgesketch"
	if len(title) < width-4 && height > 3 {
		for i, c := range title {
			grid[1][i+2] = c
		}
	}

	if options.Timestamp && height > 4 {
		if ts := timestamp(); len(ts) < width-4 {
			for i, c := range ts {
				grid[height-2][i+2] = c
			}
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}

	return []byte(result.String()), nil
}

func isNodeRune(r rune) bool {
	return r == nodeRune || r == hoverRune
}

// arrowRune picks the arrowhead character closest to a direction
func arrowRune(dx, dy float64) rune {
	if math.Abs(dx) >= 2*math.Abs(dy) {
		if dx >= 0 {
			return '>'
		}
		return '<'
	}
	if dy >= 0 {
		return 'v'
	}
	return '^'
}

// clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// linePoints returns the cells between two points using Bresenham's algorithm,
// both ends included.
func linePoints(from, to cell) []cell {
	x1, y1, x2, y2 := from.x, from.y, to.x, to.y
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	var points []cell
	for {
		points = append(points, cell{x1, y1})
		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
	return points
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
