// Package tui is an interactive terminal viewer for a live graph.
//
// Each terminal cell stands for a CellWidth x CellHeight block of screen
// pixels, so the engine sees the same coordinate space a graphical client
// of that size would.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/TFMV/edgesketch/engine"
	"github.com/TFMV/edgesketch/models"
	"github.com/TFMV/edgesketch/render"
)

const (
	CellWidth  = 10.0
	CellHeight = 20.0
)

var (
	styleDefault   = tcell.StyleDefault
	styleBorder    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleNode      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHover     = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x2196f3)).Bold(true)
	styleEdge      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHighlight = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x6FA8DC))
	styleArrow     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleWarning   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Options configures a Viewer
type Options struct {
	FPS      int
	Directed bool
	// Reload returns fresh edge-list text when the user asks for a refresh.
	// Nil keeps the current text.
	Reload func() (string, error)
	Logger *slog.Logger
}

// Viewer draws a Loop on a tcell screen and feeds it mouse input
type Viewer struct {
	screen tcell.Screen
	loop   *engine.Loop
	opts   Options
	logger *slog.Logger

	ascii    *render.ASCIIRenderer
	directed bool
	paused   bool
	pressed  bool
	message  string
}

// New creates a viewer. The screen must already be initialised.
func New(screen tcell.Screen, loop *engine.Loop, opts Options) *Viewer {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := &Viewer{
		screen:   screen,
		loop:     loop,
		opts:     opts,
		logger:   logger,
		ascii:    &render.ASCIIRenderer{},
		directed: opts.Directed,
	}
	v.resize()
	return v
}

// Run opens the terminal, runs the viewer until the user quits or ctx is
// cancelled, and restores the terminal.
func Run(ctx context.Context, loop *engine.Loop, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("error creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("error initializing screen: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.Clear()

	return New(screen, loop, opts).Loop(ctx)
}

// Loop processes events and frame ticks until quit
func (v *Viewer) Loop(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Frame ticks arrive as interrupts so that all engine calls and drawing
	// happen on this goroutine.
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(v.opts.FPS))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				v.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
				return
			case <-ticker.C:
				v.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		v.draw()
		v.screen.Show()

		if v.handleEvent(v.screen.PollEvent()) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// handleEvent applies one event and reports whether the viewer should exit
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return true
	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventInterrupt:
		if !v.paused {
			v.loop.Frame()
		}
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '+', '=':
			v.loop.ZoomIn()
		case '-', '_':
			v.loop.ZoomOut()
		case '0':
			v.loop.ResetView()
		case 'd':
			v.directed = !v.directed
		case ' ':
			v.paused = !v.paused
		case 'r':
			v.refresh()
		}
	}
	return false
}

func (v *Viewer) refresh() {
	if v.opts.Reload != nil {
		text, err := v.opts.Reload()
		if err != nil {
			v.message = err.Error()
			v.logger.Warn("reload failed", "error", err)
			return
		}
		v.loop.SetSource(text)
	}
	v.loop.Refresh()
	v.message = ""
}

func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y := v.toPixels(cx, cy)
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		v.loop.Wheel(-1)
		return
	case buttons&tcell.WheelDown != 0:
		v.loop.Wheel(1)
		return
	}

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !v.pressed:
		v.loop.PointerDown(x, y)
	case !down && v.pressed:
		v.loop.PointerMove(x, y)
		v.loop.PointerUp()
	default:
		v.loop.PointerMove(x, y)
	}
	v.pressed = down
}

// canvasSize returns the drawing area in cells; the last row is the status line
func (v *Viewer) canvasSize() (int, int) {
	w, h := v.screen.Size()
	return w, max(h-1, 1)
}

func (v *Viewer) resize() {
	w, h := v.canvasSize()
	v.loop.Resize(float64(w)*CellWidth, float64(h)*CellHeight)
}

// gridSize is the size of the ASCII frame, which never shrinks below 40x20
func (v *Viewer) gridSize() (int, int) {
	w, h := v.canvasSize()
	return max(w, 40), max(h, 20)
}

// toPixels inverts the ASCII renderer's pixel-to-cell mapping at the cell centre
func (v *Viewer) toPixels(cx, cy int) (float64, float64) {
	w, h := v.canvasSize()
	gw, gh := v.gridSize()
	pw, ph := float64(w)*CellWidth, float64(h)*CellHeight
	return (float64(cx) - 0.5) * pw / float64(gw-2), (float64(cy) - 0.5) * ph / float64(gh-2)
}

func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.canvasSize()
	scene := v.loop.Snapshot()

	opts := render.NewDefaultOptions("ascii")
	opts.Width = float64(w) * CellWidth
	opts.Height = float64(h) * CellHeight
	opts.Directed = v.directed
	out, err := v.ascii.Render(&scene, opts)
	if err != nil {
		v.message = err.Error()
	}

	for y, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if y >= h {
			break
		}
		x := 0
		for _, r := range line {
			if x >= w {
				break
			}
			v.screen.SetContent(x, y, r, nil, styleFor(r))
			x++
		}
	}

	v.drawStatus(&scene, h)
}

func styleFor(r rune) tcell.Style {
	switch r {
	case '+', '-', '|':
		return styleBorder
	case 'O':
		return styleNode
	case '@':
		return styleHover
	case '·':
		return styleEdge
	case '*':
		return styleHighlight
	case '>', '<', '^', 'v':
		return styleArrow
	}
	return styleDefault
}

func (v *Viewer) drawStatus(scene *models.Scene, row int) {
	w, _ := v.screen.Size()
	status := fmt.Sprintf(" nodes %d  edges %d  zoom %.2f  %s ",
		len(scene.Nodes), len(scene.Edges), scene.View.Scale, scene.Interaction)
	if id := scene.HoveredID; id != "" {
		status += fmt.Sprintf(" %s (%d edges)", id, len(scene.FindEdgesTouching(id)))
	}
	if v.paused {
		status += " [paused]"
	}
	if v.directed {
		status += " [directed]"
	}
	status += "  q quit  +/- zoom  r refresh  d arrows  space pause"

	style := styleStatus
	if v.message != "" {
		status = " " + v.message
		style = styleWarning
	} else if n := scene.WarningCount(); n > 0 {
		d := scene.Diagnostics[0]
		status = fmt.Sprintf(" %d warning(s); line %d: %s", n, d.Line, d.Message)
		style = styleWarning
	}

	for x := 0; x < w; x++ {
		v.screen.SetContent(x, row, ' ', nil, style)
	}
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		v.screen.SetContent(x, row, r, nil, style)
		x++
	}
}
