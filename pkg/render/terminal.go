package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/go-torusbattle/pkg/game"
)

// TerminalRenderer draws the whole torus as an ASCII grid. Ships show
// as their team's letter (lowercase once dead), shots as dots. A score
// line follows the grid.
type TerminalRenderer struct {
	width  int
	height int
	buffer [][]rune
	out    io.Writer
}

// NewTerminalRenderer creates a terminal renderer with the given grid
// dimensions, writing frames to out.
func NewTerminalRenderer(width, height int, out io.Writer) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		out:    out,
	}
}

// worldToScreen maps torus coordinates in [0,1) onto the grid. The y
// axis is flipped so that heading 0 (up) points at the top row.
func (r *TerminalRenderer) worldToScreen(x, y float32) (int, int) {
	col := int(float64(x) * float64(r.width))
	row := int((1 - float64(y)) * float64(r.height))
	// Coordinates on the upper edge land one cell out of range.
	if col < 0 {
		col = 0
	} else if col >= r.width {
		col = r.width - 1
	}
	if row < 0 {
		row = 0
	} else if row >= r.height {
		row = r.height - 1
	}
	return col, row
}

// teamMarker returns the letter used for a team's ships.
func teamMarker(teamIdx int) rune {
	return rune('A' + teamIdx%26)
}

// Render implements Renderer.
func (r *TerminalRenderer) Render(snap *game.Snapshot) {
	if snap == nil {
		return
	}

	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}

	// Shots first so ships overdraw them on shared cells.
	for _, team := range snap.Teams {
		for _, shot := range team.Shots {
			if shot.Lifetime <= 0 {
				continue
			}
			col, row := r.worldToScreen(shot.X, shot.Y)
			r.buffer[row][col] = '.'
		}
	}
	for i, team := range snap.Teams {
		for _, ship := range team.Ships {
			col, row := r.worldToScreen(ship.X, ship.Y)
			marker := teamMarker(i)
			if !ship.Alive {
				marker += 'a' - 'A'
			}
			r.buffer[row][col] = marker
		}
	}

	r.present(snap)
}

func (r *TerminalRenderer) present(snap *game.Snapshot) {
	border := "+" + strings.Repeat("-", r.width) + "+"

	fmt.Fprint(r.out, "\033[H\033[2J")
	fmt.Fprintln(r.out, border)
	for y := range r.buffer {
		fmt.Fprintf(r.out, "|%s|\n", string(r.buffer[y]))
	}
	fmt.Fprintln(r.out, border)

	fmt.Fprintf(r.out, "tick %d", snap.Tick)
	for i, team := range snap.Teams {
		fmt.Fprintf(r.out, "  %c=%s: %d", teamMarker(i), team.Name, team.Score)
	}
	fmt.Fprintln(r.out)
}
