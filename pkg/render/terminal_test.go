package render

import (
	"strings"
	"testing"

	"github.com/opd-ai/go-torusbattle/pkg/game"
)

func testSnapshot() *game.Snapshot {
	return &game.Snapshot{
		Tick: 42,
		Teams: []game.TeamSnapshot{
			{
				Name:  "Crimson",
				Score: 2,
				Ships: []game.ShipSnapshot{
					{ID: 1, X: 0.25, Y: 0.5, Alive: true},
				},
				Shots: []game.ShotSnapshot{
					{ID: 1, X: 0.75, Y: 0.5, Lifetime: 10},
				},
			},
			{
				Name:  "Azure",
				Score: -1,
				Ships: []game.ShipSnapshot{
					{ID: 2, X: 0.5, Y: 0.25, Alive: false},
				},
				Shots: []game.ShotSnapshot{
					{ID: 2, X: 0.1, Y: 0.1, Lifetime: 0},
				},
			},
		},
	}
}

func TestTerminalRenderer_DrawsShipsAndShots(t *testing.T) {
	var out strings.Builder
	r := NewTerminalRenderer(20, 10, &out)

	r.Render(testSnapshot())
	frame := out.String()

	if !strings.Contains(frame, "A") {
		t.Error("living ship of team 0 not drawn")
	}
	if !strings.Contains(frame, "b") {
		t.Error("dead ship of team 1 should be drawn lowercase")
	}
	if !strings.Contains(frame, ".") {
		t.Error("active shot not drawn")
	}
	if !strings.Contains(frame, "tick 42") {
		t.Error("status line missing tick count")
	}
	if !strings.Contains(frame, "Crimson: 2") || !strings.Contains(frame, "Azure: -1") {
		t.Errorf("status line missing scores: %q", frame)
	}
}

func TestTerminalRenderer_SkipsInactiveShots(t *testing.T) {
	var out strings.Builder
	r := NewTerminalRenderer(20, 10, &out)

	snap := testSnapshot()
	snap.Teams[0].Shots[0].Lifetime = 0
	r.Render(snap)

	if strings.Contains(out.String(), ".") {
		t.Error("inactive shot should not be drawn")
	}
}

func TestTerminalRenderer_EdgeCoordinatesStayInGrid(t *testing.T) {
	var out strings.Builder
	r := NewTerminalRenderer(8, 4, &out)

	snap := &game.Snapshot{
		Teams: []game.TeamSnapshot{
			{
				Name: "Edge",
				Ships: []game.ShipSnapshot{
					{ID: 1, X: 0, Y: 0, Alive: true},
					{ID: 2, X: 0.999, Y: 0.999, Alive: true},
				},
			},
		},
	}

	// Must not panic on boundary positions.
	r.Render(snap)
	if !strings.Contains(out.String(), "A") {
		t.Error("edge ships not drawn")
	}
}

func TestNullRenderer_AcceptsNilSnapshot(t *testing.T) {
	r := NewNullRenderer()
	r.Render(nil)
	r.Render(testSnapshot())
}
