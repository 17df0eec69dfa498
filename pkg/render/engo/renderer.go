// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-torusbattle/pkg/game"
)

// Visual sizes in screen pixels.
const (
	shipSize = 18
	shotSize = 5
)

// visual ties one world object to its ECS entity and components. The
// components are registered with the render system by pointer, so
// mutating them here updates the drawn frame.
type visual struct {
	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
}

// SnapshotRenderer draws snapshots into an engo world. Ships are
// triangles pointing along their heading, shots are small circles in
// the owning team's color. The whole unit torus maps onto the window.
type SnapshotRenderer struct {
	world        *ecs.World
	renderSystem *common.RenderSystem

	ships map[uint32]*visual
	shots map[uint32]*visual
}

// NewSnapshotRenderer creates a renderer bound to an engo world.
func NewSnapshotRenderer(world *ecs.World) *SnapshotRenderer {
	return &SnapshotRenderer{
		world: world,
		ships: make(map[uint32]*visual),
		shots: make(map[uint32]*visual),
	}
}

// Initialize registers the render system. Must run inside scene setup.
func (r *SnapshotRenderer) Initialize() {
	r.renderSystem = &common.RenderSystem{}
	r.world.AddSystem(r.renderSystem)
}

// Render implements render.Renderer for live and replayed rounds.
func (r *SnapshotRenderer) Render(snap *game.Snapshot) {
	if snap == nil {
		return
	}

	for _, team := range snap.Teams {
		teamColor := parseHexColor(team.Color)

		for _, ship := range team.Ships {
			v := r.getOrCreateShip(ship.ID, teamColor)
			v.space.Position = r.worldToScreen(ship.X, ship.Y, shipSize)
			v.space.Rotation = ship.Heading
			if ship.Alive {
				v.render.Color = teamColor
			} else {
				v.render.Color = color.RGBA{80, 80, 80, 255}
			}
		}

		for _, shot := range team.Shots {
			v := r.getOrCreateShot(shot.ID, teamColor)
			v.render.Hidden = shot.Lifetime <= 0
			if shot.Lifetime > 0 {
				v.space.Position = r.worldToScreen(shot.X, shot.Y, shotSize)
			}
		}
	}
}

func (r *SnapshotRenderer) getOrCreateShip(id uint32, c color.Color) *visual {
	if v, ok := r.ships[id]; ok {
		return v
	}

	v := &visual{basic: ecs.NewBasic()}
	v.render = common.RenderComponent{
		Drawable: common.Triangle{TriangleType: common.TriangleIsosceles},
		Color:    c,
	}
	v.space = common.SpaceComponent{
		Width:  shipSize,
		Height: shipSize,
	}
	r.renderSystem.Add(&v.basic, &v.render, &v.space)
	r.ships[id] = v
	return v
}

func (r *SnapshotRenderer) getOrCreateShot(id uint32, c color.Color) *visual {
	if v, ok := r.shots[id]; ok {
		return v
	}

	v := &visual{basic: ecs.NewBasic()}
	v.render = common.RenderComponent{
		Drawable: common.Circle{},
		Color:    c,
		Hidden:   true,
	}
	v.space = common.SpaceComponent{
		Width:  shotSize,
		Height: shotSize,
	}
	r.renderSystem.Add(&v.basic, &v.render, &v.space)
	r.shots[id] = v
	return v
}

// worldToScreen maps torus coordinates in [0,1) to window pixels,
// centered on the drawn object. The y axis flips so heading 0 points
// up on screen.
func (r *SnapshotRenderer) worldToScreen(x, y float32, size float32) engo.Point {
	return engo.Point{
		X: x*engo.GameWidth() - size/2,
		Y: (1-y)*engo.GameHeight() - size/2,
	}
}

// parseHexColor decodes "#RRGGBB" team colors, falling back to white.
func parseHexColor(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}
	hex := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hex(s[1+2*i])
		lo, ok2 := hex(s[2+2*i])
		if !ok1 || !ok2 {
			return color.RGBA{255, 255, 255, 255}
		}
		rgb[i] = hi<<4 | lo
	}
	return color.RGBA{rgb[0], rgb[1], rgb[2], 255}
}
