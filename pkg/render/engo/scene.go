// pkg/render/engo/scene.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-torusbattle/pkg/game"
)

// SnapshotSource is anything that streams snapshots: a live spectator
// client or a replay player.
type SnapshotSource interface {
	Snapshots() <-chan *game.Snapshot
}

// BattleScene shows a round on screen, fed from a SnapshotSource.
type BattleScene struct {
	world    *ecs.World
	source   SnapshotSource
	renderer *SnapshotRenderer
}

// NewBattleScene creates a scene over the given snapshot source.
func NewBattleScene(source SnapshotSource) *BattleScene {
	return &BattleScene{source: source}
}

// Type returns the scene type (required by engo).
func (scene *BattleScene) Type() string {
	return "BattleScene"
}

// Preload is called before the scene starts (required by engo). The
// viewer draws plain shapes, so there is nothing to load.
func (scene *BattleScene) Preload() {}

// Setup wires the world and starts consuming snapshots (required by
// engo).
func (scene *BattleScene) Setup(u engo.Updater) {
	scene.world = &ecs.World{}
	if w, ok := u.(*ecs.World); ok {
		scene.world = w
	}

	common.SetBackground(color.RGBA{8, 8, 20, 255})

	scene.renderer = NewSnapshotRenderer(scene.world)
	scene.renderer.Initialize()

	go scene.consumeSnapshots()
}

func (scene *BattleScene) consumeSnapshots() {
	for snap := range scene.source.Snapshots() {
		scene.renderer.Render(snap)
	}
}

// Exit is called when the scene is exiting (required by engo).
func (scene *BattleScene) Exit() {}

// Run opens the viewer window and blocks until it closes.
func Run(title string, width, height int, source SnapshotSource) {
	opts := engo.RunOptions{
		Title:  title,
		Width:  width,
		Height: height,
	}
	engo.Run(opts, NewBattleScene(source))
}
