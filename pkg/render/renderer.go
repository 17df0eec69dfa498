// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-torusbattle/pkg/game"
	"github.com/opd-ai/go-torusbattle/pkg/logging"
)

// Renderer draws world snapshots. Implementations range from the
// no-op NullRenderer to the engo GUI viewer.
type Renderer interface {
	Render(snap *game.Snapshot)
}

// NullRenderer discards every frame, logging at debug level. Useful
// for headless runs and as a stand-in in tests.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Render implements Renderer.
func (d *NullRenderer) Render(snap *game.Snapshot) {
	ctx := context.Background()
	if snap == nil {
		d.logger.Debug(ctx, "Render called with nil snapshot")
		return
	}
	d.logger.Debug(ctx, "Render called",
		"tick", snap.Tick,
		"teams", len(snap.Teams),
	)
}
