package agent

import (
	"github.com/opd-ai/go-torusbattle/pkg/engine"
)

// Guard fences a possibly hostile agent implementation. The first
// panic out of any method traps the agent permanently: later calls
// become no-ops and its ships coast with no input. The round itself
// never sees the panic.
type Guard struct {
	inner   Agent
	trapped bool
}

// NewGuard wraps an agent in a trap fence.
func NewGuard(inner Agent) *Guard {
	return &Guard{inner: inner}
}

// Trapped reports whether the wrapped agent has panicked.
func (g *Guard) Trapped() bool {
	return g.trapped
}

func (g *Guard) guard(fn func()) {
	if g.trapped {
		return
	}
	defer func() {
		if recover() != nil {
			g.trapped = true
		}
	}()
	fn()
}

func (g *Guard) SetConfigParameter(param int, value float32) {
	g.guard(func() { g.inner.SetConfigParameter(param, value) })
}

func (g *Guard) ClearWorldState() {
	g.guard(func() { g.inner.ClearWorldState() })
}

func (g *Guard) UpdateShip(agentID uint32, alive bool, pose engine.Pose) {
	g.guard(func() { g.inner.UpdateShip(agentID, alive, pose) })
}

func (g *Guard) UpdateShot(agentID uint32, lifetime int32, pose engine.Pose) {
	g.guard(func() { g.inner.UpdateShot(agentID, lifetime, pose) })
}

func (g *Guard) UpdateScore(agentID uint32, score int32) {
	g.guard(func() { g.inner.UpdateScore(agentID, score) })
}

func (g *Guard) MakeAction(agentID uint32, tick uint32) engine.Action {
	action := engine.ActionNone
	g.guard(func() { action = g.inner.MakeAction(agentID, tick) })
	return action
}
