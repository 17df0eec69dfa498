package agent

import (
	"github.com/opd-ai/go-torusbattle/pkg/engine"
)

// Spinner ignores the world entirely and holds down thrust, left turn
// and fire. It flies a tight circle spraying shots, which makes it a
// surprisingly annoying opponent on a small torus.
type Spinner struct{}

// NewSpinner creates a spinner agent.
func NewSpinner() *Spinner {
	return &Spinner{}
}

func (a *Spinner) SetConfigParameter(param int, value float32)                {}
func (a *Spinner) ClearWorldState()                                          {}
func (a *Spinner) UpdateShip(agentID uint32, alive bool, pose engine.Pose)   {}
func (a *Spinner) UpdateShot(agentID uint32, lifetime int32, pose engine.Pose) {}
func (a *Spinner) UpdateScore(agentID uint32, score int32)                   {}

func (a *Spinner) MakeAction(agentID uint32, tick uint32) engine.Action {
	return engine.ActionThrust | engine.ActionTurnLeft | engine.ActionFire
}
