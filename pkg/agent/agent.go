// Package agent defines the observation protocol between a battle
// round and the bots steering its ships. Each tick the round pushes a
// fresh snapshot of the world into every agent through the Update
// methods, then asks it for one action per ship it controls.
package agent

import (
	"fmt"

	"github.com/opd-ai/go-torusbattle/pkg/engine"
)

// Config parameter indices pushed to agents after creation, in order.
const (
	ParamShipMaxTurnRate = iota
	ParamShipMaxVelocity
	ParamShipHitRadius
	ParamShotVelocity
	ParamShotLifetime
)

// Agent receives world state and decides actions for the ships it
// controls. Methods are called from a single goroutine in a fixed
// sequence each tick: ClearWorldState, then UpdateShip, UpdateShot and
// UpdateScore for every registered ship, then MakeAction once per
// owned ship.
type Agent interface {
	// SetConfigParameter delivers one engine tuning value, keyed by a
	// Param* index. Called once per parameter before the first tick.
	SetConfigParameter(param int, value float32)

	// ClearWorldState discards the previous tick's snapshot.
	ClearWorldState()

	// UpdateShip reports one ship's pose and liveness.
	UpdateShip(agentID uint32, alive bool, pose engine.Pose)

	// UpdateShot reports one ship's shot. Lifetime zero means no shot
	// is in flight.
	UpdateShot(agentID uint32, lifetime int32, pose engine.Pose)

	// UpdateScore reports one ship's score.
	UpdateScore(agentID uint32, score int32)

	// MakeAction returns the action for one owned ship this tick.
	MakeAction(agentID uint32, tick uint32) engine.Action
}

// Params describe the roster slot an agent is created for.
type Params struct {
	TotalShips   uint32
	Multiplicity uint32
	Seed         int64
}

// New creates a named agent implementation. Names match the "agent"
// field of a team configuration.
func New(name string, params Params) (Agent, error) {
	switch name {
	case "spinner":
		return NewSpinner(), nil
	case "hunter":
		return NewHunter(params), nil
	case "idle":
		return NewIdle(), nil
	default:
		return nil, fmt.Errorf("unknown agent %q", name)
	}
}

// Idle is an agent that never acts. Useful as a target in tests and
// demo rounds.
type Idle struct{}

// NewIdle creates an agent that always returns ActionNone.
func NewIdle() *Idle {
	return &Idle{}
}

func (a *Idle) SetConfigParameter(param int, value float32)                {}
func (a *Idle) ClearWorldState()                                          {}
func (a *Idle) UpdateShip(agentID uint32, alive bool, pose engine.Pose)   {}
func (a *Idle) UpdateShot(agentID uint32, lifetime int32, pose engine.Pose) {}
func (a *Idle) UpdateScore(agentID uint32, score int32)                   {}

func (a *Idle) MakeAction(agentID uint32, tick uint32) engine.Action {
	return engine.ActionNone
}
