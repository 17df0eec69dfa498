// pkg/engine/action.go
package engine

import (
	"errors"

	"github.com/opd-ai/go-torusbattle/pkg/physics"
)

// Action is the per-tick intent bitmask an agent submits for its ship.
type Action uint32

// Action flag bits. Flags are combinable; turning left and right in the
// same tick cancel out (see Action.turn).
const (
	ActionNone      Action = 0
	ActionThrust    Action = 1
	ActionTurnLeft  Action = 2
	ActionTurnRight Action = 4
	ActionFire      Action = 8
)

// Thrust reports whether the thrust bit is set.
func (a Action) Thrust() bool { return a&ActionThrust != 0 }

// TurnLeft reports whether the turn-left bit is set.
func (a Action) TurnLeft() bool { return a&ActionTurnLeft != 0 }

// TurnRight reports whether the turn-right bit is set.
func (a Action) TurnRight() bool { return a&ActionTurnRight != 0 }

// Fire reports whether the fire bit is set.
func (a Action) Fire() bool { return a&ActionFire != 0 }

// SetAction failure conditions. These are the only errors the engine
// ever returns; C-ABI hosts map them to -1, -2, -3 in this order.
var (
	ErrNilContext   = errors.New("engine: nil context")
	ErrUnknownAgent = errors.New("engine: unknown agent id")
	ErrDeadShip     = errors.New("engine: ship is dead")
)

// shotSpawnClearance scales the muzzle offset of a new shot slightly
// beyond the firing ship's own hit radius, so a ship can never collide
// with its shot on the tick it fires.
const shotSpawnClearance float32 = 1.01

// SetAction applies one agent's intent for the upcoming tick. The three
// sub-actions apply in fixed order and independently of each other:
//
//  1. thrust: speed becomes the configured max if the flag is set, else
//     zero; there is no in-between.
//  2. turn: if exactly one of left/right is set, the heading rotates by
//     the configured max turn rate in that direction and is re-derived
//     from the angle (the heading vector never drifts). Both or neither
//     set leaves the heading unchanged; this tie-break is contract, not
//     an error.
//  3. fire: if set and the agent's shot slot is inactive, a shot spawns
//     at the ship's position offset along its heading and inherits the
//     heading; an active shot is left untouched (no queueing, no reset).
//
// Calling SetAction twice for the same agent within one tick is
// unsupported: the effects stack.
func (ctx *Context) SetAction(agentID uint32, flags Action) error {
	if ctx == nil {
		return ErrNilContext
	}

	idx := idToIndex(agentID)
	if idx >= MaxAgents {
		return ErrUnknownAgent
	}

	if ctx.ships[idx].alive != shipAlive {
		return ErrDeadShip
	}

	cfg := &ctx.cfg
	ship := &ctx.ships[idx].Kin

	if flags.Thrust() {
		ship.V = cfg.ShipMaxVelocity
	} else {
		ship.V = 0
	}

	if flags.TurnLeft() != flags.TurnRight() {
		angle := physics.HeadingAngle(ship.Heading)
		if flags.TurnLeft() {
			angle -= cfg.ShipMaxTurnRate
		} else {
			angle += cfg.ShipMaxTurnRate
		}
		ship.Heading = physics.HeadingVec(angle)
	}

	if flags.Fire() && ctx.shots[idx].Lifetime <= 0 {
		r := cfg.ShipHitRadius * shotSpawnClearance
		ctx.shots[idx] = Shot{
			Kin: physics.Kinematics{
				Pos:     ship.Pos.Add(ship.Heading.Scale(r)),
				Heading: ship.Heading,
				V:       cfg.ShotVelocity,
			},
			Lifetime: cfg.ShotLifetime,
		}
	}

	return nil
}
