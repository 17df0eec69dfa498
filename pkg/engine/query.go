// pkg/engine/query.go
package engine

import "github.com/opd-ai/go-torusbattle/pkg/physics"

// Pose is the externally visible placement of a ship or shot: position
// in [0,1)² and heading in degrees, 0°=up, 90°=right.
type Pose struct {
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Heading float32 `json:"heading"`
}

// The query surface never fails: hosts poll it freely between ticks, so
// an absent context or unknown id yields defined neutral values (zero
// pose, zero lifetime, zero score, not alive) instead of an error.

// ShipPose returns the agent's ship pose, with the heading angle
// recovered from the stored heading vector.
func (ctx *Context) ShipPose(agentID uint32) Pose {
	idx, ok := ctx.lookup(agentID)
	if !ok {
		return Pose{}
	}
	return approxPose(ctx.ships[idx].Kin)
}

// ShotPose returns the agent's shot pose together with its remaining
// lifetime in ticks. A lifetime of 0 means no active shot; the pose
// contents are then unspecified (the slot's last state), so observers
// must gate on the lifetime.
func (ctx *Context) ShotPose(agentID uint32) (Pose, int32) {
	idx, ok := ctx.lookup(agentID)
	if !ok {
		return Pose{}, 0
	}
	shot := &ctx.shots[idx]
	return approxPose(shot.Kin), shot.Lifetime
}

// IsAlive reports whether the agent's ship is alive.
func (ctx *Context) IsAlive(agentID uint32) bool {
	idx, ok := ctx.lookup(agentID)
	return ok && ctx.ships[idx].alive == shipAlive
}

// Score returns the agent's score. Scores are signed and unbounded in
// both directions.
func (ctx *Context) Score(agentID uint32) int32 {
	idx, ok := ctx.lookup(agentID)
	if !ok {
		return 0
	}
	return ctx.scores[idx]
}

// lookup decodes an agent id and bounds-checks it against the registered
// roster. An unregistered slot holds a zero heading vector whose angle
// recovery would be undefined, so queries treat it as unknown.
func (ctx *Context) lookup(agentID uint32) (uint32, bool) {
	if ctx == nil {
		return 0, false
	}
	idx := idToIndex(agentID)
	return idx, idx < ctx.nAgents
}

func approxPose(kin physics.Kinematics) Pose {
	return Pose{
		X:       kin.Pos.X,
		Y:       kin.Pos.Y,
		Heading: physics.HeadingAngle(kin.Heading),
	}
}
