package agent

import (
	"math/rand"

	"github.com/opd-ai/go-torusbattle/pkg/engine"
	"github.com/opd-ai/go-torusbattle/pkg/physics"
)

// fireCone is the maximum heading error, in degrees, at which the
// hunter considers a target lined up well enough to shoot.
const fireCone float32 = 15

type shipState struct {
	alive bool
	pose  engine.Pose
}

// Hunter chases the nearest enemy ship across the torus seam and fires
// once it is roughly lined up. It learns which ships it owns from the
// MakeAction calls it receives, so on the very first tick it may briefly
// consider a teammate a target.
type Hunter struct {
	ships    map[uint32]shipState
	owned    map[uint32]bool
	turnRate float32
	rng      *rand.Rand
}

// NewHunter creates a hunter agent seeded for deterministic tie-breaks.
func NewHunter(params Params) *Hunter {
	return &Hunter{
		ships: make(map[uint32]shipState),
		owned: make(map[uint32]bool),
		rng:   rand.New(rand.NewSource(params.Seed)),
	}
}

func (a *Hunter) SetConfigParameter(param int, value float32) {
	if param == ParamShipMaxTurnRate {
		a.turnRate = value
	}
}

func (a *Hunter) ClearWorldState() {
	for id := range a.ships {
		delete(a.ships, id)
	}
}

func (a *Hunter) UpdateShip(agentID uint32, alive bool, pose engine.Pose) {
	a.ships[agentID] = shipState{alive: alive, pose: pose}
}

func (a *Hunter) UpdateShot(agentID uint32, lifetime int32, pose engine.Pose) {}

func (a *Hunter) UpdateScore(agentID uint32, score int32) {}

func (a *Hunter) MakeAction(agentID uint32, tick uint32) engine.Action {
	a.owned[agentID] = true

	self, ok := a.ships[agentID]
	if !ok || !self.alive {
		return engine.ActionNone
	}

	target, found := a.nearestEnemy(agentID, self.pose)
	if !found {
		// Nobody left to chase. Drift and keep the trigger warm.
		return engine.ActionThrust | engine.ActionFire
	}

	// Shortest displacement to the target, crossing the seam when that
	// side is nearer.
	dx := physics.Wrap(target.X-self.pose.X, -0.5, 0.5)
	dy := physics.Wrap(target.Y-self.pose.Y, -0.5, 0.5)

	desired := physics.HeadingAngle(physics.Vec2{X: dx, Y: dy})
	diff := physics.Wrap(desired-self.pose.Heading, -180, 180)

	action := engine.ActionThrust
	if diff < -a.turnRate/2 {
		action |= engine.ActionTurnLeft
	} else if diff > a.turnRate/2 {
		action |= engine.ActionTurnRight
	}
	if diff > -fireCone && diff < fireCone {
		action |= engine.ActionFire
	}
	return action
}

// nearestEnemy picks the living non-owned ship with the smallest torus
// distance. Ties are broken at random so two hunters spawned
// symmetrically do not mirror each other forever.
func (a *Hunter) nearestEnemy(selfID uint32, selfPose engine.Pose) (engine.Pose, bool) {
	var best engine.Pose
	bestD2 := float32(10)
	found := false

	for id, s := range a.ships {
		if id == selfID || a.owned[id] || !s.alive {
			continue
		}
		dx := physics.Wrap(s.pose.X-selfPose.X, -0.5, 0.5)
		dy := physics.Wrap(s.pose.Y-selfPose.Y, -0.5, 0.5)
		d2 := dx*dx + dy*dy
		if d2 < bestD2 || (d2 == bestD2 && a.rng.Intn(2) == 0) {
			bestD2 = d2
			best = s.pose
			found = true
		}
	}
	return best, found
}
