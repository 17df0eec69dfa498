// Package engine implements the simulation core: a fixed-layout state
// container for one round of torus battle, the per-tick state transition,
// and the read-only query surface hosts poll between ticks.
//
// A Context is the sole mutable state of the engine. It is single-writer:
// all calls against one context must be externally serialized, while
// independent contexts may be advanced in parallel. After creation the
// engine allocates nothing, so it runs unchanged in allocator-free
// sandboxed builds (see the fixedslot build tag).
package engine

import "github.com/opd-ai/go-torusbattle/pkg/physics"

// MaxAgents is the fixed agent capacity of a context.
const MaxAgents = 128

// Config holds the immutable round parameters, supplied once at context
// creation. Distances and velocities are in torus-units (the world is
// [0,1)²), angles in degrees, lifetimes in ticks.
type Config struct {
	ShipMaxTurnRate float32 `json:"shipMaxTurnRate"`
	ShipMaxVelocity float32 `json:"shipMaxVelocity"`
	ShipHitRadius   float32 `json:"shipHitRadius"`
	ShotVelocity    float32 `json:"shotVelocity"`
	ShotLifetime    int32   `json:"shotLifetime"`
}

// DefaultConfig returns the stock round parameters.
func DefaultConfig() Config {
	return Config{
		ShipMaxTurnRate: 10.0,
		ShipMaxVelocity: 0.005,
		ShipHitRadius:   0.02,
		ShotVelocity:    0.05,
		ShotLifetime:    25,
	}
}

// Ship alive states. The tri-state is internal: between the collision
// passes and the propagation pass of a tick a ship can be "dying"
// (killed this tick but not yet finalized). Externally alive is binary.
const (
	shipDead  int32 = 0
	shipAlive int32 = 1
	shipDying int32 = -1
)

// Ship is one agent's vessel: kinematics plus the alive flag.
// Ships are created once at registration and mutated in place every
// tick; they are never destroyed before the context is.
type Ship struct {
	Kin   physics.Kinematics
	alive int32
}

// Alive reports whether the ship is (still) alive.
func (s *Ship) Alive() bool { return s.alive == shipAlive }

// Shot is an agent's single shot slot. Lifetime 0 means no active shot;
// a shot consumed by a hit briefly holds -1 until propagation floors it.
type Shot struct {
	Kin      physics.Kinematics
	Lifetime int32
}

// Active reports whether the shot is in flight.
func (s *Shot) Active() bool { return s.Lifetime > 0 }

// Context owns all state of one round: fixed-capacity parallel arrays of
// ships, shots and scores indexed by internal agent index, the agent
// count, and a snapshot of the config.
type Context struct {
	inUse bool // fixed-slot mode live guard; unused in heap mode

	cfg     Config
	nAgents uint32
	scores  [MaxAgents]int32
	ships   [MaxAgents]Ship
	shots   [MaxAgents]Shot
}

// Config returns the context's config snapshot.
func (ctx *Context) Config() Config { return ctx.cfg }

// AgentCount returns the number of registered agents.
func (ctx *Context) AgentCount() uint32 {
	if ctx == nil {
		return 0
	}
	return ctx.nAgents
}

// AddAgent registers a new agent with the given initial pose and returns
// its public id, or InvalidAgentID if the context is absent or capacity
// is exhausted (callers cannot distinguish the two from the return value
// alone). The ship starts alive with zero speed and its heading derived
// from the pose angle; the shot slot starts inactive and the score at
// zero. The round protocol assumes the full roster is registered before
// the first tick, though the engine does not enforce this structurally.
func (ctx *Context) AddAgent(pose Pose) uint32 {
	if ctx == nil {
		return InvalidAgentID
	}

	n := ctx.nAgents
	if n >= MaxAgents {
		return InvalidAgentID
	}
	ctx.nAgents = n + 1

	ctx.scores[n] = 0
	ctx.ships[n] = Ship{
		Kin: physics.Kinematics{
			Pos:     physics.Vec2{X: pose.X, Y: pose.Y},
			Heading: physics.HeadingVec(pose.Heading),
			V:       0,
		},
		alive: shipAlive,
	}
	ctx.shots[n].Lifetime = 0

	return indexToID(n)
}
