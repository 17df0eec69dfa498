// pkg/engine/tick.go
package engine

import "github.com/opd-ai/go-torusbattle/pkg/physics"

// Tick advances the simulation by n steps and returns the number of
// ships alive afterwards, letting hosts detect "one team remains"
// without a separate query. A nil context reports zero alive.
//
// There is no inter-tick setup: callers wanting different actions per
// step must interleave SetAction calls; unsupplied agents keep their
// previous speed and heading.
func (ctx *Context) Tick(n uint32) uint32 {
	if ctx == nil {
		return 0
	}

	for i := uint32(0); i < n; i++ {
		ctx.tickOnce()
	}

	var alive uint32
	for i := uint32(0); i < ctx.nAgents; i++ {
		if ctx.ships[i].alive == shipAlive {
			alive++
		}
	}
	return alive
}

// tickOnce runs one simulated step in fixed order over the current
// pre-propagation state: shot-vs-ship collisions, ship-vs-ship
// collisions, then propagation.
func (ctx *Context) tickOnce() {
	ctx.collideShotsShips()
	ctx.collideShipsShips()
	ctx.propagate()
}

// collideShotsShips sweeps every active shot against every living ship,
// including the shooter's own. A hit expires the shot, marks the ship
// dead-this-tick, and scores the shooter +2 and the ship owner -1. A
// self-hit lands both adjustments on the same agent for a net +1; that
// quirk is intentional.
func (ctx *Context) collideShotsShips() {
	r := ctx.cfg.ShipHitRadius
	r2 := r * r

	n := ctx.nAgents
	for i := uint32(0); i < n; i++ {
		shot := &ctx.shots[i]
		for j := uint32(0); j < n; j++ {
			ship := &ctx.ships[j]
			if shot.Lifetime != 0 && ship.alive != shipDead &&
				physics.Sweep(shot.Kin, ship.Kin, r2) {
				shot.Lifetime = -1
				ship.alive = shipDying

				ctx.scores[i] += 2
				ctx.scores[j] -= 1
			}
		}
	}
}

// collideShipsShips sweeps every unordered pair of living ships with a
// threshold of twice the hit radius (both bodies have extent). A hit
// kills both and costs each one point.
func (ctx *Context) collideShipsShips() {
	r := ctx.cfg.ShipHitRadius
	r2x4 := 4 * r * r

	n := ctx.nAgents
	for i := uint32(0); i < n; i++ {
		ship1 := &ctx.ships[i]
		for j := i + 1; j < n; j++ {
			ship2 := &ctx.ships[j]
			if ship1.alive != shipDead && ship2.alive != shipDead &&
				physics.Sweep(ship1.Kin, ship2.Kin, r2x4) {
				ship1.alive = shipDying
				ship2.alive = shipDying

				ctx.scores[i] -= 1
				ctx.scores[j] -= 1
			}
		}
	}
}

// propagate finalizes this tick for every agent: the alive flag becomes
// strictly binary, ship positions advance with toroidal wraparound, dead
// ships stop drifting, active shot lifetimes decrement (floored at 0),
// and shots advance regardless of their owner's fate; a shot is
// independent of its ship once fired.
func (ctx *Context) propagate() {
	n := ctx.nAgents
	for i := uint32(0); i < n; i++ {
		ship := &ctx.ships[i]
		// a ship killed this tick still completes its motion before stopping
		ship.Kin.Pos = ship.Kin.Propagate()
		if ship.alive != shipAlive {
			ship.alive = shipDead
			ship.Kin.V = 0
		}

		shot := &ctx.shots[i]
		if shot.Lifetime > 0 {
			shot.Lifetime--
		} else {
			shot.Lifetime = 0
		}
		shot.Kin.Pos = shot.Kin.Propagate()
	}
}
