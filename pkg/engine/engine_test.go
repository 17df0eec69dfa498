// Package engine provides unit tests for the simulation core.
package engine

import (
	"errors"
	"math"
	"testing"
)

const deg2rad = 0.017453293

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx := NewContext(DefaultConfig())
	if ctx == nil {
		t.Fatal("NewContext returned nil")
	}
	t.Cleanup(func() { FreeContext(ctx) })
	return ctx
}

func within(t *testing.T, got, want, tol float32, what string) {
	t.Helper()
	if diff := float64(got - want); diff < -float64(tol) || diff > float64(tol) {
		t.Errorf("%s = %v, want %v (tolerance %v)", what, got, want, tol)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ShipMaxTurnRate != 10.0 {
		t.Errorf("ShipMaxTurnRate = %v, want 10", cfg.ShipMaxTurnRate)
	}
	if cfg.ShipMaxVelocity != 0.005 {
		t.Errorf("ShipMaxVelocity = %v, want 0.005", cfg.ShipMaxVelocity)
	}
	if cfg.ShipHitRadius != 0.02 {
		t.Errorf("ShipHitRadius = %v, want 0.02", cfg.ShipHitRadius)
	}
	if cfg.ShotVelocity != 0.05 {
		t.Errorf("ShotVelocity = %v, want 0.05", cfg.ShotVelocity)
	}
	if cfg.ShotLifetime != 25 {
		t.Errorf("ShotLifetime = %v, want 25", cfg.ShotLifetime)
	}
}

func TestAddAgent_RegistersShipsWithoutShots(t *testing.T) {
	ctx := newTestContext(t)

	poses := []Pose{
		{X: 0.5, Y: 0, Heading: 45},
		{X: 0, Y: 0.5, Heading: 300},
	}

	ids := make([]uint32, len(poses))
	for i, pose := range poses {
		ids[i] = ctx.AddAgent(pose)
		if ids[i] == InvalidAgentID {
			t.Fatalf("AddAgent(%d) returned the invalid id", i)
		}
	}
	if ids[0] == ids[1] {
		t.Fatalf("agent ids collide: %d", ids[0])
	}

	for i, id := range ids {
		if !ctx.IsAlive(id) {
			t.Errorf("agent %d not alive after registration", i)
		}
		got := ctx.ShipPose(id)
		within(t, got.X, poses[i].X, 1e-6, "ship pose x")
		within(t, got.Y, poses[i].Y, 1e-6, "ship pose y")
		within(t, got.Heading, poses[i].Heading, 0.1, "ship heading")

		if _, lifetime := ctx.ShotPose(id); lifetime != 0 {
			t.Errorf("agent %d has active shot at registration (lifetime %d)", i, lifetime)
		}
		if score := ctx.Score(id); score != 0 {
			t.Errorf("agent %d initial score = %d, want 0", i, score)
		}
	}
}

func TestAddAgent_FailureSentinel(t *testing.T) {
	t.Run("nil_context", func(t *testing.T) {
		var ctx *Context
		if id := ctx.AddAgent(Pose{X: 0.5, Y: 0.5}); id != InvalidAgentID {
			t.Errorf("AddAgent on nil context = %d, want 0", id)
		}
	})

	t.Run("capacity_exhausted", func(t *testing.T) {
		ctx := newTestContext(t)
		for i := 0; i < MaxAgents; i++ {
			if id := ctx.AddAgent(Pose{X: 0.5, Y: 0.5}); id == InvalidAgentID {
				t.Fatalf("AddAgent failed at %d/%d", i, MaxAgents)
			}
		}
		if id := ctx.AddAgent(Pose{X: 0.5, Y: 0.5}); id != InvalidAgentID {
			t.Errorf("AddAgent beyond capacity = %d, want 0", id)
		}
	})
}

func TestSetAction_ErrorConditions(t *testing.T) {
	ctx := newTestContext(t)
	id := ctx.AddAgent(Pose{X: 0.5, Y: 0.5})

	tests := []struct {
		name    string
		ctx     *Context
		agentID uint32
		want    error
	}{
		{"nil_context", nil, id, ErrNilContext},
		{"unknown_id", ctx, InvalidAgentID, ErrUnknownAgent},
		{"garbage_id", ctx, 0xDEADBEEF, ErrUnknownAgent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.ctx.SetAction(tc.agentID, ActionThrust); !errors.Is(err, tc.want) {
				t.Errorf("SetAction = %v, want %v", err, tc.want)
			}
		})
	}

	t.Run("dead_ship", func(t *testing.T) {
		// two ships head-on inside collision range kill each other
		other := ctx.AddAgent(Pose{X: 0.5, Y: 0.52, Heading: 180})
		if err := ctx.SetAction(id, ActionThrust); err != nil {
			t.Fatalf("SetAction: %v", err)
		}
		if err := ctx.SetAction(other, ActionThrust); err != nil {
			t.Fatalf("SetAction: %v", err)
		}
		ctx.Tick(1)
		if ctx.IsAlive(id) {
			t.Fatal("ship survived head-on collision")
		}
		if err := ctx.SetAction(id, ActionThrust); !errors.Is(err, ErrDeadShip) {
			t.Errorf("SetAction on dead ship = %v, want ErrDeadShip", err)
		}
	})
}

func TestSetAction_BothTurnFlagsLeaveHeadingUnchanged(t *testing.T) {
	ctx := newTestContext(t)
	id := ctx.AddAgent(Pose{X: 0.5, Y: 0.5, Heading: 90})

	if err := ctx.SetAction(id, ActionTurnLeft|ActionTurnRight); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	ctx.Tick(1)

	within(t, ctx.ShipPose(id).Heading, 90, 0.1, "heading after left+right")
}

func TestTick_WrapsShipOverWorldEdges(t *testing.T) {
	ctx := newTestContext(t)
	v := ctx.Config().ShipMaxVelocity

	// one ship per edge, positioned to cross the boundary in one thrust-tick
	tests := []struct {
		name   string
		start  Pose
		wantX  float32
		wantY  float32
	}{
		{"right", Pose{X: 1 - 0.5*v, Y: 0.25, Heading: 90}, 0.5 * v, 0.25},
		{"left", Pose{X: 0.5 * v, Y: 0.75, Heading: 270}, 1 - 0.5*v, 0.75},
		{"top", Pose{X: 0.25, Y: 1 - 0.5*v, Heading: 0}, 0.25, 0.5 * v},
		{"bottom", Pose{X: 0.75, Y: 0.5 * v, Heading: 180}, 0.75, 1 - 0.5*v},
	}

	ids := make([]uint32, len(tests))
	for i, tc := range tests {
		ids[i] = ctx.AddAgent(tc.start)
		if err := ctx.SetAction(ids[i], ActionThrust); err != nil {
			t.Fatalf("SetAction(%s): %v", tc.name, err)
		}
	}

	if alive := ctx.Tick(1); alive != uint32(len(tests)) {
		t.Fatalf("alive = %d, want %d (no collisions expected)", alive, len(tests))
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pose := ctx.ShipPose(ids[i])
			within(t, pose.X, tc.wantX, 1e-6, "wrapped x")
			within(t, pose.Y, tc.wantY, 1e-6, "wrapped y")
		})
	}
}

func TestTick_TurnThenMove(t *testing.T) {
	ctx := newTestContext(t)
	cfg := ctx.Config()

	init := Pose{X: 0.25, Y: 0.25, Heading: 90}
	id := ctx.AddAgent(init)

	// tick 1: pure turn, no translation
	if err := ctx.SetAction(id, ActionTurnRight); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	if alive := ctx.Tick(1); alive != 1 {
		t.Fatalf("alive = %d, want 1", alive)
	}

	p1 := ctx.ShipPose(id)
	within(t, p1.X, init.X, 1e-6, "x after pure turn")
	within(t, p1.Y, init.Y, 1e-6, "y after pure turn")
	within(t, p1.Heading, init.Heading+cfg.ShipMaxTurnRate, 0.1, "heading after turn")

	// tick 2: pure thrust along the post-turn heading
	if err := ctx.SetAction(id, ActionThrust); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	if alive := ctx.Tick(1); alive != 1 {
		t.Fatalf("alive = %d, want 1", alive)
	}

	p2 := ctx.ShipPose(id)
	wantX := p1.X + cfg.ShipMaxVelocity*float32(math.Sin(float64(p1.Heading)*deg2rad))
	wantY := p1.Y + cfg.ShipMaxVelocity*float32(math.Cos(float64(p1.Heading)*deg2rad))
	within(t, p2.X, wantX, 1e-6, "x after thrust")
	within(t, p2.Y, wantY, 1e-6, "y after thrust")
	within(t, p2.Heading, p1.Heading, 0.1, "heading after thrust")
}

func TestTick_ShipCollisionKillsBoth(t *testing.T) {
	ctx := newTestContext(t)
	cfg := ctx.Config()
	r := cfg.ShipHitRadius

	// start just outside 2r, then thrust head-on so the swept test must
	// catch the approach inside the tick
	d := 2*r + 0.5*cfg.ShipMaxVelocity
	id1 := ctx.AddAgent(Pose{X: 0.5, Y: 0.5, Heading: 0})
	id2 := ctx.AddAgent(Pose{X: 0.5, Y: 0.5 + d, Heading: 180})

	if err := ctx.SetAction(id1, ActionThrust); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	if err := ctx.SetAction(id2, ActionThrust); err != nil {
		t.Fatalf("SetAction: %v", err)
	}

	if alive := ctx.Tick(1); alive != 0 {
		t.Fatalf("alive = %d, want 0", alive)
	}
	if ctx.IsAlive(id1) || ctx.IsAlive(id2) {
		t.Error("ships survived head-on collision")
	}
	if got := ctx.Score(id1); got != -1 {
		t.Errorf("score(1) = %d, want -1", got)
	}
	if got := ctx.Score(id2); got != -1 {
		t.Errorf("score(2) = %d, want -1", got)
	}
}

// shotTestSetup positions a shooter aiming up at a target so that the
// shot misses on tick 1 and hits during tick 2, while the ships stay
// farther apart than 2r.
func shotTestSetup(t *testing.T, ctx *Context) (shooter, target uint32) {
	t.Helper()
	cfg := ctx.Config()
	r := cfg.ShipHitRadius

	const shooterX, shooterY = 0.5, 0.2
	targetY := shooterY +
		r*shotSpawnClearance + // shot spawn clearance from shooter
		r + // ship hit radius
		1.5*cfg.ShotVelocity // makes it hit on the 2nd tick

	shooter = ctx.AddAgent(Pose{X: shooterX, Y: shooterY, Heading: 0})
	target = ctx.AddAgent(Pose{X: shooterX, Y: targetY, Heading: 180})
	return shooter, target
}

func TestTick_ShotHitKillsAndScores(t *testing.T) {
	ctx := newTestContext(t)
	cfg := ctx.Config()
	shooter, target := shotTestSetup(t, ctx)

	if err := ctx.SetAction(shooter, ActionFire); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	if _, lifetime := ctx.ShotPose(shooter); lifetime != cfg.ShotLifetime {
		t.Fatalf("shot lifetime = %d, want %d", lifetime, cfg.ShotLifetime)
	}

	// tick 1: shot advances but does not hit yet
	if alive := ctx.Tick(1); alive != 2 {
		t.Fatalf("alive after tick 1 = %d, want 2", alive)
	}
	if got := ctx.Score(shooter); got != 0 {
		t.Errorf("shooter score after tick 1 = %d, want 0", got)
	}
	if _, lifetime := ctx.ShotPose(shooter); lifetime != cfg.ShotLifetime-1 {
		t.Errorf("shot lifetime after tick 1 = %d, want %d", lifetime, cfg.ShotLifetime-1)
	}

	// tick 2: shot crosses the target's hit radius mid-tick
	if alive := ctx.Tick(1); alive != 1 {
		t.Fatalf("alive after tick 2 = %d, want 1", alive)
	}
	if !ctx.IsAlive(shooter) {
		t.Error("shooter died")
	}
	if ctx.IsAlive(target) {
		t.Error("target survived the shot")
	}
	if got := ctx.Score(shooter); got != 2 {
		t.Errorf("shooter score = %d, want 2", got)
	}
	if got := ctx.Score(target); got != -1 {
		t.Errorf("target score = %d, want -1", got)
	}
	if _, lifetime := ctx.ShotPose(shooter); lifetime != 0 {
		t.Errorf("shot lifetime after hit = %d, want 0", lifetime)
	}
}

func TestSetAction_RefireOnlyAfterShotVanishes(t *testing.T) {
	ctx := newTestContext(t)
	cfg := ctx.Config()
	shooter, target := shotTestSetup(t, ctx)

	if err := ctx.SetAction(shooter, ActionFire); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	p0, lifetime := ctx.ShotPose(shooter)
	if lifetime != cfg.ShotLifetime {
		t.Fatalf("shot lifetime = %d, want %d", lifetime, cfg.ShotLifetime)
	}

	ctx.Tick(1)
	p1, lifetime := ctx.ShotPose(shooter)
	if lifetime != cfg.ShotLifetime-1 {
		t.Fatalf("shot lifetime = %d, want %d", lifetime, cfg.ShotLifetime-1)
	}
	if p1.Y <= p0.Y {
		t.Fatalf("shot did not advance: y %v -> %v", p0.Y, p1.Y)
	}

	// fire again while the shot is alive: must not respawn or reset
	if err := ctx.SetAction(shooter, ActionFire); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	p2, lifetime := ctx.ShotPose(shooter)
	if lifetime != cfg.ShotLifetime-1 {
		t.Errorf("refire reset lifetime to %d", lifetime)
	}
	within(t, p2.X, p1.X, 1e-6, "refire shot x")
	within(t, p2.Y, p1.Y, 1e-6, "refire shot y")

	// shot hits the target and vanishes
	ctx.Tick(1)
	if _, lifetime := ctx.ShotPose(shooter); lifetime != 0 {
		t.Fatalf("shot lifetime after hit = %d, want 0", lifetime)
	}
	if ctx.IsAlive(target) {
		t.Fatal("target survived")
	}

	// after the vanish, firing spawns a fresh shot at the muzzle again
	if err := ctx.SetAction(shooter, ActionFire); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	p4, lifetime := ctx.ShotPose(shooter)
	if lifetime != cfg.ShotLifetime {
		t.Errorf("fresh shot lifetime = %d, want %d", lifetime, cfg.ShotLifetime)
	}
	within(t, p4.X, p0.X, 1e-6, "fresh shot x")
	within(t, p4.Y, p0.Y, 1e-6, "fresh shot y")
}

func TestTick_SelfHitNetsPlusOne(t *testing.T) {
	ctx := newTestContext(t)

	// a stationary ship's shot loops the torus and comes back through
	// its own hit radius after 1/shotVelocity ticks
	id := ctx.AddAgent(Pose{X: 0.5, Y: 0.5, Heading: 0})
	if err := ctx.SetAction(id, ActionFire); err != nil {
		t.Fatalf("SetAction: %v", err)
	}

	for i := 0; i < 19; i++ {
		if alive := ctx.Tick(1); alive != 1 {
			t.Fatalf("ship died prematurely on tick %d", i+1)
		}
	}
	if alive := ctx.Tick(1); alive != 0 {
		t.Fatal("ship survived its own returning shot")
	}
	if got := ctx.Score(id); got != 1 {
		t.Errorf("self-hit score = %d, want +1 (2 earned, 1 lost)", got)
	}
	if _, lifetime := ctx.ShotPose(id); lifetime != 0 {
		t.Errorf("shot lifetime after self-hit = %d, want 0", lifetime)
	}
}

func TestTick_DeadShipsStopMoving(t *testing.T) {
	ctx := newTestContext(t)
	cfg := ctx.Config()
	r := cfg.ShipHitRadius

	d := 2*r + 0.5*cfg.ShipMaxVelocity
	id1 := ctx.AddAgent(Pose{X: 0.5, Y: 0.5, Heading: 0})
	id2 := ctx.AddAgent(Pose{X: 0.5, Y: 0.5 + d, Heading: 180})

	// id1 also fires: the shot must keep flying after its owner dies
	if err := ctx.SetAction(id1, ActionThrust|ActionFire); err != nil {
		t.Fatalf("SetAction: %v", err)
	}
	if err := ctx.SetAction(id2, ActionThrust); err != nil {
		t.Fatalf("SetAction: %v", err)
	}

	if alive := ctx.Tick(1); alive != 0 {
		t.Fatalf("alive = %d, want 0", alive)
	}

	rest := ctx.ShipPose(id1)
	shotBefore, l1 := ctx.ShotPose(id1)

	ctx.Tick(3)

	after := ctx.ShipPose(id1)
	within(t, after.X, rest.X, 1e-6, "dead ship x")
	within(t, after.Y, rest.Y, 1e-6, "dead ship y")

	shotAfter, l2 := ctx.ShotPose(id1)
	if l2 != l1-3 {
		t.Errorf("orphan shot lifetime = %d, want %d", l2, l1-3)
	}
	if shotAfter.Y <= shotBefore.Y {
		t.Errorf("orphan shot stopped moving: y %v -> %v", shotBefore.Y, shotAfter.Y)
	}
}

func TestTick_NilContext(t *testing.T) {
	var ctx *Context
	if alive := ctx.Tick(5); alive != 0 {
		t.Errorf("Tick on nil context = %d, want 0", alive)
	}
}

func TestQueries_FailSoftOnInvalidInput(t *testing.T) {
	var nilCtx *Context
	ctx := newTestContext(t)

	tests := []struct {
		name    string
		ctx     *Context
		agentID uint32
	}{
		{"nil_context", nilCtx, 42},
		{"invalid_id", ctx, InvalidAgentID},
		{"unregistered_slot", ctx, indexToID(5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if pose := tc.ctx.ShipPose(tc.agentID); pose != (Pose{}) {
				t.Errorf("ShipPose = %+v, want zero pose", pose)
			}
			if _, lifetime := tc.ctx.ShotPose(tc.agentID); lifetime != 0 {
				t.Errorf("ShotPose lifetime = %d, want 0", lifetime)
			}
			if tc.ctx.IsAlive(tc.agentID) {
				t.Error("IsAlive = true, want false")
			}
			if score := tc.ctx.Score(tc.agentID); score != 0 {
				t.Errorf("Score = %d, want 0", score)
			}
		})
	}
}
