// Package game orchestrates battle rounds: it spawns ships for each
// team's agent, fans world state out to the agents every tick, feeds
// their actions back into the engine and records a replay log.
package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/opd-ai/go-torusbattle/pkg/agent"
	"github.com/opd-ai/go-torusbattle/pkg/config"
	"github.com/opd-ai/go-torusbattle/pkg/engine"
	"github.com/opd-ai/go-torusbattle/pkg/event"
	"github.com/opd-ai/go-torusbattle/pkg/logging"
	"github.com/opd-ai/go-torusbattle/pkg/validation"
)

type team struct {
	name  string
	color string
	agent agent.Agent
	ids   []uint32
}

// Round runs one battle to completion. All methods must be called from
// a single goroutine; spectators get state through Snapshot copies.
type Round struct {
	ctx    *engine.Context
	cfg    *config.RoundConfig
	teams  []*team
	log    *Log
	ticks  uint32
	bus    *event.Bus
	logger *logging.Logger

	prevAlive    map[uint32]bool
	prevLifetime map[uint32]int32
	prevScore    map[uint32]int32
	lastAlive    []bool
}

// NewRound sets up the engine, creates and configures each team's
// agent, and spawns the ships on a jittered grid. The grid has
// ceil(sqrt(n)) cells per side; each ship lands near the center of its
// cell with up to 20% of a cell of jitter, and the cells are assigned
// to teams in shuffled order so neighbors are usually enemies.
func NewRound(cfg *config.RoundConfig, bus *event.Bus, logger *logging.Logger) (*Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid round config: %w", err)
	}

	ectx := engine.NewContext(cfg.Engine)
	if ectx == nil {
		return nil, fmt.Errorf("engine context unavailable")
	}

	total := 0
	for _, tc := range cfg.Teams {
		total += tc.Ships
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	r := &Round{
		ctx:          ectx,
		cfg:          cfg,
		bus:          bus,
		logger:       logger,
		prevAlive:    make(map[uint32]bool, total),
		prevLifetime: make(map[uint32]int32, total),
		prevScore:    make(map[uint32]int32, total),
		lastAlive:    make([]bool, len(cfg.Teams)),
	}

	for _, tc := range cfg.Teams {
		a, err := agent.New(tc.Agent, agent.Params{
			TotalShips:   uint32(total),
			Multiplicity: uint32(tc.Ships),
			Seed:         rng.Int63(),
		})
		if err != nil {
			engine.FreeContext(ectx)
			return nil, fmt.Errorf("team %q: %w", tc.Name, err)
		}
		guarded := agent.NewGuard(a)
		pushConfig(guarded, cfg.Engine)
		r.teams = append(r.teams, &team{
			name:  tc.Name,
			color: tc.Color,
			agent: guarded,
		})
	}

	poses := spawnPoses(total, rng)
	cursor := 0
	for i, tc := range cfg.Teams {
		for s := 0; s < tc.Ships; s++ {
			pose := poses[cursor]
			cursor++
			if err := validation.ValidatePose(pose); err != nil {
				engine.FreeContext(ectx)
				return nil, fmt.Errorf("spawn pose for team %q: %w", tc.Name, err)
			}
			id := ectx.AddAgent(pose)
			if id == engine.InvalidAgentID {
				engine.FreeContext(ectx)
				return nil, fmt.Errorf("engine rejected ship %d of team %q", s, tc.Name)
			}
			r.teams[i].ids = append(r.teams[i].ids, id)
			r.prevAlive[id] = true
		}
	}

	r.log = &Log{
		ShipHitRadius: roundTo(cfg.Engine.ShipHitRadius, 3),
	}
	for _, tm := range r.teams {
		r.log.History = append(r.log.History, newTeamHistory(tm.ids))
	}

	return r, nil
}

// pushConfig hands the engine tuning values to an agent in the fixed
// parameter order.
func pushConfig(a agent.Agent, cfg engine.Config) {
	a.SetConfigParameter(agent.ParamShipMaxTurnRate, cfg.ShipMaxTurnRate)
	a.SetConfigParameter(agent.ParamShipMaxVelocity, cfg.ShipMaxVelocity)
	a.SetConfigParameter(agent.ParamShipHitRadius, cfg.ShipHitRadius)
	a.SetConfigParameter(agent.ParamShotVelocity, cfg.ShotVelocity)
	a.SetConfigParameter(agent.ParamShotLifetime, float32(cfg.ShotLifetime))
}

// spawnPoses lays n starting poses on a jittered, shuffled grid.
func spawnPoses(n int, rng *rand.Rand) []engine.Pose {
	gridSize := int(math.Ceil(math.Sqrt(float64(n))))
	spacing := 1.0 / float64(gridSize)

	poses := make([]engine.Pose, 0, gridSize*gridSize)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			poses = append(poses, engine.Pose{
				X:       float32((float64(i) + 0.4 + 0.2*rng.Float64()) * spacing),
				Y:       float32((float64(j) + 0.4 + 0.2*rng.Float64()) * spacing),
				Heading: float32(360 * rng.Float64()),
			})
		}
	}
	rng.Shuffle(len(poses), func(a, b int) {
		poses[a], poses[b] = poses[b], poses[a]
	})
	return poses[:n]
}

// Ticks returns how many engine ticks have been simulated.
func (r *Round) Ticks() uint32 {
	return r.ticks
}

// Tick runs one round step: observation fan-out, action collection and,
// while more than one team still has a living ship, one engine tick.
// It returns the number of teams with at least one living ship as seen
// at the start of the step. The replay log gains one entry per call,
// so the final state of a decided round is still recorded.
func (r *Round) Tick(ctx context.Context) int {
	for _, tm := range r.teams {
		tm.agent.ClearWorldState()
	}

	teamsAlive := 0
	for i, tm := range r.teams {
		r.lastAlive[i] = false
		var teamScore int32

		for _, id := range tm.ids {
			isAlive := r.ctx.IsAlive(id)
			shipPose := r.ctx.ShipPose(id)
			shotPose, lifetime := r.ctx.ShotPose(id)
			score := r.ctx.Score(id)

			r.lastAlive[i] = r.lastAlive[i] || isAlive
			teamScore += score

			ship := r.log.History[i].Ships[id]
			ship.X = append(ship.X, roundTo(shipPose.X, 4))
			ship.Y = append(ship.Y, roundTo(shipPose.Y, 4))
			ship.Heading = append(ship.Heading, roundTo(shipPose.Heading, 1))
			ship.Alive = append(ship.Alive, isAlive)

			shot := r.log.History[i].Shots[id]
			shot.X = append(shot.X, roundTo(shotPose.X, 4))
			shot.Y = append(shot.Y, roundTo(shotPose.Y, 4))
			shot.Lifetime = append(shot.Lifetime, lifetime)

			for _, other := range r.teams {
				other.agent.UpdateShip(id, isAlive, shipPose)
				other.agent.UpdateShot(id, lifetime, shotPose)
				other.agent.UpdateScore(id, score)
			}

			r.publishTransitions(ctx, id, i, isAlive, lifetime, score)
		}

		r.log.History[i].Scores = append(r.log.History[i].Scores, teamScore)
		if r.lastAlive[i] {
			teamsAlive++
		}
	}

	for i, tm := range r.teams {
		for _, id := range tm.ids {
			action := tm.agent.MakeAction(id, r.ticks)
			r.log.History[i].Actions[id] = append(r.log.History[i].Actions[id], uint32(action))
			// Dead ships reject actions; that is expected, not an error.
			_ = r.ctx.SetAction(id, action)
		}
	}

	if teamsAlive > 1 {
		r.ctx.Tick(1)
		r.ticks++
	}

	return teamsAlive
}

// publishTransitions turns per-ship state deltas into bus events.
func (r *Round) publishTransitions(ctx context.Context, id uint32, teamIdx int, isAlive bool, lifetime, score int32) {
	if r.bus == nil {
		return
	}
	if r.prevAlive[id] && !isAlive {
		r.bus.Publish(event.NewShipEvent(event.ShipDestroyed, r, id, teamIdx))
	}
	if lifetime > r.prevLifetime[id] {
		r.bus.Publish(event.NewShipEvent(event.ShotFired, r, id, teamIdx))
	}
	if score != r.prevScore[id] {
		r.bus.Publish(event.NewScoreEvent(r, id, teamIdx, score))
	}
	r.prevAlive[id] = isAlive
	r.prevLifetime[id] = lifetime
	r.prevScore[id] = score
}

// Run plays the round until only one team is left or the tick limit is
// reached, and returns the finished replay log.
func (r *Round) Run(ctx context.Context) (*Log, error) {
	return r.RunObserved(ctx, 0, nil)
}

// RunObserved plays the round like Run, additionally calling observe
// with a fresh snapshot after every step and pacing steps by interval.
// Spectator servers and live views hook in here.
func (r *Round) RunObserved(ctx context.Context, interval time.Duration, observe func(*Snapshot)) (*Log, error) {
	roundID := logging.GetRoundID(ctx)
	if roundID == "" {
		roundID = logging.GenerateRoundID()
		ctx = logging.WithRoundID(ctx, roundID)
	}

	if r.bus != nil {
		r.bus.Publish(event.NewRoundEvent(event.RoundStarted, r, roundID, 0, ""))
	}
	if r.logger != nil {
		r.logger.Info(ctx, "round started",
			"teams", len(r.teams),
			"max_ticks", r.cfg.MaxTicks,
			"seed", r.cfg.Seed,
		)
	}

	teamsAlive := len(r.teams)
	for i := uint32(0); i < r.cfg.MaxTicks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("round aborted: %w", err)
		}
		teamsAlive = r.Tick(ctx)
		if observe != nil {
			observe(r.Snapshot())
		}
		if teamsAlive <= 1 {
			break
		}
		if interval > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
			}
		}
	}

	winner := r.Winner()
	r.log.Ticks = r.ticks

	if r.bus != nil {
		r.bus.Publish(event.NewRoundEvent(event.RoundEnded, r, roundID, r.ticks, winner))
	}
	if r.logger != nil {
		r.logger.Info(ctx, "round ended",
			"ticks", r.ticks,
			"teams_alive", teamsAlive,
			"winner", winner,
		)
	}

	return r.log, nil
}

// Winner returns the name of the only surviving team, or "" while the
// round is still contested or when everyone is dead.
func (r *Round) Winner() string {
	winner := ""
	survivors := 0
	for i, tm := range r.teams {
		if r.lastAlive[i] {
			survivors++
			winner = tm.name
		}
	}
	if survivors != 1 {
		return ""
	}
	return winner
}

// Close releases the engine context. The round is unusable afterwards.
func (r *Round) Close() {
	engine.FreeContext(r.ctx)
	r.ctx = nil
}
