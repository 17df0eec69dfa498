// pkg/game/replay.go
package game

import (
	"fmt"
	"sort"
	"time"
)

// replayPalette colors teams in a replay, which records no team
// metadata of its own.
var replayPalette = []string{
	"#FF3030", "#3060FF", "#30C030", "#E0C020",
	"#C040C0", "#20C0C0", "#F08030", "#A0A0A0",
}

// ReplayPlayer streams the recorded states of a replay log as
// snapshots, one per recorded step, at a fixed frame interval. It
// satisfies the same snapshot-source shape as a live spectator client,
// so viewers need not care which one feeds them.
type ReplayPlayer struct {
	log      *Log
	interval time.Duration
	out      chan *Snapshot
}

// NewReplayPlayer validates the log and prepares a player. Play must
// be called to start the stream.
func NewReplayPlayer(log *Log, interval time.Duration) (*ReplayPlayer, error) {
	if len(log.History) == 0 {
		return nil, fmt.Errorf("replay log has no teams")
	}
	steps := len(log.History[0].Scores)
	for i, h := range log.History {
		if len(h.Scores) != steps {
			return nil, fmt.Errorf("team %d has %d steps, team 0 has %d", i, len(h.Scores), steps)
		}
		for id, track := range h.Ships {
			if len(track.X) != steps || len(track.Alive) != steps {
				return nil, fmt.Errorf("ship %d track length does not match step count", id)
			}
		}
	}

	return &ReplayPlayer{
		log:      log,
		interval: interval,
		out:      make(chan *Snapshot),
	}, nil
}

// Snapshots returns the playback stream. The channel closes after the
// last recorded step.
func (p *ReplayPlayer) Snapshots() <-chan *Snapshot {
	return p.out
}

// Play streams the replay and then closes the snapshot channel. It
// blocks until playback finishes, so it usually runs in its own
// goroutine.
func (p *ReplayPlayer) Play() {
	defer close(p.out)

	steps := len(p.log.History[0].Scores)
	for step := 0; step < steps; step++ {
		p.out <- p.snapshotAt(step)
		if p.interval > 0 && step < steps-1 {
			time.Sleep(p.interval)
		}
	}
}

// snapshotAt reconstructs the world state of one recorded step.
func (p *ReplayPlayer) snapshotAt(step int) *Snapshot {
	snap := &Snapshot{
		Tick:  uint32(step),
		Teams: make([]TeamSnapshot, 0, len(p.log.History)),
	}

	for i, h := range p.log.History {
		ts := TeamSnapshot{
			Name:  fmt.Sprintf("team-%d", i),
			Color: replayPalette[i%len(replayPalette)],
			Score: h.Scores[step],
		}

		for _, id := range sortedIDs(h.Ships) {
			track := h.Ships[id]
			ts.Ships = append(ts.Ships, ShipSnapshot{
				ID:      id,
				X:       float32(track.X[step]),
				Y:       float32(track.Y[step]),
				Heading: float32(track.Heading[step]),
				Alive:   track.Alive[step],
			})
		}
		for _, id := range sortedIDs(h.Shots) {
			track := h.Shots[id]
			ts.Shots = append(ts.Shots, ShotSnapshot{
				ID:       id,
				X:        float32(track.X[step]),
				Y:        float32(track.Y[step]),
				Lifetime: track.Lifetime[step],
			})
		}

		snap.Teams = append(snap.Teams, ts)
	}
	return snap
}

func sortedIDs[T any](m map[uint32]T) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
