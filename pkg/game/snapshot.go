// pkg/game/snapshot.go
package game

// Snapshot is a self-contained copy of the visible world state at one
// tick. Spectator transports and renderers consume snapshots instead
// of touching the engine, so a round can keep simulating while slower
// consumers lag behind.
type Snapshot struct {
	Tick  uint32         `json:"tick"`
	Teams []TeamSnapshot `json:"teams"`
}

// TeamSnapshot carries one team's ships, shots and accumulated score.
type TeamSnapshot struct {
	Name  string         `json:"name"`
	Color string         `json:"color"`
	Score int32          `json:"score"`
	Ships []ShipSnapshot `json:"ships"`
	Shots []ShotSnapshot `json:"shots"`
}

// ShipSnapshot is one ship's visible state.
type ShipSnapshot struct {
	ID      uint32  `json:"id"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Heading float32 `json:"heading"`
	Alive   bool    `json:"alive"`
}

// ShotSnapshot is one shot slot's visible state. Lifetime 0 means the
// slot is empty and the pose is stale.
type ShotSnapshot struct {
	ID       uint32  `json:"id"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Lifetime int32   `json:"lifetime"`
}

// Snapshot captures the current engine state for every registered ship.
func (r *Round) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:  r.ticks,
		Teams: make([]TeamSnapshot, 0, len(r.teams)),
	}

	for _, tm := range r.teams {
		ts := TeamSnapshot{
			Name:  tm.name,
			Color: tm.color,
			Ships: make([]ShipSnapshot, 0, len(tm.ids)),
			Shots: make([]ShotSnapshot, 0, len(tm.ids)),
		}
		for _, id := range tm.ids {
			pose := r.ctx.ShipPose(id)
			ts.Ships = append(ts.Ships, ShipSnapshot{
				ID:      id,
				X:       pose.X,
				Y:       pose.Y,
				Heading: pose.Heading,
				Alive:   r.ctx.IsAlive(id),
			})
			shotPose, lifetime := r.ctx.ShotPose(id)
			ts.Shots = append(ts.Shots, ShotSnapshot{
				ID:       id,
				X:        shotPose.X,
				Y:        shotPose.Y,
				Lifetime: lifetime,
			})
			ts.Score += r.ctx.Score(id)
		}
		snap.Teams = append(snap.Teams, ts)
	}
	return snap
}
