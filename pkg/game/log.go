// pkg/game/log.go
package game

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// ShipTrack records one ship's state across the round, one entry per
// observed tick. Positions are rounded to 4 decimals and headings to 1
// so replay files stay compact and diffable.
type ShipTrack struct {
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Heading []float64 `json:"heading"`
	Alive   []bool    `json:"alive"`
}

// ShotTrack records one ship's shot slot across the round. A lifetime
// of 0 means no shot was in flight; the pose entries for those ticks
// are stale and viewers must skip them.
type ShotTrack struct {
	X        []float64 `json:"x"`
	Y        []float64 `json:"y"`
	Lifetime []int32   `json:"lifetime"`
}

// TeamHistory is the per-team slice of a replay log.
type TeamHistory struct {
	Ships   map[uint32]*ShipTrack `json:"ships"`
	Shots   map[uint32]*ShotTrack `json:"shots"`
	Actions map[uint32][]uint32   `json:"actions"`
	Scores  []int32               `json:"scores"`
}

// Log is the full replay record of one round.
type Log struct {
	Ticks         uint32         `json:"ticks"`
	ShipHitRadius float64        `json:"ship_hit_radius"`
	History       []*TeamHistory `json:"history"`
}

// newTeamHistory allocates empty tracks for one team's ships.
func newTeamHistory(agentIDs []uint32) *TeamHistory {
	h := &TeamHistory{
		Ships:   make(map[uint32]*ShipTrack, len(agentIDs)),
		Shots:   make(map[uint32]*ShotTrack, len(agentIDs)),
		Actions: make(map[uint32][]uint32, len(agentIDs)),
	}
	for _, id := range agentIDs {
		h.Ships[id] = &ShipTrack{}
		h.Shots[id] = &ShotTrack{}
		h.Actions[id] = nil
	}
	return h
}

// WriteFile writes the log as a single JSON document.
func (l *Log) WriteFile(path string) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal replay log: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write replay log: %w", err)
	}
	return nil
}

// ReadLog loads a replay log written by WriteFile.
func ReadLog(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay log: %w", err)
	}
	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse replay log: %w", err)
	}
	return &l, nil
}

// roundTo rounds v to n decimal places.
func roundTo(v float32, n int) float64 {
	scale := math.Pow(10, float64(n))
	return math.Round(float64(v)*scale) / scale
}
