// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	RoundStarted  Type = "round_started"
	RoundEnded    Type = "round_ended"
	ShipSpawned   Type = "ship_spawned"
	ShipDestroyed Type = "ship_destroyed"
	ShotFired     Type = "shot_fired"
	ScoreChanged  Type = "score_changed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies one registered handler so it can be removed
// later. Comparing function values does not work in Go, so handlers
// are tracked by ID instead.
type Subscription struct {
	ID        uint64
	EventType Type
	bus       *Bus
}

// Cancel removes the subscription's handler from the bus.
func (s *Subscription) Cancel() {
	if s.bus != nil {
		s.bus.unsubscribe(s)
	}
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{
		id:      id,
		handler: handler,
	})

	return &Subscription{ID: id, EventType: eventType, bus: b}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[sub.EventType]
	for i, reg := range regs {
		if reg.id == sub.ID {
			b.handlers[sub.EventType] = append(regs[:i], regs[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.GetType()]
	snapshot := make([]Handler, len(regs))
	for i, reg := range regs {
		snapshot[i] = reg.handler
	}
	b.mu.RUnlock()

	for _, handler := range snapshot {
		handler(event)
	}
}

// Specific event implementations

// ShipEvent contains information about ship-related events
type ShipEvent struct {
	BaseEvent
	AgentID uint32
	Team    int
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, agentID uint32, team int) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		AgentID: agentID,
		Team:    team,
	}
}

// ScoreEvent reports a team's score after it changed.
type ScoreEvent struct {
	BaseEvent
	AgentID uint32
	Team    int
	Score   int32
}

// NewScoreEvent creates a new score event
func NewScoreEvent(source interface{}, agentID uint32, team int, score int32) *ScoreEvent {
	return &ScoreEvent{
		BaseEvent: BaseEvent{
			EventType: ScoreChanged,
			Source:    source,
		},
		AgentID: agentID,
		Team:    team,
		Score:   score,
	}
}

// RoundEvent marks the start or end of a round.
type RoundEvent struct {
	BaseEvent
	RoundID string
	Ticks   uint32
	Winner  string
}

// NewRoundEvent creates a new round lifecycle event
func NewRoundEvent(eventType Type, source interface{}, roundID string, ticks uint32, winner string) *RoundEvent {
	return &RoundEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		RoundID: roundID,
		Ticks:   ticks,
		Winner:  winner,
	}
}
