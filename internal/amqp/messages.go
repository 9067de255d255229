package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// EventKind tells consumers which mutation produced an event.
type EventKind string

const (
	EventAppended EventKind = "appended"
	EventUpdated  EventKind = "updated"
)

// LedgerEvent is published after a record has been persisted. Position is
// the 0-based ledger position of Record at the time of the change.
type LedgerEvent struct {
	ID        uuid.UUID   `json:"id"`
	Kind      EventKind   `json:"kind"`
	Position  int         `json:"position"`
	Record    core.Record `json:"record"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewLedgerEvent stamps a new event with a fresh id and the current time.
func NewLedgerEvent(kind EventKind, position int, r core.Record) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Position:  position,
		Record:    r,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Kind {
	case EventAppended, EventUpdated:
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.ID == uuid.Nil {
		return nil, fmt.Errorf("event without id")
	}
	return &e, nil
}
