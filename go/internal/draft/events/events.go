package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of a draft event.
type EventType string

const (
	EventTypePickMade       EventType = "PickMade"
	EventTypePickStarted    EventType = "PickStarted"
	EventTypeDraftStarted   EventType = "DraftStarted"
	EventTypeDraftCompleted EventType = "DraftCompleted"
	EventTypeOrderShuffled  EventType = "OrderShuffled"
)

// DraftEvent is the envelope published for every draft event.
type DraftEvent struct {
	ID        string          `json:"id"`
	DraftID   string          `json:"draft_id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewDraftEvent wraps a payload in an event envelope. It returns an error
// only if the payload cannot be marshalled.
func NewDraftEvent(draftID uuid.UUID, eventType EventType, payload any) (*DraftEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &DraftEvent{
		ID:        uuid.New().String(),
		DraftID:   draftID.String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}
