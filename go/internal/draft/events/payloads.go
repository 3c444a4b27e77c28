package events

import (
	"time"
)

// Event payload types shared between the draft apps and the gateway.

// PickStartedPayload is the payload for a PickStarted event. It is emitted
// whenever the current-pick pointer moves to a new slot.
type PickStartedPayload struct {
	PickNum        int       `json:"pick_num"`
	Round          int       `json:"round"`
	TeamID         string    `json:"team_id"`
	StartedAt      time.Time `json:"started_at"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PickMadePayload is the payload for a PickMade event.
type PickMadePayload struct {
	PickID     string    `json:"pick_id"`
	PickNum    int       `json:"pick_num"`
	Round      int       `json:"round"`
	TeamID     string    `json:"team_id"`
	TeamName   string    `json:"team_name"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	MadeAt     time.Time `json:"made_at"`
}

// DraftStartedPayload is the payload for a DraftStarted event.
type DraftStartedPayload struct {
	DraftID     string    `json:"draft_id"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event.
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}

// OrderShuffledPayload is the payload for an OrderShuffled event.
type OrderShuffledPayload struct {
	DraftID    string    `json:"draft_id"`
	TeamIDs    []string  `json:"team_ids"` // new order, position 1..N
	ShuffledAt time.Time `json:"shuffled_at"`
}
