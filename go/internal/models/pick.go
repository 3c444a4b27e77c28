package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick assigns a player to a team at a specific pick number. Picks are
// append-only: at most one pick exists per (draft, pick number) and a player
// is assigned at most once per draft.
type DraftPick struct {
	ID       uuid.UUID `json:"id"`
	DraftID  uuid.UUID `json:"draft_id"`
	TeamID   uuid.UUID `json:"team_id"`
	PlayerID uuid.UUID `json:"player_id"`
	PickNum  int       `json:"pick_num"`
	PickedAt time.Time `json:"picked_at"`
}
