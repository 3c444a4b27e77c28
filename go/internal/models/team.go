package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftTeam is a participant entry in a draft. DraftOrder is the team's
// 1-based position in the draft order; positions form a permutation of 1..N
// within a draft.
type DraftTeam struct {
	ID         uuid.UUID `json:"id"`
	DraftID    uuid.UUID `json:"draft_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	DraftOrder int       `json:"draft_order"`
	CreatedAt  time.Time `json:"created_at"`
}
