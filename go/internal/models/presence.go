package models

import (
	"time"

	"github.com/google/uuid"
)

// PresenceEntry records when a user was last seen viewing a draft. At most
// one entry exists per (draft, user).
type PresenceEntry struct {
	ID       uuid.UUID `json:"id"`
	DraftID  uuid.UUID `json:"draft_id"`
	UserID   string    `json:"user_id"`
	LastSeen time.Time `json:"last_seen"`
}
