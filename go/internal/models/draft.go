package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftStatus defines the lifecycle stage of a draft.
type DraftStatus string

const (
	DraftStatusPre    DraftStatus = "PRE"
	DraftStatusDuring DraftStatus = "DURING"
	DraftStatusPost   DraftStatus = "POST"
)

// Draft represents a draft instance.
type Draft struct {
	ID                   uuid.UUID   `json:"id"`
	Name                 string      `json:"name"`
	StartTime            time.Time   `json:"start_time"`
	HostUserID           string      `json:"host_user_id"`
	Status               DraftStatus `json:"status"`
	CurrentPickNum       int         `json:"current_pick_num"`
	CurrentPickStartedAt *time.Time  `json:"current_pick_started_at,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// DraftSummary is a draft together with its team count, as returned by
// listing queries.
type DraftSummary struct {
	Draft
	TeamCount    int    `json:"team_count"`
	UserTeamName string `json:"user_team_name,omitempty"`
}
