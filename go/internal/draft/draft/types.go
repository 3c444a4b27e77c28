package draft

import (
	"time"

	"github.com/google/uuid"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

// CreateDraftRequest represents a request to create a new draft.
type CreateDraftRequest struct {
	Name         string    `json:"name"`
	StartTime    time.Time `json:"start_time"`
	HostTeamName string    `json:"host_team_name"`
}

// CurrentPick describes the slot currently on the clock. It is nil-valued
// (no current pick) unless the draft is in DURING status.
type CurrentPick struct {
	PickNum   int              `json:"pick_num"`
	Round     int              `json:"round"`
	Team      models.DraftTeam `json:"team"`
	StartedAt time.Time        `json:"started_at"`
}

// AdvanceResult reports what an advance operation did to the draft pointer.
type AdvanceResult struct {
	// Completed is true when the draft transitioned to POST because the
	// pointer would have moved past the final slot.
	Completed bool
	// PickNum is the new current pick number; when Completed it holds the
	// frozen final pointer value.
	PickNum int
	// StartedAt is the new current pick start time, zero when Completed.
	StartedAt time.Time
}

// Config carries the draft-wide constants. Rounds bounds the total pick
// count (maxPicks = teamCount * Rounds) and TimePerPick is each slot's
// allotted time before the timeout path advances the draft.
type Config struct {
	Rounds      int
	TimePerPick time.Duration
}

// DefaultConfig matches the observed production values.
func DefaultConfig() Config {
	return Config{
		Rounds:      10,
		TimePerPick: 45 * time.Second,
	}
}

// DueDraft identifies a draft whose current pick clock has expired.
type DueDraft struct {
	DraftID   uuid.UUID
	PickNum   int
	StartedAt time.Time
}
