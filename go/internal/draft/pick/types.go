package pick

import (
	"time"

	"github.com/google/uuid"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

// MakePickRequest represents a pick attempt for a draft's current slot.
type MakePickRequest struct {
	DraftID  uuid.UUID `json:"draft_id"`
	PlayerID uuid.UUID `json:"player_id"`
}

// MakePickResult reports the outcome of a pick attempt. AlreadyAdvanced
// distinguishes "this call made the pick and advanced the turn" from "a
// concurrent caller had already handled the turn". The latter is success,
// not an error.
type MakePickResult struct {
	AlreadyAdvanced bool              `json:"already_advanced"`
	Pick            *models.DraftPick `json:"pick,omitempty"`
	// DraftCompleted is true when this pick filled the final slot.
	DraftCompleted bool `json:"draft_completed"`
}

// ClaimOutcome is the pick repository's verdict on a slot claim.
type ClaimOutcome int

const (
	// OutcomePicked means the pick was recorded and the pointer advanced
	// (or the draft completed).
	OutcomePicked ClaimOutcome = iota
	// OutcomeAlreadyAdvanced means the pointer had already moved past the
	// expected slot.
	OutcomeAlreadyAdvanced
	// OutcomeSlotTaken means the expected slot was filled while the pointer
	// still sits on it.
	OutcomeSlotTaken
	// OutcomePlayerTaken means the player was assigned elsewhere in the
	// meantime.
	OutcomePlayerTaken
	// OutcomeStateChanged means the draft is no longer in DURING status.
	OutcomeStateChanged
)

// ClaimResult carries the claim outcome and, for OutcomePicked, the recorded
// pick and the pointer's new state.
type ClaimResult struct {
	Outcome       ClaimOutcome
	Pick          *models.DraftPick
	Completed     bool
	NextPickNum   int
	NextStartedAt time.Time
}

// DraftStats summarizes a draft's picks.
type DraftStats struct {
	TotalPicks  int `json:"total_picks"`
	MaxPicks    int `json:"max_picks"`
	Forwards    int `json:"forwards"`
	Defense     int `json:"defense"`
	Goalies     int `json:"goalies"`
	CurrentPick int `json:"current_pick"`
}

// RosterPlayer is a drafted player as shown on a team's roster.
type RosterPlayer struct {
	Name      string          `json:"name"`
	Position  models.Position `json:"position"`
	AvatarURL string          `json:"avatar_url"`
	PickNum   int             `json:"pick_num"`
}

// TeamRoster groups a team's picks by position group.
type TeamRoster struct {
	TeamID     uuid.UUID      `json:"team_id"`
	TeamName   string         `json:"team_name"`
	UserID     string         `json:"user_id"`
	DraftOrder int            `json:"draft_order"`
	Forwards   []RosterPlayer `json:"forwards"`
	Defense    []RosterPlayer `json:"defense"`
	Goalies    []RosterPlayer `json:"goalies"`
}

// RosterEntry is a flat roster row as read from storage; the app layer
// groups entries into TeamRosters.
type RosterEntry struct {
	TeamID     uuid.UUID
	TeamName   string
	UserID     string
	DraftOrder int
	PlayerName string
	Position   models.Position
	AvatarURL  string
	PickNum    int
}

// RecentPick is a pick with display info, newest first.
type RecentPick struct {
	PickNum   int             `json:"pick_num"`
	TeamName  string          `json:"team_name"`
	Name      string          `json:"name"`
	Position  models.Position `json:"position"`
	AvatarURL string          `json:"avatar_url"`
}
