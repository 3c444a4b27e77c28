package models

import (
	"time"

	"github.com/google/uuid"
)

// Position is a player's position code.
type Position string

const (
	PositionCenter    Position = "C"
	PositionLeftWing  Position = "LW"
	PositionRightWing Position = "RW"
	PositionDefense   Position = "D"
	PositionGoalie    Position = "G"
)

// PositionGroup buckets positions for stats and roster views.
type PositionGroup string

const (
	GroupForwards PositionGroup = "FORWARDS"
	GroupDefense  PositionGroup = "DEFENSE"
	GroupGoalies  PositionGroup = "GOALIES"
)

// Group returns the position group for a position.
func (p Position) Group() PositionGroup {
	switch p {
	case PositionDefense:
		return GroupDefense
	case PositionGoalie:
		return GroupGoalies
	default:
		return GroupForwards
	}
}

// DraftablePlayer is a catalog entry. The catalog is read-only reference
// data, seeded once and shared by every draft.
type DraftablePlayer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Position  Position  `json:"position"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}
