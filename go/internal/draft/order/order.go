// Package order resolves which team is on the clock for a given pick in a
// snake draft: odd rounds run forward through the draft order, even rounds
// reverse it.
package order

// Slot identifies the turn a pick number falls on.
type Slot struct {
	// Round is the 1-based round number.
	Round int
	// TeamIndex is the 0-based index into the draft's teams sorted by
	// draft order.
	TeamIndex int
}

// Resolve maps a 1-based pick number and a team count to the round and the
// team on the clock. It is a total function for teamCount >= 1; callers must
// guard teamCount == 0 (a draft cannot start with zero teams).
func Resolve(pickNumber, teamCount int) Slot {
	round := (pickNumber-1)/teamCount + 1
	offset := (pickNumber - 1) % teamCount

	idx := offset
	if round%2 == 0 {
		idx = teamCount - 1 - offset
	}

	return Slot{Round: round, TeamIndex: idx}
}

// MaxPicks returns the total number of pick slots in a draft.
func MaxPicks(teamCount, rounds int) int {
	return teamCount * rounds
}
