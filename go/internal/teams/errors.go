package teams

import "errors"

var (
	// ErrAlreadyJoined is returned when a user who already has a team in the
	// draft tries to join it again.
	ErrAlreadyJoined = errors.New("user already has a team in this draft")
	// ErrTeamNotFound is returned when the referenced team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrDraftLocked is returned when joining a draft whose roster is no
	// longer open (the draft has started or finished).
	ErrDraftLocked = errors.New("draft roster is locked")
)
