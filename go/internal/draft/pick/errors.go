package pick

import "errors"

var (
	// ErrNotYourTurn is returned when the caller's team is not on the clock.
	ErrNotYourTurn = errors.New("it is not your turn to pick")
	// ErrPlayerAlreadyPicked is returned when the requested player is already
	// assigned to a team in this draft.
	ErrPlayerAlreadyPicked = errors.New("player has already been picked")
	// ErrPickSlotTaken is returned when the current pick slot was filled by a
	// competing caller while the turn is still current, a genuine conflict
	// rather than a benign advancement.
	ErrPickSlotTaken = errors.New("a pick for this turn has already been made")
	// ErrDraftStateChanged is returned when the draft left DURING status
	// between the turn check and the pick insert.
	ErrDraftStateChanged = errors.New("draft state changed during pick")
	// ErrNotInDraft is returned when the caller has no team in the draft.
	ErrNotInDraft = errors.New("caller has no team in this draft")
)
