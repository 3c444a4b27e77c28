package draft

import "errors"

var (
	// ErrDraftNotFound is returned when the referenced draft does not exist.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrNotHost is returned when a host-only action is attempted by a
	// non-host caller.
	ErrNotHost = errors.New("only the host may perform this action")
	// ErrInvalidState is returned when an operation is not valid for the
	// draft's current status.
	ErrInvalidState = errors.New("operation not valid for draft status")
	// ErrDraftNotActive is returned when an operation requires a draft in
	// DURING status.
	ErrDraftNotActive = errors.New("draft is not in progress")
	// ErrNoTeams is returned when an action requires at least one team.
	ErrNoTeams = errors.New("draft has no teams")
	// ErrStartTooEarly is returned when a host tries to start a draft before
	// its scheduled start time.
	ErrStartTooEarly = errors.New("draft cannot start before its scheduled start time")
)
