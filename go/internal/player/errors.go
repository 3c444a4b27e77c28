package player

import "errors"

// ErrPlayerNotFound is returned when the referenced player does not exist.
var ErrPlayerNotFound = errors.New("player not found")
