package command

import "errors"

// Registry errors.
var (
	// ErrUnknownOperation indicates no operation is registered for an ID.
	ErrUnknownOperation = errors.New("command: unknown operation")
)
