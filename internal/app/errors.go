package app

import "errors"

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("app: quit requested")

	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("app: already running")

	// ErrNoScreen indicates Run was called before SetScreen.
	ErrNoScreen = errors.New("app: no screen attached")
)
