package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoForm is returned when Render receives a view without a form.
	ErrNoForm = errors.New("tui: view has no form")
)
