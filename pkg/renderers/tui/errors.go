package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrSubmissionStalled is returned when the session leaves the
	// submitting state without reaching submitted.
	ErrSubmissionStalled = errors.New("tui: submission did not complete")
)
