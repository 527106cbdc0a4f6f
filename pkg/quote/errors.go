package quote

import "errors"

var (
	// ErrSessionClosed is returned by every event handler once the session
	// has been torn down.
	ErrSessionClosed = errors.New("quote: session closed")
	// ErrSubmitInProgress is returned when submit is triggered while a
	// submission is already pending.
	ErrSubmitInProgress = errors.New("quote: submission in progress")
	// ErrAlreadySubmitted is returned for any event after the session reached
	// the terminal submitted state.
	ErrAlreadySubmitted = errors.New("quote: already submitted")
)
