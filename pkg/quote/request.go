package quote

import "time"

// Request is an immutable snapshot of a completed quote request, handed to
// the OnSubmitted hook once the session reaches the submitted state. No
// backend contract is implied; hooks use it for logging and metrics.
type Request struct {
	SessionID   string
	Length      string
	Area        Area
	PhotoNames  []string
	SubmittedAt time.Time
}
