package quote

import "strings"

// Marker substrings; one of them must appear in an accepted filename.
const (
	MarkerFront = "front"
	MarkerBack  = "back"
)

// AcceptFilename reports whether name contains "front" or "back", ignoring
// case. It is a substring match, so "waterfront.jpg" is accepted.
func AcceptFilename(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, MarkerFront) || strings.Contains(lower, MarkerBack)
}

// RejectionMessage is the error shown for a photo whose name fails
// AcceptFilename. The name is embedded verbatim.
func RejectionMessage(name string) string {
	return `Rejected "` + name + `". Filename must include "front" or "back".`
}
