// Package quote implements the lawn-mowing quote form controller: filename
// acceptance, photo selection with preview references, field validation and
// the idle → submitting → submitted state machine.
//
// All state for one form instance lives in a Session. Events (field changes,
// photo selections, submit, the submission timer firing) are serialised by
// the session so callers can drive it from concurrent HTTP handlers.
package quote
