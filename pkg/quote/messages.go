package quote

// Field validation messages, in the order the checks run.
const (
	MsgLengthRequired = "Please enter the length of your lawn."
	MsgAreaRequired   = "Please select which yard(s) you want mowed."
	MsgPhotosRequired = `Upload at least one photo named with "front" or "back".`
)

// View copy.
const (
	SubmitLabel       = "Get Quote"
	SubmittingLabel   = "Submitting..."
	ConfirmationTitle = "Thank You!"
	ConfirmationBody  = "Your lawncare quote request has been received!"
	FormTitle         = "Lawncare Quote"
	PhotoHint         = `Only photos of the front and/or back yard will be accepted. The filename must include "front" or "back".`
)
