package quote

// View is the render model derived from a session. It holds no state of its
// own; two snapshots of an unchanged session are equal.
type View struct {
	Submitted bool `json:"submitted"`
	// Pending is true while the submission timer is running.
	Pending bool `json:"pending"`

	Title       string       `json:"title"`
	Length      string       `json:"length"`
	Area        Area         `json:"area"`
	AreaOptions []AreaOption `json:"area_options"`
	Previews    []string     `json:"previews"`
	Errors      []string     `json:"errors"`
	PhotoHint   string       `json:"photo_hint"`

	SubmitDisabled bool   `json:"submit_disabled"`
	SubmitLabel    string `json:"submit_label"`

	ConfirmationTitle string `json:"confirmation_title"`
	ConfirmationBody  string `json:"confirmation_body"`
}

// View snapshots the session into a View.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted {
		return View{
			Submitted:         true,
			ConfirmationTitle: ConfirmationTitle,
			ConfirmationBody:  ConfirmationBody,
		}
	}

	previews := make([]string, 0, len(s.previews))
	for _, ref := range s.previews {
		previews = append(previews, ref.URL)
	}

	pending := s.state == StateSubmitting
	label := SubmitLabel
	if pending {
		label = SubmittingLabel
	}

	return View{
		Pending:        pending,
		Title:          FormTitle,
		Length:         s.length,
		Area:           s.area,
		AreaOptions:    AreaOptions(),
		Previews:       previews,
		Errors:         append([]string(nil), s.errors...),
		PhotoHint:      PhotoHint,
		SubmitDisabled: pending,
		SubmitLabel:    label,
	}
}
