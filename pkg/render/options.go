package render

// Actions holds the form endpoints a renderer links to.
type Actions struct {
	Photos string `json:"photos"`
	Submit string `json:"submit"`
	Close  string `json:"close"`
}

// DefaultActions matches the routes served by the HTTP front-end.
func DefaultActions() Actions {
	return Actions{
		Photos: "/photos",
		Submit: "/submit",
		Close:  "/session/close",
	}
}

// RenderOptions carries per-request data that is not part of the session
// view.
type RenderOptions struct {
	// Actions overrides DefaultActions when non-empty.
	Actions Actions
	// Theme supplies resolved design tokens. Nil renders without theming.
	Theme *ThemeConfig
	// Notice is trusted HTML shown under the form. Run it through
	// SanitizeNotice before passing it in.
	Notice string
	// RefreshSeconds asks pages in the pending state to reload after the
	// given number of seconds. Zero disables the refresh hint.
	RefreshSeconds int
}

// ResolvedActions returns Actions with defaults filled in.
func (o RenderOptions) ResolvedActions() Actions {
	defaults := DefaultActions()
	out := o.Actions
	if out.Photos == "" {
		out.Photos = defaults.Photos
	}
	if out.Submit == "" {
		out.Submit = defaults.Submit
	}
	if out.Close == "" {
		out.Close = defaults.Close
	}
	return out
}
