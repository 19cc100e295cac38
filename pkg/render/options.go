package render

// RenderOptions carry per-request data that renderers use without touching
// the form view itself.
type RenderOptions struct {
	// Action is the URL the form posts to. Empty keeps the current page.
	Action string
	// Hidden lists extra inputs (CSRF token, honeypot) emitted inside the form.
	Hidden []HiddenField
	// Honeypot names a visually hidden text input bots tend to fill in.
	Honeypot string
	// Variant selects a theme variant for notification colours ("" or "dark").
	Variant string
	// FormErrors are messages that could not be attached to a field.
	FormErrors []string
}
