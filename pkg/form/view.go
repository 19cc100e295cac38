package form

import (
	"strings"

	"github.com/samber/lo"

	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// View is a read-only projection of the form for renderers.
type View struct {
	State        State
	Fields       []FieldView
	Submit       SubmitButton
	Notification *notify.Notification
}

// FieldView describes one input for rendering.
type FieldView struct {
	ID         validation.FieldID
	DOMID      string
	Label      string
	Value      string
	Annotation string
	Error      bool
	Focused    bool
	Multiline  bool
	Hint       validation.Hint
	Class      string
}

// BuildView assembles a View from its parts. Renderers that keep no session
// (for example a stateless HTTP handler) use it directly.
func BuildView(f *Form, button SubmitButton, state State, n *notify.Notification) View {
	if button.Label == "" {
		button.Label = DefaultSubmitLabel
	}
	return View{
		State:        state,
		Submit:       button,
		Notification: n,
		Fields: lo.Map(f.Fields(), func(field *Field, _ int) FieldView {
			return FieldView{
				ID:         field.ID,
				DOMID:      field.ID.DOMID(),
				Label:      field.Label,
				Value:      field.Value,
				Annotation: field.Annotation,
				Error:      field.Error,
				Focused:    field.Focused,
				Multiline:  field.Multiline,
				Hint:       field.Hint,
				Class:      fieldClass(field),
			}
		}),
	}
}

// Field returns the view for id.
func (v View) Field(id validation.FieldID) (FieldView, bool) {
	return lo.Find(v.Fields, func(f FieldView) bool { return f.ID == id })
}

// Annotate attaches inline errors from a set of failing results, the way a
// blur would. Results for unknown fields are ignored.
func Annotate(f *Form, results ...validation.Result) {
	for _, res := range results {
		if res.Valid {
			continue
		}
		if field, ok := f.Field(res.Field); ok {
			field.annotate(res.Message)
			field.Error = true
		}
	}
}

func fieldClass(field *Field) string {
	classes := []string{"form-control"}
	if field.Error {
		classes = append(classes, "error")
	}
	if field.Focused {
		classes = append(classes, "focused")
	}
	switch field.Hint {
	case validation.HintSuccess:
		classes = append(classes, "hint-success")
	case validation.HintWarning:
		classes = append(classes, "hint-warning")
	}
	return strings.Join(classes, " ")
}
