package form

import (
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Field is the presentational state of one input: the raw value, whether it
// has focus, the error flag and at most one inline error annotation.
type Field struct {
	ID         validation.FieldID
	Label      string
	Value      string
	Focused    bool
	Error      bool
	Annotation string
	Hint       validation.Hint
	// Multiline marks inputs rendered as a text area.
	Multiline bool
}

// HasAnnotation reports whether an inline error is attached.
func (f *Field) HasAnnotation() bool {
	return f.Annotation != ""
}

// annotate replaces any existing annotation; a field never carries two.
func (f *Field) annotate(message string) {
	f.clearAnnotation()
	f.Annotation = message
}

// clearAnnotation removes the inline error and resets the hint colour.
func (f *Field) clearAnnotation() {
	f.Annotation = ""
	f.Hint = validation.HintNone
}

func (f *Field) reset() {
	f.Value = ""
	f.Focused = false
	f.Error = false
	f.clearAnnotation()
}

// Form owns the three contact fields in display order.
type Form struct {
	fields []*Field
}

// NewForm returns an empty contact form.
func NewForm() *Form {
	return &Form{fields: []*Field{
		{ID: validation.FieldName, Label: "Name"},
		{ID: validation.FieldEmail, Label: "Email"},
		{ID: validation.FieldMessage, Label: "Message", Multiline: true},
	}}
}

// Field returns the field for id.
func (f *Form) Field(id validation.FieldID) (*Field, bool) {
	if f == nil {
		return nil, false
	}
	for _, field := range f.fields {
		if field.ID == id {
			return field, true
		}
	}
	return nil, false
}

// Fields returns the fields in display order.
func (f *Form) Fields() []*Field {
	if f == nil {
		return nil
	}
	return f.fields
}

// Snapshot captures the trimmed values.
func (f *Form) Snapshot() validation.Snapshot {
	value := func(id validation.FieldID) string {
		if field, ok := f.Field(id); ok {
			return field.Value
		}
		return ""
	}
	return validation.NewSnapshot(
		value(validation.FieldName),
		value(validation.FieldEmail),
		value(validation.FieldMessage),
	)
}

// Fill sets every value from a snapshot-like source without validating.
func (f *Form) Fill(s validation.Snapshot) {
	for _, field := range f.Fields() {
		field.Value = s.Value(field.ID)
	}
}

// ClearErrors drops every annotation, error flag and hint.
func (f *Form) ClearErrors() {
	for _, field := range f.Fields() {
		field.Error = false
		field.clearAnnotation()
	}
}

// Reset empties every field.
func (f *Form) Reset() {
	for _, field := range f.Fields() {
		field.reset()
	}
}

// AnnotationCount reports how many inline errors are attached across the form.
func (f *Form) AnnotationCount() int {
	count := 0
	for _, field := range f.Fields() {
		if field.HasAnnotation() {
			count++
		}
	}
	return count
}

// SubmitButton is the submit control.
type SubmitButton struct {
	Label    string
	Disabled bool
	Loading  bool

	restore string
}

// DefaultSubmitLabel is the idle label.
const DefaultSubmitLabel = "Send Message"

// LoadingLabel replaces the label while a submission is in flight.
const LoadingLabel = "Sending..."

func (b *SubmitButton) startLoading() {
	b.restore = b.Label
	b.Label = LoadingLabel
	b.Disabled = true
	b.Loading = true
}

func (b *SubmitButton) stopLoading() {
	if b.restore != "" {
		b.Label = b.restore
	}
	b.restore = ""
	b.Disabled = false
	b.Loading = false
}
