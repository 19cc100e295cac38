package validation

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldID identifies one of the contact form inputs.
type FieldID string

const (
	FieldName    FieldID = "name"
	FieldEmail   FieldID = "email"
	FieldMessage FieldID = "message"
)

// Fields lists the inputs in validation order.
var Fields = []FieldID{FieldName, FieldEmail, FieldMessage}

// DOMID returns the page identifier used by the markup (for example
// "contact-email").
func (f FieldID) DOMID() string {
	return "contact-" + string(f)
}

// ParseFieldID accepts either the bare field name or the page identifier.
func ParseFieldID(raw string) (FieldID, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimPrefix(key, "#")
	key = strings.TrimPrefix(key, "contact-")
	for _, id := range Fields {
		if key == string(id) {
			return id, true
		}
	}
	return "", false
}

// Snapshot is an immutable capture of the three field values at submit time.
type Snapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// NewSnapshot trims each value the same way a submit does.
func NewSnapshot(name, email, message string) Snapshot {
	return Snapshot{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}
}

// Value returns the snapshot value for id.
func (s Snapshot) Value(id FieldID) string {
	switch id {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldMessage:
		return s.Message
	default:
		return ""
	}
}

// Result is the outcome of validating a snapshot or a single field. Message is
// empty exactly when Valid is true.
type Result struct {
	Valid   bool
	Field   FieldID
	Message string
}

// Pass is the successful result.
func Pass() Result {
	return Result{Valid: true}
}

// Fail builds a failing result for field. An empty message is replaced so the
// invariant holds.
func Fail(field FieldID, message string) Result {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "Invalid value."
	}
	return Result{Field: field, Message: message}
}

type resultJSON struct {
	Valid   bool    `json:"isValid"`
	Field   FieldID `json:"field,omitempty"`
	Message *string `json:"message"`
}

// MarshalJSON encodes the result with a null message when valid.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{Valid: r.Valid}
	if !r.Valid {
		msg := r.Message
		out.Field = r.Field
		out.Message = &msg
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Result{Valid: in.Valid, Field: in.Field}
	if !in.Valid && in.Message != nil {
		r.Message = *in.Message
	}
	return nil
}

// Hint is the advisory cue shown while typing.
type Hint string

const (
	HintNone    Hint = "none"
	HintSuccess Hint = "success"
	HintWarning Hint = "warning"
)

// Engine validates contact form submissions. The zero value is not usable;
// construct it with New.
type Engine struct {
	minLength map[FieldID]int
	email     *regexp.Regexp
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinLength overrides the minimum length for a field. Non-positive values
// are ignored.
func WithMinLength(field FieldID, n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minLength[field] = n
		}
	}
}

// WithEmailPattern replaces the structural email check.
func WithEmailPattern(re *regexp.Regexp) Option {
	return func(e *Engine) {
		if re != nil {
			e.email = re
		}
	}
}

// New constructs an Engine with the default rules.
func New(options ...Option) *Engine {
	e := &Engine{
		minLength: map[FieldID]int{
			FieldName:    DefaultNameMinLength,
			FieldMessage: DefaultMessageMinLength,
		},
		email: emailPattern,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// ValidateForm checks name, email and message in that order and reports the
// first failure only.
func (e *Engine) ValidateForm(s Snapshot) Result {
	e = e.orDefault()
	for _, id := range Fields {
		if res := e.check(id, strings.TrimSpace(s.Value(id)), formMessages); !res.Valid {
			return res
		}
	}
	return Pass()
}

// ValidateField applies the blur rules for a single field. Unknown fields
// carry no rules and are valid.
func (e *Engine) ValidateField(id FieldID, value string) Result {
	e = e.orDefault()
	return e.check(id, strings.TrimSpace(value), fieldMessages)
}

// ValidateFieldLive returns the advisory hint for a value being typed. Only a
// non-empty email produces a hint.
func (e *Engine) ValidateFieldLive(id FieldID, value string) Hint {
	e = e.orDefault()
	value = strings.TrimSpace(value)
	if id != FieldEmail || value == "" {
		return HintNone
	}
	if e.email.MatchString(value) {
		return HintSuccess
	}
	return HintWarning
}

// Issues reports every failing field using the blur messages, without
// short-circuiting.
func (e *Engine) Issues(s Snapshot) []Result {
	e = e.orDefault()
	var out []Result
	for _, id := range Fields {
		if res := e.check(id, strings.TrimSpace(s.Value(id)), fieldMessages); !res.Valid {
			out = append(out, res)
		}
	}
	return out
}

// IsEmail reports whether value passes the structural email check.
func (e *Engine) IsEmail(value string) bool {
	return e.orDefault().email.MatchString(strings.TrimSpace(value))
}

func (e *Engine) check(id FieldID, value string, msgs messageSet) Result {
	if _, known := msgs.required[id]; !known {
		return Pass()
	}
	if value == "" {
		return Fail(id, msgs.required[id])
	}
	if id == FieldEmail {
		if !e.email.MatchString(value) {
			return Fail(id, msgInvalidEmail)
		}
		return Pass()
	}
	if minLen := e.minLength[id]; minLen > 0 && utf8.RuneCountInString(value) < minLen {
		return Fail(id, tooShort(id, minLen))
	}
	return Pass()
}

func (e *Engine) orDefault() *Engine {
	if e == nil || e.email == nil || e.minLength == nil {
		return defaultEngine
	}
	return e
}

var defaultEngine = New()

// ValidateForm validates with the default engine.
func ValidateForm(s Snapshot) Result { return defaultEngine.ValidateForm(s) }

// ValidateField validates a single field with the default engine.
func ValidateField(id FieldID, value string) Result { return defaultEngine.ValidateField(id, value) }

// ValidateFieldLive computes a live hint with the default engine.
func ValidateFieldLive(id FieldID, value string) Hint {
	return defaultEngine.ValidateFieldLive(id, value)
}
