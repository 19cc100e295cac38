package form

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/schedule"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// ErrMissingCollaborator marks a session built without the pieces it needs to
// run. Such a session logs the problem once and ignores every event.
var ErrMissingCollaborator = errors.New("contactform: missing collaborator")

const (
	// DefaultSubmitDelay stands in for the network round trip.
	DefaultSubmitDelay = 2000 * time.Millisecond
	// DefaultSuccessText is shown once a submission completes.
	DefaultSuccessText = "Thank you for reaching out! I'll get back to you within 24 hours."
)

// State is a step of the submission workflow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateInvalid
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateInvalid:
		return "invalid"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Transition describes one state change. Result carries the validation outcome
// that caused it, when there was one.
type Transition struct {
	From   State
	To     State
	Result validation.Result
}

// Notifier is the part of the notification presenter a session uses.
type Notifier interface {
	Show(kind notify.Kind, text string) notify.Notification
	Current() (notify.Notification, bool)
}

// Celebrator runs the decorative effect after a successful submission.
type Celebrator interface {
	Celebrate()
}

// Config wires a Session.
type Config struct {
	Engine      *validation.Engine
	Scheduler   schedule.Scheduler
	Notifier    Notifier
	Celebrator  Celebrator
	Logger      *zap.Logger
	SubmitDelay time.Duration
	SuccessText string
	SubmitLabel string
}

// Session drives one contact form: field events, the submit workflow and the
// feedback it produces. Like the presenter it expects to be called from a
// single goroutine (see schedule.Loop).
type Session struct {
	engine      *validation.Engine
	scheduler   schedule.Scheduler
	notifier    Notifier
	celebrator  Celebrator
	logger      *zap.Logger
	submitDelay time.Duration
	successText string

	form      *Form
	button    SubmitButton
	state     State
	pending   schedule.Task
	listeners []func(Transition)
	err       error
}

// NewSession builds a session. When the scheduler or notifier is missing the
// failure is logged and the returned session does nothing.
func NewSession(cfg Config) *Session {
	s := &Session{
		engine:      cfg.Engine,
		scheduler:   cfg.Scheduler,
		notifier:    cfg.Notifier,
		celebrator:  cfg.Celebrator,
		logger:      cfg.Logger,
		submitDelay: cfg.SubmitDelay,
		successText: cfg.SuccessText,
		form:        NewForm(),
		button:      SubmitButton{Label: cfg.SubmitLabel},
	}
	if s.engine == nil {
		s.engine = validation.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.submitDelay <= 0 {
		s.submitDelay = DefaultSubmitDelay
	}
	if s.successText == "" {
		s.successText = DefaultSuccessText
	}
	if s.button.Label == "" {
		s.button.Label = DefaultSubmitLabel
	}

	switch {
	case s.scheduler == nil:
		s.err = fmt.Errorf("%w: scheduler", ErrMissingCollaborator)
	case s.notifier == nil:
		s.err = fmt.Errorf("%w: notifier", ErrMissingCollaborator)
	}
	if s.err != nil {
		s.logger.Error("contact form disabled", zap.Error(s.err))
	}
	return s
}

// Enabled reports whether the session has every collaborator it needs.
func (s *Session) Enabled() bool {
	return s != nil && s.err == nil
}

// Err returns the precondition failure that disabled the session, if any.
func (s *Session) Err() error {
	if s == nil {
		return ErrMissingCollaborator
	}
	return s.err
}

// State returns the current workflow state.
func (s *Session) State() State {
	return s.state
}

// Form exposes the field state.
func (s *Session) Form() *Form {
	return s.form
}

// Button returns a copy of the submit control state.
func (s *Session) Button() SubmitButton {
	return s.button
}

// OnTransition registers fn to observe every state change.
func (s *Session) OnTransition(fn func(Transition)) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// Focus marks a field as focused.
func (s *Session) Focus(id validation.FieldID) {
	if !s.Enabled() {
		return
	}
	if field, ok := s.form.Field(id); ok {
		field.Focused = true
	}
}

// Input records a keystroke: the committed error is cleared and the live hint
// recomputed.
func (s *Session) Input(id validation.FieldID, value string) validation.Hint {
	if !s.Enabled() {
		return validation.HintNone
	}
	field, ok := s.form.Field(id)
	if !ok {
		return validation.HintNone
	}
	field.Value = value
	field.Error = false
	field.clearAnnotation()
	field.Hint = s.engine.ValidateFieldLive(id, value)
	return field.Hint
}

// Blur validates a field as it loses focus and attaches or clears its inline
// error.
func (s *Session) Blur(id validation.FieldID) validation.Result {
	if !s.Enabled() {
		return validation.Pass()
	}
	field, ok := s.form.Field(id)
	if !ok {
		return validation.Pass()
	}
	field.Focused = false
	res := s.engine.ValidateField(id, field.Value)
	if res.Valid {
		field.clearAnnotation()
		field.Error = false
		return res
	}
	field.annotate(res.Message)
	field.Error = true
	return res
}

// Submit runs the workflow. An invalid form surfaces an error notification and
// returns to idle straight away; a valid one enters Submitting and completes
// after the submit delay. Submitting again while a submission is in flight is
// ignored.
func (s *Session) Submit() validation.Result {
	if !s.Enabled() {
		return validation.Pass()
	}
	if s.state == StateSubmitting {
		s.logger.Debug("submit ignored while submitting")
		return validation.Pass()
	}

	s.transition(StateValidating, validation.Pass())
	s.form.ClearErrors()
	res := s.engine.ValidateForm(s.form.Snapshot())

	if !res.Valid {
		s.transition(StateInvalid, res)
		s.notifier.Show(notify.KindError, res.Message)
		s.transition(StateIdle, res)
		return res
	}

	s.button.startLoading()
	s.transition(StateSubmitting, res)
	s.pending = s.scheduler.After(s.submitDelay, s.complete)
	return res
}

// Close cancels an in-flight submission. The form keeps its values.
func (s *Session) Close() {
	if !s.Enabled() || s.pending == nil {
		return
	}
	s.pending.Cancel()
	s.pending = nil
	if s.state == StateSubmitting {
		s.button.stopLoading()
		s.transition(StateIdle, validation.Pass())
	}
}

// View projects the session for renderers.
func (s *Session) View() View {
	var current *notify.Notification
	if s.notifier != nil {
		if n, ok := s.notifier.Current(); ok {
			current = &n
		}
	}
	return BuildView(s.form, s.button, s.state, current)
}

func (s *Session) complete() {
	if s.state != StateSubmitting {
		return
	}
	s.pending = nil
	s.form.Reset()
	s.notifier.Show(notify.KindSuccess, s.successText)
	s.button.stopLoading()
	s.transition(StateIdle, validation.Pass())
	s.celebrate()
}

func (s *Session) celebrate() {
	if s.celebrator == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("celebration effect failed", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	s.celebrator.Celebrate()
}

func (s *Session) transition(to State, res validation.Result) {
	from := s.state
	s.state = to
	s.logger.Debug("contact form transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	t := Transition{From: from, To: to, Result: res}
	for _, fn := range s.listeners {
		fn(t)
	}
}
