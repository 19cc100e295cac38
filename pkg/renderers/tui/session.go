// Package tui hosts the contact form in a terminal. Answers are collected with
// a PromptDriver (survey by default) and fed through form.Session running on a
// schedule.Loop, so blur validation, the submit workflow and notifications
// behave exactly as they do on the page.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/effects"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/schedule"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Outcome summarises a terminal session.
type Outcome struct {
	Sent         bool                `json:"sent"`
	Snapshot     validation.Snapshot `json:"snapshot"`
	Result       validation.Result   `json:"result"`
	Notification string              `json:"notification,omitempty"`
}

// Session drives one contact form through a terminal.
type Session struct {
	driver      PromptDriver
	out         io.Writer
	format      OutputFormat
	theme       Theme
	color       bool
	styles      notify.Styles
	engine      *validation.Engine
	submitDelay time.Duration
	successText string
	maxAttempts int
	celebrate   bool
	logger      *zap.Logger
}

// New constructs a terminal session with defaults (survey driver, stdout,
// JSON outcome, colours on).
func New(options ...Option) *Session {
	s := &Session{
		out:       os.Stdout,
		format:    OutputFormatJSON,
		theme:     DefaultTheme,
		color:     true,
		styles:    notify.DefaultStyles(),
		engine:    validation.New(),
		celebrate: true,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = newSurveyDriver(s.out)
	}
	return s
}

// Run prompts for every field, submits and waits for the workflow to settle.
// Declining the final confirmation returns an Outcome with Sent false.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loop := schedule.NewLoop(schedule.WithLogger(s.logger))
	loop.Start(loopCtx)
	defer func() {
		loop.Close()
		<-loop.Done()
	}()

	term := newTermSurface(s.out, s.color)
	presenter, err := notify.New(loop, term,
		notify.WithStyles(s.styles),
		notify.WithLogger(s.logger),
	)
	if err != nil {
		return Outcome{}, fmt.Errorf("tui: presenter: %w", err)
	}

	var celebrator form.Celebrator
	if s.celebrate {
		celebrator = effects.NewCelebration(loop, term)
	}

	settled := make(chan struct{}, 1)
	session := form.NewSession(form.Config{
		Engine:      s.engine,
		Scheduler:   loop,
		Notifier:    presenter,
		Celebrator:  celebrator,
		Logger:      s.logger,
		SubmitDelay: s.submitDelay,
		SuccessText: s.successText,
	})
	session.OnTransition(func(t form.Transition) {
		if t.From == form.StateSubmitting && t.To == form.StateIdle {
			select {
			case settled <- struct{}{}:
			default:
			}
		}
	})

	for _, id := range validation.Fields {
		if err := s.promptField(ctx, loop, session, id); err != nil {
			return Outcome{}, err
		}
	}

	var snapshot validation.Snapshot
	if err := loop.Invoke(ctx, func() { snapshot = session.Form().Snapshot() }); err != nil {
		return Outcome{}, err
	}

	send, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Send message?", Default: true})
	if err != nil {
		return Outcome{}, err
	}
	if !send {
		return Outcome{Snapshot: snapshot, Result: s.engine.ValidateForm(snapshot)}, nil
	}

	var res validation.Result
	if err := loop.Invoke(ctx, func() { res = session.Submit() }); err != nil {
		return Outcome{}, err
	}
	outcome := Outcome{Snapshot: snapshot, Result: res}
	if !res.Valid {
		outcome.Notification = res.Message
		return outcome, nil
	}

	_ = s.driver.Info(ctx, form.LoadingLabel)
	select {
	case <-settled:
	case <-ctx.Done():
		_ = loop.Invoke(context.Background(), session.Close)
		return Outcome{}, ctx.Err()
	}

	if err := loop.Invoke(ctx, func() {
		if n, ok := presenter.Current(); ok {
			outcome.Notification = n.Text
		}
	}); err != nil {
		return Outcome{}, err
	}
	outcome.Sent = true

	if s.celebrate {
		s.waitForBurst(ctx, loop)
		term.endBurst()
	}
	return outcome, nil
}

// Encode serializes an outcome in the session's output format.
func (s *Session) Encode(outcome Outcome) ([]byte, error) {
	if s.format == OutputFormatPrettyText {
		return []byte(prettyOutcome(outcome)), nil
	}
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode outcome: %w", err)
	}
	return append(data, '\n'), nil
}

func (s *Session) promptField(ctx context.Context, loop *schedule.Loop, session *form.Session, id validation.FieldID) error {
	var current string
	for attempt := 1; ; attempt++ {
		answer, err := s.ask(ctx, id, current)
		if err != nil {
			return err
		}

		var (
			hint validation.Hint
			res  validation.Result
		)
		if err := loop.Invoke(ctx, func() {
			session.Focus(id)
			hint = session.Input(id, answer)
			res = session.Blur(id)
		}); err != nil {
			return err
		}

		s.printHint(ctx, hint)
		if res.Valid {
			return nil
		}
		_ = s.driver.Info(ctx, strings.TrimSpace(s.theme.ErrorPrefix+" "+res.Message))
		s.logger.Debug("field rejected", zap.String("field", string(id)), zap.Int("attempt", attempt))

		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, id)
		}
		current = answer
	}
}

func (s *Session) ask(ctx context.Context, id validation.FieldID, current string) (string, error) {
	label := fieldLabel(id)
	if id == validation.FieldMessage {
		return s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current})
	}
	return s.driver.Input(ctx, InputConfig{Message: label, Default: current})
}

func (s *Session) printHint(ctx context.Context, hint validation.Hint) {
	switch hint {
	case validation.HintSuccess:
		_ = s.driver.Info(ctx, strings.TrimSpace(s.theme.HintSuccess+" looks like a valid email"))
	case validation.HintWarning:
		_ = s.driver.Info(ctx, strings.TrimSpace(s.theme.HintWarning+" that email looks incomplete"))
	}
}

// waitForBurst gives the staggered confetti spawns time to land on the loop.
func (s *Session) waitForBurst(ctx context.Context, loop *schedule.Loop) {
	done := make(chan struct{})
	burst := time.Duration(effects.DefaultPieces) * effects.DefaultStagger
	task := loop.After(burst, func() { close(done) })
	select {
	case <-done:
	case <-ctx.Done():
		task.Cancel()
	case <-loop.Done():
	}
}

func fieldLabel(id validation.FieldID) string {
	switch id {
	case validation.FieldName:
		return "Name"
	case validation.FieldEmail:
		return "Email"
	case validation.FieldMessage:
		return "Message"
	default:
		return string(id)
	}
}

func prettyOutcome(o Outcome) string {
	var b strings.Builder
	status := "not sent"
	if o.Sent {
		status = "sent"
	}
	fmt.Fprintf(&b, "Status:  %s\n", status)
	fmt.Fprintf(&b, "Name:    %s\n", o.Snapshot.Name)
	fmt.Fprintf(&b, "Email:   %s\n", o.Snapshot.Email)
	fmt.Fprintf(&b, "Message: %s\n", o.Snapshot.Message)
	if o.Notification != "" {
		fmt.Fprintf(&b, "Notice:  %s\n", o.Notification)
	}
	return b.String()
}
