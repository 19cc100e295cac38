package testsupport

import (
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/effects"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/schedule"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Harness is a contact form session wired to a virtual clock, an in-memory
// notification board and a confetti tally.
type Harness struct {
	Clock     *schedule.Manual
	Board     *notify.Board
	Canvas    *effects.Tally
	Presenter *notify.Presenter
	Session   *form.Session
}

// NewHarness wires a session with default timings. cfg may override the
// engine, logger and submission settings; the collaborators are always
// replaced with the harness ones.
func NewHarness(t testing.TB, cfg form.Config) *Harness {
	t.Helper()

	h := &Harness{
		Clock:  schedule.NewManual(),
		Board:  notify.NewBoard(),
		Canvas: &effects.Tally{},
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	presenter, err := notify.New(h.Clock, h.Board, notify.WithLogger(logger))
	if err != nil {
		t.Fatalf("new presenter: %v", err)
	}
	h.Presenter = presenter

	cfg.Scheduler = h.Clock
	cfg.Notifier = presenter
	cfg.Celebrator = effects.NewCelebration(h.Clock, h.Canvas)
	cfg.Logger = logger
	h.Session = form.NewSession(cfg)
	return h
}

// Fill types a snapshot into the session the way a user would.
func (h *Harness) Fill(s validation.Snapshot) {
	for _, id := range validation.Fields {
		h.Session.Focus(id)
		h.Session.Input(id, s.Value(id))
		h.Session.Blur(id)
	}
}
