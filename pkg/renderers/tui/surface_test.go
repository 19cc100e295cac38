package tui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-contactform/pkg/effects"
	"github.com/goliatone/go-contactform/pkg/notify"
)

func TestTermSurface_PrintsNotificationsAndConfetti(t *testing.T) {
	var out bytes.Buffer
	surface := newTermSurface(&out, false)

	surface.Mount(notify.Notification{ID: "n1", Kind: notify.KindSuccess, Text: "Sent", Style: notify.DefaultStyles().For(notify.KindSuccess)})
	surface.Spawn(effects.Piece{ID: "p1", Color: "#FFD700"})
	surface.Spawn(effects.Piece{ID: "p2", Color: "#32CD32"})
	surface.Remove("p1")
	surface.endBurst()
	surface.endBurst()

	if got, want := out.String(), "✓ Sent\n**\n"; got != want {
		t.Fatalf("unexpected terminal output: got %q want %q", got, want)
	}
	if len(surface.live) != 1 {
		t.Fatalf("expected one live piece, got %d", len(surface.live))
	}
}

func TestTranslateSurveyErr_Interrupt(t *testing.T) {
	if err := translateSurveyErr(terminal.InterruptErr); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
