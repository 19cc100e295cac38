package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gookit/color"

	"github.com/goliatone/go-contactform/pkg/effects"
	"github.com/goliatone/go-contactform/pkg/notify"
)

var kindColors = map[notify.Kind]color.Style{
	notify.KindSuccess: color.New(color.FgGreen, color.OpBold),
	notify.KindError:   color.New(color.FgRed, color.OpBold),
	notify.KindInfo:    color.New(color.FgBlue, color.OpBold),
}

// termSurface prints notifications as single lines and confetti as a row of
// coloured stars. It implements notify.Surface and effects.Canvas.
type termSurface struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
	live  map[string]struct{}
	burst int
}

func newTermSurface(out io.Writer, useColor bool) *termSurface {
	return &termSurface{out: out, color: useColor, live: make(map[string]struct{})}
}

// Mount implements notify.Surface.
func (t *termSurface) Mount(n notify.Notification) {
	line := strings.TrimSpace(n.Style.Icon + " " + n.Text)
	if t.color {
		style, ok := kindColors[n.Kind]
		if !ok {
			style = kindColors[notify.KindInfo]
		}
		line = style.Render(line)
	}
	t.println(line)
}

// Update implements notify.Surface. Phase changes are not drawn.
func (t *termSurface) Update(notify.Notification) {}

// Unmount implements notify.Surface.
func (t *termSurface) Unmount(string) {}

// Spawn implements effects.Canvas.
func (t *termSurface) Spawn(p effects.Piece) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live[p.ID] = struct{}{}
	t.burst++
	star := "*"
	if t.color {
		star = color.HEX(p.Color).Sprint(star)
	}
	fmt.Fprint(t.out, star)
}

// Remove implements effects.Canvas.
func (t *termSurface) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.live, id)
}

// endBurst terminates the confetti row.
func (t *termSurface) endBurst() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.burst > 0 {
		fmt.Fprintln(t.out)
		t.burst = 0
	}
}

func (t *termSurface) println(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, line)
}
