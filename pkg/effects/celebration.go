// Package effects holds decorative feedback triggered after a successful
// submission. Nothing here affects form state.
package effects

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-contactform/pkg/schedule"
)

// Piece is one confetti particle.
type Piece struct {
	ID    string
	Color string
	// Left is the horizontal position as a percentage of the viewport width.
	Left float64
}

// Canvas receives confetti pieces.
type Canvas interface {
	Spawn(p Piece)
	Remove(id string)
}

// DefaultPalette is the confetti colour set.
var DefaultPalette = []string{"#32CD32", "#FFD700", "#FF6347", "#87CEEB", "#DDA0DD"}

const (
	DefaultPieces   = 50
	DefaultStagger  = 5 * time.Millisecond
	DefaultLifetime = 3 * time.Second
)

// Celebration scatters confetti onto a canvas over a short burst.
type Celebration struct {
	scheduler schedule.Scheduler
	canvas    Canvas
	pieces    int
	stagger   time.Duration
	lifetime  time.Duration
	palette   []string
	rng       *rand.Rand
}

// Option configures a Celebration.
type Option func(*Celebration)

// WithPieces sets how many pieces a burst spawns.
func WithPieces(n int) Option {
	return func(c *Celebration) {
		if n >= 0 {
			c.pieces = n
		}
	}
}

// WithPalette replaces the colour set.
func WithPalette(colors ...string) Option {
	return func(c *Celebration) {
		if len(colors) > 0 {
			c.palette = append([]string(nil), colors...)
		}
	}
}

// WithRand makes piece colours and positions deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(c *Celebration) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithTiming overrides the spawn stagger and piece lifetime.
func WithTiming(stagger, lifetime time.Duration) Option {
	return func(c *Celebration) {
		if stagger >= 0 {
			c.stagger = stagger
		}
		if lifetime > 0 {
			c.lifetime = lifetime
		}
	}
}

// NewCelebration builds the effect. A nil scheduler or canvas yields an effect
// that does nothing.
func NewCelebration(scheduler schedule.Scheduler, canvas Canvas, options ...Option) *Celebration {
	c := &Celebration{
		scheduler: scheduler,
		canvas:    canvas,
		pieces:    DefaultPieces,
		stagger:   DefaultStagger,
		lifetime:  DefaultLifetime,
		palette:   DefaultPalette,
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Celebrate schedules one burst. It returns immediately.
func (c *Celebration) Celebrate() {
	if c == nil || c.scheduler == nil || c.canvas == nil {
		return
	}
	for i := 0; i < c.pieces; i++ {
		c.scheduler.After(time.Duration(i)*c.stagger, c.spawn)
	}
}

func (c *Celebration) spawn() {
	piece := Piece{
		ID:    uuid.NewString(),
		Color: c.palette[c.rng.IntN(len(c.palette))],
		Left:  c.rng.Float64() * 100,
	}
	c.canvas.Spawn(piece)
	c.scheduler.After(c.lifetime, func() { c.canvas.Remove(piece.ID) })
}

// Tally is a Canvas that only counts pieces.
type Tally struct {
	Spawned int
	Removed int
	Live    map[string]Piece
}

// Spawn implements Canvas.
func (t *Tally) Spawn(p Piece) {
	if t.Live == nil {
		t.Live = make(map[string]Piece)
	}
	t.Spawned++
	t.Live[p.ID] = p
}

// Remove implements Canvas.
func (t *Tally) Remove(id string) {
	if _, ok := t.Live[id]; ok {
		delete(t.Live, id)
		t.Removed++
	}
}
