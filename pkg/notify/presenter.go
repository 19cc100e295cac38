package notify

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/schedule"
)

const (
	// DefaultVisibleFor is how long a notification stays fully visible.
	DefaultVisibleFor = 5000 * time.Millisecond
	// DefaultExitFor is the length of the exit transition.
	DefaultExitFor = 300 * time.Millisecond
)

var (
	// ErrMissingScheduler is returned when a presenter has no timer source.
	ErrMissingScheduler = errors.New("notify: scheduler is required")
	// ErrMissingSurface is returned when a presenter has nowhere to draw.
	ErrMissingSurface = errors.New("notify: surface is required")
)

// Phase tracks where a notification is in its lifecycle.
type Phase string

const (
	PhaseEntering Phase = "entering"
	PhaseVisible  Phase = "visible"
	PhaseLeaving  Phase = "leaving"
	PhaseRemoved  Phase = "removed"
)

// Notification is a transient banner.
type Notification struct {
	ID    string
	Kind  Kind
	Text  string
	Style Style
	Phase Phase
}

// Surface is where notifications are drawn. Mount adds the element, Update
// reflects a phase change and Unmount removes it from the page.
type Surface interface {
	Mount(n Notification)
	Update(n Notification)
	Unmount(id string)
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithStyles overrides the kind palette.
func WithStyles(styles Styles) Option {
	return func(p *Presenter) {
		if len(styles) > 0 {
			p.styles = styles
		}
	}
}

// WithTiming overrides the visible and exit durations.
func WithTiming(visibleFor, exitFor time.Duration) Option {
	return func(p *Presenter) {
		if visibleFor > 0 {
			p.visibleFor = visibleFor
		}
		if exitFor > 0 {
			p.exitFor = exitFor
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Presenter) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithIDGenerator overrides how notification ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(p *Presenter) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// Presenter shows at most one notification at a time and dismisses it on a
// timer. It is not safe for concurrent use; drive it from a single loop.
type Presenter struct {
	scheduler  schedule.Scheduler
	surface    Surface
	styles     Styles
	visibleFor time.Duration
	exitFor    time.Duration
	logger     *zap.Logger
	newID      func() string

	current *entry
}

type entry struct {
	n     Notification
	tasks []schedule.Task
}

// New constructs a Presenter.
func New(scheduler schedule.Scheduler, surface Surface, options ...Option) (*Presenter, error) {
	if scheduler == nil {
		return nil, ErrMissingScheduler
	}
	if surface == nil {
		return nil, ErrMissingSurface
	}
	p := &Presenter{
		scheduler:  scheduler,
		surface:    surface,
		styles:     DefaultStyles(),
		visibleFor: DefaultVisibleFor,
		exitFor:    DefaultExitFor,
		logger:     zap.NewNop(),
		newID:      uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p, nil
}

// Show replaces any current notification with a new one and schedules its
// dismissal.
func (p *Presenter) Show(kind Kind, text string) Notification {
	if p == nil {
		return Notification{}
	}
	kind = ParseKind(string(kind))
	p.evict()

	e := &entry{n: Notification{
		ID:    p.newID(),
		Kind:  kind,
		Text:  text,
		Style: p.styles.For(kind),
		Phase: PhaseEntering,
	}}
	p.current = e
	p.surface.Mount(e.n)

	e.n.Phase = PhaseVisible
	p.surface.Update(e.n)

	e.tasks = append(e.tasks, p.scheduler.After(p.visibleFor, func() { p.leave(e) }))
	p.logger.Debug("notification shown",
		zap.String("id", e.n.ID),
		zap.String("kind", string(kind)),
	)
	return e.n
}

// Success shows a success notification.
func (p *Presenter) Success(text string) Notification { return p.Show(KindSuccess, text) }

// Error shows an error notification.
func (p *Presenter) Error(text string) Notification { return p.Show(KindError, text) }

// Info shows an info notification.
func (p *Presenter) Info(text string) Notification { return p.Show(KindInfo, text) }

// Current returns the notification on screen, if any.
func (p *Presenter) Current() (Notification, bool) {
	if p == nil || p.current == nil {
		return Notification{}, false
	}
	return p.current.n, true
}

// Dismiss removes the current notification immediately.
func (p *Presenter) Dismiss() bool {
	if p == nil || p.current == nil {
		return false
	}
	p.evict()
	return true
}

func (p *Presenter) evict() {
	e := p.current
	if e == nil {
		return
	}
	schedule.CancelAll(e.tasks...)
	p.current = nil
	e.n.Phase = PhaseRemoved
	p.surface.Unmount(e.n.ID)
	p.logger.Debug("notification evicted", zap.String("id", e.n.ID))
}

func (p *Presenter) leave(e *entry) {
	if p.current != e {
		return
	}
	e.n.Phase = PhaseLeaving
	p.surface.Update(e.n)
	e.tasks = append(e.tasks, p.scheduler.After(p.exitFor, func() { p.remove(e) }))
}

func (p *Presenter) remove(e *entry) {
	if p.current != e {
		return
	}
	p.current = nil
	e.n.Phase = PhaseRemoved
	p.surface.Unmount(e.n.ID)
	p.logger.Debug("notification dismissed", zap.String("id", e.n.ID))
}
