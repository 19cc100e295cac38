package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrLoopClosed is returned when work is submitted to a closed loop.
var ErrLoopClosed = errors.New("schedule: loop closed")

// Loop serialises callbacks onto one goroutine. Timers fire on runtime
// goroutines and hand their callback to the loop, so ordering between two
// independent timers follows the order they were queued, nothing more.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger

	mu     sync.Mutex
	timers map[*loopTask]struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger routes recovered callback panics to logger.
func WithLogger(logger *zap.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithQueueSize sets the number of callbacks that can wait for the loop.
func WithQueueSize(size int) LoopOption {
	return func(l *Loop) {
		if size > 0 {
			l.queue = make(chan func(), size)
		}
	}
}

// NewLoop constructs a loop. Call Run (or Start) to begin processing.
func NewLoop(options ...LoopOption) *Loop {
	l := &Loop{
		queue:  make(chan func(), 64),
		done:   make(chan struct{}),
		logger: zap.NewNop(),
		timers: make(map[*loopTask]struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Run processes callbacks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("schedule: context is required")
	}
	defer l.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			l.exec(fn)
		}
	}
}

// Start runs the loop on its own goroutine.
func (l *Loop) Start(ctx context.Context) {
	go func() { _ = l.Run(ctx) }()
}

// Post queues fn to run on the loop. It returns false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Invoke runs fn on the loop and waits for it to finish.
func (l *Loop) Invoke(ctx context.Context, fn func()) error {
	if fn == nil {
		return nil
	}
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// After schedules fn to run on the loop once delay has elapsed.
func (l *Loop) After(delay time.Duration, fn func()) Task {
	if fn == nil {
		return Noop
	}
	if delay < 0 {
		delay = 0
	}
	task := &loopTask{loop: l, fn: fn}

	l.mu.Lock()
	select {
	case <-l.done:
		l.mu.Unlock()
		return Noop
	default:
	}
	l.timers[task] = struct{}{}
	task.timer = time.AfterFunc(delay, func() {
		if !l.Post(task.fire) {
			l.forget(task)
		}
	})
	l.mu.Unlock()
	return task
}

// Close stops the loop and every pending timer. It is safe to call more than
// once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		close(l.done)
		for task := range l.timers {
			task.claimCancel()
			task.timer.Stop()
		}
		l.timers = make(map[*loopTask]struct{})
		l.mu.Unlock()
	})
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("schedule: callback panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

func (l *Loop) forget(task *loopTask) {
	l.mu.Lock()
	delete(l.timers, task)
	l.mu.Unlock()
}

type loopTask struct {
	taskState
	loop  *Loop
	timer *time.Timer
	fn    func()
}

func (t *loopTask) fire() {
	t.loop.forget(t)
	if !t.claimFire() {
		return
	}
	t.fn()
}

func (t *loopTask) Cancel() bool {
	if !t.claimCancel() {
		return false
	}
	t.timer.Stop()
	t.loop.forget(t)
	return true
}
