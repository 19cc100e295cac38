package schedule_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-contactform/pkg/schedule"
)

func TestManual_RunsInDeadlineOrder(t *testing.T) {
	clock := schedule.NewManual()
	var got []string

	clock.After(300*time.Millisecond, func() { got = append(got, "c") })
	clock.After(100*time.Millisecond, func() { got = append(got, "a") })
	clock.After(100*time.Millisecond, func() { got = append(got, "b") })

	if ran := clock.Advance(99 * time.Millisecond); ran != 0 {
		t.Fatalf("expected nothing due yet, ran %d", ran)
	}
	if ran := clock.Advance(time.Second); ran != 3 {
		t.Fatalf("expected 3 callbacks, ran %d", ran)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if clock.Now() != 1099*time.Millisecond {
		t.Fatalf("unexpected clock position %s", clock.Now())
	}
}

func TestManual_NestedSchedulingWithinWindow(t *testing.T) {
	clock := schedule.NewManual()
	var at []time.Duration

	clock.After(5*time.Second, func() {
		at = append(at, clock.Now())
		clock.After(300*time.Millisecond, func() {
			at = append(at, clock.Now())
		})
	})

	clock.Advance(5300 * time.Millisecond)
	want := []time.Duration{5 * time.Second, 5300 * time.Millisecond}
	if diff := cmp.Diff(want, at); diff != "" {
		t.Fatalf("nested timing mismatch (-want +got):\n%s", diff)
	}
}

func TestManual_CancelPreventsCallback(t *testing.T) {
	clock := schedule.NewManual()
	fired := false
	task := clock.After(time.Second, func() { fired = true })

	if !task.Cancel() {
		t.Fatalf("expected first cancel to report true")
	}
	if task.Cancel() {
		t.Fatalf("expected second cancel to report false")
	}
	clock.Advance(2 * time.Second)
	if fired {
		t.Fatalf("cancelled task fired")
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", clock.Pending())
	}
}

func TestManual_CancelAfterFireReportsFalse(t *testing.T) {
	clock := schedule.NewManual()
	task := clock.After(0, func() {})
	clock.Advance(0)
	if task.Cancel() {
		t.Fatalf("expected cancel after fire to report false")
	}
}

func TestManual_Flush(t *testing.T) {
	clock := schedule.NewManual()
	count := 0
	for i := 0; i < 5; i++ {
		clock.After(time.Duration(i)*time.Hour, func() { count++ })
	}
	if ran := clock.Flush(100); ran != 5 || count != 5 {
		t.Fatalf("expected 5 callbacks, ran %d count %d", ran, count)
	}
}

func TestCancelAll(t *testing.T) {
	clock := schedule.NewManual()
	a := clock.After(time.Second, func() {})
	b := clock.After(time.Second, func() {})
	if got := schedule.CancelAll(a, nil, b, schedule.Noop); got != 2 {
		t.Fatalf("expected 2 cancelled, got %d", got)
	}
}

func TestLoop_SerialisesCallbacks(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := schedule.NewLoop()
	loop.Start(ctx)
	defer loop.Close()

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 10; i++ {
		i := i
		loop.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	if err := loop.Invoke(ctx, func() {}); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got); diff != "" {
		t.Fatalf("post order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoop_AfterAndCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := schedule.NewLoop()
	loop.Start(ctx)
	defer loop.Close()

	fired := make(chan struct{})
	loop.After(10*time.Millisecond, func() { close(fired) })

	cancelled := loop.After(10*time.Millisecond, func() {
		t.Errorf("cancelled callback ran")
	})
	if !cancelled.Cancel() {
		t.Fatalf("expected cancel to stop pending callback")
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("timer did not fire")
	}
	// let a potential stray callback surface before shutdown
	_ = loop.Invoke(ctx, func() {})
}

func TestLoop_RecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := schedule.NewLoop()
	loop.Start(ctx)
	defer loop.Close()

	loop.Post(func() { panic("boom") })
	ran := false
	if err := loop.Invoke(ctx, func() { ran = true }); err != nil {
		t.Fatalf("invoke after panic: %v", err)
	}
	if !ran {
		t.Fatalf("loop stopped processing after a panic")
	}
}

func TestLoop_ClosedRejectsWork(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop := schedule.NewLoop()
	pending := loop.After(time.Hour, func() {})
	loop.Close()

	if loop.Post(func() {}) {
		t.Fatalf("expected post on closed loop to fail")
	}
	if err := loop.Invoke(context.Background(), func() {}); err != schedule.ErrLoopClosed {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
	if pending.Cancel() {
		t.Fatalf("expected close to have cancelled the pending timer")
	}
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("run on closed loop: %v", err)
	}
}
