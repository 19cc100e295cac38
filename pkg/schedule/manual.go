package schedule

import (
	"sync"
	"time"
)

// Manual is a virtual clock. Callbacks only run from Advance, on the caller's
// goroutine, in deadline order; ties run in the order they were scheduled.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

// NewManual returns a clock positioned at zero.
func NewManual() *Manual {
	return &Manual{}
}

// After implements Scheduler.
func (m *Manual) After(delay time.Duration, fn func()) Task {
	if fn == nil {
		return Noop
	}
	if delay < 0 {
		delay = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{clock: m, due: m.now + delay, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, task)
	return task
}

// Now reports the virtual time elapsed since the clock was created.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending reports how many callbacks are still waiting.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Advance moves the clock forward by d and runs every callback that becomes
// due, including callbacks scheduled by other callbacks inside the window. It
// returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	ran := 0
	for {
		task := m.popDue(target)
		if task == nil {
			break
		}
		if task.claimFire() {
			task.fn()
			ran++
		}
	}

	m.mu.Lock()
	if m.now < target {
		m.now = target
	}
	m.mu.Unlock()
	return ran
}

// Flush runs every pending callback regardless of its deadline, stopping
// after limit callbacks to guard against self-rescheduling chains.
func (m *Manual) Flush(limit int) int {
	ran := 0
	for ran < limit {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			break
		}
		next := m.tasks[m.earliest()].due
		m.mu.Unlock()
		ran += m.Advance(next - m.Now())
	}
	return ran
}

func (m *Manual) popDue(target time.Duration) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tasks) == 0 {
		return nil
	}
	idx := m.earliest()
	task := m.tasks[idx]
	if task.due > target {
		return nil
	}
	m.tasks = append(m.tasks[:idx], m.tasks[idx+1:]...)
	if task.due > m.now {
		m.now = task.due
	}
	return task
}

// earliest must be called with mu held and a non-empty task list.
func (m *Manual) earliest() int {
	best := 0
	for i, task := range m.tasks[1:] {
		cur := m.tasks[best]
		if task.due < cur.due || (task.due == cur.due && task.seq < cur.seq) {
			best = i + 1
		}
	}
	return best
}

func (m *Manual) remove(target *manualTask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, task := range m.tasks {
		if task == target {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

type manualTask struct {
	taskState
	clock *Manual
	due   time.Duration
	seq   uint64
	fn    func()
}

func (t *manualTask) Cancel() bool {
	if !t.claimCancel() {
		return false
	}
	t.clock.remove(t)
	return true
}
