package notify

import "sync"

// Board is an in-memory Surface. It is safe for concurrent readers, which lets
// hosts inspect what is on screen while the presenter runs on its loop.
type Board struct {
	mu      sync.RWMutex
	items   []Notification
	mounted int
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Mount implements Surface.
func (b *Board) Mount(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
	b.mounted++
}

// Update implements Surface.
func (b *Board) Update(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == n.ID {
			b.items[i] = n
			return
		}
	}
}

// Unmount implements Surface. Unknown ids are ignored.
func (b *Board) Unmount(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Visible returns the notifications currently attached.
func (b *Board) Visible() []Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.items) == 0 {
		return nil
	}
	return append([]Notification(nil), b.items...)
}

// Mounted reports how many notifications were ever attached.
func (b *Board) Mounted() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mounted
}

// Fanout forwards every call to each surface in order.
type Fanout []Surface

// Mount implements Surface.
func (f Fanout) Mount(n Notification) {
	for _, s := range f {
		if s != nil {
			s.Mount(n)
		}
	}
}

// Update implements Surface.
func (f Fanout) Update(n Notification) {
	for _, s := range f {
		if s != nil {
			s.Update(n)
		}
	}
}

// Unmount implements Surface.
func (f Fanout) Unmount(id string) {
	for _, s := range f {
		if s != nil {
			s.Unmount(id)
		}
	}
}
