// Package state owns the screen contents shared by the poller and the UI.
//
// The poller is the only writer of title, body and status; the UI is the
// only writer of the scroll offset. Every read and write goes through one
// mutex, and renderers work from a Snapshot copied under that lock, so a
// frame never pairs a new body with a stale scroll offset.
package state

import "sync"

// Snapshot is an immutable copy of the screen state for one frame.
type Snapshot struct {
	Title  string
	Body   []string
	Status string
	Scroll int
}

// Store holds the current screen state.
type Store struct {
	mu      sync.Mutex
	title   string
	body    []string
	status  string
	scroll  int
	changed chan struct{}
}

func New() *Store {
	return &Store{changed: make(chan struct{}, 1)}
}

// Publish replaces title, body and status in one step.
func (s *Store) Publish(title string, body []string, status string) {
	s.mu.Lock()
	s.title = title
	s.body = append([]string(nil), body...)
	s.status = status
	s.scroll = clamp(s.scroll, len(s.body))
	s.mu.Unlock()
	s.notify()
}

// SetHeader replaces title and status and keeps the body.
func (s *Store) SetHeader(title, status string) {
	s.mu.Lock()
	s.title = title
	s.status = status
	s.mu.Unlock()
	s.notify()
}

// ScrollBy moves the scroll offset by delta lines.
func (s *Store) ScrollBy(delta int) {
	s.mu.Lock()
	s.scroll = clamp(s.scroll+delta, len(s.body))
	s.mu.Unlock()
	s.notify()
}

// SetScroll moves the scroll offset to offset.
func (s *Store) SetScroll(offset int) {
	s.mu.Lock()
	s.scroll = clamp(offset, len(s.body))
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Title:  s.title,
		Body:   append([]string(nil), s.body...),
		Status: s.status,
		Scroll: s.scroll,
	}
}

// Changed delivers a signal after mutations. Signals coalesce: one pending
// signal stands for any number of changes.
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// clamp keeps offset within [0, max(0, n-1)].
func clamp(offset, n int) int {
	if offset > n-1 {
		offset = n - 1
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
