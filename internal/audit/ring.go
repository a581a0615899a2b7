package audit

import (
	"context"
	"sync"
)

// DefaultRingCapacity matches the retention the UI historically showed.
const DefaultRingCapacity = 100

// RingSink keeps the most recent events in a capped in-memory buffer.
// Each instance owns its buffer; when full, the oldest event is evicted.
// Safe for concurrent use.
type RingSink struct {
	mu       sync.Mutex
	capacity int
	events   []Event
}

// NewRingSink returns a ring holding at most capacity events. A
// non-positive capacity falls back to DefaultRingCapacity.
func NewRingSink(capacity int) *RingSink {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &RingSink{capacity: capacity}
}

func (s *RingSink) Record(_ context.Context, e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if len(s.events) > s.capacity {
		// Drop the oldest; shift rather than reslice so the backing array
		// cannot grow without bound.
		copy(s.events, s.events[1:])
		s.events = s.events[:s.capacity]
	}
}

// Events returns a snapshot of the buffered events, oldest first.
func (s *RingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of buffered events.
func (s *RingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Clear empties the buffer.
func (s *RingSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}
