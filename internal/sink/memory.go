package sink

import (
	"context"
	"sync"

	"github.com/linnix-os/notifysink/internal/capture"
)

// Memory retains appended entries in order. Used in tests.
type Memory struct {
	mu      sync.Mutex
	entries []*capture.Entry
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Name() string { return "memory" }

func (s *Memory) Append(_ context.Context, e *capture.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// Entries returns a copy of the appended entries in append order.
func (s *Memory) Entries() []*capture.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*capture.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
