package server

import (
	"sync"
	"time"

	"github.com/linnix-os/notifysink/internal/capture"
)

// RecentStore keeps the last N captured entries in memory for the
// /captures/recent endpoint. The append-only log file stays authoritative;
// this is a convenience ring for test automation.
type RecentStore struct {
	mu      sync.Mutex
	limit   int
	entries []*capture.Entry
}

func newRecentStore(limit int) *RecentStore {
	return &RecentStore{limit: limit}
}

// Add appends an entry, evicting the oldest once the limit is reached.
func (s *RecentStore) Add(e *capture.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	if len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}
}

// Recent returns the stored entries, newest first.
func (s *RecentStore) Recent() []*capture.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*capture.Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

// StatusStore tracks capture and sink-failure counts for /captures/status.
type StatusStore struct {
	mu            sync.Mutex
	captured      int64
	lastCaptureAt time.Time
	sinkFailures  map[string]int64
}

func newStatusStore() *StatusStore {
	return &StatusStore{sinkFailures: make(map[string]int64)}
}

// RecordCapture notes one handled POST.
func (s *StatusStore) RecordCapture(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured++
	s.lastCaptureAt = at
}

// RecordFailure notes one failed sink append.
func (s *StatusStore) RecordFailure(sinkName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinkFailures[sinkName]++
}

// Snapshot returns current counters.
func (s *StatusStore) Snapshot() (captured int64, lastAt time.Time, failures map[string]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	failures = make(map[string]int64, len(s.sinkFailures))
	for k, v := range s.sinkFailures {
		failures[k] = v
	}
	return s.captured, s.lastCaptureAt, failures
}
