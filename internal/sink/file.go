package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/linnix-os/notifysink/internal/capture"
)

// File appends rendered entries to a single append-only log file.
// The file (and its parent directory) is created lazily on first write and
// is never truncated or rotated. Writes go through one shared handle and
// are serialized with a mutex so concurrent entries never interleave.
type File struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// NewFile returns a file sink for the given path. The file is not opened
// until the first Append.
func NewFile(path string) *File {
	return &File{path: path}
}

func (s *File) Name() string { return "file" }

// Path returns the log file path.
func (s *File) Path() string { return s.path }

func (s *File) Append(_ context.Context, e *capture.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		if dir := filepath.Dir(s.path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create log directory %s: %w", dir, err)
			}
		}
		f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", s.path, err)
		}
		s.f = f
	}
	if _, err := s.f.WriteString(e.Render()); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

// Close closes the underlying file handle if it was ever opened.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
