package sink

import (
	"context"
	"io"
	"sync"

	"github.com/linnix-os/notifysink/internal/capture"
)

// Writer renders entries to an io.Writer. Production wires it to stdout;
// tests wire it to a buffer.
type Writer struct {
	name string

	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a sink writing rendered entries to w.
func NewWriter(name string, w io.Writer) *Writer {
	return &Writer{name: name, w: w}
}

func (s *Writer) Name() string { return s.name }

func (s *Writer) Append(_ context.Context, e *capture.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, e.Render())
	return err
}
