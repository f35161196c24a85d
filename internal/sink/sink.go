package sink

import (
	"context"

	"github.com/linnix-os/notifysink/internal/capture"
)

// Sink receives captured entries. The handler fans out to several sinks
// and treats every Append as best-effort: a failing sink is reported and
// skipped, it never affects the HTTP response.
type Sink interface {
	// Name identifies the sink in diagnostics and metrics.
	Name() string
	Append(ctx context.Context, e *capture.Entry) error
}
