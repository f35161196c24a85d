package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/linnix-os/notifysink/internal/capture"
	"github.com/linnix-os/notifysink/internal/metrics"
	"github.com/linnix-os/notifysink/internal/sink"
)

// CaptureHandler handles every POST. It builds one capture.Entry per
// request and fans it out to its sinks in order. Sink failures are logged
// and counted but never reach the client: the response is always an empty
// 200 so the notification pipeline under test sees a healthy receiver.
type CaptureHandler struct {
	Log   zerolog.Logger
	Sinks []sink.Sink

	// OnCapture runs after the sinks for every entry (recent ring, status).
	OnCapture func(e *capture.Entry)
	// OnSinkError runs for every failed sink append.
	OnSinkError func(sinkName string, err error)
}

// Handle captures one POST request and acknowledges it.
func (h *CaptureHandler) Handle(c echo.Context) error {
	start := time.Now()
	req := c.Request()

	// Read exactly the declared Content-Length. Missing, chunked or
	// non-positive lengths are treated as an empty body so the handler
	// never blocks waiting for input that was not declared.
	var body []byte
	if req.ContentLength > 0 {
		b, err := io.ReadAll(io.LimitReader(req.Body, req.ContentLength))
		if err != nil {
			h.Log.Warn().Err(err).Msg("body read incomplete")
		}
		body = b
	}

	entry := capture.FromRequest(req, body)
	metrics.CapturesTotal.Inc()
	metrics.CaptureBytesTotal.Add(float64(len(body)))

	ctx := req.Context()
	for _, s := range h.Sinks {
		if err := s.Append(ctx, entry); err != nil {
			metrics.SinkWriteFailures.WithLabelValues(s.Name()).Inc()
			h.Log.Error().Err(err).Str("sink", s.Name()).Msg("sink append failed")
			if h.OnSinkError != nil {
				h.OnSinkError(s.Name(), err)
			}
		}
	}
	if h.OnCapture != nil {
		h.OnCapture(entry)
	}

	metrics.CaptureLatency.Observe(time.Since(start).Seconds())
	return c.NoContent(http.StatusOK)
}
