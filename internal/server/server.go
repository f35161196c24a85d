package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	nrecho "github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/linnix-os/notifysink/internal/capture"
	"github.com/linnix-os/notifysink/internal/config"
	"github.com/linnix-os/notifysink/internal/handler"
	"github.com/linnix-os/notifysink/internal/repository"
	"github.com/linnix-os/notifysink/internal/response"
	"github.com/linnix-os/notifysink/internal/sink"
)

// Server holds the Echo app and dependencies.
type Server struct {
	Echo     *echo.Echo
	Config   *config.Config
	fileSink *sink.File
	recent   *RecentStore
	status   *StatusStore
	archive  *repository.CaptureRepository // optional; nil without a database
	log      zerolog.Logger
}

// New builds the Echo server and registers routes. pool and app may be nil;
// the archive and New Relic middleware are enabled only when configured.
// Echo's access-log middleware is deliberately absent: the rendered capture
// entries are the only per-request output.
func New(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool, app *newrelic.Application) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	if app != nil {
		e.Use(nrecho.Middleware(app))
	}

	fileSink := sink.NewFile(cfg.Log.Path)
	sinks := []sink.Sink{sink.NewWriter("stdout", os.Stdout), fileSink}

	var archive *repository.CaptureRepository
	if pool != nil {
		archive = repository.NewCaptureRepository(pool)
		sinks = append(sinks, archive)
	}

	recent := newRecentStore(cfg.Log.RecentLimit)
	status := newStatusStore()

	captureH := &handler.CaptureHandler{
		Log:   logger,
		Sinks: sinks,
		OnCapture: func(entry *capture.Entry) {
			recent.Add(entry)
			status.RecordCapture(entry.ReceivedAt)
		},
		OnSinkError: func(name string, err error) {
			status.RecordFailure(name)
		},
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/captures/recent", func(c echo.Context) error {
		return response.OK(c, map[string]any{"captures": recent.Recent()}, "")
	})
	e.GET("/captures/status", func(c echo.Context) error {
		captured, lastAt, failures := status.Snapshot()
		data := map[string]any{
			"captured":        captured,
			"sink_failures":   failures,
			"log_path":        fileSink.Path(),
			"archive_enabled": archive != nil,
		}
		if !lastAt.IsZero() {
			data["last_capture_at"] = lastAt
		}
		if archive != nil {
			if n, err := archive.Count(c.Request().Context()); err == nil {
				data["archived"] = n
			}
		}
		return response.OK(c, data, "")
	})

	// The contract: every POST, regardless of path, is captured.
	e.POST("/*", captureH.Handle)

	return &Server{
		Echo:     e,
		Config:   cfg,
		fileSink: fileSink,
		recent:   recent,
		status:   status,
		archive:  archive,
		log:      logger,
	}
}

// Start starts the HTTP server and blocks until the context is cancelled or
// the server fails. A bind failure is returned to the caller; an orderly
// shutdown returns nil.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("shutdown")
		}
	}()
	addr := net.JoinHostPort(s.Config.Server.Host, s.Config.Server.Port)
	s.log.Info().Str("addr", addr).Str("log_path", s.fileSink.Path()).Msg("notifysink listening")
	err := s.Echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, drains in-flight requests and
// closes the log file handle.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("notifysink shutting down")
	err := s.Echo.Shutdown(ctx)
	if cerr := s.fileSink.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
