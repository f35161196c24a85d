package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/linnix-os/notifysink/internal/config"
	"github.com/linnix-os/notifysink/internal/database"
	"github.com/linnix-os/notifysink/internal/server"
)

func main() {
	// .env is optional; environment variables win.
	_ = godotenv.Load()

	host := pflag.String("host", "", "bind host (overrides NOTIFYSINK_SERVER__HOST)")
	port := pflag.String("port", "", "bind port (overrides NOTIFYSINK_SERVER__PORT)")
	logPath := pflag.String("log-path", "", "capture log path (overrides NOTIFYSINK_LOG__PATH)")
	pflag.Parse()

	cfg := config.LoadConfig()
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *logPath != "" {
		cfg.Log.Path = *logPath
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app *newrelic.Application
	if cfg.NewRelic != nil {
		a, err := newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("new relic disabled")
		} else {
			app = a
		}
	}

	var pool *pgxpool.Pool
	if cfg.Database != nil {
		if err := database.RunMigrations(ctx, cfg.Database.URL); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
		p, err := database.NewPool(ctx, cfg.Database.URL, logger, app)
		if err != nil {
			logger.Fatal().Err(err).Msg("database pool failed")
		}
		pool = p
		defer pool.Close()
	}

	srv := server.New(cfg, logger, pool, app)
	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
	logger.Info().Msg("notifysink stopped")
}
