package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = "8888"
	DefaultLogPath     = "/tmp/http-posts.log"
	DefaultRecentLimit = 100
)

type Config struct {
	Server   ServerConfig    `koanf:"server" validate:"required"`
	Log      LogConfig       `koanf:"log" validate:"required"`
	Database *DatabaseConfig `koanf:"database"`
	NewRelic *NewRelicConfig `koanf:"newrelic"`
}

type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port string `koanf:"port" validate:"required,numeric"`
}

type LogConfig struct {
	// Path of the shared append-only capture log.
	Path        string `koanf:"path" validate:"required"`
	RecentLimit int    `koanf:"recent_limit" validate:"required,min=1"`
}

// DatabaseConfig enables the optional Postgres capture archive.
type DatabaseConfig struct {
	URL string `koanf:"url" validate:"required"`
}

// NewRelicConfig enables the optional New Relic agent.
type NewRelicConfig struct {
	LicenseKey string `koanf:"license_key" validate:"required"`
	AppName    string `koanf:"app_name"`
}

// LoadConfig loads the configuration from environment variables using koanf.
// Variables use the NOTIFYSINK_ prefix with double underscore as the nesting
// separator (NOTIFYSINK_SERVER__PORT -> server.port).
func LoadConfig() *Config {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")
	err := k.Load(env.Provider("NOTIFYSINK_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "NOTIFYSINK_")), "__", ".")
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load environment variables")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal config")
	}
	cfg.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Log.Path == "" {
		c.Log.Path = DefaultLogPath
	}
	if c.Log.RecentLimit == 0 {
		c.Log.RecentLimit = DefaultRecentLimit
	}
	if c.NewRelic != nil && c.NewRelic.AppName == "" {
		c.NewRelic.AppName = "notifysink"
	}
}
