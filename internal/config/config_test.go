package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.Server.Host != DefaultHost || cfg.Server.Port != DefaultPort {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Log.Path != DefaultLogPath {
		t.Fatalf("expected default log path, got %q", cfg.Log.Path)
	}
	if cfg.Log.RecentLimit != DefaultRecentLimit {
		t.Fatalf("expected default recent limit, got %d", cfg.Log.RecentLimit)
	}
	if cfg.Database != nil {
		t.Fatal("database must be disabled by default")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("NOTIFYSINK_SERVER__PORT", "9001")
	t.Setenv("NOTIFYSINK_LOG__PATH", "/tmp/other.log")

	cfg := LoadConfig()
	if cfg.Server.Port != "9001" {
		t.Fatalf("expected port from env, got %q", cfg.Server.Port)
	}
	if cfg.Log.Path != "/tmp/other.log" {
		t.Fatalf("expected log path from env, got %q", cfg.Log.Path)
	}
	// Untouched fields keep their defaults.
	if cfg.Server.Host != DefaultHost {
		t.Fatalf("expected default host, got %q", cfg.Server.Host)
	}
}
