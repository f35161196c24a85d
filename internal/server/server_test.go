package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/linnix-os/notifysink/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		Log: config.LogConfig{
			Path:        filepath.Join(t.TempDir(), "posts.log"),
			RecentLimit: 10,
		},
	}
}

func TestServerCaptureAndRecent(t *testing.T) {
	cfg := testConfig(t)
	srv := New(cfg, zerolog.Nop(), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(`{"msg":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}

	logData, err := os.ReadFile(cfg.Log.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logData), "Path: /notify\n") {
		t.Fatalf("log file missing entry: %q", string(logData))
	}

	rec = httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/captures/recent", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("recent: expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Captures []struct {
				Path string `json:"path"`
			} `json:"captures"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode recent: %v", err)
	}
	if len(envelope.Data.Captures) != 1 || envelope.Data.Captures[0].Path != "/notify" {
		t.Fatalf("unexpected recent captures: %+v", envelope.Data.Captures)
	}
}

func TestServerStatus(t *testing.T) {
	cfg := testConfig(t)
	srv := New(cfg, zerolog.Nop(), nil, nil)

	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/captures/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Captured       int64  `json:"captured"`
			LogPath        string `json:"log_path"`
			ArchiveEnabled bool   `json:"archive_enabled"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if envelope.Data.LogPath != cfg.Log.Path {
		t.Fatalf("expected log path %q, got %q", cfg.Log.Path, envelope.Data.LogPath)
	}
	if envelope.Data.ArchiveEnabled {
		t.Fatal("archive must be disabled without a database")
	}
}

func TestServerHealthz(t *testing.T) {
	srv := New(testConfig(t), zerolog.Nop(), nil, nil)
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServerNonPOSTNotCaptured(t *testing.T) {
	cfg := testConfig(t)
	srv := New(cfg, zerolog.Nop(), nil, nil)

	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/random", nil))
	if rec.Code == http.StatusOK {
		t.Fatalf("GET on arbitrary path must not be acknowledged, got %d", rec.Code)
	}
	if _, err := os.Stat(cfg.Log.Path); !os.IsNotExist(err) {
		t.Fatal("non-POST request must not create a log entry")
	}
}

func TestServerStartBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	cfg := testConfig(t)
	cfg.Server.Port = strings.TrimPrefix(ln.Addr().String(), "127.0.0.1:")
	srv := New(cfg, zerolog.Nop(), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Start(ctx); err == nil {
		t.Fatal("expected bind failure for occupied port")
	}
}
