package application

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/no-hive/solidity-learning/internal/config"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	logger := zaptest.NewLogger(t)

	result, err := compose(t, Params{FS: fstest.MapFS{}})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}

	app, err := New(cfg, result, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	snapshot, err := app.storage.GetSnapshot()
	if err != nil {
		t.Fatalf("GetSnapshot returned error: %v", err)
	}
	if snapshot.Config.Solidity.Version != "0.8.27" {
		t.Fatalf("unexpected stored compiler version %q", snapshot.Config.Solidity.Version)
	}
	if len(snapshot.Tasks) != len(result.Tasks) {
		t.Fatalf("expected %d tasks, got %d", len(result.Tasks), len(snapshot.Tasks))
	}
	if app.server == nil || app.router == nil || app.handler == nil {
		t.Fatalf("expected server, router, and handler to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected stored configuration to be served, got %d", rec.Code)
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewServerKeepsHostPort(t *testing.T) {
	server := NewServer(baseTestConfig("127.0.0.1:8545"), http.NewServeMux())
	if server.Addr != "127.0.0.1:8545" {
		t.Fatalf("expected address to be kept, got %s", server.Addr)
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		ProjectDir:           ".",
		Port:                 port,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
