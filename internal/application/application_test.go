package application

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/alexjait/AuditBookContract/internal/config"
	"github.com/alexjait/AuditBookContract/internal/record"
	"github.com/alexjait/AuditBookContract/internal/storage"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func baseTestConfig(t *testing.T, port string) config.Config {
	t.Helper()

	return config.Config{
		Port:                 port,
		DotenvFiles:          []string{filepath.Join(t.TempDir(), ".env")},
		ProbeTimeout:         time.Second,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewInitializesDependencies(t *testing.T) {
	t.Setenv(record.RinkebyURLEnv, "https://rpc.example")
	cfg := baseTestConfig(t, ":8085")

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	rec, err := app.storage.Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if rec.Networks["rinkeby"].URL != "https://rpc.example" {
		t.Fatalf("expected environment value, got %q", rec.Networks["rinkeby"].URL)
	}
	if app.server == nil || app.router == nil || app.handler == nil {
		t.Fatalf("expected server, router, and handler to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig(t, "9090")
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

func TestLoaderReadsDotenvAndDefinition(t *testing.T) {
	t.Setenv("SEPOLIA_URL", "")
	os.Unsetenv("SEPOLIA_URL")

	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	writeFile(t, dotenv, "SEPOLIA_URL=https://rpc.sepolia.example\n")
	definition := filepath.Join(dir, "networks.toml")
	writeFile(t, definition, "solidity = \"0.8.24\"\n[networks.sepolia]\nurl = \"${SEPOLIA_URL}\"\n")

	cfg := baseTestConfig(t, "0")
	cfg.DotenvFiles = []string{dotenv}
	cfg.DefinitionFile = definition

	rec, err := NewLoader(cfg)()
	if err != nil {
		t.Fatalf("loader returned error: %v", err)
	}
	if rec.CompilerVersion != "0.8.24" {
		t.Fatalf("unexpected compiler version %q", rec.CompilerVersion)
	}
	if rec.Networks["sepolia"].URL != "https://rpc.sepolia.example" {
		t.Fatalf("unexpected url %q", rec.Networks["sepolia"].URL)
	}
}

func TestLoaderReportsBadDefinition(t *testing.T) {
	cfg := baseTestConfig(t, "0")
	cfg.DefinitionFile = filepath.Join(t.TempDir(), "networks.json")

	if _, err := NewLoader(cfg)(); !errors.Is(err, record.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadRecordStrict(t *testing.T) {
	t.Setenv(record.RinkebyURLEnv, "https://rpc.example")
	t.Setenv(record.RinkebyKeyEnv, testKey)

	cfg := baseTestConfig(t, "0")
	cfg.Strict = true
	if _, err := LoadRecord(cfg); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}

	t.Setenv(record.RinkebyURLEnv, "rinkeby")
	if _, err := LoadRecord(cfg); !errors.Is(err, storage.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestNewReturnsErrorForInvalidRecordInStrictMode(t *testing.T) {
	t.Setenv(record.RinkebyURLEnv, "")
	os.Unsetenv(record.RinkebyURLEnv)
	t.Setenv(record.RinkebyKeyEnv, "")
	os.Unsetenv(record.RinkebyKeyEnv)

	cfg := baseTestConfig(t, ":0")
	cfg.Strict = true

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for unresolved environment in strict mode")
	}
}
