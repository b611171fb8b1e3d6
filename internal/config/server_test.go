package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.DisconnectGrace != 2*time.Minute {
		t.Fatalf("DisconnectGrace = %v, want 2m", cfg.DisconnectGrace)
	}
	if cfg.EmptyLobbyTTL != 10*time.Minute {
		t.Fatalf("EmptyLobbyTTL = %v, want 10m", cfg.EmptyLobbyTTL)
	}
	if cfg.LobbyMaxAge != time.Hour {
		t.Fatalf("LobbyMaxAge = %v, want 1h", cfg.LobbyMaxAge)
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DISCONNECT_GRACE", "30s")
	t.Setenv("ALLOW_ANY_ORIGIN", "1")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.DisconnectGrace != 30*time.Second {
		t.Fatalf("DisconnectGrace = %v, want 30s", cfg.DisconnectGrace)
	}
	if !cfg.AllowAnyOrigin {
		t.Fatal("AllowAnyOrigin = false, want true")
	}
}

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" {
		t.Fatalf("Level = %q, want info", cfg.Level)
	}
	if cfg.MaxMB != 10 {
		t.Fatalf("MaxMB = %d, want 10", cfg.MaxMB)
	}
}
