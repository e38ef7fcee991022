package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != ":8080" {
		t.Errorf("Expected default port :8080, got %s", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret == "" {
		t.Error("JWT secret must have a development default")
	}
	if cfg.Database.Host != "" {
		t.Errorf("Database host should default to empty (in-memory store), got %s", cfg.Database.Host)
	}
	if cfg.WebSocket.SendQueueSize != 256 {
		t.Errorf("Expected default send queue size 256, got %d", cfg.WebSocket.SendQueueSize)
	}
	if cfg.Store.Timeout != 5*time.Second {
		t.Errorf("Expected default store timeout 5s, got %v", cfg.Store.Timeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("WS_SEND_QUEUE_SIZE", "64")
	t.Setenv("STORE_TIMEOUT", "2s")

	cfg := Load()

	if cfg.Server.Port != ":9000" {
		t.Errorf("Port without colon should be normalized, got %s", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "prod-secret" {
		t.Errorf("Expected overridden secret, got %s", cfg.Auth.JWTSecret)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Expected overridden db host, got %s", cfg.Database.Host)
	}
	if cfg.WebSocket.SendQueueSize != 64 {
		t.Errorf("Expected queue size 64, got %d", cfg.WebSocket.SendQueueSize)
	}
	if cfg.Store.Timeout != 2*time.Second {
		t.Errorf("Expected store timeout 2s, got %v", cfg.Store.Timeout)
	}
}

func TestGetDurationPlainSeconds(t *testing.T) {
	t.Setenv("STORE_TIMEOUT", "30")

	cfg := Load()
	if cfg.Store.Timeout != 30*time.Second {
		t.Errorf("Bare number should be read as seconds, got %v", cfg.Store.Timeout)
	}
}
