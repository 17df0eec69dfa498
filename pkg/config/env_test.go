// pkg/config/env_test.go
package config

import (
	"testing"
	"time"
)

func clearTorusEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TORUS_SERVER_ADDR",
		"TORUS_SERVER_PORT",
		"TORUS_MAX_SPECTATORS",
		"TORUS_READ_TIMEOUT",
		"TORUS_WRITE_TIMEOUT",
		"TORUS_MAX_TICKS",
		"TORUS_SEED",
		"TORUS_CB_INTERVAL",
		"TORUS_CB_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	clearTorusEnv(t)

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() failed: %v", err)
	}

	if cfg.ServerAddr != "localhost" {
		t.Errorf("ServerAddr = %q, want localhost", cfg.ServerAddr)
	}
	if cfg.ServerPort != 4711 {
		t.Errorf("ServerPort = %d, want 4711", cfg.ServerPort)
	}
	if cfg.MaxSpectators != 32 {
		t.Errorf("MaxSpectators = %d, want 32", cfg.MaxSpectators)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want 30s", cfg.ReadTimeout)
	}
	if cfg.MaxTicks != 1000 {
		t.Errorf("MaxTicks = %d, want 1000", cfg.MaxTicks)
	}
	if cfg.Seed != 1 {
		t.Errorf("Seed = %d, want 1", cfg.Seed)
	}
	if cfg.Addr() != "localhost:4711" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	clearTorusEnv(t)
	t.Setenv("TORUS_SERVER_ADDR", "10.0.0.5")
	t.Setenv("TORUS_SERVER_PORT", "9000")
	t.Setenv("TORUS_MAX_SPECTATORS", "8")
	t.Setenv("TORUS_READ_TIMEOUT", "45s")
	t.Setenv("TORUS_MAX_TICKS", "250")
	t.Setenv("TORUS_SEED", "77")
	t.Setenv("TORUS_CB_TIMEOUT", "5s")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() failed: %v", err)
	}

	if cfg.ServerAddr != "10.0.0.5" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if cfg.ServerPort != 9000 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if cfg.MaxSpectators != 8 {
		t.Errorf("MaxSpectators = %d", cfg.MaxSpectators)
	}
	if cfg.ReadTimeout != 45*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.MaxTicks != 250 {
		t.Errorf("MaxTicks = %d", cfg.MaxTicks)
	}
	if cfg.Seed != 77 {
		t.Errorf("Seed = %d", cfg.Seed)
	}
	if cfg.CircuitBreakerTimeout != 5*time.Second {
		t.Errorf("CircuitBreakerTimeout = %v", cfg.CircuitBreakerTimeout)
	}
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port number", "TORUS_SERVER_PORT", "not-a-port"},
		{"port out of range", "TORUS_SERVER_PORT", "99999"},
		{"bad timeout", "TORUS_READ_TIMEOUT", "soon"},
		{"zero spectators", "TORUS_MAX_SPECTATORS", "0"},
		{"zero ticks", "TORUS_MAX_TICKS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTorusEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfigFromEnv(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
