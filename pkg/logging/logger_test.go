package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TORUS_LOG_LEVEL", tt.envValue)
			if level := getLogLevelFromEnv(); level != tt.expected {
				t.Errorf("getLogLevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestRoundID(t *testing.T) {
	t.Run("generate", func(t *testing.T) {
		id1 := GenerateRoundID()
		id2 := GenerateRoundID()
		if id1 == "" || id2 == "" {
			t.Error("GenerateRoundID() returned empty string")
		}
		if id1 == id2 {
			t.Error("GenerateRoundID() returned duplicate IDs")
		}
		if len(id1) != 16 { // 8 bytes = 16 hex characters
			t.Errorf("GenerateRoundID() returned wrong length: %d", len(id1))
		}
	})

	t.Run("context round trip", func(t *testing.T) {
		ctx := WithRoundID(context.Background(), "round-7")
		if got := GetRoundID(ctx); got != "round-7" {
			t.Errorf("GetRoundID() = %q, want %q", got, "round-7")
		}
	})

	t.Run("absent", func(t *testing.T) {
		if got := GetRoundID(context.Background()); got != "" {
			t.Errorf("GetRoundID() = %q, want empty", got)
		}
	})

	t.Run("auto-generate", func(t *testing.T) {
		ctx := WithRoundID(context.Background(), "")
		if GetRoundID(ctx) == "" {
			t.Error("WithRoundID with empty ID should auto-generate")
		}
	})
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))}

	ctx := WithRoundID(context.Background(), "round-test-1")

	t.Run("info carries round id", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "round started", "teams", 2)

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to parse log JSON: %v", err)
		}
		if entry["msg"] != "round started" {
			t.Errorf("msg = %v", entry["msg"])
		}
		if entry["round_id"] != "round-test-1" {
			t.Errorf("round_id = %v", entry["round_id"])
		}
		if entry["teams"] != float64(2) {
			t.Errorf("teams = %v", entry["teams"])
		}
	})

	t.Run("error formatting", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "broadcast failed", errors.New("broken pipe"))

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to parse log JSON: %v", err)
		}
		if entry["level"] != "ERROR" {
			t.Errorf("level = %v", entry["level"])
		}
		if entry["error"] != "broken pipe" {
			t.Errorf("error = %v", entry["error"])
		}
	})

	t.Run("no round id attr without one", func(t *testing.T) {
		buf.Reset()
		logger.Info(context.Background(), "plain message")
		if strings.Contains(buf.String(), "round_id") {
			t.Error("log contains round_id without one in context")
		}
	})
}

func TestWrapError(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		if got := WrapError(nil, "context"); got != nil {
			t.Errorf("WrapError(nil) = %v, want nil", got)
		}
	})

	t.Run("wrap preserves original", func(t *testing.T) {
		original := errors.New("original error")
		wrapped := WrapError(original, "loading replay %q", "log_3.json")

		want := `loading replay "log_3.json": original error`
		if wrapped.Error() != want {
			t.Errorf("WrapError() = %q, want %q", wrapped.Error(), want)
		}
		if !errors.Is(wrapped, original) {
			t.Error("WrapError() should preserve the original error")
		}
	})
}

func TestSanitizeAttributes(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		expected string
	}{
		{"password masked", slog.String("password", "hunter2"), "[REDACTED]"},
		{"token masked", slog.String("auth_token", "abc123"), "[REDACTED]"},
		{"session masked", slog.String("session_id", "xyz"), "[REDACTED]"},
		{"uppercase key masked", slog.String("Password", "hunter2"), "[REDACTED]"},
		{"round id untouched", slog.String("round_id", "deadbeef"), "deadbeef"},
		{"spectator name untouched", slog.String("spectator", "alice"), "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeAttributes(nil, tt.attr)
			if result.Value.String() != tt.expected {
				t.Errorf("sanitizeAttributes() = %q, want %q", result.Value.String(), tt.expected)
			}
		})
	}
}
