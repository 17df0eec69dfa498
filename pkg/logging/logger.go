// Package logging provides structured logging for the torus-battle
// tooling. It wraps Go's standard slog package with round-ID propagation
// through context and environment-driven level selection, so every log
// line emitted while a match runs can be traced back to its round.
//
// The simulation core itself never logs: it has to stay allocation-free.
// This package serves the round runner, the network layer, and the
// command-line tools around it.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with round-ID aware helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with JSON output on stdout. The level is
// controlled by the TORUS_LOG_LEVEL environment variable (DEBUG, INFO,
// WARN, ERROR; default INFO).
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout)
}

// NewLoggerTo creates a Logger writing to w, for tests and tools that
// redirect output.
func NewLoggerTo(w io.Writer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       getLogLevelFromEnv(),
		ReplaceAttr: sanitizeAttributes,
	})
	return &Logger{slog.New(handler)}
}

// LogWithContext logs a message, attaching the round ID if the context
// carries one.
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if roundID := GetRoundID(ctx); roundID != "" {
		args = append(args, "round_id", roundID)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs an informational message with context.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with context.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message with context and proper error formatting.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs a debug message with context.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

// roundIDKey is the context key for round IDs.
type roundIDKey struct{}

// WithRoundID tags the context with a round ID. If roundID is empty a
// new random one is generated.
func WithRoundID(ctx context.Context, roundID string) context.Context {
	if roundID == "" {
		roundID = GenerateRoundID()
	}
	return context.WithValue(ctx, roundIDKey{}, roundID)
}

// GetRoundID extracts the round ID from the context, or "" if absent.
func GetRoundID(ctx context.Context) string {
	if id, ok := ctx.Value(roundIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateRoundID creates a new random round ID.
func GenerateRoundID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// sanitizeAttributes masks attribute values whose keys look like
// credentials, so spectator handshakes and config dumps cannot leak
// secrets into logs.
func sanitizeAttributes(groups []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"token", "auth", "authorization",
		"secret", "private",
		"cookie", "session",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(key, sensitive) {
			return slog.Attr{
				Key:   a.Key,
				Value: slog.StringValue("[REDACTED]"),
			}
		}
	}

	return a
}

// getLogLevelFromEnv determines the log level from the environment.
func getLogLevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("TORUS_LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WrapError wraps an error with additional context information,
// preserving the original error for errors.Is/As.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
