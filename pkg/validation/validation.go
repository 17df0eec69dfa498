// Package validation checks input crossing a trust boundary: spectator
// messages arriving over the network and round configurations loaded
// from disk.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-torusbattle/pkg/engine"
)

// Message and content limits for the spectator protocol.
const (
	MaxMessageSize    = 16 * 1024 // spectator messages are tiny; 16KB is generous
	MaxSpectatorName  = 32
	MaxMessagesPerMin = 60
)

// MessageValidator screens raw spectator messages before they are
// decoded, with per-client rate limiting.
type MessageValidator struct {
	rateLimiter *RateLimiter
}

// NewMessageValidator creates a validator with the default rate limit.
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{
		rateLimiter: NewRateLimiter(MaxMessagesPerMin, time.Minute),
	}
}

// Close releases the validator's rate limiter.
func (v *MessageValidator) Close() {
	if v.rateLimiter != nil {
		v.rateLimiter.Close()
	}
}

// ValidateMessage checks a raw message against size, format and rate
// constraints.
func (v *MessageValidator) ValidateMessage(data []byte, clientID string) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes (max %d)", len(data), MaxMessageSize)
	}
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON format")
	}
	if !v.rateLimiter.Allow(clientID) {
		return fmt.Errorf("rate limit exceeded: max %d messages per minute", MaxMessagesPerMin)
	}
	return nil
}

// ValidateSpectatorName checks and normalizes the name a spectator
// announces on connect.
func ValidateSpectatorName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("spectator name cannot be empty")
	}
	if len(name) > MaxSpectatorName {
		return "", fmt.Errorf("spectator name too long: %d characters (max %d)", len(name), MaxSpectatorName)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("spectator name contains invalid UTF-8")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("spectator name cannot be only whitespace")
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("spectator name contains control characters")
		}
	}
	return trimmed, nil
}

// ValidatePose checks that a pose lies on the unit torus with a finite
// heading. Used for externally supplied spawn positions.
func ValidatePose(pose engine.Pose) error {
	for _, c := range []struct {
		name  string
		value float32
	}{
		{"x", pose.X},
		{"y", pose.Y},
	} {
		if math.IsNaN(float64(c.value)) || c.value < 0 || c.value >= 1 {
			return fmt.Errorf("pose %s out of range [0,1): %g", c.name, c.value)
		}
	}
	h := float64(pose.Heading)
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return fmt.Errorf("pose heading is not finite")
	}
	return nil
}

// ValidateEngineConfig rejects tuning values the simulation cannot run
// with: non-positive radii and velocities, or ranges large enough to
// make swept collision detection meaningless on the unit torus.
func ValidateEngineConfig(cfg engine.Config) error {
	if cfg.ShipHitRadius <= 0 || cfg.ShipHitRadius >= 0.5 {
		return fmt.Errorf("ship hit radius must be in (0, 0.5): %g", cfg.ShipHitRadius)
	}
	if cfg.ShipMaxVelocity <= 0 || cfg.ShipMaxVelocity >= 0.5 {
		return fmt.Errorf("ship max velocity must be in (0, 0.5): %g", cfg.ShipMaxVelocity)
	}
	if cfg.ShotVelocity <= 0 || cfg.ShotVelocity >= 0.5 {
		return fmt.Errorf("shot velocity must be in (0, 0.5): %g", cfg.ShotVelocity)
	}
	if cfg.ShipMaxTurnRate <= 0 || cfg.ShipMaxTurnRate > 180 {
		return fmt.Errorf("turn rate must be in (0, 180]: %g", cfg.ShipMaxTurnRate)
	}
	if cfg.ShotLifetime <= 0 {
		return fmt.Errorf("shot lifetime must be positive: %d", cfg.ShotLifetime)
	}
	return nil
}
