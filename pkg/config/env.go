// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig carries deployment settings read from the process
// environment. File-based RoundConfig describes a single round; this
// describes the process hosting it.
type EnvironmentConfig struct {
	ServerAddr    string
	ServerPort    int
	MaxSpectators int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxTicks      uint32
	Seed          int64

	// Circuit breaker settings for the spectator client.
	CircuitBreakerMaxRequests         uint32
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails uint32
}

// LoadConfigFromEnv builds an EnvironmentConfig from TORUS_* variables,
// falling back to defaults for anything unset.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	cfg := &EnvironmentConfig{
		ServerAddr:                        getEnvString("TORUS_SERVER_ADDR", "localhost"),
		MaxTicks:                          1000,
		Seed:                              1,
		CircuitBreakerMaxRequests:         3,
		CircuitBreakerMaxConsecutiveFails: 5,
	}

	var err error
	if cfg.ServerPort, err = getEnvInt("TORUS_SERVER_PORT", 4711); err != nil {
		return nil, err
	}
	if cfg.MaxSpectators, err = getEnvInt("TORUS_MAX_SPECTATORS", 32); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = getEnvDuration("TORUS_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getEnvDuration("TORUS_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	maxTicks, err := getEnvInt("TORUS_MAX_TICKS", 1000)
	if err != nil {
		return nil, err
	}
	cfg.MaxTicks = uint32(maxTicks)
	seed, err := getEnvInt("TORUS_SEED", 1)
	if err != nil {
		return nil, err
	}
	cfg.Seed = int64(seed)
	if cfg.CircuitBreakerInterval, err = getEnvDuration("TORUS_CB_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerTimeout, err = getEnvDuration("TORUS_CB_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks environment settings that would break the server or
// client at startup.
func (c *EnvironmentConfig) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("server port must be in 1..65535, got %d", c.ServerPort)
	}
	if c.MaxSpectators < 1 {
		return fmt.Errorf("max spectators must be positive, got %d", c.MaxSpectators)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxTicks == 0 {
		return fmt.Errorf("max ticks must be positive")
	}
	return nil
}

// Addr returns the host:port string for the spectator listener.
func (c *EnvironmentConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerAddr, c.ServerPort)
}

func getEnvString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return parsed, nil
}
