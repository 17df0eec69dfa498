// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opd-ai/go-torusbattle/pkg/engine"
	"github.com/opd-ai/go-torusbattle/pkg/validation"
)

// RoundConfig contains the full configuration for a battle round.
type RoundConfig struct {
	Engine   engine.Config `json:"engine"`
	Teams    []TeamConfig  `json:"teams"`
	MaxTicks uint32        `json:"maxTicks"`
	Seed     int64         `json:"seed"`
	LogPath  string        `json:"logPath"`
}

// TeamConfig contains configuration for one team of ships.
type TeamConfig struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Agent string `json:"agent"`
	Ships int    `json:"ships"`
}

// LoadConfig loads a round configuration from a file.
func LoadConfig(path string) (*RoundConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config RoundConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a round configuration to a file.
func SaveConfig(config *RoundConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default round configuration: two teams of
// two ships each, fighting until one side is wiped out or the tick
// limit runs out.
func DefaultConfig() *RoundConfig {
	return &RoundConfig{
		Engine: engine.DefaultConfig(),
		Teams: []TeamConfig{
			{
				Name:  "Crimson",
				Color: "#FF0000",
				Agent: "spinner",
				Ships: 2,
			},
			{
				Name:  "Azure",
				Color: "#0000FF",
				Agent: "hunter",
				Ships: 2,
			},
		},
		MaxTicks: 1000,
		Seed:     1,
		LogPath:  "round.json",
	}
}

// Validate checks a round configuration for values the engine cannot
// accept.
func (c *RoundConfig) Validate() error {
	if len(c.Teams) == 0 {
		return fmt.Errorf("config must define at least one team")
	}
	total := 0
	for i, team := range c.Teams {
		if team.Ships <= 0 {
			return fmt.Errorf("team %q: ships must be positive, got %d", team.Name, team.Ships)
		}
		if team.Name == "" {
			return fmt.Errorf("team %d: name must not be empty", i)
		}
		total += team.Ships
	}
	if total > engine.MaxAgents {
		return fmt.Errorf("total ships %d exceeds maximum %d", total, engine.MaxAgents)
	}
	if c.MaxTicks == 0 {
		return fmt.Errorf("maxTicks must be positive")
	}
	if err := validation.ValidateEngineConfig(c.Engine); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	return nil
}
