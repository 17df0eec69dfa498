// cmd/battle-run/main.go
//
// battle-run plays a single round headless and writes the replay log
// as JSON, to stdout by default.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/opd-ai/go-torusbattle/pkg/config"
	"github.com/opd-ai/go-torusbattle/pkg/event"
	"github.com/opd-ai/go-torusbattle/pkg/game"
	"github.com/opd-ai/go-torusbattle/pkg/logging"
	"github.com/opd-ai/go-torusbattle/pkg/render"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithRoundID(context.Background(), "")

	configPath := flag.String("config", "round.json", "Path to round configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file and exit")
	seed := flag.Int64("seed", 0, "Seed override for deterministic rounds (0 keeps the config value)")
	maxTicks := flag.Uint("max_ticks", 0, "Tick limit override (0 keeps the config value)")
	output := flag.String("o", "", "Write the replay log to FILE instead of stdout")
	watch := flag.Bool("watch", false, "Render the round live as ASCII while it runs")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	roundConfig := loadRoundConfig(ctx, logger, *configPath)
	if *seed != 0 {
		roundConfig.Seed = *seed
	}
	if *maxTicks != 0 {
		roundConfig.MaxTicks = uint32(*maxTicks)
	}

	bus := event.NewEventBus()
	bus.Subscribe(event.ShipDestroyed, func(e event.Event) {
		ship := e.(*event.ShipEvent)
		logger.Info(ctx, "ship destroyed", "agent_id", ship.AgentID, "team", ship.Team)
	})

	round, err := game.NewRound(roundConfig, bus, logger)
	if err != nil {
		logger.Error(ctx, "Failed to set up round", err)
		os.Exit(1)
	}
	defer round.Close()

	var log *game.Log
	if *watch {
		terminal := render.NewTerminalRenderer(64, 32, os.Stderr)
		log, err = round.RunObserved(ctx, 50*time.Millisecond, terminal.Render)
	} else {
		log, err = round.Run(ctx)
	}
	if err != nil {
		logger.Error(ctx, "Round failed", err)
		os.Exit(1)
	}

	if *output == "" {
		if err := json.NewEncoder(os.Stdout).Encode(log); err != nil {
			logger.Error(ctx, "Failed to write replay log", err)
			os.Exit(1)
		}
		return
	}
	if err := log.WriteFile(*output); err != nil {
		logger.Error(ctx, "Failed to write replay log", err, "path", *output)
		os.Exit(1)
	}
	logger.Info(ctx, "Replay log written", "path", *output)
}

func loadRoundConfig(ctx context.Context, logger *logging.Logger, path string) *config.RoundConfig {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		return config.DefaultConfig()
	}

	roundConfig, err := config.LoadConfig(path)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", path,
		)
		os.Exit(1)
	}
	return roundConfig
}
