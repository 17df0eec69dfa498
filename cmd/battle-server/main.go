// cmd/battle-server/main.go
//
// battle-server plays rounds continuously and broadcasts live
// snapshots to connected spectators.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/opd-ai/go-torusbattle/pkg/config"
	"github.com/opd-ai/go-torusbattle/pkg/event"
	"github.com/opd-ai/go-torusbattle/pkg/game"
	"github.com/opd-ai/go-torusbattle/pkg/logging"
	"github.com/opd-ai/go-torusbattle/pkg/network"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "round.json", "Path to round configuration file")
	addr := flag.String("addr", "", "Listen address (overrides environment)")
	interval := flag.Duration("interval", 50*time.Millisecond, "Wall-clock time per tick")
	once := flag.Bool("once", false, "Play a single round and exit")
	flag.Parse()

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}
	if *addr == "" {
		*addr = envConfig.Addr()
	}

	var roundConfig *config.RoundConfig
	if _, statErr := os.Stat(*configPath); os.IsNotExist(statErr) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		roundConfig = config.DefaultConfig()
	} else {
		roundConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	server := network.NewSpectatorServer(envConfig, logger)
	if err := server.Start(*addr); err != nil {
		logger.Error(ctx, "Failed to start spectator server", err, "address", *addr)
		os.Exit(1)
	}
	defer server.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info(ctx, "Shutting down")
		cancel()
	}()

	bus := event.NewEventBus()
	seed := roundConfig.Seed

	for roundNum := 0; runCtx.Err() == nil; roundNum++ {
		roundConfig.Seed = seed
		seed++

		roundCtx := logging.WithRoundID(runCtx, "")
		if err := playRound(roundCtx, logger, roundConfig, bus, server, *interval, roundNum); err != nil {
			if runCtx.Err() != nil {
				return
			}
			logger.Error(roundCtx, "Round failed", err)
			os.Exit(1)
		}
		if *once {
			return
		}
	}
}

func playRound(
	ctx context.Context,
	logger *logging.Logger,
	roundConfig *config.RoundConfig,
	bus *event.Bus,
	server *network.SpectatorServer,
	interval time.Duration,
	roundNum int,
) error {
	round, err := game.NewRound(roundConfig, bus, logger)
	if err != nil {
		return err
	}
	defer round.Close()

	log, err := round.RunObserved(ctx, interval, server.Broadcast)
	if err != nil {
		return err
	}

	server.BroadcastRoundEnd(log.Ticks, round.Winner())

	if roundConfig.LogPath != "" {
		path := numberedLogPath(roundConfig.LogPath, roundNum)
		if err := log.WriteFile(path); err != nil {
			logger.Warn(ctx, "Failed to write replay log",
				"log_path", path,
				"error", err.Error(),
			)
		}
	}
	return nil
}

// numberedLogPath turns "round.json" into "round-log_3.json" so
// successive rounds do not overwrite each other.
func numberedLogPath(base string, roundNum int) string {
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-log_%d%s", strings.TrimSuffix(base, ext), roundNum, ext)
}
