// cmd/battle-view/main.go
//
// battle-view watches rounds, either live from a battle-server or from
// a recorded replay log, in a terminal or engo window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-torusbattle/pkg/event"
	"github.com/opd-ai/go-torusbattle/pkg/game"
	"github.com/opd-ai/go-torusbattle/pkg/logging"
	"github.com/opd-ai/go-torusbattle/pkg/network"
	"github.com/opd-ai/go-torusbattle/pkg/render"
	engorender "github.com/opd-ai/go-torusbattle/pkg/render/engo"
)

// snapshotSource is what both live clients and replay players provide.
type snapshotSource interface {
	Snapshots() <-chan *game.Snapshot
}

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	serverAddr := flag.String("server", "", "Address of a battle-server to watch live")
	replayPath := flag.String("replay", "", "Path to a replay log to play back")
	renderMode := flag.String("renderer", "terminal", "Renderer to use: terminal or engo")
	name := flag.String("name", "spectator", "Spectator name sent to the server")
	width := flag.Int("width", 64, "Viewport width")
	height := flag.Int("height", 32, "Viewport height")
	interval := flag.Duration("interval", 50*time.Millisecond, "Replay playback time per tick")
	flag.Parse()

	if (*serverAddr == "") == (*replayPath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -server or -replay is required")
		flag.Usage()
		os.Exit(1)
	}

	viewCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var source snapshotSource
	var roundEnds <-chan network.RoundEndData

	if *serverAddr != "" {
		client := network.NewSpectatorClient(event.NewEventBus())
		if err := client.Connect(viewCtx, *serverAddr, *name); err != nil {
			logger.Error(ctx, "Failed to connect to server", err, "address", *serverAddr)
			os.Exit(1)
		}
		defer client.Disconnect()
		source = client
		roundEnds = client.RoundEnds()
	} else {
		log, err := game.ReadLog(*replayPath)
		if err != nil {
			logger.Error(ctx, "Failed to read replay log", err, "replay_path", *replayPath)
			os.Exit(1)
		}
		player, err := game.NewReplayPlayer(log, *interval)
		if err != nil {
			logger.Error(ctx, "Failed to open replay", err, "replay_path", *replayPath)
			os.Exit(1)
		}
		go player.Play()
		source = player
	}

	switch *renderMode {
	case "engo":
		engorender.Run("Torus Battle", 800, 600, source)
	case "terminal":
		watchTerminal(viewCtx, source, roundEnds, *width, *height)
	default:
		fmt.Fprintf(os.Stderr, "unknown renderer %q\n", *renderMode)
		os.Exit(1)
	}
}

// watchTerminal draws snapshots to stdout until the source dries up or
// the context is cancelled.
func watchTerminal(ctx context.Context, source snapshotSource, roundEnds <-chan network.RoundEndData, width, height int) {
	renderer := render.NewTerminalRenderer(width, height, os.Stdout)
	for {
		select {
		case snap, ok := <-source.Snapshots():
			if !ok {
				return
			}
			renderer.Render(snap)
		case end := <-roundEnds:
			if end.Winner != "" {
				fmt.Fprintf(os.Stdout, "round over after %d ticks, winner: %s\n", end.Ticks, end.Winner)
			} else {
				fmt.Fprintf(os.Stdout, "round over after %d ticks, no survivors\n", end.Ticks)
			}
		case <-ctx.Done():
			return
		}
	}
}
