// pkg/network/client.go
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/opd-ai/go-torusbattle/pkg/config"
	"github.com/opd-ai/go-torusbattle/pkg/event"
	"github.com/opd-ai/go-torusbattle/pkg/game"
	"github.com/opd-ai/go-torusbattle/pkg/logging"
)

// Client-side event types published on the bus.
const (
	ClientDisconnected event.Type = "client_disconnected"
	ClientConnected    event.Type = "client_connected"
)

// SpectatorClient connects to a spectator server and delivers the
// snapshot stream over a channel. Dialing goes through the circuit
// breaker, so repeated connection failures fail fast instead of
// hammering the server.
type SpectatorClient struct {
	conn          net.Conn
	spectatorID   uint64
	serverAddress string
	connected     bool
	mu            sync.Mutex

	snapshots chan *game.Snapshot
	roundEnds chan RoundEndData
	eventBus  *event.Bus
	service   *NetworkService
	logger    *logging.Logger

	connectionTimeout time.Duration
	readTimeout       time.Duration
	writeTimeout      time.Duration
}

// NewSpectatorClient creates a client with timeouts and breaker limits
// taken from the environment.
func NewSpectatorClient(eventBus *event.Bus) *SpectatorClient {
	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		envConfig = &config.EnvironmentConfig{
			ReadTimeout:                       30 * time.Second,
			WriteTimeout:                      30 * time.Second,
			CircuitBreakerMaxRequests:         3,
			CircuitBreakerInterval:            60 * time.Second,
			CircuitBreakerTimeout:             30 * time.Second,
			CircuitBreakerMaxConsecutiveFails: 5,
		}
	}

	return &SpectatorClient{
		snapshots:         make(chan *game.Snapshot, 16),
		roundEnds:         make(chan RoundEndData, 1),
		eventBus:          eventBus,
		service:           NewNetworkService(envConfig),
		logger:            logging.NewLogger(),
		connectionTimeout: 10 * time.Second,
		readTimeout:       envConfig.ReadTimeout,
		writeTimeout:      envConfig.WriteTimeout,
	}
}

// Connect dials the server, announces the spectator name and starts
// the receive loop.
func (c *SpectatorClient) Connect(ctx context.Context, address, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.serverAddress = address

	err := c.service.ExecuteWithRetry(ctx, func() error {
		return c.dial(ctx, address)
	})
	if err != nil {
		return err
	}

	if err := c.handshake(name); err != nil {
		c.conn.Close()
		c.conn = nil
		return err
	}

	c.connected = true
	go c.messageLoop()

	if c.eventBus != nil {
		c.eventBus.Publish(&event.BaseEvent{EventType: ClientConnected, Source: c})
	}
	return nil
}

func (c *SpectatorClient) dial(ctx context.Context, address string) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.connectionTimeout)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	c.conn = conn
	return nil
}

func (c *SpectatorClient) handshake(name string) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := sendMessage(c.conn, HelloRequest, HelloRequestData{Name: name}); err != nil {
		return fmt.Errorf("failed to send hello: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	msgType, data, err := readMessage(c.conn)
	if err != nil {
		return fmt.Errorf("failed to read hello response: %w", err)
	}
	if msgType != HelloResponse {
		return fmt.Errorf("expected hello response, got %d", msgType)
	}

	var resp HelloResponseData
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to parse hello response: %w", err)
	}
	if !resp.Accepted {
		return fmt.Errorf("server rejected spectator: %s", resp.Reason)
	}

	c.spectatorID = resp.SpectatorID
	return nil
}

// Snapshots returns the stream of world snapshots. Slow consumers lose
// frames rather than stalling the receive loop.
func (c *SpectatorClient) Snapshots() <-chan *game.Snapshot {
	return c.snapshots
}

// RoundEnds returns the channel announcing the round result.
func (c *SpectatorClient) RoundEnds() <-chan RoundEndData {
	return c.roundEnds
}

func (c *SpectatorClient) messageLoop() {
	for {
		c.mu.Lock()
		conn := c.conn
		running := c.connected
		c.mu.Unlock()
		if !running || conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		msgType, data, err := readMessage(conn)
		if err != nil {
			c.handleDisconnect(err)
			return
		}

		switch msgType {
		case SnapshotUpdate:
			c.handleSnapshot(data)
		case RoundEndNotice:
			c.handleRoundEnd(data)
		case PingResponse:
			// Latency measurement hook; nothing to do yet.
		default:
			c.logger.Warn(context.Background(), "unexpected server message", "type", msgType)
		}
	}
}

func (c *SpectatorClient) handleSnapshot(data []byte) {
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn(context.Background(), "dropping malformed snapshot", "error", err.Error())
		return
	}

	select {
	case c.snapshots <- &snap:
	default:
		// Consumer is behind; drop the frame.
	}
}

func (c *SpectatorClient) handleRoundEnd(data []byte) {
	var end RoundEndData
	if err := json.Unmarshal(data, &end); err != nil {
		c.logger.Warn(context.Background(), "dropping malformed round end", "error", err.Error())
		return
	}

	select {
	case c.roundEnds <- end:
	default:
	}
}

func (c *SpectatorClient) handleDisconnect(err error) {
	c.mu.Lock()
	wasConnected := c.connected
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	if !wasConnected {
		return
	}

	if err != io.EOF {
		c.logger.Warn(context.Background(), "connection lost", "error", err.Error())
	}
	close(c.snapshots)

	if c.eventBus != nil {
		c.eventBus.Publish(&event.BaseEvent{EventType: ClientDisconnected, Source: c})
	}
}

// Disconnect tells the server goodbye and closes the connection.
func (c *SpectatorClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.conn == nil {
		return nil
	}
	c.connected = false

	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	sendMessage(c.conn, DisconnectNotice, struct{}{})

	err := c.conn.Close()
	c.conn = nil
	return err
}

// Connected reports whether the client currently has a live connection.
func (c *SpectatorClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
