// pkg/network/server.go
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-torusbattle/pkg/config"
	"github.com/opd-ai/go-torusbattle/pkg/game"
	"github.com/opd-ai/go-torusbattle/pkg/logging"
	"github.com/opd-ai/go-torusbattle/pkg/validation"
)

// Spectator is one connected viewer.
type Spectator struct {
	ID        uint64
	Conn      net.Conn
	Name      string
	Connected bool
	LastSeen  time.Time
}

// SpectatorServer accepts viewer connections and broadcasts round
// snapshots to them. Spectators are strictly read-only: the only
// messages they may send after the handshake are pings and a
// disconnect notice.
type SpectatorServer struct {
	listener      net.Listener
	spectators    map[uint64]*Spectator
	spectatorsMu  sync.RWMutex
	nextID        atomic.Uint64
	running       atomic.Bool
	maxSpectators int
	writeTimeout  time.Duration
	validator     *validation.MessageValidator
	logger        *logging.Logger
}

// NewSpectatorServer creates a server sized from environment settings.
func NewSpectatorServer(envConfig *config.EnvironmentConfig, logger *logging.Logger) *SpectatorServer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &SpectatorServer{
		spectators:    make(map[uint64]*Spectator),
		maxSpectators: envConfig.MaxSpectators,
		writeTimeout:  envConfig.WriteTimeout,
		validator:     validation.NewMessageValidator(),
		logger:        logger,
	}
}

// Start begins listening and accepting spectators.
func (s *SpectatorServer) Start(address string) error {
	var err error
	s.listener, err = net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start spectator server: %w", err)
	}

	s.running.Store(true)
	go s.acceptConnections()

	s.logger.Info(context.Background(), "spectator server started", "address", s.Addr())
	return nil
}

// Addr returns the bound listen address, useful when listening on
// port 0.
func (s *SpectatorServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes the listener and every spectator connection.
func (s *SpectatorServer) Stop() {
	s.running.Store(false)

	if s.listener != nil {
		s.listener.Close()
	}

	s.spectatorsMu.Lock()
	for _, spec := range s.spectators {
		spec.Conn.Close()
	}
	s.spectators = make(map[uint64]*Spectator)
	s.spectatorsMu.Unlock()

	s.validator.Close()
	s.logger.Info(context.Background(), "spectator server stopped")
}

func (s *SpectatorServer) acceptConnections() {
	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() {
				s.logger.Error(context.Background(), "error accepting connection", err)
			}
			continue
		}

		s.spectatorsMu.RLock()
		count := len(s.spectators)
		s.spectatorsMu.RUnlock()

		if count >= s.maxSpectators {
			s.logger.Warn(context.Background(), "rejecting spectator, server full",
				"max_spectators", s.maxSpectators)
			conn.Close()
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *SpectatorServer) handleConnection(conn net.Conn) {
	ctx := context.Background()

	msgType, data, err := readMessage(conn)
	if err != nil {
		s.logger.Error(ctx, "error reading hello request", err)
		conn.Close()
		return
	}
	if msgType != HelloRequest {
		s.logger.Warn(ctx, "expected hello request", "got", msgType)
		conn.Close()
		return
	}

	if err := s.validator.ValidateMessage(data, conn.RemoteAddr().String()); err != nil {
		s.logger.Warn(ctx, "rejecting invalid hello", "error", err)
		conn.Close()
		return
	}

	var hello HelloRequestData
	if err := json.Unmarshal(data, &hello); err != nil {
		s.logger.Warn(ctx, "error parsing hello request", "error", err)
		conn.Close()
		return
	}

	name, err := validation.ValidateSpectatorName(hello.Name)
	if err != nil {
		sendMessage(conn, HelloResponse, HelloResponseData{
			Accepted: false,
			Reason:   err.Error(),
		})
		conn.Close()
		return
	}

	spec := &Spectator{
		ID:        s.nextID.Add(1),
		Conn:      conn,
		Name:      name,
		Connected: true,
		LastSeen:  time.Now(),
	}

	s.spectatorsMu.Lock()
	s.spectators[spec.ID] = spec
	s.spectatorsMu.Unlock()

	if err := sendMessage(conn, HelloResponse, HelloResponseData{
		SpectatorID: spec.ID,
		Accepted:    true,
	}); err != nil {
		s.removeSpectator(spec)
		return
	}

	s.logger.Info(ctx, "spectator connected", "spectator", name, "id", spec.ID)
	s.handleSpectatorMessages(spec)
}

// handleSpectatorMessages drains a spectator's inbound stream. Only
// pings and the disconnect notice are legitimate traffic.
func (s *SpectatorServer) handleSpectatorMessages(spec *Spectator) {
	defer s.removeSpectator(spec)

	for spec.Connected && s.running.Load() {
		msgType, data, err := readMessage(spec.Conn)
		if err != nil {
			if err != io.EOF && s.running.Load() {
				s.logger.Debug(context.Background(), "spectator read failed",
					"id", spec.ID, "error", err.Error())
			}
			return
		}
		spec.LastSeen = time.Now()

		switch msgType {
		case PingRequest:
			sendMessage(spec.Conn, PingResponse, json.RawMessage(data))
		case DisconnectNotice:
			return
		default:
			s.logger.Warn(context.Background(), "unexpected spectator message",
				"id", spec.ID, "type", msgType)
			return
		}
	}
}

func (s *SpectatorServer) removeSpectator(spec *Spectator) {
	spec.Connected = false
	spec.Conn.Close()

	s.spectatorsMu.Lock()
	delete(s.spectators, spec.ID)
	s.spectatorsMu.Unlock()

	s.logger.Info(context.Background(), "spectator disconnected", "id", spec.ID)
}

// SpectatorCount returns the number of connected spectators.
func (s *SpectatorServer) SpectatorCount() int {
	s.spectatorsMu.RLock()
	defer s.spectatorsMu.RUnlock()
	return len(s.spectators)
}

// Broadcast sends one snapshot to every spectator. Connections that
// fail to take the write are dropped.
func (s *SpectatorServer) Broadcast(snap *game.Snapshot) {
	s.sendToAll(SnapshotUpdate, snap)
}

// BroadcastRoundEnd announces the round result to every spectator.
func (s *SpectatorServer) BroadcastRoundEnd(ticks uint32, winner string) {
	s.sendToAll(RoundEndNotice, RoundEndData{Ticks: ticks, Winner: winner})
}

func (s *SpectatorServer) sendToAll(msgType MessageType, msg interface{}) {
	s.spectatorsMu.RLock()
	targets := make([]*Spectator, 0, len(s.spectators))
	for _, spec := range s.spectators {
		targets = append(targets, spec)
	}
	s.spectatorsMu.RUnlock()

	for _, spec := range targets {
		spec.Conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		if err := sendMessage(spec.Conn, msgType, msg); err != nil {
			s.logger.Warn(context.Background(), "dropping slow spectator",
				"id", spec.ID, "error", err.Error())
			s.removeSpectator(spec)
		}
	}
}
