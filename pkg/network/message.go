// pkg/network/message.go
package network

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
)

// MessageType defines the type of a spectator protocol message.
type MessageType byte

const (
	HelloRequest MessageType = iota
	HelloResponse
	SnapshotUpdate
	RoundEndNotice
	PingRequest
	PingResponse
	DisconnectNotice
)

// HelloRequestData is sent by a spectator immediately after connecting.
type HelloRequestData struct {
	Name string `json:"name"`
}

// HelloResponseData acknowledges a spectator and assigns its ID.
type HelloResponseData struct {
	SpectatorID uint64 `json:"spectatorId"`
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
}

// RoundEndData announces the outcome when a round finishes.
type RoundEndData struct {
	Ticks  uint32 `json:"ticks"`
	Winner string `json:"winner"`
}

// maxFrameSize bounds a frame payload; the length prefix is 16 bits.
const maxFrameSize = 65535

// readMessage reads one framed message: a type byte, a big-endian
// uint16 payload length, then the JSON payload.
func readMessage(r io.Reader) (MessageType, []byte, error) {
	var msgType MessageType
	if err := binary.Read(r, binary.BigEndian, &msgType); err != nil {
		return 0, nil, err
	}

	var msgLen uint16
	if err := binary.Read(r, binary.BigEndian, &msgLen); err != nil {
		return 0, nil, err
	}

	data := make([]byte, msgLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return 0, nil, err
	}

	return msgType, data, nil
}

// sendMessage writes one framed message.
func sendMessage(w io.Writer, msgType MessageType, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if len(data) > maxFrameSize {
		return errors.New("message too large")
	}

	if err := binary.Write(w, binary.BigEndian, msgType); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(data))); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return nil
}
