// Package protocol is the EventBridge wire format: JSON text messages routed
// by their "type" field. Inbound messages are validated against embedded JSON
// schemas and decoded into engine commands; outbound engine events and scene
// snapshots are encoded for connected clients.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types.
const (
	TypeUpdateData  = "update_data"
	TypeSpawnFruit  = "spawn_fruit"
	TypeSpawnBanana = "spawn_banana"
	TypeClear       = "clear"
	TypeResize      = "resize"

	TypeConnected = "connected"
	TypeEaten     = "eaten"
	TypeScene     = "scene"
)

var (
	// ErrUnknownType is returned for a message whose type is not inbound.
	ErrUnknownType = errors.New("protocol: unknown message type")
	// ErrInvalid wraps schema validation failures.
	ErrInvalid = errors.New("protocol: invalid message")
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

// DecodeBase reads only the type of a message.
func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("protocol: decode: %w", err)
	}
	return m, nil
}
