package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeUndo      MessageType = "undo"
	MessageTypeResign    MessageType = "resign"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MovePayload is the body of an inbound move message.
type MovePayload = model.SimpleMove

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage encodes payload into a message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
