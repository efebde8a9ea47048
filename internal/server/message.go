package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	// Client → server
	MessageTypeJoin      MessageType = "join"
	MessageTypeLeave     MessageType = "leave"
	MessageTypeAction    MessageType = "action"
	MessageTypeStartHand MessageType = "start_hand"
	MessageTypeNextHand  MessageType = "next_hand"

	// Server → client
	MessageTypeWelcome MessageType = "welcome"
	MessageTypeState   MessageType = "state"
	MessageTypeError   MessageType = "error"
)

// Message is the websocket envelope: a type tag plus a JSON payload.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → server payloads

type JoinData struct {
	Name  string `json:"name"`
	BuyIn int    `json:"buyIn,omitempty"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server → client payloads

type WelcomeData struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
