package websocket

import (
	"encoding/json"
	"time"

	"quicknotes/internal/domain"
)

type MessageType string

const (
	TypeNoteCreated MessageType = "note_created"
	TypeNoteUpdated MessageType = "note_updated"
	TypeNoteDeleted MessageType = "note_deleted"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type NotePayload struct {
	Note *domain.Note `json:"note"`
}

type NoteDeletedPayload struct {
	NoteID int64 `json:"note_id"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
