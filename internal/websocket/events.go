package websocket

import (
	"log"

	"quicknotes/internal/domain"
)

// NoteEvents adapts the manager to the note service's event sink, letting
// other open sessions refresh their lists when a note changes.
type NoteEvents struct {
	manager *Manager
}

func NewNoteEvents(manager *Manager) *NoteEvents {
	return &NoteEvents{manager: manager}
}

func (e *NoteEvents) NoteCreated(note *domain.Note) {
	e.broadcast(TypeNoteCreated, NotePayload{Note: note})
}

func (e *NoteEvents) NoteUpdated(note *domain.Note) {
	e.broadcast(TypeNoteUpdated, NotePayload{Note: note})
}

func (e *NoteEvents) NoteDeleted(id int64) {
	e.broadcast(TypeNoteDeleted, NoteDeletedPayload{NoteID: id})
}

func (e *NoteEvents) broadcast(msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("failed to build %s event: %v", msgType, err)
		return
	}
	if err := e.manager.Broadcast(msg); err != nil {
		log.Printf("failed to broadcast %s event: %v", msgType, err)
	}
}
