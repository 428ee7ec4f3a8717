package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"quicknotes/internal/domain"
)

func testManager() *Manager {
	return NewManager(10*time.Second, 60*time.Second, 54*time.Second)
}

// registered builds a client with no underlying connection and registers it
// through the Run loop. Broadcast only touches the Send channel, so the nil
// Conn is never dereferenced here.
func registered(t *testing.T, m *Manager, id string) *Client {
	t.Helper()
	client := NewClient(id, "user-"+id, nil, m)
	m.Register <- client

	deadline := time.After(time.Second)
	for m.ConnectionCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("client never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	return client
}

func TestBroadcastReachesAllClients(t *testing.T) {
	m := testManager()
	go m.Run()

	first := registered(t, m, "c1")
	second := NewClient("c2", "user-c2", nil, m)
	m.Register <- second
	for m.ConnectionCount() < 2 {
		time.Sleep(time.Millisecond)
	}

	msg, err := NewMessage(TypeNoteCreated, NotePayload{Note: &domain.Note{ID: 1, Content: "hello"}})
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	if err := m.Broadcast(msg); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	for _, client := range []*Client{first, second} {
		select {
		case raw := <-client.Send:
			var got Message
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("broadcast frame is not JSON: %v", err)
			}
			if got.Type != TypeNoteCreated {
				t.Errorf("message type = %q, want %q", got.Type, TypeNoteCreated)
			}

			var payload NotePayload
			if err := got.UnmarshalPayload(&payload); err != nil {
				t.Fatalf("UnmarshalPayload() error = %v", err)
			}
			if payload.Note == nil || payload.Note.ID != 1 {
				t.Errorf("payload = %+v, want note 1", payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %s never received the broadcast", client.ID)
		}
	}
}

func TestSlowClientIsDisconnected(t *testing.T) {
	m := testManager()
	go m.Run()

	slow := registered(t, m, "slow")

	msg, err := NewMessage(TypeNoteDeleted, NoteDeletedPayload{NoteID: 9})
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}

	// nobody drains slow.Send; overflowing the buffer must evict the client
	// rather than block the broadcaster
	for i := 0; i < cap(slow.Send)+1; i++ {
		if err := m.Broadcast(msg); err != nil {
			t.Fatalf("Broadcast() error = %v", err)
		}
	}

	deadline := time.After(2 * time.Second)
	for m.ConnectionCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("slow client was never unregistered")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	m := testManager()
	go m.Run()

	client := registered(t, m, "c1")
	m.Unregister <- client

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Error("Send delivered a value instead of closing")
		}
	case <-time.After(time.Second):
		t.Fatal("Send channel never closed")
	}

	if m.ConnectionCount() != 0 {
		t.Errorf("ConnectionCount() = %d, want 0", m.ConnectionCount())
	}
}
