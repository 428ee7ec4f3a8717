package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Manager keeps the set of open note-stream connections and fans note
// change events out to them. The stream is outbound-only.
type Manager struct {
	clients      map[string]*Client
	clientsMutex sync.RWMutex
	Register     chan *Client
	Unregister   chan *Client
	writeWait    time.Duration
	pongWait     time.Duration
	pingPeriod   time.Duration
}

func NewManager(writeWait, pongWait, pingPeriod time.Duration) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		writeWait:  writeWait,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	m.clients[client.ID] = client
	log.Printf("websocket client registered: %s (user: %s)", client.ID, client.UserID)
}

func (m *Manager) unregisterClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.Send)
		log.Printf("websocket client unregistered: %s", client.ID)
	}
}

// Broadcast sends message to every connected client. A client whose send
// buffer is full gets disconnected instead of stalling the rest.
func (m *Manager) Broadcast(message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	for id, client := range m.clients {
		select {
		case client.Send <- messageBytes:
		default:
			log.Printf("client %s send buffer full, closing connection", id)
			// hand off to Run; unregistering needs the write lock we are
			// reading under
			go func(c *Client) { m.Unregister <- c }(client)
		}
	}

	return nil
}

func (m *Manager) ConnectionCount() int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	return len(m.clients)
}
