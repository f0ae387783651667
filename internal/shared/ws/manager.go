package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Manager keeps track of connected clients keyed by an opaque id
// (driver id or admin session id) and pushes JSON messages to them.
type Manager struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*websocket.Conn),
	}
}

func (m *Manager) Register(id string, conn *websocket.Conn) {
	m.mu.Lock()
	m.clients[id] = conn
	m.mu.Unlock()
}

func (m *Manager) Unregister(id string) {
	m.mu.Lock()
	delete(m.clients, id)
	m.mu.Unlock()
}

// SendTo writes to one client. A disconnected client is not an error;
// a dead connection is removed from the map.
func (m *Manager) SendTo(id string, message interface{}) error {
	m.mu.RLock()
	conn, ok := m.clients[id]
	m.mu.RUnlock()

	if !ok {
		return nil
	}

	if err := conn.WriteJSON(message); err != nil {
		m.mu.Lock()
		delete(m.clients, id)
		m.mu.Unlock()
		return err
	}
	return nil
}

// Broadcast writes to every connected client, dropping dead connections.
func (m *Manager) Broadcast(message interface{}) {
	m.mu.RLock()
	conns := make(map[string]*websocket.Conn, len(m.clients))
	for id, conn := range m.clients {
		conns[id] = conn
	}
	m.mu.RUnlock()

	for id, conn := range conns {
		if err := conn.WriteJSON(message); err != nil {
			m.mu.Lock()
			delete(m.clients, id)
			m.mu.Unlock()
		}
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
