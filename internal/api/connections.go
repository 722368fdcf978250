package api

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// ConnectionRegistry tracks open chat sockets per user so shutdown can close
// them and the health endpoint can count them.
type ConnectionRegistry struct {
	mu     sync.RWMutex
	active map[string]map[string]*websocket.Conn
}

// NewConnectionRegistry creates an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		active: make(map[string]map[string]*websocket.Conn),
	}
}

// Register adds a connection.
func (m *ConnectionRegistry) Register(userID, connID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[userID]; !exists {
		m.active[userID] = make(map[string]*websocket.Conn)
	}
	m.active[userID][connID] = conn
	slog.Debug("Chat socket registered", "user_id", userID, "conn_id", connID)
}

// Unregister removes a connection if it is still the registered one.
func (m *ConnectionRegistry) Unregister(userID, connID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if conns, ok := m.active[userID]; ok {
		if current, exists := conns[connID]; exists && current == conn {
			delete(conns, connID)
			if len(conns) == 0 {
				delete(m.active, userID)
			}
			slog.Debug("Chat socket unregistered", "user_id", userID, "conn_id", connID)
		}
	}
}

// Count returns the number of open connections.
func (m *ConnectionRegistry) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, conns := range m.active {
		n += len(conns)
	}
	return n
}

// CloseAll closes every connection with StatusGoingAway.
func (m *ConnectionRegistry) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, conns := range m.active {
		for connID, conn := range conns {
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
			slog.Info("Chat socket closed", "user_id", userID, "conn_id", connID)
		}
	}
	m.active = make(map[string]map[string]*websocket.Conn)
}
