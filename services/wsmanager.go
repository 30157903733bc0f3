package services

import (
	"encoding/json"
	"sync"

	"socialbook/logger"
	"socialbook/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSConnManager хранит открытые websocket-соединения по username
type WSConnManager struct {
	mu    sync.Mutex
	users map[string][]*websocket.Conn
}

func NewWSConnManager() *WSConnManager {
	return &WSConnManager{
		users: make(map[string][]*websocket.Conn),
	}
}

func (m *WSConnManager) Add(username string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = append(m.users[username], conn)
}

func (m *WSConnManager) Remove(username string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conns := m.users[username]
	for i, c := range conns {
		if c == conn {
			m.users[username] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(m.users[username]) == 0 {
		delete(m.users, username)
	}
}

func (m *WSConnManager) Connected(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users[username])
}

// Send writes under the manager lock: gorilla connections allow one writer at a time.
func (m *WSConnManager) Send(username string, message []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conn := range m.users[username] {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Debug("websocket write failed", zap.String("username", username), zap.Error(err))
		}
	}
}

// Push is the EventHandler that forwards notification events to the recipient's sockets.
func (m *WSConnManager) Push(event models.NotificationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn("failed to marshal notification event", zap.Error(err))
		return
	}
	m.Send(event.Notification.ToUser, data)
}
