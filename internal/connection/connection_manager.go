// Package connection tracks live websocket connections and serializes writes
// to each of them.
package connection

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/signify-dev/signify-go-backend/internal/logger"
	"github.com/signify-dev/signify-go-backend/internal/metrics"
)

// Connection wraps one client websocket. Writes go through Send, which
// serializes access (gorilla allows a single concurrent writer).
type Connection struct {
	ID      string
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID: fmt.Sprintf("%s/%s", ws.RemoteAddr(), uuid.NewString()[:8]),
		ws: ws,
	}
}

// Send transmits one text message to the client.
func (c *Connection) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Connection) ReadMessage() (int, []byte, error) {
	return c.ws.ReadMessage()
}

func (c *Connection) Close() error {
	return c.ws.Close()
}

// ConnectionManager is the process-wide registry of open connections.
type ConnectionManager struct {
	connections sync.Map
}

var (
	instance *ConnectionManager
	once     sync.Once
)

func GetConnectionManager() *ConnectionManager {
	once.Do(func() {
		instance = &ConnectionManager{}
	})
	return instance
}

func (cm *ConnectionManager) AddConnection(conn *Connection) {
	cm.connections.Store(conn.ID, conn)
	metrics.ActiveConnections.Inc()
	logger.InfoF("Client %s connected", conn.ID)
}

func (cm *ConnectionManager) RemoveConnection(connID string) {
	if _, ok := cm.connections.LoadAndDelete(connID); ok {
		metrics.ActiveConnections.Dec()
		logger.InfoF("Client %s disconnected", connID)
	}
}

func (cm *ConnectionManager) GetConnection(connID string) (*Connection, bool) {
	if value, ok := cm.connections.Load(connID); ok {
		return value.(*Connection), true
	}
	return nil, false
}

func (cm *ConnectionManager) Count() int {
	count := 0
	cm.connections.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// CloseAll closes every registered connection. Used during shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.connections.Range(func(_, value any) bool {
		conn := value.(*Connection)
		if err := conn.Close(); err != nil {
			logger.WarnF("[%s] Error occured while closing connection, details: %v", conn.ID, err)
		}
		return true
	})
}
