package notify

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"auditgate-backend/shared/config"
	"auditgate-backend/shared/database/models/notification"
	"auditgate-backend/shared/logger"
)

// WebSocketManager keeps one live connection per user for pushing
// notifications as they are created.
type WebSocketManager struct {
	clients    map[string]*websocket.Conn // userID -> connection
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	register   chan *ClientConnection
	unregister chan *ClientConnection
}

// ClientConnection represents a client WebSocket connection
type ClientConnection struct {
	UserID     string
	Connection *websocket.Conn
}

var wsManager *WebSocketManager
var once sync.Once

// GetWebSocketManager returns singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			clients: make(map[string]*websocket.Conn),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")
					if origin == "" || origin == config.GetConfig().FrontendURL {
						return true
					}
					logger.GetLogger().WithField("origin", origin).Warn("websocket connection rejected")
					return false
				},
			},
			register:   make(chan *ClientConnection, 100),
			unregister: make(chan *ClientConnection, 100),
		}
		go wsManager.run()
	})
	return wsManager
}

func (wsm *WebSocketManager) run() {
	for {
		select {
		case client := <-wsm.register:
			wsm.registerClient(client)

		case client := <-wsm.unregister:
			wsm.unregisterClient(client)
		}
	}
}

func (wsm *WebSocketManager) registerClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	// One connection per user
	if existing, exists := wsm.clients[client.UserID]; exists {
		existing.Close()
	}

	wsm.clients[client.UserID] = client.Connection
	logger.GetLogger().WithField("user_id", client.UserID).Info("websocket client connected")
}

func (wsm *WebSocketManager) unregisterClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	if _, exists := wsm.clients[client.UserID]; exists {
		delete(wsm.clients, client.UserID)
		client.Connection.Close()
		logger.GetLogger().WithField("user_id", client.UserID).Info("websocket client disconnected")
	}
}

// SendToUser pushes a message to the user's live connection, if any.
func (wsm *WebSocketManager) SendToUser(userID string, message *notification.WebSocketMessage) error {
	wsm.mutex.RLock()
	conn, exists := wsm.clients[userID]
	wsm.mutex.RUnlock()

	if !exists {
		return fmt.Errorf("user %s not connected", userID)
	}

	if err := conn.WriteJSON(message); err != nil {
		go func() {
			wsm.unregister <- &ClientConnection{UserID: userID, Connection: conn}
		}()
		return err
	}
	return nil
}

// HandleConnection upgrades the HTTP request and keeps the connection
// registered until the client goes away. The caller authenticates the
// user; userID is never taken from the request path.
func (wsm *WebSocketManager) HandleConnection(c *gin.Context, userID string) {
	conn, err := wsm.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.LogError("notify", "HandleConnection", "upgrade", err)
		return
	}

	client := &ClientConnection{UserID: userID, Connection: conn}
	wsm.register <- client

	defer func() {
		wsm.unregister <- client
	}()

	for {
		var message map[string]interface{}
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.GetLogger().WithField("user_id", userID).WithError(err).Warn("websocket read error")
			}
			break
		}

		if msgType, ok := message["type"].(string); ok && msgType == "ping" {
			conn.WriteJSON(gin.H{"type": "pong"})
		}
	}
}

// GetConnectionCount returns number of active connections
func (wsm *WebSocketManager) GetConnectionCount() int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients)
}
