package hub

import (
	"encoding/json"
	"time"

	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// WebSocketClient implements Client over a gorilla websocket.
type WebSocketClient struct {
	userID uint
	Conn   *websocket.Conn
	Hub    *Manager
	Send   chan models.Notification
}

func NewWebSocketClient(userID uint, conn *websocket.Conn, hub *Manager) *WebSocketClient {
	return &WebSocketClient{
		userID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.Notification, sendBuffer),
	}
}

func (c *WebSocketClient) UserID() uint                            { return c.userID }
func (c *WebSocketClient) SendChannel() chan<- models.Notification { return c.Send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops writePump, which closes the connection and with it readPump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump only keeps the connection alive; the feed is server-to-client.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).WithField("user_id", c.userID).Warn("live client read failed")
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case n, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(n)
			if err != nil {
				logger.Log.WithError(err).Error("encode live notification")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
