package handler

import (
	"net/http"

	"facilitydesk/backend/internal/api/middleware"
	"facilitydesk/backend/internal/hub"
	"facilitydesk/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Any origin; the bearer token, not a cookie, authenticates the socket.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket streams the caller's new notifications as JSON frames.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live notifications are disabled"})
		return
	}
	userID := middleware.UserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already answered the client.
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := hub.NewWebSocketClient(userID, conn, h.Hub)
	if err := h.Hub.Register(client); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}
	client.Run()
}
