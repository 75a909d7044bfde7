package handler

import (
	"net/http"

	"facilitydesk/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// ListNotifications pages through the caller's notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	items, total, err := h.Storage.ListNotifications(c.Request.Context(), middleware.UserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	paged(c, items, total, page)
}

// MarkNotificationRead answers 404 for notifications of other users.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Storage.MarkNotificationRead(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
