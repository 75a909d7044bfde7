package handler

import (
	"net/http"

	"facilitydesk/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Me returns the account the bearer token was issued for.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Storage.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
