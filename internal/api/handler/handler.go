// Package handler serves the JSON API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"facilitydesk/backend/internal/complaint"
	"facilitydesk/backend/internal/hub"
	"facilitydesk/backend/internal/janitorial"
	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handler carries the dependencies of every route.
type Handler struct {
	Storage    storage.Storage
	Complaints *complaint.Service
	Janitorial *janitorial.Service
	Hub        *hub.Manager // nil disables /ws/notifications
}

func NewHandler(s storage.Storage, cs *complaint.Service, js *janitorial.Service, h *hub.Manager) *Handler {
	return &Handler{
		Storage:    s,
		Complaints: cs,
		Janitorial: js,
		Hub:        h,
	}
}

// pageResponse is the envelope of every list endpoint.
type pageResponse struct {
	Data     any   `json:"data"`
	NextPage *int  `json:"nextPage"`
	Total    int64 `json:"total"`
}

func paged(c *gin.Context, data any, total int64, page storage.Page) {
	resp := pageResponse{Data: data, Total: total}
	if page.HasNext(total) {
		next := page.Number + 1
		resp.NextPage = &next
	}
	c.JSON(http.StatusOK, resp)
}

// pageParam reads ?page=, defaulting to the first page.
func pageParam(c *gin.Context) (storage.Page, bool) {
	raw := c.DefaultQuery("page", "1")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
		return storage.Page{}, false
	}
	return storage.Page{Number: n}, true
}

// idParam reads the :id path segment.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationErrors(verrs)})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// respondError maps domain and storage errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *complaint.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, janitorial.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrDependencyNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, storage.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "identifier already in use, retry the request"})
	default:
		_ = c.Error(err)
		logger.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
