package handler

import (
	"net/http"

	"facilitydesk/backend/internal/api/middleware"
	"facilitydesk/backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. Everything under /api and the websocket
// require a token signed with secret.
func NewRouter(h *Handler, secret []byte) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Middleware())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api", middleware.Auth(secret, false))
	{
		api.GET("/me", h.Me)

		api.GET("/tenants", h.ListTenants)
		api.POST("/tenants", h.CreateTenant)
		api.GET("/tenants/:id", h.GetTenant)
		api.PUT("/tenants/:id", h.UpdateTenant)
		api.DELETE("/tenants/:id", h.DeleteTenant)

		api.GET("/feedbackcomplain", h.ListComplaints)
		api.POST("/feedbackcomplain", h.CreateComplaint)
		api.GET("/feedbackcomplain/:id", h.GetComplaint)
		api.PUT("/feedbackcomplain/:id", h.UpdateComplaint)
		api.DELETE("/feedbackcomplain/:id", h.DeleteComplaint)

		api.GET("/job-slip", h.ListJobSlips)
		api.POST("/job-slip", h.CreateJobSlip)
		api.GET("/job-slip/:id", h.GetJobSlip)
		api.PUT("/job-slip/:id", h.UpdateJobSlip)
		api.DELETE("/job-slip/:id", h.DeleteJobSlip)

		api.GET("/janitorial-report", h.ListReports)
		api.POST("/janitorial-report", h.CreateReport)
		api.GET("/janitorial-report/:id", h.GetReport)
		api.PUT("/janitorial-report/:id", h.UpdateReport)
		api.DELETE("/janitorial-report/:id", h.DeleteReport)

		api.GET("/notifications", h.ListNotifications)
		api.PUT("/notifications/:id/read", h.MarkNotificationRead)
	}

	r.GET("/ws/notifications", middleware.Auth(secret, true), h.ServeWebSocket)

	return r
}
