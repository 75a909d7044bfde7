package handler

import (
	"errors"
	"net/http"
	"strconv"

	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type areaRequest struct {
	Floor        string  `json:"floor" binding:"required"`
	OccupiedArea float64 `json:"occupiedArea"`
	Location     string  `json:"location"`
}

type tenantRequest struct {
	TenantName  flexString    `json:"tenantName" binding:"required"`
	TotalAreaSq float64       `json:"totalAreaSq"`
	Area        []areaRequest `json:"area" binding:"dive"`
}

func (r tenantRequest) model() *models.Tenant {
	t := &models.Tenant{TenantName: string(r.TenantName), TotalAreaSq: r.TotalAreaSq}
	for _, a := range r.Area {
		t.Areas = append(t.Areas, models.Area{Floor: a.Floor, OccupiedArea: a.OccupiedArea, Location: a.Location})
	}
	return t
}

// tenantView renders tenantName as the account's display name.
type tenantView struct {
	models.Tenant
	TenantName   string `json:"tenantName"`
	TenantUserID string `json:"tenantUserId"`
}

func userIDOf(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) tenantViews(c *gin.Context, tenants []models.Tenant) ([]tenantView, error) {
	var ids []uint
	for _, t := range tenants {
		if id, ok := userIDOf(t.TenantName); ok {
			ids = append(ids, id)
		}
	}
	names, err := h.Storage.UserNames(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}

	views := make([]tenantView, len(tenants))
	for i, t := range tenants {
		views[i] = tenantView{Tenant: t, TenantName: t.TenantName, TenantUserID: t.TenantName}
		if id, ok := userIDOf(t.TenantName); ok {
			if name, ok := names[id]; ok {
				views[i].TenantName = name
			}
		}
	}
	return views, nil
}

func (h *Handler) ListTenants(c *gin.Context) {
	tenants, err := h.Storage.ListTenants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.tenantViews(c, tenants)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetTenant answers 404 when either the tenant or its user account is gone.
func (h *Handler) GetTenant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	tenant, err := h.Storage.GetTenant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, ok := userIDOf(tenant.TenantName)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant user not found"})
		return
	}
	user, err := h.Storage.GetUser(c.Request.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant user not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenantView{Tenant: *tenant, TenantName: user.Name, TenantUserID: tenant.TenantName})
}

func (h *Handler) CreateTenant(c *gin.Context) {
	var req tenantRequest
	if !bindJSON(c, &req) {
		return
	}
	tenant := req.model()
	if err := h.Storage.CreateTenant(c.Request.Context(), tenant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

// UpdateTenant replaces the tenant's fields and its whole area list.
func (h *Handler) UpdateTenant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req tenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant := req.model()
	tenant.ID = id
	if err := h.Storage.ReplaceTenant(c.Request.Context(), tenant); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.Storage.GetTenant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteTenant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Storage.DeleteTenant(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
