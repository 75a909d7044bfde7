package handler

import (
	"net/http"
	"time"

	"facilitydesk/backend/internal/api/middleware"
	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type complaintRequest struct {
	Complain     string         `json:"complain" binding:"required"`
	Date         *time.Time     `json:"date"`
	ComplainBy   string         `json:"complainBy"`
	FloorNo      string         `json:"floorNo"`
	Area         string         `json:"area"`
	Location     string         `json:"location"`
	Locations    string         `json:"locations"`
	ListServices datatypes.JSON `json:"listServices"`
	MaterialReq  string         `json:"materialReq"`
	ActionTaken  string         `json:"actionTaken"`
	AttendedBy   string         `json:"attendedBy"`
	Remarks      string         `json:"remarks"`
	Status       string         `json:"status" binding:"omitempty,complaintstatus"`
	TenantID     *uint          `json:"tenantId"`
}

// complaintUpdateRequest additionally requires date and status.
type complaintUpdateRequest struct {
	complaintRequest
	Date   *time.Time `json:"date" binding:"required"`
	Status string     `json:"status" binding:"required,complaintstatus"`
}

func (r complaintRequest) model() *models.FeedbackComplain {
	c := &models.FeedbackComplain{
		Complain:     r.Complain,
		ComplainBy:   r.ComplainBy,
		FloorNo:      r.FloorNo,
		Area:         r.Area,
		Location:     r.Location,
		Locations:    r.Locations,
		ListServices: r.ListServices,
		MaterialReq:  r.MaterialReq,
		ActionTaken:  r.ActionTaken,
		AttendedBy:   r.AttendedBy,
		Remarks:      r.Remarks,
		Status:       r.Status,
		TenantID:     r.TenantID,
	}
	if r.Date != nil {
		c.Date = *r.Date
	}
	return c
}

// complaintView is a complaint with its tenant and job slips rendered by name.
type complaintView struct {
	models.FeedbackComplain
	TenantName string        `json:"tenantName"`
	JobSlips   []jobSlipView `json:"jobSlips"`
}

// ListComplaints pages through complaints. With ?type=tenants it instead
// returns the id and name of every tenant, for pickers.
func (h *Handler) ListComplaints(c *gin.Context) {
	if c.Query("type") == "tenants" {
		h.listTenantOptions(c)
		return
	}

	page, ok := pageParam(c)
	if !ok {
		return
	}
	items, total, err := h.Storage.ListComplaints(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	paged(c, items, total, page)
}

func (h *Handler) listTenantOptions(c *gin.Context) {
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

	type option struct {
		ID         uint   `json:"id"`
		TenantName string `json:"tenantName"`
	}
	out := make([]option, len(views))
	for i, v := range views {
		out[i] = option{ID: v.ID, TenantName: v.TenantName}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetComplaint(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	complaint, err := h.Storage.GetComplaint(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	slips, err := h.jobSlipViews(c, complaint.JobSlips)
	if err != nil {
		respondError(c, err)
		return
	}
	view := complaintView{FeedbackComplain: *complaint, JobSlips: slips}
	if complaint.Tenant != nil {
		view.TenantName = complaint.Tenant.TenantName
		if uid, ok := userIDOf(complaint.Tenant.TenantName); ok {
			if names, err := h.Storage.UserNames(ctx, []uint{uid}); err == nil && names[uid] != "" {
				view.TenantName = names[uid]
			}
		}
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var req complaintRequest
	if !bindJSON(c, &req) {
		return
	}
	complaint := req.model()
	if err := h.Complaints.CreateComplaint(c.Request.Context(), complaint); err != nil {
		respondError(c, err)
		return
	}
	logger.Log.WithField("complain_no", complaint.ComplainNo).
		WithField("user_id", middleware.UserID(c)).
		Info("complaint created")
	c.JSON(http.StatusCreated, complaint)
}

func (h *Handler) UpdateComplaint(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req complaintUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	req.complaintRequest.Date = req.Date
	req.complaintRequest.Status = req.Status
	complaint := req.model()
	complaint.ID = id

	updated, err := h.Complaints.UpdateComplaint(c.Request.Context(), complaint)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteComplaint also removes the complaint's job slips.
func (h *Handler) DeleteComplaint(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Storage.DeleteComplaint(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
