package handler

import (
	"net/http"
	"strings"
	"time"

	"facilitydesk/backend/internal/api/middleware"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type jobSlipRequest struct {
	ComplainNo    string         `json:"complainNo" binding:"required"`
	ComplaintDesc string         `json:"complaintDesc" binding:"required"`
	Date          *time.Time     `json:"date"`
	ComplainBy    *string        `json:"complainBy"`
	FloorNo       string         `json:"floorNo"`
	Area          string         `json:"area"`
	Location      string         `json:"location"`
	Locations     string         `json:"locations"`
	MaterialReq   string         `json:"materialReq"`
	ActionTaken   string         `json:"actionTaken"`
	AttendedBy    models.IDList  `json:"attendedBy"`
	Department    uint           `json:"department" binding:"required"`
	Remarks       string         `json:"remarks"`
	Picture       models.RefList `json:"picture"`
}

type jobSlipUpdateRequest struct {
	JobID              string         `json:"jobId" binding:"required"`
	ComplainNo         string         `json:"complainNo" binding:"required"`
	MaterialReq        string         `json:"materialReq" binding:"required"`
	ActionTaken        string         `json:"actionTaken" binding:"required"`
	AttendedBy         models.IDList  `json:"attendedBy" binding:"required"`
	Status             string         `json:"status" binding:"required,jobslipstatus"`
	Remarks            string         `json:"remarks"`
	SupervisorApproval bool           `json:"supervisorApproval"`
	ManagementApproval bool           `json:"managementApproval"`
	Picture            models.RefList `json:"picture"`
	CompletedAt        *time.Time     `json:"completed_At"`
}

// jobSlipView renders technicians and department by name.
type jobSlipView struct {
	models.JobSlip
	AttendedBy    string        `json:"attendedBy"`
	AttendedByIDs models.IDList `json:"attendedByIds"`
	Department    string        `json:"department"`
	DepartmentID  uint          `json:"departmentId"`
}

func (h *Handler) jobSlipViews(c *gin.Context, slips []models.JobSlip) ([]jobSlipView, error) {
	ctx := c.Request.Context()
	var userIDs, deptIDs []uint
	for _, s := range slips {
		userIDs = append(userIDs, s.AttendedBy...)
		deptIDs = append(deptIDs, s.DepartmentID)
	}
	users, err := h.Storage.UserNames(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	depts, err := h.Storage.DepartmentNames(ctx, deptIDs)
	if err != nil {
		return nil, err
	}

	views := make([]jobSlipView, len(slips))
	for i, s := range slips {
		var names []string
		for _, id := range s.AttendedBy {
			if name, ok := users[id]; ok {
				names = append(names, name)
			}
		}
		attended := strings.Join(names, ", ")
		if attended == "" {
			attended = "N/A"
		}
		dept := depts[s.DepartmentID]
		if dept == "" {
			dept = "N/A"
		}
		views[i] = jobSlipView{
			JobSlip:       s,
			AttendedBy:    attended,
			AttendedByIDs: s.AttendedBy,
			Department:    dept,
			DepartmentID:  s.DepartmentID,
		}
	}
	return views, nil
}

func parseDate(c *gin.Context, key string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		d, derr := time.Parse(time.DateOnly, raw)
		if derr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp"})
			return nil, false
		}
		t = d
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return &t, true
}

// ListJobSlips supports jobId, complainNo, complainBy and floorNo substring
// filters, an exact status and a dateFrom/dateTo range.
func (h *Handler) ListJobSlips(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	from, ok := parseDate(c, "dateFrom", false)
	if !ok {
		return
	}
	to, ok := parseDate(c, "dateTo", true)
	if !ok {
		return
	}

	filter := storage.JobSlipFilter{
		JobID:      c.Query("jobId"),
		ComplainNo: c.Query("complainNo"),
		ComplainBy: c.Query("complainBy"),
		FloorNo:    c.Query("floorNo"),
		Status:     c.Query("status"),
		DateFrom:   from,
		DateTo:     to,
	}
	items, total, err := h.Storage.ListJobSlips(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	paged(c, items, total, page)
}

func (h *Handler) GetJobSlip(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	slip, err := h.Storage.GetJobSlip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.jobSlipViews(c, []models.JobSlip{*slip})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views[0])
}

// CreateJobSlip files a job slip against a complaint on behalf of the
// authenticated user.
func (h *Handler) CreateJobSlip(c *gin.Context) {
	var req jobSlipRequest
	if !bindJSON(c, &req) {
		return
	}

	in := &models.JobSlip{
		ComplainNo:    req.ComplainNo,
		ComplaintDesc: req.ComplaintDesc,
		ComplainBy:    req.ComplainBy,
		FloorNo:       req.FloorNo,
		Area:          req.Area,
		Location:      req.Location,
		Locations:     req.Locations,
		MaterialReq:   req.MaterialReq,
		ActionTaken:   req.ActionTaken,
		AttendedBy:    req.AttendedBy,
		DepartmentID:  req.Department,
		Remarks:       req.Remarks,
		Picture:       req.Picture,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	slip, err := h.Complaints.CreateJobSlip(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slip)
}

func (h *Handler) UpdateJobSlip(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req jobSlipUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	slip, err := h.Complaints.UpdateJobSlip(c.Request.Context(), &models.JobSlip{
		ID:                 id,
		JobID:              req.JobID,
		ComplainNo:         req.ComplainNo,
		MaterialReq:        req.MaterialReq,
		ActionTaken:        req.ActionTaken,
		AttendedBy:         req.AttendedBy,
		Status:             req.Status,
		Remarks:            req.Remarks,
		SupervisorApproval: req.SupervisorApproval,
		ManagementApproval: req.ManagementApproval,
		Picture:            req.Picture,
		CompletedAt:        req.CompletedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slip)
}

func (h *Handler) DeleteJobSlip(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Storage.DeleteJobSlip(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
