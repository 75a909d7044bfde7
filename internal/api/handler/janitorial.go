package handler

import (
	"net/http"
	"time"

	"facilitydesk/backend/internal/api/middleware"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type subReportRequest struct {
	ID        uint   `json:"id"`
	FloorNo   string `json:"floorNo" binding:"required"`
	Toilet    string `json:"toilet"`
	Lobby     string `json:"lobby"`
	Staircase string `json:"staircase"`
}

type reportRequest struct {
	Date          *time.Time         `json:"date" binding:"required"`
	Supervisor    flexString         `json:"supervisor" binding:"required"`
	Tenant        flexString         `json:"tenant" binding:"required"`
	Remarks       string             `json:"remarks"`
	SubJanReports []subReportRequest `json:"subJanReport" binding:"required,min=1,dive"`
}

func (r reportRequest) model() *models.JanitorialReport {
	report := &models.JanitorialReport{
		Date:       *r.Date,
		Supervisor: string(r.Supervisor),
		Tenant:     string(r.Tenant),
		Remarks:    r.Remarks,
	}
	for _, s := range r.SubJanReports {
		report.SubReports = append(report.SubReports, models.SubJanReport{
			ID:        s.ID,
			FloorNo:   s.FloorNo,
			Toilet:    s.Toilet,
			Lobby:     s.Lobby,
			Staircase: s.Staircase,
		})
	}
	return report
}

// reportView shows supervisor and tenant by name and keeps the raw ids.
type reportView struct {
	models.JanitorialReport
	Supervisor   string `json:"supervisor"`
	SupervisorID string `json:"supervisorId"`
	Tenant       string `json:"tenant"`
	TenantID     string `json:"tenantId"`
}

func (h *Handler) reportViews(c *gin.Context, reports []models.JanitorialReport) ([]reportView, error) {
	ctx := c.Request.Context()

	var tenantIDs []uint
	for _, r := range reports {
		if id, ok := userIDOf(r.Tenant); ok {
			tenantIDs = append(tenantIDs, id)
		}
	}
	tenantUsers, err := h.Storage.TenantNames(ctx, tenantIDs)
	if err != nil {
		return nil, err
	}

	var userIDs []uint
	for _, r := range reports {
		if id, ok := userIDOf(r.Supervisor); ok {
			userIDs = append(userIDs, id)
		}
	}
	for _, raw := range tenantUsers {
		if id, ok := userIDOf(raw); ok {
			userIDs = append(userIDs, id)
		}
	}
	names, err := h.Storage.UserNames(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]reportView, len(reports))
	for i, r := range reports {
		v := reportView{
			JanitorialReport: r,
			Supervisor:       "N/A",
			SupervisorID:     r.Supervisor,
			Tenant:           "N/A",
			TenantID:         r.Tenant,
		}
		if id, ok := userIDOf(r.Supervisor); ok {
			if name, ok := names[id]; ok {
				v.Supervisor = name
			}
		}
		if id, ok := userIDOf(r.Tenant); ok {
			if raw, ok := tenantUsers[id]; ok {
				v.Tenant = raw
				if uid, ok := userIDOf(raw); ok {
					if name, ok := names[uid]; ok {
						v.Tenant = name
					}
				}
			}
		}
		views[i] = v
	}
	return views, nil
}

func (h *Handler) ListReports(c *gin.Context) {
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

	filter := storage.ReportFilter{
		Supervisor: c.Query("supervisor"),
		DateFrom:   from,
		DateTo:     to,
	}
	reports, total, err := h.Storage.ListReports(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.reportViews(c, reports)
	if err != nil {
		respondError(c, err)
		return
	}
	paged(c, views, total, page)
}

func (h *Handler) GetReport(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	report, err := h.Storage.GetReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.reportViews(c, []models.JanitorialReport{*report})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views[0])
}

func (h *Handler) CreateReport(c *gin.Context) {
	var req reportRequest
	if !bindJSON(c, &req) {
		return
	}
	report := req.model()
	if err := h.Janitorial.CreateReport(c.Request.Context(), middleware.UserID(c), report); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// UpdateReport replaces the sub-report set with the submitted rows.
func (h *Handler) UpdateReport(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req reportRequest
	if !bindJSON(c, &req) {
		return
	}

	report := req.model()
	report.ID = id
	updated, err := h.Janitorial.UpdateReport(c.Request.Context(), report)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteReport(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Storage.DeleteReport(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
