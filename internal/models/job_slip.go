package models

import (
	"time"

	"facilitydesk/backend/internal/config"

	"gorm.io/gorm"
)

// JobSlip is one unit of remediation work for a complaint, owned by a
// department. Status is derived on update, see complaint.NextJobSlipStatus.
type JobSlip struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	JobID              string     `gorm:"uniqueIndex;not null" json:"jobId"`
	Date               time.Time  `gorm:"index" json:"date"`
	ComplainNo         string     `gorm:"index;not null" json:"complainNo"`
	ComplainBy         *string    `json:"complainBy"`
	FloorNo            string     `json:"floorNo"`
	Area               string     `json:"area"`
	Location           string     `json:"location"`
	Locations          string     `json:"locations"`
	ComplaintDesc      string     `json:"complaintDesc"`
	MaterialReq        string     `json:"materialReq"`
	ActionTaken        string     `json:"actionTaken"`
	AttendedBy         IDList     `json:"attendedBy"`
	DepartmentID       uint       `gorm:"index" json:"department"`
	Remarks            string     `json:"remarks"`
	Status             string     `gorm:"index;not null" json:"status"`
	SupervisorApproval bool       `json:"supervisorApproval"`
	ManagementApproval bool       `json:"managementApproval"`
	Picture            RefList    `json:"picture"`
	CompletedAt        *time.Time `json:"completed_At"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BeforeCreate fills the date and the initial status.
func (j *JobSlip) BeforeCreate(tx *gorm.DB) (err error) {
	if j.Date.IsZero() {
		j.Date = time.Now()
	}
	if j.Status == "" {
		j.Status = config.JobSlipPending
	}
	return
}
