package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeedbackComplain is a complaint raised by a tenant or staff member. Job slips
// reference it through ComplainNo rather than through the numeric id.
type FeedbackComplain struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ComplainNo   string         `gorm:"uniqueIndex;not null" json:"complainNo"`
	Complain     string         `json:"complain"`
	Date         time.Time      `json:"date"`
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
	Status       string         `gorm:"index" json:"status"`
	TenantID     *uint          `gorm:"index" json:"tenantId"`
	Tenant       *Tenant        `json:"tenant,omitempty"`
	JobSlips     []JobSlip      `gorm:"foreignKey:ComplainNo;references:ComplainNo" json:"jobSlips,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// BeforeCreate stamps the complaint date when the caller left it empty.
func (f *FeedbackComplain) BeforeCreate(tx *gorm.DB) (err error) {
	if f.Date.IsZero() {
		f.Date = time.Now()
	}
	return
}
