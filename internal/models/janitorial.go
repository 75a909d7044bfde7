package models

import "time"

// JanitorialReport is a dated inspection of one tenant's floors. Supervisor and
// Tenant hold ids encoded as strings.
type JanitorialReport struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Date       time.Time      `gorm:"index" json:"date"`
	Supervisor string         `gorm:"index" json:"supervisor"`
	Tenant     string         `json:"tenant"`
	Remarks    string         `json:"remarks"`
	SubReports []SubJanReport `gorm:"foreignKey:JanitorialReportID;constraint:OnDelete:CASCADE" json:"subJanReport"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// SubJanReport is the per-floor part of a janitorial report.
type SubJanReport struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	JanitorialReportID uint   `gorm:"index;not null" json:"janitorialReportId"`
	FloorNo            string `json:"floorNo"`
	Toilet             string `json:"toilet"`
	Lobby              string `json:"lobby"`
	Staircase          string `json:"staircase"`
}
