package models

import "time"

// Tenant occupies one or more floor areas. TenantName holds the id of the
// tenant's user account; handlers render it as the user's name.
type Tenant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantName  string    `gorm:"not null" json:"tenantName"`
	TotalAreaSq float64   `json:"totalAreaSq"`
	Areas       []Area    `gorm:"constraint:OnDelete:CASCADE" json:"area"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Area struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TenantID     uint      `gorm:"index;not null" json:"tenantId"`
	Floor        string    `gorm:"not null" json:"floor"`
	OccupiedArea float64   `json:"occupiedArea"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
