package models

import "time"

type NotificationTemplate struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

// Notification is an in-app message for one user. Only the fan-out creates
// them; afterwards only IsRead changes.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TemplateID  uint      `gorm:"index" json:"templateId"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	CreatedByID uint      `json:"createdById"`
	IsRead      bool      `gorm:"index" json:"isRead"`
	AltText     string    `json:"altText"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
