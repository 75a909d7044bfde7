package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is a staff or tenant account. Role and department drive who receives
// notifications.
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"not null" json:"name"`
	Email        string      `gorm:"index" json:"email"`
	Username     string      `gorm:"index" json:"username"`
	RoleID       *uint       `gorm:"index" json:"roleId"`
	Role         *Role       `json:"role,omitempty"`
	DepartmentID *uint       `gorm:"index" json:"departmentId"`
	Department   *Department `json:"department,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// BeforeSave normalizes the email address so lookups are case-insensitive.
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return
}

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Department owns job slips. Code prefixes generated job slip identifiers.
type Department struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Code string `gorm:"uniqueIndex;not null" json:"code"`
}
