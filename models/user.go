package models

import (
	"time"
)

// User roles
const (
	RoleAdmin        = "ADMIN"
	RoleMerchandiser = "MERCHANDISER"
	RoleManager      = "MANAGER"
	RoleUser         = "USER"
	RoleGuest        = "GUEST"
)

// User statuses
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusPending   = "PENDING"
	StatusSuspended = "SUSPENDED"
)

// User represents an account that can log in (admin, merchandiser, manager, ...)
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CustomID     string     `gorm:"uniqueIndex;not null" json:"customId"` // human-assigned identifier
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;default:'USER'" json:"role"`
	Status       string     `gorm:"not null;default:'PENDING'" json:"status"`
	Department   string     `json:"department"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the ADMIN role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known user roles
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMerchandiser, RoleManager, RoleUser, RoleGuest:
		return true
	}
	return false
}

// ValidStatus reports whether status is one of the known user statuses
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusPending, StatusSuspended:
		return true
	}
	return false
}
