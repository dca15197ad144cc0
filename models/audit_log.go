package models

import (
	"time"
)

// Audit actions and outcomes
const (
	AuditActionLogin  = "LOGIN"
	AuditActionLogout = "LOGOUT"
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"

	AuditStatusSuccess = "SUCCESS"
	AuditStatusFailed  = "FAILED"
)

// AuditLog is an append-only record of a user action
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	User        string    `gorm:"column:user_name;not null;index" json:"user"`
	UserRole    string    `gorm:"not null" json:"userRole"`
	Action      string    `gorm:"not null;index" json:"action"`
	Resource    string    `json:"resource"`
	ResourceID  string    `json:"resourceId"`
	Description string    `gorm:"type:text" json:"description"`
	IPAddress   string    `json:"ipAddress"`
	UserAgent   string    `json:"userAgent"`
	Status      string    `json:"status"`
	Timestamp   time.Time `gorm:"column:logged_at;not null;index" json:"timestamp"`
}

// TableName specifies the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
