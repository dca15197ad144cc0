package models

import (
	"time"
)

// DHLTracking is a shipment record for a style. IsComplete is set explicitly.
type DHLTracking struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Style          string    `gorm:"not null;index" json:"style"`
	TrackingNumber string    `gorm:"not null" json:"trackingNumber"`
	Date           time.Time `gorm:"not null" json:"date"`
	IsComplete     bool      `gorm:"not null;default:false" json:"isComplete"`
	CreatedByID    *uint     `gorm:"index" json:"createdById"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the DHLTracking model
func (DHLTracking) TableName() string {
	return "dhl_trackings"
}
