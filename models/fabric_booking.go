package models

import (
	"time"
)

// FabricBooking tracks fabric booking and receipt for a style
type FabricBooking struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Style             string     `gorm:"not null;index" json:"style"`
	BookingDate       time.Time  `gorm:"not null" json:"bookingDate"`
	ReceiveDate       time.Time  `gorm:"not null" json:"receiveDate"`
	ActualBookingDate *time.Time `json:"actualBookingDate"`
	ActualReceiveDate *time.Time `json:"actualReceiveDate"` // set means fabric is complete
	CreatedByID       uint       `gorm:"not null;index" json:"createdById"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for the FabricBooking model
func (FabricBooking) TableName() string {
	return "fabric_bookings"
}
