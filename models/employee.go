package models

import (
	"time"
)

// Employee is a staff record; it may be linked to a login account
type Employee struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomID    string    `gorm:"uniqueIndex;not null" json:"customId"`
	Name        string    `gorm:"not null" json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	Status      string    `gorm:"not null;default:'ACTIVE'" json:"status"` // ACTIVE or INACTIVE
	Designation string    `json:"designation"`
	Department  string    `json:"department"`
	UserID      *uint     `gorm:"index" json:"userId"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
