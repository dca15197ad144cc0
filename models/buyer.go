package models

import (
	"time"
)

// Buyer is a customer brand that places TNA orders
type Buyer struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"not null" json:"name"`
	Country      string      `gorm:"not null" json:"country"`
	DepartmentID *uint       `gorm:"index" json:"buyerDepartmentId"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// TableName specifies the table name for the Buyer model
func (Buyer) TableName() string {
	return "buyers"
}

// Department is a buyer-side department with a contact person
type Department struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	ContactPerson string    `gorm:"not null" json:"contactPerson"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Department model
func (Department) TableName() string {
	return "departments"
}
