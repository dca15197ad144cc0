package models

import (
	"time"
)

// CadDesign tracks CAD approval for a style: planned vs final dates
type CadDesign struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Style                 string     `gorm:"not null;index" json:"style"`
	CadMasterName         *string    `json:"cadMasterName"`
	FileReceiveDate       time.Time  `gorm:"not null" json:"fileReceiveDate"`
	CompleteDate          time.Time  `gorm:"not null" json:"completeDate"`
	FinalFileReceivedDate *time.Time `json:"finalFileReceivedDate"`
	FinalCompleteDate     *time.Time `json:"finalCompleteDate"` // set means CAD is complete
	CreatedByID           uint       `gorm:"not null;index" json:"createdById"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for the CadDesign model
func (CadDesign) TableName() string {
	return "cad_designs"
}
