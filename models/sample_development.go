package models

import (
	"time"
)

// SampleDevelopment tracks sample making for a style
type SampleDevelopment struct {
	ID                       uint       `gorm:"primaryKey" json:"id"`
	Style                    string     `gorm:"not null;index" json:"style"`
	SamplemanName            string     `gorm:"not null" json:"samplemanName"`
	SampleReceiveDate        time.Time  `gorm:"not null" json:"sampleReceiveDate"`
	SampleCompleteDate       time.Time  `gorm:"not null" json:"sampleCompleteDate"`
	ActualSampleReceiveDate  *time.Time `json:"actualSampleReceiveDate"`
	ActualSampleCompleteDate *time.Time `json:"actualSampleCompleteDate"` // set means sample is complete
	SampleQuantity           int        `gorm:"not null;default:0" json:"sampleQuantity"`
	CreatedByID              uint       `gorm:"not null;index" json:"createdById"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for the SampleDevelopment model
func (SampleDevelopment) TableName() string {
	return "sample_developments"
}
