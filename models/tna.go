package models

import (
	"time"
)

// TNA defaults
const (
	TNAStatusActive   = "ACTIVE"
	DefaultSampleType = "DVP"
)

// TNA is a Time-and-Action record tracking one style through production
type TNA struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Style             string    `gorm:"not null;index" json:"style"` // soft join key, not unique
	ItemName          string    `gorm:"not null" json:"itemName"`
	ItemImage         *string   `json:"itemImage"`                       // storage key of the uploaded item image
	ItemImageURL      *string   `gorm:"-" json:"itemImageUrl,omitempty"` // computed, presigned URL
	SampleSendingDate time.Time `gorm:"not null;index" json:"sampleSendingDate"`
	OrderDate         time.Time `gorm:"not null" json:"orderDate"`
	Status            string    `gorm:"not null;default:'ACTIVE'" json:"status"`
	SampleType        string    `gorm:"not null;default:'DVP'" json:"sampleType"`
	BuyerID           uint      `gorm:"not null;index" json:"buyerId"`
	Buyer             Buyer     `gorm:"foreignKey:BuyerID" json:"buyer"`
	MerchandiserID    uint      `gorm:"not null;index" json:"merchandiserId"`
	Merchandiser      User      `gorm:"foreignKey:MerchandiserID" json:"merchandiser"`
	CreatedByID       uint      `gorm:"not null;index" json:"createdById"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the TNA model
func (TNA) TableName() string {
	return "tnas"
}
