package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateTNAInput is the request body for creating a TNA.
// The merchandiser is always the authenticated caller.
type CreateTNAInput struct {
	BuyerID           *uint   `json:"buyerId"`
	Style             string  `json:"style"`
	ItemName          string  `json:"itemName"`
	ItemImage         *string `json:"itemImage"`
	SampleSendingDate string  `json:"sampleSendingDate"`
	OrderDate         string  `json:"orderDate"`
	Status            string  `json:"status"`
	SampleType        string  `json:"sampleType"`
}

// TNAService creates TNAs behind the full precondition chain
type TNAService struct {
	db *gorm.DB

	// rejectCompletedStyle refuses styles whose DHL shipment is already complete
	rejectCompletedStyle bool
}

// NewTNAService creates a TNAService
func NewTNAService(db *gorm.DB, rejectCompletedStyle bool) *TNAService {
	return &TNAService{db: db, rejectCompletedStyle: rejectCompletedStyle}
}

// Create validates input and inserts the TNA in one transaction. Checks run in
// a fixed order and the first failure is returned; nothing is written on failure.
func (s *TNAService) Create(ctx context.Context, caller *models.User, input CreateTNAInput) (*models.TNA, error) {
	var created models.TNA

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		style := strings.TrimSpace(input.Style)
		itemName := strings.TrimSpace(input.ItemName)
		if input.BuyerID == nil || *input.BuyerID == 0 || style == "" || itemName == "" ||
			input.SampleSendingDate == "" || input.OrderDate == "" {
			return BadRequest("VALIDATION_ERROR", "Missing required fields")
		}

		if caller == nil || caller.ID == 0 {
			return Unauthorized("User not authenticated")
		}

		sampleSendingDate, err := utils.ParseDate(input.SampleSendingDate)
		if err != nil {
			return BadRequest("INVALID_DATE", "Invalid date format")
		}
		orderDate, err := utils.ParseDate(input.OrderDate)
		if err != nil {
			return BadRequest("INVALID_DATE", "Invalid date format")
		}

		var buyer models.Buyer
		if err := tx.First(&buyer, *input.BuyerID).Error; err != nil {
			if IsNotFound(err) {
				return NotFound("Buyer not found")
			}
			return errors.Wrap(err, "load buyer")
		}

		var merchandiser models.User
		if err := tx.First(&merchandiser, caller.ID).Error; err != nil {
			if IsNotFound(err) {
				return NotFound("User not found")
			}
			return errors.Wrap(err, "load merchandiser")
		}
		if merchandiser.Role != models.RoleMerchandiser {
			return Forbidden("User must be a MERCHANDISER")
		}

		if s.rejectCompletedStyle {
			completed, err := styleCompleted(tx, style)
			if err != nil {
				return err
			}
			if completed {
				return BadRequest("STYLE_COMPLETED", "DHL tracking for this style is already complete.")
			}
		}

		created = models.TNA{
			Style:             style,
			ItemName:          itemName,
			ItemImage:         input.ItemImage,
			SampleSendingDate: sampleSendingDate,
			OrderDate:         orderDate,
			Status:            input.Status,
			SampleType:        input.SampleType,
			BuyerID:           buyer.ID,
			MerchandiserID:    merchandiser.ID,
			CreatedByID:       caller.ID,
		}
		if created.Status == "" {
			created.Status = models.TNAStatusActive
		}
		if created.SampleType == "" {
			created.SampleType = models.DefaultSampleType
		}

		if err := tx.Omit(clause.Associations).Create(&created).Error; err != nil {
			return errors.Wrap(err, "insert tna")
		}

		return tx.Preload("Buyer").Preload("Merchandiser").First(&created, created.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// styleCompleted reports whether any DHL row for style is marked complete
func styleCompleted(db *gorm.DB, style string) (bool, error) {
	var n int64
	err := db.Model(&models.DHLTracking{}).
		Where("style = ? AND is_complete = ?", style, true).
		Count(&n).Error
	return n > 0, errors.Wrap(err, "check dhl completion")
}
