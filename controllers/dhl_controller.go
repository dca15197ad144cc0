package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/utils"
)

// DHLTrackingRequest is the request body for creating and updating DHL trackings
type DHLTrackingRequest struct {
	Style          *string `json:"style"`
	TrackingNumber *string `json:"trackingNumber"`
	Date           *string `json:"date"`
	IsComplete     *bool   `json:"isComplete"`
}

// CreateDHLTracking handles POST /api/v1/dhl-trackings
func (ctl *Controller) CreateDHLTracking(c *gin.Context) {
	var req DHLTrackingRequest
	if !bindJSON(c, &req) {
		return
	}

	style := valueOf(req.Style)
	trackingNumber := valueOf(req.TrackingNumber)
	if style == "" || trackingNumber == "" || valueOf(req.Date) == "" {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "date, style, and trackingNumber are required")
		return
	}

	date, err := utils.ParseDate(*req.Date)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date format")
		return
	}

	callerID := currentUser(c).ID
	tracking := models.DHLTracking{
		Style:          style,
		TrackingNumber: trackingNumber,
		Date:           date,
		IsComplete:     req.IsComplete != nil && *req.IsComplete,
		CreatedByID:    &callerID,
	}

	if err := ctl.conn(c).Create(&tracking).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "DHL_TRACKING", tracking.ID, "Created DHL tracking "+tracking.TrackingNumber+" for style "+tracking.Style)
	c.JSON(http.StatusCreated, gin.H{
		"message": "DHL Tracking created successfully",
		"data":    tracking,
	})
}

// ListDHLTrackings handles GET /api/v1/dhl-trackings
func (ctl *Controller) ListDHLTrackings(c *gin.Context) {
	page := pageParams(c, 10)
	dates, ok := dateRangeParams(c)
	if !ok {
		return
	}

	q := callerScope(c).Apply(ctl.conn(c).Model(&models.DHLTracking{}), "created_by_id")
	q = applySearch(q, c.Query("search"), "style", "tracking_number")
	q = applyDateRange(q, "date", dates)

	var trackings []models.DHLTracking
	total, err := paginate(q, "created_at DESC, id DESC", page, &trackings)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, trackings, total, page)
}

// UpdateDHLTracking handles PUT and PATCH /api/v1/dhl-trackings/:id
func (ctl *Controller) UpdateDHLTracking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req DHLTrackingRequest
	if !bindJSON(c, &req) {
		return
	}

	var tracking models.DHLTracking
	if !ctl.findScoped(c, &tracking, id, "created_by_id", "DHL tracking not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("style", req.Style, true)
	updates.text("tracking_number", req.TrackingNumber, true)
	updates.date("date", req.Date)
	if req.IsComplete != nil {
		updates.set("is_complete", *req.IsComplete)
	}
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}

	if !updates.empty() {
		if err := ctl.conn(c).Model(&tracking).Updates(updates.values).Error; err != nil {
			ctl.respondError(c, err)
			return
		}
	}
	if err := ctl.conn(c).First(&tracking, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionUpdate, "DHL_TRACKING", tracking.ID, "Updated DHL tracking "+tracking.TrackingNumber)
	c.JSON(http.StatusOK, gin.H{
		"message": "DHL Tracking updated successfully",
		"data":    tracking,
	})
}

// DeleteDHLTracking handles DELETE /api/v1/dhl-trackings/:id
func (ctl *Controller) DeleteDHLTracking(c *gin.Context) {
	ctl.deleteScoped(c, &models.DHLTracking{}, "created_by_id", "DHL_TRACKING", "DHL tracking not found")
}
