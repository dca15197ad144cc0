package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/utils"
)

// FabricBookingRequest is the request body for creating and updating fabric bookings
type FabricBookingRequest struct {
	Style             *string `json:"style"`
	BookingDate       *string `json:"bookingDate"`
	ReceiveDate       *string `json:"receiveDate"`
	ActualBookingDate *string `json:"actualBookingDate"`
	ActualReceiveDate *string `json:"actualReceiveDate"`
}

// CreateFabricBooking handles POST /api/v1/fabric-bookings
func (ctl *Controller) CreateFabricBooking(c *gin.Context) {
	var req FabricBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	style := valueOf(req.Style)
	if style == "" || valueOf(req.BookingDate) == "" || valueOf(req.ReceiveDate) == "" {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields")
		return
	}

	bookingDate, err1 := utils.ParseDate(*req.BookingDate)
	receiveDate, err2 := utils.ParseDate(*req.ReceiveDate)
	actualBookingDate, err3 := utils.ParseOptionalDate(req.ActualBookingDate)
	actualReceiveDate, err4 := utils.ParseOptionalDate(req.ActualReceiveDate)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date format")
		return
	}

	booking := models.FabricBooking{
		Style:             style,
		BookingDate:       bookingDate,
		ReceiveDate:       receiveDate,
		ActualBookingDate: actualBookingDate,
		ActualReceiveDate: actualReceiveDate,
		CreatedByID:       currentUser(c).ID,
	}

	if err := ctl.conn(c).Create(&booking).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "FABRIC_BOOKING", booking.ID, "Created fabric booking for style "+booking.Style)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Fabric booking created successfully",
		"data":    booking,
	})
}

// ListFabricBookings handles GET /api/v1/fabric-bookings
func (ctl *Controller) ListFabricBookings(c *gin.Context) {
	page := pageParams(c, 10)
	dates, ok := dateRangeParams(c)
	if !ok {
		return
	}

	q := callerScope(c).Apply(ctl.conn(c).Model(&models.FabricBooking{}), "created_by_id")
	q = applySearch(q, c.Query("search"), "style")
	q = applyDateRange(q, "booking_date", dates)

	var bookings []models.FabricBooking
	total, err := paginate(q, "created_at DESC, id DESC", page, &bookings)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, bookings, total, page)
}

// UpdateFabricBooking handles PUT and PATCH /api/v1/fabric-bookings/:id
func (ctl *Controller) UpdateFabricBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req FabricBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	var booking models.FabricBooking
	if !ctl.findScoped(c, &booking, id, "created_by_id", "Fabric booking not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("style", req.Style, true)
	updates.date("booking_date", req.BookingDate)
	updates.date("receive_date", req.ReceiveDate)
	updates.optionalDate("actual_booking_date", req.ActualBookingDate)
	updates.optionalDate("actual_receive_date", req.ActualReceiveDate)
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}

	if !updates.empty() {
		if err := ctl.conn(c).Model(&booking).Updates(updates.values).Error; err != nil {
			ctl.respondError(c, err)
			return
		}
	}
	if err := ctl.conn(c).First(&booking, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionUpdate, "FABRIC_BOOKING", booking.ID, "Updated fabric booking for style "+booking.Style)
	c.JSON(http.StatusOK, gin.H{
		"message": "Fabric booking updated successfully",
		"data":    booking,
	})
}

// DeleteFabricBooking handles DELETE /api/v1/fabric-bookings/:id
func (ctl *Controller) DeleteFabricBooking(c *gin.Context) {
	ctl.deleteScoped(c, &models.FabricBooking{}, "created_by_id", "FABRIC_BOOKING", "Fabric booking not found")
}
