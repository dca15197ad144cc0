package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/utils"
)

// SampleDevelopmentRequest is the request body for creating and updating sample developments
type SampleDevelopmentRequest struct {
	Style                    *string `json:"style"`
	SamplemanName            *string `json:"samplemanName"`
	SampleReceiveDate        *string `json:"sampleReceiveDate"`
	SampleCompleteDate       *string `json:"sampleCompleteDate"`
	ActualSampleReceiveDate  *string `json:"actualSampleReceiveDate"`
	ActualSampleCompleteDate *string `json:"actualSampleCompleteDate"`
	SampleQuantity           *int    `json:"sampleQuantity"`
}

// CreateSampleDevelopment handles POST /api/v1/sample-developments
func (ctl *Controller) CreateSampleDevelopment(c *gin.Context) {
	var req SampleDevelopmentRequest
	if !bindJSON(c, &req) {
		return
	}

	style := valueOf(req.Style)
	sampleman := valueOf(req.SamplemanName)
	if style == "" || sampleman == "" || valueOf(req.SampleReceiveDate) == "" ||
		valueOf(req.SampleCompleteDate) == "" || req.SampleQuantity == nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields")
		return
	}
	if *req.SampleQuantity < 0 {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "sampleQuantity cannot be negative")
		return
	}

	receiveDate, err1 := utils.ParseDate(*req.SampleReceiveDate)
	completeDate, err2 := utils.ParseDate(*req.SampleCompleteDate)
	actualReceiveDate, err3 := utils.ParseOptionalDate(req.ActualSampleReceiveDate)
	actualCompleteDate, err4 := utils.ParseOptionalDate(req.ActualSampleCompleteDate)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date format")
		return
	}

	sample := models.SampleDevelopment{
		Style:                    style,
		SamplemanName:            sampleman,
		SampleReceiveDate:        receiveDate,
		SampleCompleteDate:       completeDate,
		ActualSampleReceiveDate:  actualReceiveDate,
		ActualSampleCompleteDate: actualCompleteDate,
		SampleQuantity:           *req.SampleQuantity,
		CreatedByID:              currentUser(c).ID,
	}

	if err := ctl.conn(c).Create(&sample).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "SAMPLE_DEVELOPMENT", sample.ID, "Created sample development for style "+sample.Style)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Sample development created successfully",
		"data":    sample,
	})
}

// ListSampleDevelopments handles GET /api/v1/sample-developments
func (ctl *Controller) ListSampleDevelopments(c *gin.Context) {
	page := pageParams(c, 10)
	dates, ok := dateRangeParams(c)
	if !ok {
		return
	}

	q := callerScope(c).Apply(ctl.conn(c).Model(&models.SampleDevelopment{}), "created_by_id")
	q = applySearch(q, c.Query("search"), "style", "sampleman_name")
	q = applyDateRange(q, "sample_receive_date", dates)

	var samples []models.SampleDevelopment
	total, err := paginate(q, "created_at DESC, id DESC", page, &samples)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, samples, total, page)
}

// UpdateSampleDevelopment handles PUT and PATCH /api/v1/sample-developments/:id
func (ctl *Controller) UpdateSampleDevelopment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SampleDevelopmentRequest
	if !bindJSON(c, &req) {
		return
	}

	var sample models.SampleDevelopment
	if !ctl.findScoped(c, &sample, id, "created_by_id", "Sample development not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("style", req.Style, true)
	updates.text("sampleman_name", req.SamplemanName, true)
	updates.date("sample_receive_date", req.SampleReceiveDate)
	updates.date("sample_complete_date", req.SampleCompleteDate)
	updates.optionalDate("actual_sample_receive_date", req.ActualSampleReceiveDate)
	updates.optionalDate("actual_sample_complete_date", req.ActualSampleCompleteDate)
	if req.SampleQuantity != nil {
		if *req.SampleQuantity < 0 {
			errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "sampleQuantity cannot be negative")
			return
		}
		updates.set("sample_quantity", *req.SampleQuantity)
	}
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}
	if updates.empty() {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "No fields provided for update.")
		return
	}

	if err := ctl.conn(c).Model(&sample).Updates(updates.values).Error; err != nil {
		ctl.respondError(c, err)
		return
	}
	if err := ctl.conn(c).First(&sample, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionUpdate, "SAMPLE_DEVELOPMENT", sample.ID, "Updated sample development for style "+sample.Style)
	c.JSON(http.StatusOK, gin.H{
		"message": "Sample development updated successfully",
		"data":    sample,
	})
}

// DeleteSampleDevelopment handles DELETE /api/v1/sample-developments/:id
func (ctl *Controller) DeleteSampleDevelopment(c *gin.Context) {
	ctl.deleteScoped(c, &models.SampleDevelopment{}, "created_by_id", "SAMPLE_DEVELOPMENT", "Sample development not found")
}
