package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/utils"
)

// CadRequest is the request body for creating and updating CAD approvals
type CadRequest struct {
	Style                 *string `json:"style"`
	CadMasterName         *string `json:"cadMasterName"`
	FileReceiveDate       *string `json:"fileReceiveDate"`
	CompleteDate          *string `json:"completeDate"`
	FinalFileReceivedDate *string `json:"finalFileReceivedDate"`
	FinalCompleteDate     *string `json:"finalCompleteDate"`
}

// CreateCad handles POST /api/v1/cad-approvals
func (ctl *Controller) CreateCad(c *gin.Context) {
	var req CadRequest
	if !bindJSON(c, &req) {
		return
	}

	style := valueOf(req.Style)
	if style == "" || valueOf(req.FileReceiveDate) == "" || valueOf(req.CompleteDate) == "" {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields")
		return
	}

	fileReceiveDate, err1 := utils.ParseDate(*req.FileReceiveDate)
	completeDate, err2 := utils.ParseDate(*req.CompleteDate)
	finalFileReceivedDate, err3 := utils.ParseOptionalDate(req.FinalFileReceivedDate)
	finalCompleteDate, err4 := utils.ParseOptionalDate(req.FinalCompleteDate)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date format")
		return
	}

	cad := models.CadDesign{
		Style:                 style,
		FileReceiveDate:       fileReceiveDate,
		CompleteDate:          completeDate,
		FinalFileReceivedDate: finalFileReceivedDate,
		FinalCompleteDate:     finalCompleteDate,
		CreatedByID:           currentUser(c).ID,
	}
	if name := valueOf(req.CadMasterName); name != "" {
		cad.CadMasterName = &name
	}

	if err := ctl.conn(c).Create(&cad).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "CAD_DESIGN", cad.ID, "Created CAD approval for style "+cad.Style)
	c.JSON(http.StatusCreated, gin.H{
		"message": "CAD Approval created successfully",
		"data":    cad,
	})
}

// ListCads handles GET /api/v1/cad-approvals
func (ctl *Controller) ListCads(c *gin.Context) {
	page := pageParams(c, 10)
	dates, ok := dateRangeParams(c)
	if !ok {
		return
	}

	q := callerScope(c).Apply(ctl.conn(c).Model(&models.CadDesign{}), "created_by_id")
	q = applySearch(q, c.Query("search"), "style", "cad_master_name")
	q = applyDateRange(q, "file_receive_date", dates)

	var cads []models.CadDesign
	total, err := paginate(q, "created_at DESC, id DESC", page, &cads)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, cads, total, page)
}

// UpdateCad handles PUT and PATCH /api/v1/cad-approvals/:id
func (ctl *Controller) UpdateCad(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CadRequest
	if !bindJSON(c, &req) {
		return
	}

	var cad models.CadDesign
	if !ctl.findScoped(c, &cad, id, "created_by_id", "CAD approval not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("style", req.Style, true)
	updates.text("cad_master_name", req.CadMasterName, false)
	updates.date("file_receive_date", req.FileReceiveDate)
	updates.date("complete_date", req.CompleteDate)
	updates.optionalDate("final_file_received_date", req.FinalFileReceivedDate)
	updates.optionalDate("final_complete_date", req.FinalCompleteDate)
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}

	if !updates.empty() {
		if err := ctl.conn(c).Model(&cad).Updates(updates.values).Error; err != nil {
			ctl.respondError(c, err)
			return
		}
	}
	if err := ctl.conn(c).First(&cad, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionUpdate, "CAD_DESIGN", cad.ID, "Updated CAD approval for style "+cad.Style)
	c.JSON(http.StatusOK, gin.H{
		"message": "CAD Approval updated successfully",
		"data":    cad,
	})
}

// DeleteCad handles DELETE /api/v1/cad-approvals/:id
func (ctl *Controller) DeleteCad(c *gin.Context) {
	ctl.deleteScoped(c, &models.CadDesign{}, "created_by_id", "CAD_DESIGN", "CAD approval not found")
}
