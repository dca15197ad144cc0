package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
)

// UpdateTNARequest is the request body for updating a TNA. Only the fields
// present are written.
type UpdateTNARequest struct {
	BuyerID           *uint   `json:"buyerId"`
	MerchandiserID    *uint   `json:"merchandiserId"`
	Style             *string `json:"style"`
	ItemName          *string `json:"itemName"`
	SampleSendingDate *string `json:"sampleSendingDate"`
	OrderDate         *string `json:"orderDate"`
	Status            *string `json:"status"`
	SampleType        *string `json:"sampleType"`
}

// withImageURL fills the presigned item image URL. Lookup failures are logged
// and leave the URL empty.
func (ctl *Controller) withImageURL(c *gin.Context, tna *models.TNA) {
	if tna.ItemImage == nil || *tna.ItemImage == "" {
		return
	}

	url, err := ctl.images.GetImageURL(c.Request.Context(), *tna.ItemImage)
	if err != nil {
		ctl.log.WithError(err).WithField("tna_id", tna.ID).Warn("Failed to resolve item image URL")
		return
	}
	tna.ItemImageURL = &url
}

// ListTNAs handles GET /api/v1/tnas
func (ctl *Controller) ListTNAs(c *gin.Context) {
	page := pageParams(c, 10)
	dates, ok := dateRangeParams(c)
	if !ok {
		return
	}

	q := callerScope(c).Apply(ctl.conn(c).Model(&models.TNA{}), "created_by_id")
	if status := c.Query("status"); status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if merchandiser := c.Query("merchandiser"); merchandiser != "" {
		q = q.Where("merchandiser_id = ?", merchandiser)
	}
	if buyer := c.Query("buyer"); buyer != "" {
		q = q.Where("buyer_id = ?", buyer)
	}
	if style := c.Query("style"); style != "" {
		q = q.Where("style = ?", style)
	}
	q = applySearch(q, c.Query("search"), "style", "item_name")
	q = applyDateRange(q, "sample_sending_date", dates)

	var tnas []models.TNA
	total, err := paginate(q, "created_at DESC, id DESC", page, &tnas, "Buyer", "Merchandiser")
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	for i := range tnas {
		ctl.withImageURL(c, &tnas[i])
	}
	listJSON(c, tnas, total, page)
}

// GetTNA handles GET /api/v1/tnas/:id
func (ctl *Controller) GetTNA(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var tna models.TNA
	if !ctl.findScoped(c, &tna, id, "created_by_id", "TNA not found") {
		return
	}
	if err := ctl.conn(c).Preload("Buyer").Preload("Merchandiser").First(&tna, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.withImageURL(c, &tna)
	c.JSON(http.StatusOK, gin.H{"data": tna})
}

// CreateTNA handles POST /api/v1/tnas and /api/v1/merchandiser/create-tna.
// The caller becomes the merchandiser of the new TNA.
func (ctl *Controller) CreateTNA(c *gin.Context) {
	var input services.CreateTNAInput
	if !bindJSON(c, &input) {
		return
	}

	tna, err := ctl.tnas.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "TNA", tna.ID, "Created TNA for style "+tna.Style)
	c.JSON(http.StatusCreated, gin.H{
		"message": "TNA created successfully",
		"data":    tna,
	})
}

// UpdateTNA handles PUT /api/v1/tnas/:id
func (ctl *Controller) UpdateTNA(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTNARequest
	if !bindJSON(c, &req) {
		return
	}

	var tna models.TNA
	if !ctl.findScoped(c, &tna, id, "created_by_id", "TNA not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("style", req.Style, true)
	updates.text("item_name", req.ItemName, true)
	updates.date("sample_sending_date", req.SampleSendingDate)
	updates.date("order_date", req.OrderDate)
	updates.text("status", req.Status, true)
	updates.text("sample_type", req.SampleType, true)
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}

	if req.BuyerID != nil {
		var buyer models.Buyer
		if !ctl.findScoped(c, &buyer, *req.BuyerID, "", "Buyer not found") {
			return
		}
		updates.set("buyer_id", buyer.ID)
	}
	if req.MerchandiserID != nil {
		var merchandiser models.User
		if !ctl.findScoped(c, &merchandiser, *req.MerchandiserID, "", "User not found") {
			return
		}
		if merchandiser.Role != models.RoleMerchandiser {
			errorJSON(c, http.StatusForbidden, "FORBIDDEN", "User must be a MERCHANDISER")
			return
		}
		updates.set("merchandiser_id", merchandiser.ID)
	}

	if !updates.empty() {
		if err := ctl.conn(c).Model(&tna).Updates(updates.values).Error; err != nil {
			ctl.respondError(c, err)
			return
		}
	}
	if err := ctl.conn(c).Preload("Buyer").Preload("Merchandiser").First(&tna, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionUpdate, "TNA", tna.ID, "Updated TNA for style "+tna.Style)
	ctl.withImageURL(c, &tna)
	c.JSON(http.StatusOK, gin.H{
		"message": "TNA updated successfully",
		"data":    tna,
	})
}

// DeleteTNA handles DELETE /api/v1/tnas/:id. The stored item image is removed too.
func (ctl *Controller) DeleteTNA(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var tna models.TNA
	if !ctl.findScoped(c, &tna, id, "created_by_id", "TNA not found") {
		return
	}
	if err := ctl.conn(c).Delete(&models.TNA{}, tna.ID).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	if tna.ItemImage != nil {
		if err := ctl.images.DeleteImage(c.Request.Context(), *tna.ItemImage); err != nil {
			ctl.log.WithError(err).WithField("tna_id", tna.ID).Warn("Failed to delete item image")
		}
	}

	ctl.record(c, models.AuditActionDelete, "TNA", tna.ID, "Deleted TNA for style "+tna.Style)
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// UploadTNAImage handles POST /api/v1/tnas/:id/image with a multipart "image"
// field. A previous image is replaced.
func (ctl *Controller) UploadTNAImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "MISSING_FILE", "Image file is required")
		return
	}

	var tna models.TNA
	if !ctl.findScoped(c, &tna, id, "created_by_id", "TNA not found") {
		return
	}

	key, err := ctl.images.UploadImage(c.Request.Context(), fileHeader)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	if err := ctl.conn(c).Model(&tna).Update("item_image", key).Error; err != nil {
		if delErr := ctl.images.DeleteImage(c.Request.Context(), key); delErr != nil {
			ctl.log.WithError(delErr).Warn("Failed to clean up uploaded image")
		}
		ctl.respondError(c, err)
		return
	}

	if tna.ItemImage != nil && *tna.ItemImage != key {
		if err := ctl.images.DeleteImage(c.Request.Context(), *tna.ItemImage); err != nil {
			ctl.log.WithError(err).WithField("tna_id", tna.ID).Warn("Failed to delete previous item image")
		}
	}
	tna.ItemImage = &key

	ctl.record(c, models.AuditActionUpdate, "TNA", tna.ID, "Uploaded item image for style "+tna.Style)
	ctl.withImageURL(c, &tna)
	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"data":    tna,
	})
}

// GetTNASummary handles GET /api/v1/tnas/get-tna-summary
func (ctl *Controller) GetTNASummary(c *gin.Context) {
	dates, ok := dateRangeParams(c)
	if !ok {
		return
	}

	filter := services.SummaryFilter{
		Search: c.Query("search"),
		Range:  dates,
		Page:   pageParams(c, 10),
	}

	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "completed must be true or false")
			return
		}
		filter.Completed = &completed
	}

	page, err := ctl.summary.List(c.Request.Context(), callerScope(c), filter)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetTNASummaryCard handles GET /api/v1/tnas/get-tna-summary-card
func (ctl *Controller) GetTNASummaryCard(c *gin.Context) {
	counts, err := ctl.summary.Card(c.Request.Context(), callerScope(c))
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// GetDepartmentProgress handles GET /api/v1/tnas/department-progress and
// /api/v1/dashboard/department-progress
func (ctl *Controller) GetDepartmentProgress(c *gin.Context) {
	progress, err := ctl.summary.DepartmentProgress(c.Request.Context(), callerScope(c))
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": progress})
}
