package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
)

// BuyerRequest is the request body for creating and updating buyers
type BuyerRequest struct {
	Name         *string `json:"name"`
	Country      *string `json:"country"`
	DepartmentID *uint   `json:"buyerDepartmentId"`
}

// DepartmentRequest is the request body for creating and updating departments
type DepartmentRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contactPerson"`
}

// CreateBuyer handles POST /api/v1/buyers and /api/v1/merchandiser/create-buyer
func (ctl *Controller) CreateBuyer(c *gin.Context) {
	var req BuyerRequest
	if !bindJSON(c, &req) {
		return
	}

	buyer := models.Buyer{
		Name:         valueOf(req.Name),
		Country:      valueOf(req.Country),
		DepartmentID: req.DepartmentID,
	}
	if buyer.Name == "" || buyer.Country == "" {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields")
		return
	}

	if buyer.DepartmentID != nil && !ctl.departmentExists(c, *buyer.DepartmentID) {
		return
	}

	if err := ctl.conn(c).Create(&buyer).Error; err != nil {
		ctl.respondError(c, err)
		return
	}
	if err := ctl.conn(c).Preload("Department").First(&buyer, buyer.ID).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "BUYER", buyer.ID, "Created new buyer "+buyer.Name)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Buyer created successfully",
		"data":    buyer,
	})
}

// ListBuyers handles GET /api/v1/buyers and /api/v1/merchandiser/buyers
func (ctl *Controller) ListBuyers(c *gin.Context) {
	page := pageParams(c, 10)
	q := applySearch(ctl.conn(c).Model(&models.Buyer{}), c.Query("search"), "name", "country")

	var buyers []models.Buyer
	total, err := paginate(q, "created_at DESC, id DESC", page, &buyers, "Department")
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, buyers, total, page)
}

// UpdateBuyer handles PUT /api/v1/buyers/:id
func (ctl *Controller) UpdateBuyer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req BuyerRequest
	if !bindJSON(c, &req) {
		return
	}

	var buyer models.Buyer
	if !ctl.findScoped(c, &buyer, id, "", "Buyer not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("name", req.Name, true)
	updates.text("country", req.Country, true)
	if req.DepartmentID != nil {
		if !ctl.departmentExists(c, *req.DepartmentID) {
			return
		}
		updates.set("department_id", *req.DepartmentID)
	}
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}

	if !updates.empty() {
		if err := ctl.conn(c).Model(&buyer).Updates(updates.values).Error; err != nil {
			ctl.respondError(c, err)
			return
		}
	}
	if err := ctl.conn(c).Preload("Department").First(&buyer, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionUpdate, "BUYER", buyer.ID, "Updated buyer "+buyer.Name)
	c.JSON(http.StatusOK, gin.H{
		"message": "Buyer updated successfully",
		"data":    buyer,
	})
}

// DeleteBuyer handles DELETE /api/v1/buyers/:id
func (ctl *Controller) DeleteBuyer(c *gin.Context) {
	ctl.deleteScoped(c, &models.Buyer{}, "", "BUYER", "Buyer not found")
}

func (ctl *Controller) departmentExists(c *gin.Context, id uint) bool {
	var count int64
	if err := ctl.conn(c).Model(&models.Department{}).Where("id = ?", id).Count(&count).Error; err != nil {
		ctl.respondError(c, err)
		return false
	}
	if count == 0 {
		errorJSON(c, http.StatusNotFound, "NOT_FOUND", "Department not found")
		return false
	}
	return true
}

// CreateDepartment handles POST /api/v1/departments and /api/v1/merchandiser/create-department
func (ctl *Controller) CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	department := models.Department{
		Name:          valueOf(req.Name),
		ContactPerson: valueOf(req.ContactPerson),
	}
	if department.Name == "" || department.ContactPerson == "" {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields")
		return
	}

	if err := ctl.conn(c).Create(&department).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "DEPARTMENT", department.ID, "Created department "+department.Name)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Department created successfully",
		"data":    department,
	})
}

// ListDepartments handles GET /api/v1/departments and /api/v1/merchandiser/departments
func (ctl *Controller) ListDepartments(c *gin.Context) {
	page := pageParams(c, 10)
	q := applySearch(ctl.conn(c).Model(&models.Department{}), c.Query("search"), "name", "contact_person")

	var departments []models.Department
	total, err := paginate(q, "created_at DESC, id DESC", page, &departments)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, departments, total, page)
}

// UpdateDepartment handles PUT /api/v1/departments/:id
func (ctl *Controller) UpdateDepartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req DepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	var department models.Department
	if !ctl.findScoped(c, &department, id, "", "Department not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("name", req.Name, true)
	updates.text("contact_person", req.ContactPerson, true)
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}

	if !updates.empty() {
		if err := ctl.conn(c).Model(&department).Updates(updates.values).Error; err != nil {
			ctl.respondError(c, err)
			return
		}
	}
	if err := ctl.conn(c).First(&department, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionUpdate, "DEPARTMENT", department.ID, "Updated department "+department.Name)
	c.JSON(http.StatusOK, gin.H{
		"message": "Department updated successfully",
		"data":    department,
	})
}

// DeleteDepartment handles DELETE /api/v1/departments/:id
func (ctl *Controller) DeleteDepartment(c *gin.Context) {
	ctl.deleteScoped(c, &models.Department{}, "", "DEPARTMENT", "Department not found")
}

// ListMerchandisers handles GET /api/v1/merchandiser/merchandisers. Only
// active MERCHANDISER accounts are returned.
func (ctl *Controller) ListMerchandisers(c *gin.Context) {
	var merchandisers []models.User
	err := ctl.conn(c).
		Where("role = ? AND status = ?", models.RoleMerchandiser, models.StatusActive).
		Order("name ASC").
		Find(&merchandisers).Error
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": merchandisers})
}
