package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
)

const duplicateCustomIDMessage = "Custom ID already exists, please choose another."

// EmployeeRequest is the request body for creating and updating employees.
// On update only the fields present are written.
type EmployeeRequest struct {
	CustomID    *string `json:"customId"`
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	Status      *string `json:"status"`
	Designation *string `json:"designation"`
	Department  *string `json:"department"`
	UserID      *uint   `json:"userId"`
}

// EmployeeStatusRequest is the request body of the status endpoint
type EmployeeStatusRequest struct {
	Status string `json:"status"`
}

func validEmployeeStatus(status string) bool {
	return status == models.StatusActive || status == models.StatusInactive
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// CreateEmployee handles POST /api/v1/employee (admin only)
func (ctl *Controller) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee := models.Employee{
		CustomID:    valueOf(req.CustomID),
		Name:        valueOf(req.Name),
		PhoneNumber: valueOf(req.PhoneNumber),
		Email:       valueOf(req.Email),
		Status:      valueOf(req.Status),
		Designation: valueOf(req.Designation),
		Department:  valueOf(req.Department),
		UserID:      req.UserID,
	}
	if employee.CustomID == "" || employee.Name == "" {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields")
		return
	}
	if employee.Status == "" {
		employee.Status = models.StatusActive
	}
	if !validEmployeeStatus(employee.Status) {
		errorJSON(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid status. Must be ACTIVE or INACTIVE.")
		return
	}

	if err := ctl.conn(c).Create(&employee).Error; err != nil {
		if services.IsDuplicateKey(err) {
			errorJSON(c, http.StatusBadRequest, "DUPLICATE", duplicateCustomIDMessage)
			return
		}
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "EMPLOYEE", employee.ID, "Created employee "+employee.CustomID)
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Employee created successfully",
		"employee": employee,
	})
}

// ListEmployees handles GET /api/v1/employee. Ordered by customId.
func (ctl *Controller) ListEmployees(c *gin.Context) {
	page := pageParams(c, 20)

	q := applySearch(ctl.conn(c).Model(&models.Employee{}),
		c.Query("search"), "custom_id", "name", "email", "department", "designation")

	var employees []models.Employee
	total, err := paginate(q, "custom_id ASC", page, &employees, "User")
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, employees, total, page)
}

// UpdateEmployee handles PUT /api/v1/employee/:id
func (ctl *Controller) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status != nil && !validEmployeeStatus(*req.Status) {
		errorJSON(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid status. Must be ACTIVE or INACTIVE.")
		return
	}

	var employee models.Employee
	if !ctl.findScoped(c, &employee, id, "", "Employee not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("custom_id", req.CustomID, true)
	updates.text("name", req.Name, true)
	updates.text("phone_number", req.PhoneNumber, false)
	updates.text("email", req.Email, false)
	updates.text("status", req.Status, true)
	updates.text("designation", req.Designation, false)
	updates.text("department", req.Department, false)
	if req.UserID != nil {
		updates.set("user_id", *req.UserID)
	}
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}

	if !updates.empty() {
		if err := ctl.conn(c).Model(&employee).Updates(updates.values).Error; err != nil {
			if services.IsDuplicateKey(err) {
				errorJSON(c, http.StatusBadRequest, "DUPLICATE", duplicateCustomIDMessage)
				return
			}
			ctl.respondError(c, err)
			return
		}
	}

	if err := ctl.conn(c).Preload("User").First(&employee, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionUpdate, "EMPLOYEE", employee.ID, "Updated employee "+employee.CustomID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Employee updated successfully",
		"data":    employee,
	})
}

// UpdateEmployeeStatus handles PATCH /api/v1/employee/:id/status
func (ctl *Controller) UpdateEmployeeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req EmployeeStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validEmployeeStatus(req.Status) {
		errorJSON(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid status. Must be ACTIVE or INACTIVE.")
		return
	}

	var employee models.Employee
	if !ctl.findScoped(c, &employee, id, "", "Employee not found") {
		return
	}
	if err := ctl.conn(c).Model(&employee).Update("status", req.Status).Error; err != nil {
		ctl.respondError(c, err)
		return
	}
	employee.Status = req.Status

	ctl.record(c, models.AuditActionUpdate, "EMPLOYEE", employee.ID, "Set status of employee "+employee.CustomID+" to "+req.Status)
	c.JSON(http.StatusOK, gin.H{
		"message": "Employee status updated to " + req.Status,
		"data":    employee,
	})
}

// DeleteEmployee handles DELETE /api/v1/employee/:id
func (ctl *Controller) DeleteEmployee(c *gin.Context) {
	ctl.deleteScoped(c, &models.Employee{}, "", "EMPLOYEE", "Employee not found")
}
