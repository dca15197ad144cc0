package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
)

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	CustomID   string `json:"customId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	Department string `json:"department"`
}

// UpdateUserRequest represents the request body for updating a user.
// Only the fields present are written.
type UpdateUserRequest struct {
	CustomID   *string `json:"customId"`
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	Status     *string `json:"status"`
	Department *string `json:"department"`
}

// RoleCount is the number of users holding a role
type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

// ListUsers handles GET /api/v1/user
func (ctl *Controller) ListUsers(c *gin.Context) {
	page := pageParams(c, 20)

	q := applySearch(ctl.conn(c).Model(&models.User{}), c.Query("search"), "name", "email")
	if role := c.Query("role"); role != "" && role != "all" {
		q = q.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if department := c.Query("department"); department != "" {
		q = q.Where("department = ?", department)
	}

	var users []models.User
	total, err := paginate(q, "created_at DESC, id DESC", page, &users)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, users, total, page)
}

// GetUserStats handles GET /api/v1/user/stats
func (ctl *Controller) GetUserStats(c *gin.Context) {
	db := ctl.conn(c)

	var total, active int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		ctl.respondError(c, err)
		return
	}
	if err := db.Model(&models.User{}).Where("status = ?", models.StatusActive).Count(&active).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	roles := []RoleCount{}
	err := db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("role").
		Scan(&roles).Error
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"active": active,
		"roles":  roles,
	})
}

// CreateUser handles POST /api/v1/user (admin only)
func (ctl *Controller) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	req.CustomID = strings.TrimSpace(req.CustomID)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.CustomID == "" || req.Name == "" || req.Email == "" || req.Password == "" {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "customId, name, email, and password are required")
		return
	}

	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if !models.ValidRole(req.Role) {
		errorJSON(c, http.StatusBadRequest, "INVALID_ROLE", "Invalid role value")
		return
	}
	if !models.ValidStatus(req.Status) {
		errorJSON(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid status value")
		return
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	user := models.User{
		CustomID:     req.CustomID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       req.Status,
		Department:   req.Department,
	}

	if err := ctl.conn(c).Create(&user).Error; err != nil {
		if services.IsDuplicateKey(err) {
			errorJSON(c, http.StatusBadRequest, "DUPLICATE", "A user with this email or custom ID already exists")
			return
		}
		ctl.respondError(c, err)
		return
	}

	ctl.record(c, models.AuditActionCreate, "USER", user.ID, "Created user "+user.Email)
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /api/v1/user/:id (admin only). Admins cannot edit
// their own account here.
func (ctl *Controller) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if id == currentUser(c).ID {
		errorJSON(c, http.StatusBadRequest, "SELF_MODIFICATION", "Cannot modify own account")
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Role != nil && !models.ValidRole(*req.Role) {
		errorJSON(c, http.StatusBadRequest, "INVALID_ROLE", "Invalid role value")
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		errorJSON(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid status value")
		return
	}

	var user models.User
	if !ctl.findScoped(c, &user, id, "", "User not found") {
		return
	}

	updates := newUpdateSet()
	updates.text("custom_id", req.CustomID, true)
	updates.text("name", req.Name, true)
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		updates.text("email", &email, true)
	}
	updates.text("role", req.Role, true)
	updates.text("status", req.Status, true)
	updates.text("department", req.Department, false)
	if updates.err != nil {
		ctl.respondError(c, updates.err)
		return
	}

	if !updates.empty() {
		if err := ctl.conn(c).Model(&user).Updates(updates.values).Error; err != nil {
			if services.IsDuplicateKey(err) {
				errorJSON(c, http.StatusBadRequest, "DUPLICATE", "A user with this email or custom ID already exists")
				return
			}
			ctl.respondError(c, err)
			return
		}
	}

	if err := ctl.conn(c).First(&user, id).Error; err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.revokeIfInactive(c, &user)
	ctl.record(c, models.AuditActionUpdate, "USER", user.ID, "Updated user "+user.Email)
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/user/:id (admin only)
func (ctl *Controller) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if id == currentUser(c).ID {
		errorJSON(c, http.StatusBadRequest, "SELF_MODIFICATION", "Cannot delete own account")
		return
	}

	ctl.deleteScoped(c, &models.User{}, "", "USER", "User not found")
}

// ToggleUserStatus handles PATCH /api/v1/user/:id/toggle-status (admin only).
// ACTIVE users become INACTIVE, everyone else becomes ACTIVE.
func (ctl *Controller) ToggleUserStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if id == currentUser(c).ID {
		errorJSON(c, http.StatusBadRequest, "SELF_MODIFICATION", "Cannot modify own status")
		return
	}

	var user models.User
	if !ctl.findScoped(c, &user, id, "", "User not found") {
		return
	}

	next := models.StatusActive
	if user.Status == models.StatusActive {
		next = models.StatusInactive
	}
	if err := ctl.conn(c).Model(&user).Update("status", next).Error; err != nil {
		ctl.respondError(c, err)
		return
	}
	user.Status = next

	ctl.revokeIfInactive(c, &user)
	ctl.record(c, models.AuditActionUpdate, "USER", user.ID, "Set status of "+user.Email+" to "+next)
	c.JSON(http.StatusOK, user)
}

// revokeIfInactive drops the stored tokens of a user who can no longer log in
func (ctl *Controller) revokeIfInactive(c *gin.Context, user *models.User) {
	if user.Status == models.StatusActive || ctl.tokens == nil {
		return
	}
	if err := ctl.tokens.Revoke(c.Request.Context(), user.ID); err != nil {
		ctl.log.WithError(err).WithField("user_id", user.ID).Warn("Failed to revoke tokens of inactive user")
	}
}
