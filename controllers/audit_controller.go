package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
)

// CreateAuditLogRequest is the request body for a manual audit entry
type CreateAuditLogRequest struct {
	Action      string `json:"action"`
	Resource    string `json:"resource"`
	ResourceID  string `json:"resourceId"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func auditFilter(c *gin.Context) services.AuditFilter {
	filter := services.AuditFilter{
		Action:    c.Query("action"),
		UserRole:  c.Query("userRole"),
		Search:    strings.TrimSpace(c.Query("search")),
		TimeRange: c.Query("timeRange"),
	}
	if filter.Action == "all" {
		filter.Action = ""
	}
	if filter.UserRole == "all" {
		filter.UserRole = ""
	}
	return filter
}

// ListAuditLogs handles GET /api/v1/audit-logs
func (ctl *Controller) ListAuditLogs(c *gin.Context) {
	page := pageParams(c, 20)

	logs, total, err := ctl.audit.List(c.Request.Context(), auditFilter(c), page)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	listJSON(c, logs, total, page)
}

// CreateAuditLog handles POST /api/v1/audit-logs. The entry is attributed to the caller.
func (ctl *Controller) CreateAuditLog(c *gin.Context) {
	var req CreateAuditLogRequest
	if !bindJSON(c, &req) {
		return
	}

	req.Action = strings.ToUpper(strings.TrimSpace(req.Action))
	if req.Action == "" || strings.TrimSpace(req.Description) == "" {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "action and description are required")
		return
	}

	user := currentUser(c)
	entry := models.AuditLog{
		User:        user.Email,
		UserRole:    user.Role,
		Action:      req.Action,
		Resource:    req.Resource,
		ResourceID:  req.ResourceID,
		Description: req.Description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Status:      strings.ToUpper(req.Status),
	}

	if err := ctl.audit.Create(c.Request.Context(), &entry); err != nil {
		ctl.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ExportAuditLogs handles GET /api/v1/audit-logs/export. Every matching entry
// is returned as a JSON attachment.
func (ctl *Controller) ExportAuditLogs(c *gin.Context) {
	logs, err := ctl.audit.Export(c.Request.Context(), auditFilter(c))
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=audit-logs.json")
	c.JSON(http.StatusOK, logs)
}
