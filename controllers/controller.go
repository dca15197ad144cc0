package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/middleware"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
	"github.com/kendall-kelly/tna-tracker-api/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options carries the dependencies of Controller
type Options struct {
	DB     *gorm.DB
	Log    *logrus.Logger
	Tokens *services.TokenService
	Images services.ImageService

	// RejectCompletedStyle refuses new TNAs for styles already shipped
	RejectCompletedStyle bool

	// SecureCookies marks the auth cookies Secure
	SecureCookies bool
}

// Controller holds the HTTP handlers of the API and the services they use
type Controller struct {
	db            *gorm.DB
	log           *logrus.Logger
	tokens        *services.TokenService
	images        services.ImageService
	auth          *services.AuthService
	audit         *services.AuditService
	summary       *services.SummaryService
	tnas          *services.TNAService
	secureCookies bool
}

// New wires the services used by the handlers
func New(opts Options) *Controller {
	audit := services.NewAuditService(opts.DB, opts.Log)

	return &Controller{
		db:            opts.DB,
		log:           opts.Log,
		tokens:        opts.Tokens,
		images:        opts.Images,
		auth:          services.NewAuthService(opts.DB, opts.Tokens, audit),
		audit:         audit,
		summary:       services.NewSummaryService(opts.DB),
		tnas:          services.NewTNAService(opts.DB, opts.RejectCompletedStyle),
		secureCookies: opts.SecureCookies,
	}
}

// conn returns the database handle bound to the request context
func (ctl *Controller) conn(c *gin.Context) *gorm.DB {
	return ctl.db.WithContext(c.Request.Context())
}

func errorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": message, "code": code})
}

// respondError writes classified errors as is. Anything else is logged and
// answered with a generic 500.
func (ctl *Controller) respondError(c *gin.Context, err error) {
	if svcErr, ok := services.AsServiceError(err); ok {
		errorJSON(c, svcErr.Status, svcErr.Code, svcErr.Message)
		return
	}

	var fileErr *utils.FileUploadError
	if errors.As(err, &fileErr) {
		errorJSON(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
		return
	}

	ctl.log.WithError(err).WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
	}).Error("Request failed")
	errorJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// bindJSON decodes the body into dst or answers 400
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return false
	}
	return true
}

// parseID reads the :id path parameter or answers 400
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

func callerScope(c *gin.Context) services.Scope {
	return services.ScopeFor(currentUser(c))
}

func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// pageParams reads page and pageSize, accepting limit as an alias of pageSize
func pageParams(c *gin.Context, defaultSize int) utils.Pagination {
	size := c.Query("pageSize")
	if size == "" {
		size = c.Query("limit")
	}
	return utils.NewPagination(c.Query("page"), size, defaultSize)
}

// dateRangeParams parses startDate and endDate or answers 400
func dateRangeParams(c *gin.Context) (utils.DateRange, bool) {
	r, err := utils.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date format")
		return r, false
	}
	return r, true
}

// applyDateRange bounds column by r, both ends inclusive
func applyDateRange(q *gorm.DB, column string, r utils.DateRange) *gorm.DB {
	if r.Start != nil {
		q = q.Where(column+" >= ?", *r.Start)
	}
	if r.End != nil {
		q = q.Where(column+" <= ?", *r.End)
	}
	return q
}

// applySearch adds a case-insensitive substring match over columns
func applySearch(q *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return q
	}

	pattern := utils.ContainsPattern(search)
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		clauses[i] = utils.LikeClause(column)
		args[i] = pattern
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// paginate counts q, then loads one page of it in order into dest with the
// given associations preloaded
func paginate(q *gorm.DB, order string, page utils.Pagination, dest interface{}, preloads ...string) (int64, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}

	find := q.Order(order).Offset(page.Offset()).Limit(page.PageSize)
	for _, association := range preloads {
		find = find.Preload(association)
	}
	if err := find.Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func listJSON(c *gin.Context, data interface{}, total int64, page utils.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": gin.H{
			"total":      total,
			"page":       page.Page,
			"pageSize":   page.PageSize,
			"totalPages": page.TotalPages(total),
		},
	})
}

// findScoped loads the row with id into dest. A non-empty ownerColumn limits
// merchandisers to their own rows. Missing rows answer 404 with notFound.
func (ctl *Controller) findScoped(c *gin.Context, dest interface{}, id uint, ownerColumn, notFound string) bool {
	q := ctl.conn(c)
	if ownerColumn != "" {
		q = callerScope(c).Apply(q, ownerColumn)
	}

	if err := q.First(dest, id).Error; err != nil {
		if services.IsNotFound(err) {
			errorJSON(c, http.StatusNotFound, "NOT_FOUND", notFound)
			return false
		}
		ctl.respondError(c, err)
		return false
	}
	return true
}

// deleteScoped hard deletes the row with id, answering 404 when nothing matched
func (ctl *Controller) deleteScoped(c *gin.Context, model interface{}, ownerColumn, resource, notFound string) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	q := ctl.conn(c)
	if ownerColumn != "" {
		q = callerScope(c).Apply(q, ownerColumn)
	}

	result := q.Delete(model, id)
	if result.Error != nil {
		ctl.respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		errorJSON(c, http.StatusNotFound, "NOT_FOUND", notFound)
		return
	}

	ctl.record(c, models.AuditActionDelete, resource, id, "Deleted "+strings.ToLower(resource)+" "+strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// record writes an audit entry for the calling user
func (ctl *Controller) record(c *gin.Context, action, resource string, id uint, description string) {
	entry := models.AuditLog{
		User:        "SYSTEM",
		UserRole:    "SYSTEM",
		Action:      action,
		Resource:    resource,
		ResourceID:  strconv.FormatUint(uint64(id), 10),
		Description: description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Status:      models.AuditStatusSuccess,
	}
	if user := currentUser(c); user != nil {
		entry.User = user.Email
		entry.UserRole = user.Role
	}
	ctl.audit.Record(c.Request.Context(), entry)
}
