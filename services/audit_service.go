package services

import (
	"context"
	"strings"
	"time"

	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditFilter narrows an audit log listing. Zero values mean no filter.
type AuditFilter struct {
	Action    string
	UserRole  string
	Search    string
	TimeRange string // 1h, 24h, 7d or 30d
}

var auditTimeRanges = map[string]time.Duration{
	"1h":  time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// AuditService writes and queries the audit trail
type AuditService struct {
	db  *gorm.DB
	log *logrus.Logger
	now func() time.Time
}

// NewAuditService creates an AuditService
func NewAuditService(db *gorm.DB, log *logrus.Logger) *AuditService {
	return &AuditService{db: db, log: log, now: time.Now}
}

// Record inserts an audit entry. Failures are logged and never surface to the caller.
func (s *AuditService) Record(ctx context.Context, entry models.AuditLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	if entry.Status == "" {
		entry.Status = models.AuditStatusSuccess
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action": entry.Action,
			"user":   entry.User,
		}).Error("Failed to write audit log")
	}
}

// Create inserts an audit entry and reports failures
func (s *AuditService) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	if entry.Status == "" {
		entry.Status = models.AuditStatusSuccess
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(entry).Error, "create audit log")
}

func (s *AuditService) query(ctx context.Context, filter AuditFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.Action != "" {
		q = q.Where("action = ?", strings.ToUpper(filter.Action))
	}
	if filter.UserRole != "" {
		q = q.Where("user_role = ?", strings.ToUpper(filter.UserRole))
	}
	if filter.Search != "" {
		like := utils.ContainsPattern(filter.Search)
		q = q.Where("("+utils.LikeClause("user_name")+" OR "+utils.LikeClause("description")+")", like, like)
	}
	if d, ok := auditTimeRanges[filter.TimeRange]; ok {
		q = q.Where("logged_at >= ?", s.now().UTC().Add(-d))
	}
	return q
}

// List returns one page of matching entries, newest first, and the total match count
func (s *AuditService) List(ctx context.Context, filter AuditFilter, page utils.Pagination) ([]models.AuditLog, int64, error) {
	var total int64
	if err := s.query(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count audit logs")
	}

	logs := []models.AuditLog{}
	err := s.query(ctx, filter).
		Order("logged_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list audit logs")
	}
	return logs, total, nil
}

// Export returns every matching entry, newest first
func (s *AuditService) Export(ctx context.Context, filter AuditFilter) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	err := s.query(ctx, filter).Order("logged_at DESC").Order("id DESC").Find(&logs).Error
	return logs, errors.Wrap(err, "export audit logs")
}

// Recent returns the latest limit entries
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	err := s.db.WithContext(ctx).Order("logged_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, errors.Wrap(err, "recent audit logs")
}
