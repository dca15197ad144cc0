package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RequestMeta describes the client of a request for the audit trail
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthService handles login, logout, token refresh and password changes
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	audit  *AuditService
}

// NewAuthService creates an AuthService
func NewAuthService(db *gorm.DB, tokens *TokenService, audit *AuditService) *AuthService {
	return &AuthService{db: db, tokens: tokens, audit: audit}
}

func (s *AuthService) loginAudit(ctx context.Context, meta RequestMeta, user, role, resourceID, description, status string) {
	s.audit.Record(ctx, models.AuditLog{
		User:        user,
		UserRole:    role,
		Action:      models.AuditActionLogin,
		Resource:    "USER",
		ResourceID:  resourceID,
		Description: description,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Status:      status,
	})
}

// Login verifies credentials, replaces any stored tokens with a new pair and
// records the attempt in the audit log whatever the outcome.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (*models.User, *TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, BadRequest("VALIDATION_ERROR", "Email and password are required")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if IsNotFound(err) {
		s.loginAudit(ctx, meta, email, "UNKNOWN", "N/A", "Login attempt failed: Invalid email or password", models.AuditStatusFailed)
		return nil, nil, Unauthorized("Invalid email or password")
	}
	if err != nil {
		s.loginAudit(ctx, meta, email, "UNKNOWN", "N/A", "Login attempt failed: server error", models.AuditStatusFailed)
		return nil, nil, errors.Wrap(err, "load user")
	}

	resourceID := strconv.FormatUint(uint64(user.ID), 10)
	if !CheckPassword(user.PasswordHash, password) {
		s.loginAudit(ctx, meta, email, "UNKNOWN", resourceID, "Login attempt failed: Invalid email or password", models.AuditStatusFailed)
		return nil, nil, Unauthorized("Invalid email or password")
	}
	if user.Status != models.StatusActive {
		s.loginAudit(ctx, meta, email, user.Role, resourceID, "Login attempt failed: Account is not active", models.AuditStatusFailed)
		return nil, nil, Forbidden("Account is not active")
	}

	pair, err := s.tokens.Issue(ctx, user.ID, user.Role)
	if err != nil {
		s.loginAudit(ctx, meta, email, user.Role, resourceID, "Login attempt failed: server error", models.AuditStatusFailed)
		return nil, nil, err
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, nil, errors.Wrap(err, "update last login")
	}
	user.LastLoginAt = &now

	s.loginAudit(ctx, meta, user.Email, user.Role, resourceID, fmt.Sprintf("User %s logged in", user.Email), models.AuditStatusSuccess)
	return &user, pair, nil
}

// Logout revokes the user's stored tokens and records the logout
func (s *AuthService) Logout(ctx context.Context, user *models.User, meta RequestMeta) error {
	resourceID := strconv.FormatUint(uint64(user.ID), 10)
	entry := models.AuditLog{
		User:       user.Email,
		UserRole:   user.Role,
		Action:     models.AuditActionLogout,
		Resource:   "USER",
		ResourceID: resourceID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	}

	if err := s.tokens.Revoke(ctx, user.ID); err != nil {
		entry.Description = "Logout attempt failed: token store error"
		entry.Status = models.AuditStatusFailed
		s.audit.Record(ctx, entry)
		return errors.Wrap(err, "revoke tokens")
	}

	entry.Description = fmt.Sprintf("User %s logged out", user.Email)
	entry.Status = models.AuditStatusSuccess
	s.audit.Record(ctx, entry)
	return nil
}

// Refresh exchanges a stored refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, Unauthorized("Refresh token required")
	}

	userID, err := s.tokens.CheckRefresh(ctx, refreshToken)
	if err != nil {
		return nil, nil, Unauthorized("Invalid refresh token")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if IsNotFound(err) {
			return nil, nil, Unauthorized("User not found")
		}
		return nil, nil, errors.Wrap(err, "load user")
	}
	if user.Status != models.StatusActive {
		return nil, nil, Forbidden("Account is not active")
	}

	pair, err := s.tokens.Issue(ctx, user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// ChangePassword replaces the password after verifying the old one
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return BadRequest("VALIDATION_ERROR", "Old password and new password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if IsNotFound(err) {
			return NotFound("User not found")
		}
		return errors.Wrap(err, "load user")
	}
	if !CheckPassword(user.PasswordHash, oldPassword) {
		return Unauthorized("Old password is incorrect")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	return errors.Wrap(
		s.db.WithContext(ctx).Model(&user).Update("password_hash", hash).Error,
		"update password",
	)
}
