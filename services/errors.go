package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ServiceError is a classified failure that maps directly to an HTTP response
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// BadRequest reports a client input error
func BadRequest(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized reports a missing or invalid principal
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

// Forbidden reports a principal that lacks the required role
func Forbidden(message string) *ServiceError {
	return &ServiceError{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: message}
}

// NotFound reports a missing referenced record
func NotFound(message string) *ServiceError {
	return &ServiceError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

// Conflict reports a uniqueness violation. It is answered with 400.
func Conflict(message string) *ServiceError {
	return &ServiceError{Status: http.StatusBadRequest, Code: "DUPLICATE", Message: message}
}

// AsServiceError unwraps err into a *ServiceError if it carries one
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// IsNotFound reports whether err is gorm's record-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
