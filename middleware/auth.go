package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	requestContextKey = "request_context"

	// AccessTokenCookie and RefreshTokenCookie name the auth cookies
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// RequestContext is attached to every authenticated request
type RequestContext struct {
	Principal *models.User
	DB        *gorm.DB
}

// tokenExtractor reads the bearer header first, then the access token cookie
var tokenExtractor = jwtmiddleware.MultiTokenExtractor(
	jwtmiddleware.AuthHeaderTokenExtractor,
	jwtmiddleware.CookieTokenExtractor(AccessTokenCookie),
)

// EnsureValidToken is a middleware that checks the access token, confirms it is
// still the stored token for its user and loads that user.
func EnsureValidToken(tokens *services.TokenService, db *gorm.DB, log *logrus.Logger) gin.HandlerFunc {
	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).WithField("path", r.URL.Path).Debug("Rejected access token")

		code, message := "INVALID_TOKEN", "Invalid or expired token"
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			code, message = "MISSING_TOKEN", "Access token required"
		}
		writeJSONError(w, http.StatusUnauthorized, code, message)
	}

	middleware := jwtmiddleware.New(
		tokens.AccessValidator().ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(tokenExtractor),
	)

	return func(c *gin.Context) {
		passed := false

		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r

			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
				return
			}
			if tc, ok := claims.CustomClaims.(*services.TokenClaims); !ok || tc.TokenType != services.TokenTypeAccess {
				abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
				return
			}

			userID, err := services.SubjectUserID(claims)
			if err != nil {
				abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
				return
			}

			token, _ := tokenExtractor(r)
			if err := tokens.MatchStored(r.Context(), services.AccessTokenKey(userID), token); err != nil {
				if errors.Is(err, services.ErrTokenRevoked) {
					abortWithError(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
					return
				}
				log.WithError(err).Error("Failed to check stored access token")
				abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}

			var user models.User
			if err := db.WithContext(r.Context()).First(&user, userID).Error; err != nil {
				if services.IsNotFound(err) {
					abortWithError(c, http.StatusUnauthorized, "USER_NOT_FOUND", "User not found")
					return
				}
				log.WithError(err).Error("Failed to load authenticated user")
				abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
			if user.Status != models.StatusActive {
				abortWithError(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is not active")
				return
			}

			SetRequestContext(c, &RequestContext{Principal: &user, DB: db})
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

// SetRequestContext attaches rc to the gin context
func SetRequestContext(c *gin.Context, rc *RequestContext) {
	c.Set(requestContextKey, rc)
}

// GetRequestContext extracts the RequestContext from the Gin context
func GetRequestContext(c *gin.Context) (*RequestContext, error) {
	value, exists := c.Get(requestContextKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CONTEXT", Message: "Request is not authenticated"}
	}

	rc, ok := value.(*RequestContext)
	if !ok || rc.Principal == nil {
		return nil, &AuthError{Code: "INVALID_CONTEXT", Message: "Request context is not in the expected format"}
	}

	return rc, nil
}

// CurrentUser returns the authenticated user or nil
func CurrentUser(c *gin.Context) *models.User {
	rc, err := GetRequestContext(c)
	if err != nil {
		return nil
	}
	return rc.Principal
}

// RequireRole is a middleware that only lets users holding one of roles through
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}

		if !allowed[user.Role] {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions to access this resource")
			return
		}

		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
