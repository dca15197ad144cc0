package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/middleware"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token when it is not sent as a cookie
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest represents the request body for changing a password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (ctl *Controller) setAuthCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(ctl.tokens.AccessTTL().Seconds()), "/", "", ctl.secureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken, int(ctl.tokens.RefreshTTL().Seconds()), "/", "", ctl.secureCookies, true)
}

func (ctl *Controller) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", ctl.secureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", ctl.secureCookies, true)
}

func sessionJSON(message string, user *models.User, pair *services.TokenPair) gin.H {
	return gin.H{
		"message": message,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresAt":    pair.ExpiresAt,
	}
}

// Login handles POST /api/v1/user/login
func (ctl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, pair, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Password, requestMeta(c))
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, sessionJSON("Login successful", user, pair))
}

// Logout handles POST /api/v1/user/logout
func (ctl *Controller) Logout(c *gin.Context) {
	if err := ctl.auth.Logout(c.Request.Context(), currentUser(c), requestMeta(c)); err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// RefreshToken handles POST /api/v1/user/refresh-token. The token is read from
// the refresh_token cookie or the request body.
func (ctl *Controller) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}

	user, pair, err := ctl.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		ctl.respondError(c, err)
		return
	}

	ctl.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, sessionJSON("Token refreshed", user, pair))
}

// GetCurrentUser handles GET /api/v1/user/me
func (ctl *Controller) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// ChangePassword handles PUT /api/v1/user/:id/password. Users may only change
// their own password.
func (ctl *Controller) ChangePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if id != currentUser(c).ID {
		errorJSON(c, http.StatusForbidden, "FORBIDDEN", "You can only change your own password")
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctl.auth.ChangePassword(c.Request.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		ctl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
