package controllers

import (
	"log"
	"net/http"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth       *services.AuthService
	sessions   *utils.SessionManager
	production bool
}

func NewAuthController(auth *services.AuthService, sessions *utils.SessionManager, production bool) *AuthController {
	return &AuthController{auth: auth, sessions: sessions, production: production}
}

// CSRFToken godoc
// @Summary Get CSRF token
// @Description Returns the session's CSRF token, starting a guest session when there is none
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.Response{data=models.CSRFTokenResponse}
// @Router /auth/csrf-token [get]
func (ctrl *AuthController) CSRFToken(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		token, guest, err := ctrl.sessions.IssueGuest()
		if err != nil {
			respondError(c, err, ctrl.production)
			return
		}
		middleware.SetSessionCookie(c, token, ctrl.sessions.TTL(), ctrl.production)
		middleware.SetIdentity(c, &guest)
		identity = &guest
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Token CSRF",
		Data:    models.CSRFTokenResponse{CSRFToken: identity.CSRFToken},
	})
}

// Login godoc
// @Summary Login
// @Description Username or email with password; sets the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	user, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	token, identity, err := ctrl.sessions.Issue(models.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}
	middleware.SetSessionCookie(c, token, ctrl.sessions.TTL(), ctrl.production)
	log.Printf("[Auth] user %d (%s) logged in", user.ID, user.Role)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login berhasil",
		Data:    models.LoginResponse{User: *user, CSRFToken: identity.CSRFToken},
	})
}

// Logout godoc
// @Summary Logout
// @Tags Authentication
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, ctrl.production)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Logout berhasil",
	})
}

// ResetPassword godoc
// @Summary Reset password
// @Description Consumes a one-time reset token and sets a new password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/reset-password [post]
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	if err := ctrl.auth.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Kata sandi berhasil diperbarui, silakan login",
	})
}
