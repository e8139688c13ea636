package controllers

import (
	"net/http"
	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *services.UserService
	production  bool
}

func NewUserController(userService *services.UserService, production bool) *UserController {
	return &UserController{
		userService: userService,
		production:  production,
	}
}

// @Summary List users
// @Tags Admin Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.PaginationResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/admin/users [get]
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	page := utils.ParseIntDefault(c.Query("page"), 1)
	limit := utils.ParseIntDefault(c.Query("limit"), utils.DefaultPageLimit)

	users, meta, err := ctrl.userService.GetAllUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondListError(c, err, ctrl.production, meta)
		return
	}

	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Pengguna berhasil dimuat",
		Data:    users,
		Meta:    meta,
	})
}

// @Summary Change user role
// @Tags Admin Users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param user_id formData int true "User ID"
// @Param role formData string true "Role" Enums(admin, customer)
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Router /api/admin/update_user_role [post]
func (ctrl *UserController) UpdateUserRole(c *gin.Context) {
	var req models.UpdateUserRoleRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	if err := ctrl.userService.UpdateRole(c.Request.Context(), adminID(c), req.UserID, req.Role); err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Peran pengguna berhasil diperbarui",
	})
}

// @Summary Activate or deactivate user
// @Tags Admin Users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param user_id formData int true "User ID"
// @Param is_active formData bool true "Active flag"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response
// @Router /api/admin/update_user_active [post]
func (ctrl *UserController) UpdateUserActive(c *gin.Context) {
	var req models.UpdateUserActiveRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	if err := ctrl.userService.SetActive(c.Request.Context(), adminID(c), req.UserID, *req.IsActive); err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Status pengguna berhasil diperbarui",
	})
}

// @Summary Delete user
// @Tags Admin Users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param user_id formData int true "User ID"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/delete_user [post]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	var req models.UserIDRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	if err := ctrl.userService.DeleteUser(c.Request.Context(), adminID(c), req.UserID); err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Pengguna berhasil dihapus",
	})
}

// @Summary Issue password reset
// @Description Emails a one-time reset link; the link is echoed back outside production
// @Tags Admin Users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param user_id formData int true "User ID"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response{data=models.PasswordResetIssued}
// @Router /api/admin/reset_user_password [post]
func (ctrl *UserController) IssuePasswordReset(c *gin.Context) {
	var req models.UserIDRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	issued, err := ctrl.userService.IssuePasswordReset(c.Request.Context(), adminID(c), req.UserID)
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Tautan reset kata sandi telah dibuat",
		Data:    issued,
	})
}
