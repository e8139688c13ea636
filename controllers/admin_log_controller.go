package controllers

import (
	"net/http"
	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
)

type AdminLogController struct {
	logs       *services.AdminLogService
	production bool
}

func NewAdminLogController(logs *services.AdminLogService, production bool) *AdminLogController {
	return &AdminLogController{logs: logs, production: production}
}

// @Summary Admin activity log
// @Tags Admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.PaginationResponse{data=[]models.AdminLog}
// @Router /api/admin/logs [get]
func (ctrl *AdminLogController) ListLogs(c *gin.Context) {
	page := utils.ParseIntDefault(c.Query("page"), 1)
	limit := utils.ParseIntDefault(c.Query("limit"), utils.DefaultPageLimit)

	logs, meta, err := ctrl.logs.List(c.Request.Context(), page, limit)
	if err != nil {
		respondListError(c, err, ctrl.production, meta)
		return
	}

	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Log admin berhasil dimuat",
		Data:    logs,
		Meta:    meta,
	})
}
