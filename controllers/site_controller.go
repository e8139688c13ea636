package controllers

import (
	"net/http"
	"storefront/config"
	"storefront/models"

	"github.com/gin-gonic/gin"
)

type SiteController struct {
	cfg *config.Config
}

func NewSiteController(cfg *config.Config) *SiteController {
	return &SiteController{cfg: cfg}
}

// @Summary Site info
// @Description Public contact details and settings for the current environment
// @Tags Site
// @Produce json
// @Success 200 {object} models.Response{data=models.SiteInfo}
// @Router /api/site-info [get]
func (ctrl *SiteController) SiteInfo(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Informasi situs",
		Data: models.SiteInfo{
			BaseURL:          ctrl.cfg.BaseURL(),
			Environment:      ctrl.cfg.AppEnv,
			PhoneNumber:      ctrl.cfg.PhoneNumber,
			WhatsAppNumber:   ctrl.cfg.WhatsAppNumber,
			RecaptchaSiteKey: ctrl.cfg.RecaptchaSiteKey,
			Social:           ctrl.cfg.Social,
		},
	})
}

// @Summary Health check
// @Tags Site
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (ctrl *SiteController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
