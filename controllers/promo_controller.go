package controllers

import (
	"net/http"
	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
)

type PromoController struct {
	promos     *services.PromoService
	production bool
}

func NewPromoController(promos *services.PromoService, production bool) *PromoController {
	return &PromoController{promos: promos, production: production}
}

// @Summary Add promo
// @Tags Admin Promos
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Name"
// @Param code formData string true "Promo code"
// @Param discount_type formData string true "Discount type" Enums(percentage, fixed)
// @Param discount_value formData string true "Discount value"
// @Param max_discount formData string false "Maximum discount"
// @Param start_date formData string false "Start date"
// @Param end_date formData string false "End date"
// @Param status formData string false "Status" Enums(active, inactive, scheduled, expired)
// @Param min_purchase formData string false "Minimum purchase"
// @Param max_claims formData int false "Maximum claims"
// @Param product_ids[] formData []string false "Encoded product IDs"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 201 {object} models.Response{data=models.Promo}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/add-promo [post]
func (ctrl *PromoController) AddPromo(c *gin.Context) {
	var input models.PromoInput
	if err := c.ShouldBind(&input); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	promo, err := ctrl.promos.Create(c.Request.Context(), adminID(c), input)
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Promo berhasil ditambahkan",
		Data:    promo,
	})
}

// @Summary Update promo
// @Tags Admin Promos
// @Accept x-www-form-urlencoded
// @Produce json
// @Param promo_id formData int true "Promo ID"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response{data=models.Promo}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/update-promo [post]
func (ctrl *PromoController) UpdatePromo(c *gin.Context) {
	var req models.UpdatePromoRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	promo, err := ctrl.promos.Update(c.Request.Context(), adminID(c), req.PromoID, req.PromoInput)
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Promo berhasil diperbarui",
		Data:    promo,
	})
}

// @Summary Update promo status
// @Description Same status is a conflict; nothing is written in that case
// @Tags Admin Promos
// @Accept x-www-form-urlencoded
// @Produce json
// @Param promo_id formData int true "Promo ID"
// @Param new_status formData string true "New status" Enums(active, inactive, scheduled, expired)
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response{data=services.PromoStatusChange}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/update_promo_status [post]
func (ctrl *PromoController) UpdatePromoStatus(c *gin.Context) {
	var req models.UpdatePromoStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	change, err := ctrl.promos.UpdateStatus(c.Request.Context(), adminID(c), req.PromoID, req.NewStatus)
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Status promo berhasil diperbarui",
		Data:    change,
	})
}

// @Summary List promos
// @Tags Admin Promos
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.PaginationResponse
// @Router /api/promos [get]
func (ctrl *PromoController) ListPromos(c *gin.Context) {
	page := utils.ParseIntDefault(c.Query("page"), 1)
	limit := utils.ParseIntDefault(c.Query("limit"), utils.DefaultPageLimit)

	promos, meta, err := ctrl.promos.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respondListError(c, err, ctrl.production, meta)
		return
	}

	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Promo berhasil dimuat",
		Data:    promos,
		Meta:    meta,
	})
}

// @Summary Promo page
// @Description Active promo with the products it applies to
// @Tags Promos
// @Produce json
// @Param slug path string true "Promo slug"
// @Success 200 {object} models.Response{data=models.Promo}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/promo/{slug} [get]
func (ctrl *PromoController) GetPromo(c *gin.Context) {
	promo, err := ctrl.promos.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Promo berhasil dimuat",
		Data:    promo,
	})
}
