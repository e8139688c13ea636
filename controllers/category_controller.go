package controllers

import (
	"net/http"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categories *services.CategoryService
	production bool
}

func NewCategoryController(categories *services.CategoryService, production bool) *CategoryController {
	return &CategoryController{categories: categories, production: production}
}

// @Summary Get all categories
// @Tags Categories
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Category}
// @Router /api/categories [get]
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.categories.List(c.Request.Context())
	if err != nil {
		respondListError(c, err, ctrl.production, models.MetaData{})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Kategori berhasil dimuat",
		Data:    categories,
	})
}

// @Summary Create category
// @Tags Categories
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Category name"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 201 {object} models.Response{data=models.Category}
// @Failure 409 {object} models.ErrorResponse
// @Router /api/add-category [post]
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	category, err := ctrl.categories.Create(c.Request.Context(), adminID(c), req.Name)
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Kategori berhasil ditambahkan",
		Data:    category,
	})
}
