package controllers

import (
	"net/http"
	"storefront/models"
	"storefront/services"
	"storefront/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	products   *services.ProductService
	production bool
}

func NewProductController(products *services.ProductService, production bool) *ProductController {
	return &ProductController{products: products, production: production}
}

func (ctrl *ProductController) respondPage(c *gin.Context, page *services.ProductPage, err error, data func([]models.Product) interface{}) {
	if err != nil {
		meta := models.MetaData{}
		if page != nil {
			meta = page.Meta
		}
		respondListError(c, err, ctrl.production, meta)
		return
	}

	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Produk berhasil dimuat",
		Data:    data(page.Products),
		Meta:    page.Meta,
	})
}

func fullProducts(products []models.Product) interface{} {
	return products
}

func productCards(products []models.Product) interface{} {
	cards := make([]models.ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, p.Card())
	}
	return cards
}

// @Summary Get all products
// @Description Paginated list of active products, newest first
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.PaginationResponse
// @Failure 500 {object} models.ListErrorResponse
// @Router /api/get_all_products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	page := utils.ParseIntDefault(c.Query("page"), 1)
	limit := utils.ParseIntDefault(c.Query("limit"), utils.DefaultPageLimit)

	result, err := ctrl.products.ListAll(c.Request.Context(), page, limit)
	ctrl.respondPage(c, result, err, fullProducts)
}

// @Summary Filter products
// @Description Filter active products by category names and price range
// @Tags Products
// @Produce json
// @Param categories[] query []string false "Category names"
// @Param min_price query int false "Minimum price"
// @Param max_price query int false "Maximum price"
// @Param sort_by query string false "Sort key" Enums(price_low, price_high, name, created)
// @Param order query string false "Sort direction for name and created" Enums(ASC, DESC)
// @Param limit query int false "Limit" default(12)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.PaginationResponse
// @Failure 500 {object} models.ListErrorResponse
// @Router /api/get_products [get]
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	var categories []string
	categories = append(categories, c.QueryArray("categories[]")...)
	categories = append(categories, c.QueryArray("categories")...)
	if single := strings.TrimSpace(c.Query("category")); single != "" {
		categories = append(categories, single)
	}

	filter := models.ProductFilter{
		Categories: nonEmpty(categories),
		MinPrice:   utils.ParseOptionalInt64(c.Query("min_price")),
		MaxPrice:   utils.ParseOptionalInt64(c.Query("max_price")),
		SortBy:     c.Query("sort_by"),
		Order:      c.Query("order"),
		Limit:      utils.ParseIntDefault(c.Query("limit"), utils.DefaultPageLimit),
		Offset:     utils.ParseIntDefault(c.Query("offset"), 0),
	}

	result, err := ctrl.products.List(c.Request.Context(), filter)
	ctrl.respondPage(c, result, err, productCards)
}

// @Summary Products by category
// @Tags Products
// @Produce json
// @Param category_id query int true "Category ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.PaginationResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/get_products_by_category [get]
func (ctrl *ProductController) GetProductsByCategory(c *gin.Context) {
	categoryID := utils.ParseOptionalInt64(c.Query("category_id"))
	if categoryID == nil {
		respondError(c, services.ErrInvalidCategory, ctrl.production)
		return
	}

	page := utils.ParseIntDefault(c.Query("page"), 1)
	limit := utils.ParseIntDefault(c.Query("limit"), utils.DefaultPageLimit)

	result, err := ctrl.products.ListByCategory(c.Request.Context(), *categoryID, page, limit)
	ctrl.respondPage(c, result, err, fullProducts)
}

// @Summary Search products
// @Tags Products
// @Produce json
// @Param keyword query string true "Keyword matched against name and description"
// @Param category_id query int false "Category ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.PaginationResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/get_search_products [get]
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	var categoryID int64
	if id := utils.ParseOptionalInt64(c.Query("category_id")); id != nil {
		categoryID = *id
	}
	page := utils.ParseIntDefault(c.Query("page"), 1)
	limit := utils.ParseIntDefault(c.Query("limit"), utils.DefaultPageLimit)

	result, err := ctrl.products.Search(c.Request.Context(), c.Query("keyword"), categoryID, page, limit)
	ctrl.respondPage(c, result, err, fullProducts)
}

// @Summary Product details
// @Tags Products
// @Produce json
// @Param product_id query string true "Encoded product ID"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/get_product_details [get]
func (ctrl *ProductController) GetProductDetails(c *gin.Context) {
	product, err := ctrl.products.Detail(c.Request.Context(), c.Query("product_id"))
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Detail produk berhasil dimuat",
		Data:    product,
	})
}

// @Summary Update product status
// @Tags Admin Products
// @Accept x-www-form-urlencoded
// @Produce json
// @Param product_id formData string true "Encoded product ID"
// @Param new_status formData string true "New status" Enums(active, inactive)
// @Param csrf_token formData string true "CSRF token"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/update_product_status [post]
func (ctrl *ProductController) UpdateProductStatus(c *gin.Context) {
	var req models.UpdateProductStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	if err := ctrl.products.UpdateStatus(c.Request.Context(), adminID(c), req.ProductID, req.NewStatus); err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Status produk berhasil diperbarui",
	})
}

// @Summary Delete selected products
// @Description Each id is deleted independently; failures are reported per id
// @Tags Admin Products
// @Accept x-www-form-urlencoded
// @Produce json
// @Param product_ids[] formData []string true "Encoded product IDs"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} models.Response{data=models.BatchDeleteResult}
// @Router /api/delete_selected_products [post]
func (ctrl *ProductController) DeleteSelectedProducts(c *gin.Context) {
	var req models.DeleteProductsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	result, err := ctrl.products.DeleteSelected(c.Request.Context(), adminID(c), req.ProductIDs)
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	message := "Produk berhasil dihapus"
	if len(result.Failed) > 0 {
		message = "Sebagian produk gagal dihapus"
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: message,
		Data:    result,
	})
}

// @Summary Add product
// @Tags Admin Products
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Param price formData string true "Price"
// @Param currency formData string false "ISO currency" default(IDR)
// @Param status formData string false "Status" Enums(active, inactive)
// @Param categories[] formData []string false "Category names"
// @Param tags formData string false "Comma separated tags"
// @Param images[] formData file false "Product images"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 201 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/add-product [post]
func (ctrl *ProductController) AddProduct(c *gin.Context) {
	input := models.CreateProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Currency:    c.PostForm("currency"),
		Status:      c.PostForm("status"),
		Categories:  c.PostFormArray("categories[]"),
		Tags:        services.SplitTags(c.PostForm("tags")),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		input.Images = append(input.Images, form.File["images[]"]...)
		input.Images = append(input.Images, form.File["images"]...)
	}

	product, err := ctrl.products.Create(c.Request.Context(), adminID(c), input)
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Produk berhasil ditambahkan",
		Data:    product,
	})
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
