package routes

import (
	"net/http"
	"storefront/controllers"
	"storefront/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth     *controllers.AuthController
	Product  *controllers.ProductController
	Category *controllers.CategoryController
	Promo    *controllers.PromoController
	User     *controllers.UserController
	AdminLog *controllers.AdminLogController
	Contact  *controllers.ContactController
	Site     *controllers.SiteController
}

type Options struct {
	Production bool
	// UploadDir is served under /uploads when images are stored locally.
	UploadDir string
	// Accounts re-checks role and active flag on admin routes.
	Accounts middleware.AccountLookup
}

// SetupRoutes registers every endpoint. Actions reachable through
// /api-proxy share the exact handler chain of their /api route.
func SetupRoutes(router *gin.Engine, ctrl Controllers, opts Options) {
	admin := middleware.AdminMiddleware(opts.Production, opts.Accounts)
	csrf := middleware.CSRFMiddleware()
	proxy := controllers.NewProxy()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", ctrl.Site.Health)

	auth := router.Group("/auth")
	{
		auth.GET("/csrf-token", ctrl.Auth.CSRFToken)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/logout", csrf, ctrl.Auth.Logout)
		auth.POST("/reset-password", ctrl.Auth.ResetPassword)
	}

	router.POST("/contact", ctrl.Contact.Submit)

	api := router.Group("/api")
	action := func(method, name string, handlers ...gin.HandlerFunc) {
		api.Handle(method, "/"+name, handlers...)
		proxy.Register(name, method, handlers...)
	}

	action(http.MethodGet, "get_all_products", ctrl.Product.GetAllProducts)
	action(http.MethodGet, "get_products", ctrl.Product.GetProducts)
	action(http.MethodGet, "get_products_by_category", ctrl.Product.GetProductsByCategory)
	action(http.MethodGet, "get_search_products", ctrl.Product.SearchProducts)
	action(http.MethodGet, "get_product_details", csrf, ctrl.Product.GetProductDetails)
	action(http.MethodGet, "categories", ctrl.Category.GetCategories)
	action(http.MethodGet, "site-info", ctrl.Site.SiteInfo)
	api.GET("/promo/:slug", ctrl.Promo.GetPromo)

	action(http.MethodPost, "update_product_status", admin, csrf, ctrl.Product.UpdateProductStatus)
	action(http.MethodPost, "delete_selected_products", admin, csrf, ctrl.Product.DeleteSelectedProducts)
	action(http.MethodPost, "add-product", admin, csrf, ctrl.Product.AddProduct)
	action(http.MethodPost, "add-promo", admin, csrf, ctrl.Promo.AddPromo)
	action(http.MethodPost, "update-promo", admin, csrf, ctrl.Promo.UpdatePromo)
	action(http.MethodPost, "update_promo_status", admin, csrf, ctrl.Promo.UpdatePromoStatus)
	action(http.MethodGet, "promos", admin, ctrl.Promo.ListPromos)
	api.POST("/add-category", admin, csrf, ctrl.Category.CreateCategory)

	adminAPI := api.Group("/admin", admin)
	{
		adminAPI.GET("/users", ctrl.User.GetAllUsers)
		adminAPI.GET("/logs", ctrl.AdminLog.ListLogs)
		adminAPI.POST("/update_user_role", csrf, ctrl.User.UpdateUserRole)
		adminAPI.POST("/update_user_active", csrf, ctrl.User.UpdateUserActive)
		adminAPI.POST("/delete_user", csrf, ctrl.User.DeleteUser)
		adminAPI.POST("/reset_user_password", csrf, ctrl.User.IssuePasswordReset)
	}

	router.Any("/api-proxy", proxy.Handle)

	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}
}
