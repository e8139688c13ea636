package app

import (
	"context"
	"fmt"
	"log"
	"storefront/config"
	"storefront/controllers"
	"storefront/libs"
	"storefront/middleware"
	"storefront/repositories"
	"storefront/routes"
	"storefront/services"
	"storefront/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	contactLimit  = 5
	contactWindow = 10 * time.Minute
)

// App owns the router and the connections behind it.
type App struct {
	Router *gin.Engine
	pool   *pgxpool.Pool
	redis  *redis.Client
}

// New connects to Postgres (and Redis when reachable), applies migrations
// and wires every handler.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := config.RunMigrations(cfg.DSN(), cfg.MigrationDir); err != nil {
		return nil, err
	}

	pool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{pool: pool, redis: config.ConnectRedis(ctx, cfg)}

	router, err := a.buildRouter(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Router = router
	return a, nil
}

func (a *App) buildRouter(cfg *config.Config) (*gin.Engine, error) {
	codec, err := utils.NewIDCodec(cfg.HashidsSalt, cfg.HashidsMinLength)
	if err != nil {
		return nil, fmt.Errorf("failed to init id codec: %w", err)
	}
	sessions := utils.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)

	images, uploadDir, err := imageStore(cfg)
	if err != nil {
		return nil, err
	}

	var mailer services.Mailer
	if cfg.SMTPConfigured() {
		mailer = libs.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, "Storefront")
	} else {
		log.Println("SMTP not configured, password reset emails are disabled")
	}

	var limiter services.RateLimiter
	if a.redis != nil {
		limiter = libs.NewRedisRateLimiter(a.redis, "contact", contactLimit, contactWindow)
	}

	var captcha services.CaptchaVerifier
	if cfg.RecaptchaSecretKey != "" {
		captcha = libs.NewRecaptchaVerifier(cfg.RecaptchaSecretKey)
	}

	prod := cfg.IsProduction()
	ctrl := routes.Controllers{
		Auth:     controllers.NewAuthController(services.NewAuthService(a.pool), sessions, prod),
		Product:  controllers.NewProductController(services.NewProductService(a.pool, codec, images), prod),
		Category: controllers.NewCategoryController(services.NewCategoryService(a.pool), prod),
		Promo:    controllers.NewPromoController(services.NewPromoService(a.pool, codec), prod),
		User:     controllers.NewUserController(services.NewUserService(a.pool, mailer, cfg.BaseURL(), prod), prod),
		AdminLog: controllers.NewAdminLogController(services.NewAdminLogService(a.pool), prod),
		Contact:  controllers.NewContactController(services.NewContactService(cfg.WhatsAppNumber, limiter, captcha), prod),
		Site:     controllers.NewSiteController(cfg),
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadSize
	router.Use(gin.Logger(), middleware.Recovery(prod))
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	router.Use(middleware.Session(sessions))

	routes.SetupRoutes(router, ctrl, routes.Options{
		Production: prod,
		UploadDir:  uploadDir,
		Accounts:   repositories.NewUserRepository(a.pool),
	})
	return router, nil
}

// imageStore picks Cloudinary when configured and local disk otherwise.
// The returned directory is non-empty only for the local store.
func imageStore(cfg *config.Config) (libs.ImageStore, string, error) {
	if cfg.CloudinaryConfigured() {
		store, err := libs.NewCloudinaryImageStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret, "storefront/products", cfg.MaxUploadSize)
		if err != nil {
			return nil, "", err
		}
		log.Println("Product images stored on Cloudinary")
		return store, "", nil
	}

	log.Printf("Product images stored locally in %s", cfg.UploadDir)
	return libs.NewLocalImageStore(cfg.UploadDir, "/uploads", cfg.MaxUploadSize), cfg.UploadDir, nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("Failed to close Redis: %v", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
