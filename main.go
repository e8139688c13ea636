package main

import (
	"context"
	"log"
	"os"
	"storefront/app"
	"storefront/config"
	_ "storefront/docs"

	"github.com/gin-gonic/gin"
)

// @title Storefront API
// @version 1.0
// @description Product catalog, promos and admin backend.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
	defer application.Close()

	port := ":" + cfg.Port
	log.Printf("Server starting on port %s", port)
	log.Printf("Swagger UI: %s/swagger/index.html", cfg.BaseURL())

	if err := application.Router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
