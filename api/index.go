package api

import (
	"context"
	"log"
	"net/http"
	"storefront/app"
	"storefront/config"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	application *app.App
	initErr     error
	once        sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		application, initErr = app.New(context.Background(), cfg)
	})
}

// Handler is the serverless entrypoint; the app is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		log.Printf("[API] init failed: %v", initErr)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"error_kind":"internal","message":"Layanan belum siap"}`))
		return
	}
	application.Router.ServeHTTP(w, r)
}
