package middleware

import (
	"fmt"
	"log"
	"net/http"
	"storefront/models"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a JSON 500 instead of gin's empty response.
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[Recovery] panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)

		resp := models.ErrorResponse{
			Success:   false,
			ErrorKind: models.ErrorKindInternal,
			Message:   "Terjadi kesalahan pada server",
		}
		if !production {
			resp.Error = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}
