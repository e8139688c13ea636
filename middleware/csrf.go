package middleware

import (
	"crypto/subtle"
	"net/http"
	"storefront/models"

	"github.com/gin-gonic/gin"
)

const (
	CSRFHeader    = "X-CSRF-Token"
	CSRFFormField = "csrf_token"
)

// CSRFMiddleware requires the session's CSRF token in the X-CSRF-Token
// header or the csrf_token form field.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil || identity.CSRFToken == "" {
			abortWith(c, http.StatusForbidden, models.ErrorKindCSRF, "Sesi tidak valid, muat ulang halaman")
			return
		}

		token := c.GetHeader(CSRFHeader)
		if token == "" {
			token = c.PostForm(CSRFFormField)
		}

		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(identity.CSRFToken)) != 1 {
			abortWith(c, http.StatusForbidden, models.ErrorKindCSRF, "Token CSRF tidak valid")
			return
		}

		c.Next()
	}
}
