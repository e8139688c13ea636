package middleware

import (
	"net/http"
	"storefront/models"
	"storefront/utils"
	"time"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Session loads the identity from the session cookie, if any. Invalid or
// expired cookies are ignored; the request continues anonymously.
func Session(sessions *utils.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(utils.SessionCookieName)
		if err == nil && raw != "" {
			if identity, err := sessions.Parse(raw); err == nil {
				c.Set(identityKey, identity)
			}
		}
		c.Next()
	}
}

// CurrentIdentity returns the session identity or nil.
func CurrentIdentity(c *gin.Context) *models.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*models.Identity)
	return identity
}

func SetIdentity(c *gin.Context, identity *models.Identity) {
	c.Set(identityKey, identity)
}

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookieName, "", -1, "/", "", secure, true)
}
