package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"storefront/models"
	"storefront/repositories"

	"github.com/gin-gonic/gin"
)

func abortWith(c *gin.Context, status int, kind models.ErrorKind, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success:   false,
		ErrorKind: kind,
		Message:   message,
	})
}

// attemptedAction names the operation for rejection logs. Proxied calls
// carry it in the action parameter.
func attemptedAction(c *gin.Context) string {
	if action := c.Query("action"); action != "" {
		return action
	}
	return c.Request.Method + " " + c.FullPath()
}

// AccountLookup reloads the account behind a session.
type AccountLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// AdminMiddleware rejects the request before any handler runs unless the
// session belongs to an admin. With accounts set, the stored role and
// active flag win over the claims in the cookie.
func AdminMiddleware(production bool, accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)

		if !identity.IsAuthenticated() {
			if !production {
				log.Printf("[Auth] unauthenticated request to %s from %s", attemptedAction(c), c.ClientIP())
			}
			abortWith(c, http.StatusUnauthorized, models.ErrorKindUnauthorized, "Silakan login terlebih dahulu")
			return
		}

		if !identity.IsAdmin() {
			if !production {
				log.Printf("[Auth] user %d (%s) denied %s", identity.UserID, identity.Role, attemptedAction(c))
			}
			abortWith(c, http.StatusForbidden, models.ErrorKindForbidden, "Akses ditolak. Hanya admin yang diizinkan")
			return
		}

		if accounts != nil {
			user, err := accounts.FindByID(c.Request.Context(), identity.UserID)
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				abortWith(c, http.StatusUnauthorized, models.ErrorKindUnauthorized, "Sesi tidak lagi berlaku, silakan login ulang")
				return
			case err != nil:
				log.Printf("[Auth] account lookup for user %d failed: %v", identity.UserID, err)
				abortWith(c, http.StatusInternalServerError, models.ErrorKindInternal, "Terjadi kesalahan pada server")
				return
			case !user.IsActive:
				if !production {
					log.Printf("[Auth] inactive user %d denied %s", identity.UserID, attemptedAction(c))
				}
				abortWith(c, http.StatusUnauthorized, models.ErrorKindUnauthorized, "Sesi tidak lagi berlaku, silakan login ulang")
				return
			case user.Role != models.RoleAdmin:
				if !production {
					log.Printf("[Auth] user %d lost admin role, denied %s", identity.UserID, attemptedAction(c))
				}
				abortWith(c, http.StatusForbidden, models.ErrorKindForbidden, "Akses ditolak. Hanya admin yang diizinkan")
				return
			}
		}

		c.Next()
	}
}
