package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"storefront/models"
	"storefront/repositories"
	"storefront/utils"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(sessions *utils.SessionManager, handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(false), Session(sessions))
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, models.Response{Success: true, Message: "ok"})
	})
	router.Any("/target", handlers...)
	return router
}

func sessionCookie(t *testing.T, sessions *utils.SessionManager, identity models.Identity) (*http.Cookie, models.Identity) {
	t.Helper()
	token, issued, err := sessions.Issue(identity)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookieName, Value: token}, issued
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAdminMiddleware(t *testing.T) {
	sessions := utils.NewSessionManager("test-secret", time.Hour)
	router := newRouter(sessions, AdminMiddleware(false, nil))

	t.Run("no session", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/target", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, models.ErrorKindUnauthorized, decodeError(t, w).ErrorKind)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		cookie, _ := sessionCookie(t, sessions, models.Identity{UserID: 1, Role: models.RoleAdmin})
		cookie.Value += "x"
		req := httptest.NewRequest(http.MethodPost, "/target", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("customer", func(t *testing.T) {
		cookie, _ := sessionCookie(t, sessions, models.Identity{UserID: 2, Role: models.RoleCustomer})
		req := httptest.NewRequest(http.MethodPost, "/target", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, models.ErrorKindForbidden, decodeError(t, w).ErrorKind)
	})

	t.Run("guest session", func(t *testing.T) {
		token, _, err := sessions.IssueGuest()
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/target", nil)
		req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin", func(t *testing.T) {
		cookie, _ := sessionCookie(t, sessions, models.Identity{UserID: 1, Role: models.RoleAdmin})
		req := httptest.NewRequest(http.MethodPost, "/target", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

type stubAccounts map[int64]*models.User

func (s stubAccounts) FindByID(_ context.Context, id int64) (*models.User, error) {
	if id == 500 {
		return nil, errors.New("connection refused")
	}
	user, ok := s[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func TestAdminMiddleware_ReloadsAccount(t *testing.T) {
	sessions := utils.NewSessionManager("test-secret", time.Hour)
	accounts := stubAccounts{
		1: {ID: 1, Role: models.RoleAdmin, IsActive: true},
		2: {ID: 2, Role: models.RoleCustomer, IsActive: true},
		3: {ID: 3, Role: models.RoleAdmin, IsActive: false},
	}
	router := newRouter(sessions, AdminMiddleware(true, accounts))

	tests := []struct {
		name   string
		userID int64
		want   int
	}{
		{"still admin", 1, http.StatusOK},
		{"demoted after login", 2, http.StatusForbidden},
		{"deactivated after login", 3, http.StatusUnauthorized},
		{"deleted after login", 4, http.StatusUnauthorized},
		{"lookup failure", 500, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie, _ := sessionCookie(t, sessions, models.Identity{UserID: tt.userID, Role: models.RoleAdmin})
			req := httptest.NewRequest(http.MethodPost, "/target", nil)
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCSRFMiddleware(t *testing.T) {
	sessions := utils.NewSessionManager("test-secret", time.Hour)
	router := newRouter(sessions, CSRFMiddleware())
	cookie, identity := sessionCookie(t, sessions, models.Identity{UserID: 1, Role: models.RoleAdmin})

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/target", nil)
		req.AddCookie(cookie)
		req.Header.Set(CSRFHeader, identity.CSRFToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("form field", func(t *testing.T) {
		form := url.Values{CSRFFormField: {identity.CSRFToken}}
		req := httptest.NewRequest(http.MethodPost, "/target", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mismatch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/target", nil)
		req.AddCookie(cookie)
		req.Header.Set(CSRFHeader, "wrong")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, models.ErrorKindCSRF, decodeError(t, w).ErrorKind)
	})

	t.Run("no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/target", nil)
		req.Header.Set(CSRFHeader, identity.CSRFToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRecovery(t *testing.T) {
	sessions := utils.NewSessionManager("test-secret", time.Hour)
	router := newRouter(sessions, func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/target", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, models.ErrorKindInternal, resp.ErrorKind)
	assert.Equal(t, "boom", resp.Error)
}

func TestSessionCookieHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetSessionCookie(c, "tok", time.Hour, true)

	header := w.Header().Get("Set-Cookie")
	assert.Contains(t, header, "session=tok")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "SameSite=Lax")
}
