package controllers

import (
	"errors"
	"log"
	"net/http"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	status  int
	kind    models.ErrorKind
	message string
}

func classify(err error) errorMapping {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return errorMapping{http.StatusBadRequest, models.ErrorKindValidation, ve.Message}
	case errors.Is(err, services.ErrProductNotFound):
		return errorMapping{http.StatusNotFound, models.ErrorKindNotFound, "Produk tidak ditemukan"}
	case errors.Is(err, services.ErrPromoNotFound):
		return errorMapping{http.StatusNotFound, models.ErrorKindNotFound, "Promo tidak ditemukan"}
	case errors.Is(err, services.ErrUserNotFound):
		return errorMapping{http.StatusNotFound, models.ErrorKindNotFound, "Pengguna tidak ditemukan"}
	case errors.Is(err, services.ErrPromoStatusUnchanged):
		return errorMapping{http.StatusConflict, models.ErrorKindConflict, "Status promo sudah sama"}
	case errors.Is(err, services.ErrPromoCodeTaken):
		return errorMapping{http.StatusConflict, models.ErrorKindConflict, "Kode promo sudah digunakan"}
	case errors.Is(err, services.ErrCategoryExists):
		return errorMapping{http.StatusConflict, models.ErrorKindConflict, "Kategori sudah ada"}
	case errors.Is(err, services.ErrSlugExhausted):
		return errorMapping{http.StatusConflict, models.ErrorKindConflict, "Tidak dapat membuat slug unik, gunakan nama lain"}
	case errors.Is(err, services.ErrInvalidCredentials):
		return errorMapping{http.StatusUnauthorized, models.ErrorKindUnauthorized, "Username atau kata sandi salah"}
	case errors.Is(err, services.ErrUserInactive):
		return errorMapping{http.StatusForbidden, models.ErrorKindForbidden, "Akun tidak aktif"}
	case errors.Is(err, services.ErrSelfModification):
		return errorMapping{http.StatusForbidden, models.ErrorKindForbidden, "Tidak dapat mengubah akun sendiri"}
	case errors.Is(err, services.ErrInvalidResetToken):
		return errorMapping{http.StatusBadRequest, models.ErrorKindValidation, "Tautan reset tidak valid atau sudah kedaluwarsa"}
	case errors.Is(err, services.ErrRateLimited):
		return errorMapping{http.StatusTooManyRequests, models.ErrorKindRateLimited, "Terlalu banyak permintaan, coba lagi nanti"}
	case errors.Is(err, services.ErrRecaptchaFailed):
		return errorMapping{http.StatusBadRequest, models.ErrorKindValidation, "Verifikasi reCAPTCHA gagal"}
	default:
		return errorMapping{http.StatusInternalServerError, models.ErrorKindInternal, "Terjadi kesalahan pada server"}
	}
}

// respondError writes the single error response for err. The technical
// detail is only attached outside production.
func respondError(c *gin.Context, err error, production bool) {
	m := classify(err)
	if m.status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	resp := models.ErrorResponse{
		Success:   false,
		ErrorKind: m.kind,
		Message:   m.message,
	}
	if !production {
		resp.Error = err.Error()
	}
	c.JSON(m.status, resp)
}

// respondListError keeps the data array present so list views can render
// an empty state.
func respondListError(c *gin.Context, err error, production bool, meta models.MetaData) {
	m := classify(err)
	log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

	resp := models.ListErrorResponse{
		Success:   false,
		ErrorKind: m.kind,
		Message:   m.message,
		Data:      []interface{}{},
		Meta:      meta,
	}
	if !production {
		resp.Error = err.Error()
	}
	c.JSON(m.status, resp)
}

func respondBindError(c *gin.Context, err error, production bool) {
	resp := models.ErrorResponse{
		Success:   false,
		ErrorKind: models.ErrorKindValidation,
		Message:   "Data yang dikirim tidak valid",
	}
	if !production {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

// adminID reads the acting admin from the session; AdminMiddleware has
// already run on every route that calls it.
func adminID(c *gin.Context) int64 {
	if identity := middleware.CurrentIdentity(c); identity != nil {
		return identity.UserID
	}
	return 0
}
