package services

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrPromoNotFound        = errors.New("promo not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrPromoStatusUnchanged = errors.New("promo already has this status")
	ErrPromoCodeTaken       = errors.New("promo code already used")
	ErrCategoryExists       = errors.New("category already exists")
	ErrSlugExhausted        = errors.New("no free slug left for this title")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserInactive         = errors.New("user is inactive")
	ErrSelfModification     = errors.New("admins cannot change their own account here")
	ErrInvalidResetToken    = errors.New("reset token invalid or expired")
	ErrRateLimited          = errors.New("too many requests")
	ErrRecaptchaFailed      = errors.New("recaptcha verification failed")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrInvalidCategory is returned for a missing or malformed category id.
var ErrInvalidCategory = &ValidationError{Message: "ID kategori tidak valid"}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InfrastructureError wraps a storage or network failure. Its detail is
// never shown to users in production.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func infra(op string, err error) error {
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}
