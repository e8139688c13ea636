package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"storefront/models"
	"storefront/repositories"
	"storefront/utils"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type AuthService struct {
	db       repositories.TxBeginner
	userRepo *repositories.UserRepository
	now      func() time.Time
}

func NewAuthService(db repositories.TxBeginner) *AuthService {
	return &AuthService{
		db:       db,
		userRepo: repositories.NewUserRepository(db),
		now:      time.Now,
	}
}

// Login checks credentials. Unknown users and wrong passwords give the same
// error.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, infra("find user", err)
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil {
		log.Printf("[Auth] password verify for user %d failed: %v", user.ID, err)
		return nil, ErrInvalidCredentials
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	hashed, err := utils.HashPassword(req.Password)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		return invalid("Kata sandi minimal %d karakter", utils.MinPasswordLength)
	}
	if err != nil {
		return infra("hash password", err)
	}

	err = repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		users := s.userRepo.WithTx(tx)

		reset, err := users.FindUsableReset(ctx, HashResetToken(req.Token), s.now())
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}

		if err := users.UpdatePassword(ctx, reset.UserID, hashed); err != nil {
			return err
		}
		return users.MarkResetUsed(ctx, reset.ID)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidResetToken), errors.Is(err, repositories.ErrNotFound):
		return ErrInvalidResetToken
	default:
		return infra("reset password", err)
	}
}

// HashResetToken is how reset tokens are stored: only the digest is kept.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}
