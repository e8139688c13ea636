package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"storefront/models"
	"storefront/repositories"
	"storefront/utils"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const passwordResetTTL = time.Hour

type Mailer interface {
	SendPasswordReset(toEmail, username, link string, expiresAt time.Time) error
}

type UserService struct {
	db         repositories.TxBeginner
	userRepo   *repositories.UserRepository
	logRepo    *repositories.AdminLogRepository
	mailer     Mailer
	baseURL    string
	production bool
	now        func() time.Time
}

// NewUserService accepts a nil mailer; reset links are then only returned
// to the admin outside production.
func NewUserService(db repositories.TxBeginner, mailer Mailer, baseURL string, production bool) *UserService {
	return &UserService{
		db:         db,
		userRepo:   repositories.NewUserRepository(db),
		logRepo:    repositories.NewAdminLogRepository(db),
		mailer:     mailer,
		baseURL:    baseURL,
		production: production,
		now:        time.Now,
	}
}

func (s *UserService) GetAllUsers(ctx context.Context, page, limit int) ([]models.User, models.MetaData, error) {
	page, limit, offset := utils.NormalizePage(page, limit)

	users, totalItems, err := s.userRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return []models.User{}, models.MetaData{Page: page, Limit: limit, Offset: offset}, infra("list users", err)
	}

	return users, pageMeta(page, limit, offset, totalItems), nil
}

func (s *UserService) UpdateRole(ctx context.Context, adminID, userID int64, role string) error {
	if adminID == userID {
		return ErrSelfModification
	}
	if !models.ValidUserRole(role) {
		return invalid("Peran pengguna tidak valid")
	}

	return s.mutate(ctx, "update user role", func(tx pgx.Tx) error {
		if err := s.userRepo.WithTx(tx).UpdateRole(ctx, userID, role); err != nil {
			return err
		}
		return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionUserRoleUpdate,
			"users", userID, "role: "+role)
	})
}

func (s *UserService) SetActive(ctx context.Context, adminID, userID int64, active bool) error {
	if adminID == userID {
		return ErrSelfModification
	}

	return s.mutate(ctx, "update user active flag", func(tx pgx.Tx) error {
		if err := s.userRepo.WithTx(tx).UpdateActive(ctx, userID, active); err != nil {
			return err
		}
		return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionUserActiveUpdate,
			"users", userID, fmt.Sprintf("is_active: %t", active))
	})
}

func (s *UserService) DeleteUser(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return ErrSelfModification
	}

	return s.mutate(ctx, "delete user", func(tx pgx.Tx) error {
		if err := s.userRepo.WithTx(tx).Delete(ctx, userID); err != nil {
			return err
		}
		return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionUserDelete,
			"users", userID, "")
	})
}

func (s *UserService) mutate(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	err := repositories.RunInTx(ctx, s.db, fn)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return infra(op, err)
	}
	return nil
}

// IssuePasswordReset stores a hashed one-time token and emails the link.
func (s *UserService) IssuePasswordReset(ctx context.Context, adminID, userID int64) (*models.PasswordResetIssued, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, infra("find user", err)
	}

	token := uuid.NewString()
	reset := &models.PasswordReset{
		UserID:    user.ID,
		TokenHash: HashResetToken(token),
		ExpiresAt: s.now().Add(passwordResetTTL),
	}

	err = s.mutate(ctx, "issue password reset", func(tx pgx.Tx) error {
		if err := s.userRepo.WithTx(tx).CreatePasswordReset(ctx, reset); err != nil {
			return err
		}
		return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionUserPasswordReset,
			"users", user.ID, "")
	})
	if err != nil {
		return nil, err
	}

	link := s.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	issued := &models.PasswordResetIssued{UserID: user.ID, ExpiresAt: reset.ExpiresAt}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(user.Email, user.Username, link, reset.ExpiresAt); err != nil {
			log.Printf("[User] reset email to user %d failed: %v", user.ID, err)
		} else {
			issued.EmailSent = true
		}
	}
	if !s.production {
		issued.ResetLink = link
	}
	return issued, nil
}
