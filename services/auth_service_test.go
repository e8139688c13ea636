package services

import (
	"context"
	"errors"
	"storefront/models"
	"storefront/utils"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "username", "email", "password", "role", "is_active", "created_at", "updated_at"}

func userRow(t *testing.T, id int64, password string, active bool) *pgxmock.Rows {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)
	now := time.Now()
	return pgxmock.NewRows(userCols).AddRow(id, "budi", "budi@example.com", hashed, models.RoleAdmin, active, now, now)
}

func TestAuthService_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewAuthService(mock)
		mock.ExpectQuery(`FROM users WHERE LOWER\(username\) = LOWER\(\$1\)`).
			WithArgs("Budi").
			WillReturnRows(userRow(t, 3, "rahasia123", true))

		user, err := svc.Login(context.Background(), models.LoginRequest{Identifier: " Budi ", Password: "rahasia123"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewAuthService(mock)
		mock.ExpectQuery(`FROM users`).WithArgs("budi").WillReturnRows(userRow(t, 3, "rahasia123", true))

		_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "budi", Password: "salah12345"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user looks like wrong password", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewAuthService(mock)
		mock.ExpectQuery(`FROM users`).WithArgs("nobody").WillReturnRows(pgxmock.NewRows(userCols))

		_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "nobody", Password: "whatever1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewAuthService(mock)
		mock.ExpectQuery(`FROM users`).WithArgs("budi").WillReturnRows(userRow(t, 3, "rahasia123", false))

		_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "budi", Password: "rahasia123"})
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("consumes token", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewAuthService(mock)
		svc.now = func() time.Time { return fixed }

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM password_resets`).
			WithArgs(HashResetToken("tok-1"), fixed).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
				AddRow(int64(11), int64(3), HashResetToken("tok-1"), fixed.Add(time.Hour), fixed))
		mock.ExpectExec(`UPDATE users SET password = \$1`).
			WithArgs(pgxmock.AnyArg(), int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`UPDATE password_resets SET used_at = NOW\(\)`).
			WithArgs(int64(11)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "tok-1", Password: "passwordbaru"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown or used token", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewAuthService(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM password_resets`).
			WithArgs(HashResetToken("tok-2"), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}))
		mock.ExpectRollback()

		err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "tok-2", Password: "passwordbaru"})
		assert.ErrorIs(t, err, ErrInvalidResetToken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short password never touches the database", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewAuthService(mock)

		err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "tok-3", Password: "short"})
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHashResetToken(t *testing.T) {
	assert.Equal(t, HashResetToken("abc"), HashResetToken(" abc "))
	assert.Len(t, HashResetToken("abc"), 64)
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
}
